/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package transport

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	liberr "github.com/nabbar/netkit/errors"
)

// tcpTransport wraps a *net.TCPConn with the buffer-shrink read/write
// contract and idempotent close described for the TCP client/server.
type tcpTransport struct {
	conn   net.Conn
	status atomic.Int32
	mu     sync.Mutex
}

func newTCPTransport(conn net.Conn, status Status) *tcpTransport {
	t := &tcpTransport{conn: conn}
	t.status.Store(int32(status))
	return t
}

// DialTCP resolves endpoint, opens a TCP stream socket and connects,
// marking the transport Connected on success.
func DialTCP(ctx context.Context, endpoint Endpoint) (Transport, liberr.Error) {
	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", endpoint.String())
	if err != nil {
		return nil, ErrorSocketConnect.Error(err)
	}

	return newTCPTransport(conn, StatusConnected), nil
}

// tcpListener owns the listening socket for TCP server mode.
type tcpListener struct {
	ln     net.Listener
	status atomic.Int32
}

// ListenTCP resolves, creates a stream socket and binds+listens on endpoint
// with the given backlog. Go's net package always applies SO_REUSEADDR
// semantics and picks a reasonable backlog itself; backlog is accepted for
// contract parity and is not used.
func ListenTCP(endpoint Endpoint, backlog int) (Listener, liberr.Error) {
	ln, err := net.Listen("tcp", endpoint.String())
	if err != nil {
		return nil, ErrorSocketListen.Error(err)
	}

	l := &tcpListener{ln: ln}
	l.status.Store(int32(StatusListening))
	return l, nil
}

func (l *tcpListener) String() string {
	return l.ln.Addr().String()
}

func (l *tcpListener) Kind() Kind {
	return KindTCP
}

func (l *tcpListener) Status() Status {
	return Status(l.status.Load())
}

func (l *tcpListener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *tcpListener) FD() (int, liberr.Error) {
	ln, ok := l.ln.(*net.TCPListener)
	if !ok {
		return -1, ErrorInvalidState.Error(nil)
	}

	fd, err := fdFromSyscallConn(ln)
	if err != nil {
		return -1, ErrorSocketCreate.Error(err)
	}

	return fd, nil
}

func (l *tcpListener) Accept() (Transport, liberr.Error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, ErrorSocketAccept.Error(err)
	}

	return newTCPTransport(conn, StatusConnected), nil
}

func (l *tcpListener) Close() liberr.Error {
	if Status(l.status.Swap(int32(StatusDisconnected))) == StatusDisconnected {
		return nil
	}

	return ErrorClose.IfError(l.ln.Close())
}

func (t *tcpTransport) String() string {
	return t.conn.RemoteAddr().String()
}

func (t *tcpTransport) Kind() Kind {
	return KindTCP
}

func (t *tcpTransport) Status() Status {
	return Status(t.status.Load())
}

func (t *tcpTransport) FD() (int, liberr.Error) {
	if t.Status() == StatusDisconnected {
		return -1, ErrorInvalidState.Error(nil)
	}

	sc, ok := t.conn.(syscall.Conn)
	if !ok {
		return -1, ErrorInvalidState.Error(nil)
	}

	fd, err := fdFromSyscallConn(sc)
	if err != nil {
		return -1, ErrorSocketCreate.Error(err)
	}

	return fd, nil
}

func (t *tcpTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

func (t *tcpTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

func (t *tcpTransport) Read(buf []byte) (int, liberr.Error) {
	if t.Status() != StatusConnected {
		return 0, ErrorInvalidState.Error(nil)
	}

	n, err := t.conn.Read(buf)
	if n == 0 && err != nil {
		return 0, ErrorPeerClosed.Error(err)
	}
	if err != nil {
		return n, ErrorRead.Error(err)
	}

	return n, nil
}

func (t *tcpTransport) Write(buf []byte) (int, liberr.Error) {
	if t.Status() != StatusConnected {
		return 0, ErrorInvalidState.Error(nil)
	}

	n, err := t.conn.Write(buf)
	if n == 0 && len(buf) > 0 {
		return 0, ErrorPeerClosed.Error(err)
	}
	if err != nil {
		return n, ErrorWrite.Error(err)
	}

	return n, nil
}

func (t *tcpTransport) Close() liberr.Error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if Status(t.status.Swap(int32(StatusDisconnected))) == StatusDisconnected {
		return nil
	}

	return ErrorClose.IfError(t.conn.Close())
}

// SetDeadline bounds the next blocking Read/Write by d (d <= 0 leaves the
// deadline unchanged). It is not part of the Transport interface.
func (t *tcpTransport) SetDeadline(d time.Duration) {
	if d <= 0 {
		return
	}
	_ = t.conn.SetDeadline(time.Now().Add(d))
}
