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
	"crypto/tls"
	"net"
	"sync"
	"sync/atomic"
	"syscall"

	tlscfg "github.com/nabbar/netkit/certificates"
	liberr "github.com/nabbar/netkit/errors"
)

// tlsTransport wraps a *tls.Conn laid over an already-connected or
// already-accepted TCP socket. The first Read or Write triggers the
// handshake (crypto/tls defers it lazily the same way); handshaked latches
// true once it completes so callers can observe the transition described
// for the TLS server variant.
type tlsTransport struct {
	conn       *tls.Conn
	status     atomic.Int32
	handshaked atomic.Bool
	mu         sync.Mutex
}

// DialTLS connects a TCP socket to endpoint and wraps it as a TLS client
// using cfg's client configuration for serverName.
func DialTLS(ctx context.Context, endpoint Endpoint, cfg tlscfg.TLSConfig, serverName string) (Transport, liberr.Error) {
	var d net.Dialer

	raw, err := d.DialContext(ctx, "tcp", endpoint.String())
	if err != nil {
		return nil, ErrorSocketConnect.Error(err)
	}

	conn := tls.Client(raw, cfg.TLS(serverName))
	t := &tlsTransport{conn: conn}
	t.status.Store(int32(StatusConnected))
	return t, nil
}

// tlsListener wraps a tcpListener, wrapping each accepted connection in a
// server-side *tls.Conn using cfg.
type tlsListener struct {
	ln     Listener
	cfg    tlscfg.TLSConfig
	name   string
	status atomic.Int32
}

// ListenTLS listens on endpoint as plain TCP, then wraps every accepted
// connection in a TLS server session built from cfg.
func ListenTLS(endpoint Endpoint, backlog int, cfg tlscfg.TLSConfig, serverName string) (Listener, liberr.Error) {
	ln, lerr := ListenTCP(endpoint, backlog)
	if lerr != nil {
		return nil, lerr
	}

	l := &tlsListener{ln: ln, cfg: cfg, name: serverName}
	l.status.Store(int32(StatusListening))
	return l, nil
}

func (l *tlsListener) String() string {
	return l.ln.String()
}

func (l *tlsListener) Kind() Kind {
	return KindTLS
}

func (l *tlsListener) Status() Status {
	return Status(l.status.Load())
}

func (l *tlsListener) FD() (int, liberr.Error) {
	return l.ln.FD()
}

func (l *tlsListener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *tlsListener) Accept() (Transport, liberr.Error) {
	raw, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}

	plain, ok := raw.(*tcpTransport)
	if !ok {
		return nil, ErrorSocketAccept.Error(nil)
	}

	conn := tls.Server(plain.conn, l.cfg.TLS(l.name))
	t := &tlsTransport{conn: conn}
	t.status.Store(int32(StatusConnected))
	return t, nil
}

func (l *tlsListener) Close() liberr.Error {
	if Status(l.status.Swap(int32(StatusDisconnected))) == StatusDisconnected {
		return nil
	}
	return l.ln.Close()
}

func (t *tlsTransport) String() string {
	return t.conn.RemoteAddr().String()
}

func (t *tlsTransport) Kind() Kind {
	return KindTLS
}

func (t *tlsTransport) Status() Status {
	return Status(t.status.Load())
}

// Handshaked reports whether the TLS handshake has completed.
func (t *tlsTransport) Handshaked() bool {
	return t.handshaked.Load()
}

func (t *tlsTransport) FD() (int, liberr.Error) {
	if t.Status() == StatusDisconnected {
		return -1, ErrorInvalidState.Error(nil)
	}

	sc, ok := t.conn.NetConn().(syscall.Conn)
	if !ok {
		return -1, ErrorInvalidState.Error(nil)
	}

	fd, err := fdFromSyscallConn(sc)
	if err != nil {
		return -1, ErrorSocketCreate.Error(err)
	}

	return fd, nil
}

func (t *tlsTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

func (t *tlsTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

// Read performs (or continues) the handshake on the first call, the same
// synchronous-as-the-socket-permits contract the TLS server variant
// describes, then behaves like tcpTransport.Read.
func (t *tlsTransport) Read(buf []byte) (int, liberr.Error) {
	if t.Status() != StatusConnected {
		return 0, ErrorInvalidState.Error(nil)
	}

	if !t.handshaked.Load() {
		if err := t.conn.Handshake(); err != nil {
			return 0, ErrorTLSHandshake.Error(err)
		}
		t.handshaked.Store(true)
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

func (t *tlsTransport) Write(buf []byte) (int, liberr.Error) {
	if t.Status() != StatusConnected {
		return 0, ErrorInvalidState.Error(nil)
	}

	if !t.handshaked.Load() {
		if err := t.conn.Handshake(); err != nil {
			return 0, ErrorTLSHandshake.Error(err)
		}
		t.handshaked.Store(true)
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

// Close issues a TLS close_notify shutdown before closing the underlying
// descriptor, mirroring the SSL-shutdown-then-close ordering of the server
// variant's close_remote.
func (t *tlsTransport) Close() liberr.Error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if Status(t.status.Swap(int32(StatusDisconnected))) == StatusDisconnected {
		return nil
	}

	return ErrorClose.IfError(t.conn.Close())
}
