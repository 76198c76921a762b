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
	"net"
	"sync/atomic"

	liberr "github.com/nabbar/netkit/errors"
)

// udpTransport is connectionless: ReadFrom/WriteTo carry an explicit peer
// address. Its status is StatusConnected when built by DialUDP (a default
// peer is associated) and StatusListening when built by ListenUDP (bound).
type udpTransport struct {
	conn   *net.UDPConn
	status atomic.Int32
}

// DialUDP creates a UDP socket implicitly associated with endpoint as its
// default peer; Read/Write operate against that peer, ReadFrom/WriteTo still
// accept/override an explicit address.
func DialUDP(endpoint Endpoint) (PacketTransport, liberr.Error) {
	addr, err := net.ResolveUDPAddr("udp", endpoint.String())
	if err != nil {
		return nil, ErrorResolveEndpoint.Error(err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, ErrorSocketConnect.Error(err)
	}

	u := &udpTransport{conn: conn}
	u.status.Store(int32(StatusConnected))
	return u, nil
}

// ListenUDP binds a UDP socket on endpoint. ReadFrom reports the source
// address of each datagram; no server in this module is built on it, so no
// RemoteTarget is created per UDP source address.
func ListenUDP(endpoint Endpoint) (PacketTransport, liberr.Error) {
	addr, err := net.ResolveUDPAddr("udp", endpoint.String())
	if err != nil {
		return nil, ErrorResolveEndpoint.Error(err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, ErrorSocketBind.Error(err)
	}

	u := &udpTransport{conn: conn}
	u.status.Store(int32(StatusListening))
	return u, nil
}

func (u *udpTransport) String() string {
	return u.conn.LocalAddr().String()
}

func (u *udpTransport) Kind() Kind {
	return KindUDP
}

func (u *udpTransport) Status() Status {
	return Status(u.status.Load())
}

func (u *udpTransport) FD() (int, liberr.Error) {
	if u.Status() == StatusDisconnected {
		return -1, ErrorInvalidState.Error(nil)
	}

	fd, err := fdFromSyscallConn(u.conn)
	if err != nil {
		return -1, ErrorSocketCreate.Error(err)
	}

	return fd, nil
}

func (u *udpTransport) LocalAddr() net.Addr {
	return u.conn.LocalAddr()
}

func (u *udpTransport) RemoteAddr() net.Addr {
	return u.conn.RemoteAddr()
}

func (u *udpTransport) Read(buf []byte) (int, liberr.Error) {
	n, _, e := u.ReadFrom(buf)
	return n, e
}

func (u *udpTransport) Write(buf []byte) (int, liberr.Error) {
	n, err := u.conn.Write(buf)
	if err != nil {
		return n, ErrorWrite.Error(err)
	}
	return n, nil
}

func (u *udpTransport) ReadFrom(buf []byte) (int, net.Addr, liberr.Error) {
	if u.Status() == StatusDisconnected {
		return 0, nil, ErrorInvalidState.Error(nil)
	}

	n, addr, err := u.conn.ReadFromUDP(buf)
	if err != nil {
		return n, addr, ErrorRead.Error(err)
	}

	return n, addr, nil
}

func (u *udpTransport) WriteTo(buf []byte, peer net.Addr) (int, liberr.Error) {
	if u.Status() == StatusDisconnected {
		return 0, ErrorInvalidState.Error(nil)
	}

	udpAddr, ok := peer.(*net.UDPAddr)
	if !ok {
		resolved, err := net.ResolveUDPAddr("udp", peer.String())
		if err != nil {
			return 0, ErrorResolveEndpoint.Error(err)
		}
		udpAddr = resolved
	}

	n, err := u.conn.WriteToUDP(buf, udpAddr)
	if err != nil {
		return n, ErrorWrite.Error(err)
	}

	return n, nil
}

func (u *udpTransport) Close() liberr.Error {
	if Status(u.status.Swap(int32(StatusDisconnected))) == StatusDisconnected {
		return nil
	}

	return ErrorClose.IfError(u.conn.Close())
}
