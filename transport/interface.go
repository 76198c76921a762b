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
	"fmt"
	"net"

	liberr "github.com/nabbar/netkit/errors"
)

// Kind identifies the socket family a Transport owns.
type Kind uint8

const (
	KindTCP Kind = iota + 1
	KindUDP
	KindTLS
)

func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindUDP:
		return "udp"
	case KindTLS:
		return "tls"
	default:
		return "unknown"
	}
}

// Status is the transport handle's lifecycle state.
type Status uint8

const (
	StatusDisconnected Status = iota
	StatusListening
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusListening:
		return "listening"
	case StatusConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Endpoint is a host name or IP plus a service name or port, resolved lazily
// by the Dial/Listen constructors.
type Endpoint struct {
	Host string
	Port string
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, e.Port)
}

func NewEndpoint(host string, port string) Endpoint {
	return Endpoint{Host: host, Port: port}
}

func NewEndpointFromAddr(addr net.Addr) Endpoint {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return Endpoint{Host: addr.String()}
	}
	return Endpoint{Host: host, Port: port}
}

// Transport owns one OS socket descriptor. Over TCP and TLS a zero-byte Read
// is reported as ErrorPeerClosed, a Write that sent zero bytes of a non-empty
// buffer is reported as ErrorPeerClosed, and any other Write failure as
// ErrorWrite. The UDP transport reports read and write failures as ErrorRead
// and ErrorWrite. Close is idempotent.
type Transport interface {
	fmt.Stringer

	Kind() Kind
	Status() Status

	// FD returns the OS descriptor backing this transport, for registration
	// with an eventloop.Loop. Returns ErrorInvalidState if Disconnected.
	FD() (int, liberr.Error)

	LocalAddr() net.Addr
	RemoteAddr() net.Addr

	Read(buf []byte) (int, liberr.Error)
	Write(buf []byte) (int, liberr.Error)

	Close() liberr.Error
}

// Listener accepts inbound connections for a stream-oriented Kind (TCP, TLS).
type Listener interface {
	fmt.Stringer

	Kind() Kind
	Status() Status

	FD() (int, liberr.Error)
	Addr() net.Addr

	Accept() (Transport, liberr.Error)
	Close() liberr.Error
}

// PacketTransport is the connectionless contract UDP exposes in addition to
// Transport: read/write carry an explicit peer address.
type PacketTransport interface {
	Transport

	ReadFrom(buf []byte) (int, net.Addr, liberr.Error)
	WriteTo(buf []byte, peer net.Addr) (int, liberr.Error)
}
