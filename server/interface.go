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

package server

import (
	tlscfg "github.com/nabbar/netkit/certificates"
	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/eventloop"
	"github.com/nabbar/netkit/remote"
	"github.com/nabbar/netkit/transport"
)

// Hooks are the four user callbacks the runtime invokes: OnAccept fires
// once a peer is accepted and inserted into the pool; OnStart fires once
// per newly accepted target whether or not an event loop is installed;
// OnRead fires on every readiness notification (event-loop mode) or once
// per successful chunk read (fallback mode); OnError fires on any
// transport-level error for a target.
type Hooks struct {
	OnAccept func(t *remote.Target)
	OnStart  func(t *remote.Target)
	OnRead   func(t *remote.Target)
	OnError  func(t *remote.Target, err error)
}

// Config configures one server instance. EventLoopKind of zero value
// disables the event loop and selects the one-thread-per-connection
// fallback. WorkerPoolSize is the fixed worker count passed to
// enable_thread_pool(n) in the spec's terms.
type Config struct {
	Endpoint       transport.Endpoint
	Backlog        int
	EventLoopKind  eventloop.Kind
	WorkerPoolSize int
	TLS            tlscfg.TLSConfig
	ServerName     string
}

func (c Config) tlsEnabled() bool {
	return c.TLS != nil
}

// Server is the connection-oriented runtime's public contract: the
// DISCONNECTED -> LISTENING -> CONNECTED state machine described for the
// server runtime.
type Server interface {
	Status() transport.Status

	// Listen binds the listening socket. DISCONNECTED -> LISTENING.
	Listen() liberr.Error

	// Start spawns the accept loop. LISTENING -> CONNECTED.
	Start() liberr.Error

	// Close is legal and idempotent from any non-Disconnected state:
	// signal-stop, join the accept thread, close every pooled remote,
	// stop the worker pool, close the listen fd, transition to
	// Disconnected.
	Close() liberr.Error

	Pool() *remote.Pool
	Addr() string
}
