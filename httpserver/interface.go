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

package httpserver

import (
	"context"

	liberr "github.com/nabbar/netkit/errors"
)

// Info provides read-only access to server identification and
// configuration metadata, without allowing modification.
type Info interface {
	// GetName returns the unique identifier name of the server instance.
	GetName() string

	// GetBindable returns the local bind address (host:port) the server
	// listens on.
	GetBindable() string

	// GetExpose returns the public-facing URL used to access this server
	// externally.
	GetExpose() string

	// IsDisable returns true if the server is configured as disabled and
	// should not start.
	IsDisable() bool

	// IsTLS returns true if the server is configured to use TLS.
	IsTLS() bool
}

// Server is the complete interface for one HTTP server instance: route
// registration per method, error-handler registration, and lifecycle.
type Server interface {
	Info

	Get(path string, h HandlerFunc)
	Post(path string, h HandlerFunc)
	Put(path string, h HandlerFunc)
	Delete(path string, h HandlerFunc)
	Head(path string, h HandlerFunc)
	Options(path string, h HandlerFunc)
	Patch(path string, h HandlerFunc)
	Trace(path string, h HandlerFunc)
	Connect(path string, h HandlerFunc)

	// AddErrorHandler registers the handler invoked for a given status
	// code (405/404/custom), in place of the synthesized default.
	AddErrorHandler(code int, h ErrorHandlerFunc)

	// Listen binds and starts the accept loop.
	Listen() liberr.Error

	// Shutdown stops the accept loop and closes every pooled connection.
	// Legal and idempotent once Listen has succeeded.
	Shutdown() liberr.Error

	// Restart is Shutdown followed by Listen.
	Restart() liberr.Error

	// WaitNotify blocks until ctx is done, then shuts the server down.
	// Signal handling, if wanted, belongs to the embedding application —
	// this is a library, not a standalone daemon.
	WaitNotify(ctx context.Context) liberr.Error

	// Merge copies route table, error handlers and configuration from
	// another Server of the same concrete type into this one. The
	// receiver must not be listening.
	Merge(other Server) error
}

// New builds a Server from cfg. The server is not yet listening; call
// Listen to bind and start the accept loop.
func New(cfg Config) (Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &srv{
		cfg:    cfg,
		routes: newRouteTable(),
	}, nil
}
