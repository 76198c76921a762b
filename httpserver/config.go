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
	tlscfg "github.com/nabbar/netkit/certificates"
	"github.com/nabbar/netkit/eventloop"
	"github.com/nabbar/netkit/transport"
)

// Config describes one HTTP server instance. Name/Expose/Disable are pure
// metadata surfaced through Info; Endpoint/Backlog/TLS/ServerName and the
// event-loop/worker-pool knobs configure the underlying server.Server.
type Config struct {
	Name    string
	Expose  string
	Disable bool

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

// Validate checks the fields required to bind a listening socket. Name may
// be empty (it is metadata only) and so may Endpoint.Host (all interfaces);
// Endpoint.Port and a positive WorkerPoolSize are required.
func (c Config) Validate() error {
	if c.Endpoint.Port == "" {
		return ErrorInvalidConfig.Error(nil)
	}
	if c.WorkerPoolSize <= 0 {
		return ErrorInvalidConfig.Error(nil)
	}
	return nil
}
