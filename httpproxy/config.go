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

package httpproxy

import (
	tlscfg "github.com/nabbar/netkit/certificates"
	"github.com/nabbar/netkit/eventloop"
	"github.com/nabbar/netkit/httpcodec"
	"github.com/nabbar/netkit/transport"
)

// RewriteFunc lets a caller mutate a request after host resolution and
// before it is forwarded to the upstream client. It is the hook for
// custom routed requests: header injection, path rewriting, and the like.
type RewriteFunc func(req *httpcodec.Request)

// ErrorFunc is invoked when a step of the forward algorithm fails. If
// left nil, the exchange is abandoned silently: the downstream peer sees
// a dropped connection rather than a synthesized error response. If set,
// it returns the response to send back to the downstream peer instead.
type ErrorFunc func(req httpcodec.Request, err error) httpcodec.Response

// Config configures one forward proxy listener.
type Config struct {
	Endpoint       transport.Endpoint
	Backlog        int
	EventLoopKind  eventloop.Kind
	WorkerPoolSize int
	TLS            tlscfg.TLSConfig
	ServerName     string

	Rewrite RewriteFunc
	OnError ErrorFunc
}

func (c Config) tlsEnabled() bool {
	return c.TLS != nil
}

func (c Config) Validate() error {
	if c.Endpoint.Port == "" {
		return ErrorInvalidConfig.Error(nil)
	}
	if c.WorkerPoolSize <= 0 {
		return ErrorInvalidConfig.Error(nil)
	}
	return nil
}
