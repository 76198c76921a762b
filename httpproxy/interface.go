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
	"context"

	liberr "github.com/nabbar/netkit/errors"
)

// Proxy is a forward HTTP proxy listener. Unlike httpserver.Server, its
// handler consults no user route table: every accepted request is
// forwarded to the upstream named by its Host header.
type Proxy interface {
	// GetBindable returns the local bind address (host:port) the proxy
	// listens on, valid once Listen has succeeded.
	GetBindable() string

	Listen() liberr.Error
	Shutdown() liberr.Error
	Restart() liberr.Error
	WaitNotify(ctx context.Context) liberr.Error
}

func New(cfg Config) (Proxy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &proxy{
		cfg:  cfg,
		pool: newUpstreamPool(),
	}, nil
}
