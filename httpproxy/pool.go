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
	"strconv"
	"strings"
	"sync"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/httpclient"
	"github.com/nabbar/netkit/transport"
)

// upstreamPool keeps one connected httpclient.Client per host:port seen
// on a Host header, so repeated requests to the same upstream reuse the
// same connection instead of dialing fresh on every exchange.
type upstreamPool struct {
	mu  sync.Mutex
	cli map[string]httpclient.Client
}

func newUpstreamPool() *upstreamPool {
	return &upstreamPool{cli: make(map[string]httpclient.Client)}
}

// get returns the pooled client for hostport, dialing and inserting one
// if absent.
func (p *upstreamPool) get(hostport string) (httpclient.Client, liberr.Error) {
	p.mu.Lock()
	if c, ok := p.cli[hostport]; ok {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	ep := parseHostPort(hostport)

	c := httpclient.New(httpclient.Config{Endpoint: ep})
	if derr := c.Dial(); derr != nil {
		return nil, ErrorUpstreamConnect.Error(derr)
	}

	p.mu.Lock()
	p.cli[hostport] = c
	p.mu.Unlock()

	return c, nil
}

// drop removes and closes the pooled client for hostport, so the next
// get dials a fresh connection.
func (p *upstreamPool) drop(hostport string) {
	p.mu.Lock()
	c, ok := p.cli[hostport]
	delete(p.cli, hostport)
	p.mu.Unlock()

	if ok {
		_ = c.Close()
	}
}

func (p *upstreamPool) closeAll() {
	p.mu.Lock()
	all := p.cli
	p.cli = make(map[string]httpclient.Client)
	p.mu.Unlock()

	for _, c := range all {
		_ = c.Close()
	}
}

func parseHostPort(hostport string) transport.Endpoint {
	host := hostport
	port := "80"

	if i := strings.LastIndex(hostport, ":"); i >= 0 {
		host = hostport[:i]
		port = hostport[i+1:]
		if _, perr := strconv.Atoi(port); perr != nil {
			port = "80"
			host = hostport
		}
	}

	return transport.NewEndpoint(host, port)
}
