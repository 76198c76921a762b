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
	"bytes"
	"context"
	"strings"
	"sync"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/httpcodec"
	"github.com/nabbar/netkit/remote"
	"github.com/nabbar/netkit/server"
)

const readChunkSize = 1024

type proxy struct {
	cfg  Config
	pool *upstreamPool

	mu     sync.Mutex
	rt     server.Server
	codecs map[int]*httpcodec.Codec
}

func (o *proxy) GetBindable() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.rt == nil {
		return ""
	}
	return o.rt.Addr()
}

func (o *proxy) Listen() liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.codecs = make(map[int]*httpcodec.Codec)

	rt := server.New(server.Config{
		Endpoint:       o.cfg.Endpoint,
		Backlog:        o.cfg.Backlog,
		EventLoopKind:  o.cfg.EventLoopKind,
		WorkerPoolSize: o.cfg.WorkerPoolSize,
		TLS:            o.cfg.TLS,
		ServerName:     o.cfg.ServerName,
	}, server.Hooks{
		OnRead:  o.onRead,
		OnError: o.onError,
	})

	if lerr := rt.Listen(); lerr != nil {
		return ErrorInvalidConfig.Error(lerr)
	}
	if lerr := rt.Start(); lerr != nil {
		return ErrorInvalidConfig.Error(lerr)
	}

	o.rt = rt
	return nil
}

func (o *proxy) Shutdown() liberr.Error {
	o.mu.Lock()
	rt := o.rt
	o.mu.Unlock()

	o.pool.closeAll()

	if rt == nil {
		return nil
	}
	return rt.Close()
}

func (o *proxy) Restart() liberr.Error {
	if lerr := o.Shutdown(); lerr != nil {
		return lerr
	}
	return o.Listen()
}

func (o *proxy) WaitNotify(ctx context.Context) liberr.Error {
	<-ctx.Done()
	return o.Shutdown()
}

// onRead implements the forward algorithm for every request completed on
// a downstream connection: resolve the upstream from the Host header,
// optionally rewrite the request, forward it, and relay the response
// back. A failure at any step is reported through cfg.OnError if set, or
// the exchange is dropped otherwise.
func (o *proxy) onRead(t *remote.Target) {
	codec := o.codecFor(t.FD())

	buf := make([]byte, readChunkSize)
	n, rerr := t.Transport().Read(buf)
	if rerr != nil {
		return
	}

	codec.PushRequest(buf[:n])

	for {
		req, ok := codec.ReadRequest()
		if !ok {
			break
		}

		res, ferr := o.forward(req)
		if ferr != nil {
			if o.cfg.OnError == nil {
				o.dropCodec(t.FD())
				return
			}
			res = o.cfg.OnError(req, ferr)
		}

		var out bytes.Buffer
		if werr := codec.WriteResponse(&out, res); werr != nil {
			o.dropCodec(t.FD())
			return
		}

		if _, werr := t.Transport().Write(out.Bytes()); werr != nil {
			o.dropCodec(t.FD())
			return
		}
	}
}

func (o *proxy) onError(t *remote.Target, _ error) {
	o.dropCodec(t.FD())
}

// forward resolves the upstream from req's Host header, rewrites the
// request path to what follows the third slash of the proxy URL,
// optionally invokes the rewrite callback, and forwards the exchange.
func (o *proxy) forward(req httpcodec.Request) (httpcodec.Response, error) {
	host := lookupHost(req.Header)
	if host == "" {
		return httpcodec.Response{}, ErrorMissingHost.Error(nil)
	}

	req.URL = forwardedPath(req.URL)

	if o.cfg.Rewrite != nil {
		o.cfg.Rewrite(&req)
	}

	cli, gerr := o.pool.get(host)
	if gerr != nil {
		return httpcodec.Response{}, gerr
	}

	res, derr := cli.Do(req)
	if derr != nil {
		o.pool.drop(host)
		return httpcodec.Response{}, ErrorUpstreamRead.Error(derr)
	}

	return res, nil
}

func (o *proxy) codecFor(fd int) *httpcodec.Codec {
	o.mu.Lock()
	defer o.mu.Unlock()

	c, ok := o.codecs[fd]
	if !ok {
		c = httpcodec.NewCodec()
		o.codecs[fd] = c
	}
	return c
}

func (o *proxy) dropCodec(fd int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.codecs, fd)
}

func lookupHost(header map[string]string) string {
	for k, v := range header {
		if strings.EqualFold(k, "host") {
			return v
		}
	}
	return ""
}

// forwardedPath returns everything from the third slash of url onward,
// so an absolute-form proxy URL like "http://example.com/a/b" becomes
// "/a/b". A url with fewer than three slashes is returned unchanged.
func forwardedPath(url string) string {
	count := 0
	for i := 0; i < len(url); i++ {
		if url[i] == '/' {
			count++
			if count == 3 {
				return url[i:]
			}
		}
	}
	return url
}
