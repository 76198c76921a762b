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
	"bytes"
	"context"
	"errors"
	"sync"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/httpcodec"
	"github.com/nabbar/netkit/remote"
	"github.com/nabbar/netkit/server"
)

const readChunkSize = 1024

type srv struct {
	cfg    Config
	routes *routeTable

	mu     sync.Mutex
	rt     server.Server
	codecs map[int]*httpcodec.Codec
}

func (o *srv) Get(path string, h HandlerFunc)     { o.routes.register(httpcodec.GET, path, h) }
func (o *srv) Post(path string, h HandlerFunc)    { o.routes.register(httpcodec.POST, path, h) }
func (o *srv) Put(path string, h HandlerFunc)     { o.routes.register(httpcodec.PUT, path, h) }
func (o *srv) Delete(path string, h HandlerFunc)  { o.routes.register(httpcodec.DELETE, path, h) }
func (o *srv) Head(path string, h HandlerFunc)    { o.routes.register(httpcodec.HEAD, path, h) }
func (o *srv) Options(path string, h HandlerFunc) { o.routes.register(httpcodec.OPTIONS, path, h) }
func (o *srv) Patch(path string, h HandlerFunc)   { o.routes.register(httpcodec.PATCH, path, h) }
func (o *srv) Trace(path string, h HandlerFunc)   { o.routes.register(httpcodec.TRACE, path, h) }
func (o *srv) Connect(path string, h HandlerFunc) { o.routes.register(httpcodec.CONNECT, path, h) }

func (o *srv) AddErrorHandler(code int, h ErrorHandlerFunc) {
	o.routes.addErrorHandler(code, h)
}

func (o *srv) Listen() liberr.Error {
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
		return ErrorListen.Error(lerr)
	}
	if lerr := rt.Start(); lerr != nil {
		return ErrorListen.Error(lerr)
	}

	o.rt = rt
	return nil
}

func (o *srv) Shutdown() liberr.Error {
	o.mu.Lock()
	rt := o.rt
	o.mu.Unlock()

	if rt == nil {
		return nil
	}

	return rt.Close()
}

func (o *srv) Restart() liberr.Error {
	if lerr := o.Shutdown(); lerr != nil {
		return lerr
	}
	return o.Listen()
}

func (o *srv) WaitNotify(ctx context.Context) liberr.Error {
	<-ctx.Done()
	return o.Shutdown()
}

func (o *srv) Merge(other Server) error {
	src, ok := other.(*srv)
	if !ok {
		return errors.New("httpserver: Merge requires another *srv instance")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rt != nil {
		return errors.New("httpserver: cannot Merge while listening")
	}

	o.cfg = src.cfg
	o.routes = src.routes
	return nil
}

// onRead implements the per-read handler: ensure a codec for this
// descriptor, read up to one chunk, feed it, route every completed
// request, and write back the response. A write error drops the codec
// and ends the loop for this remote.
func (o *srv) onRead(t *remote.Target) {
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

		res := o.routes.dispatch(req)

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

func (o *srv) onError(t *remote.Target, _ error) {
	o.dropCodec(t.FD())
}

func (o *srv) codecFor(fd int) *httpcodec.Codec {
	o.mu.Lock()
	defer o.mu.Unlock()

	c, ok := o.codecs[fd]
	if !ok {
		c = httpcodec.NewCodec()
		o.codecs[fd] = c
	}
	return c
}

func (o *srv) dropCodec(fd int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.codecs, fd)
}
