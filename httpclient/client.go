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

package httpclient

import (
	"bytes"
	"context"
	"sync"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/httpcodec"
	"github.com/nabbar/netkit/transport"
	"github.com/nabbar/netkit/workerpool"
)

const readChunkSize = 1024

type client struct {
	cfg   Config
	codec *httpcodec.Codec

	mu sync.Mutex
	tr transport.Transport
	wp *workerpool.Pool[httpcodec.Response]
}

func (c *client) Dial() liberr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var tr transport.Transport
	var terr liberr.Error

	if c.cfg.tlsEnabled() {
		tr, terr = transport.DialTLS(context.Background(), c.cfg.Endpoint, c.cfg.TLS, c.cfg.ServerName)
	} else {
		tr, terr = transport.DialTCP(context.Background(), c.cfg.Endpoint)
	}
	if terr != nil {
		return ErrorConnect.Error(terr)
	}

	size := c.cfg.AsyncPoolSize
	if size <= 0 {
		size = 1
	}

	c.tr = tr
	c.wp = workerpool.New[httpcodec.Response](size)
	return nil
}

func (c *client) Close() liberr.Error {
	c.mu.Lock()
	tr := c.tr
	wp := c.wp
	c.tr = nil
	c.wp = nil
	c.mu.Unlock()

	if wp != nil {
		wp.Stop()
	}
	if tr != nil {
		return tr.Close()
	}
	return nil
}

func (c *client) Transport() transport.Transport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tr
}

func (c *client) WriteHTTP(req httpcodec.Request) liberr.Error {
	tr := c.Transport()
	if tr == nil {
		return ErrorNotConnected.Error(nil)
	}

	var buf bytes.Buffer
	if werr := c.codec.WriteRequest(&buf, req); werr != nil {
		return werr
	}

	if _, werr := tr.Write(buf.Bytes()); werr != nil {
		return ErrorWrite.Error(werr)
	}
	return nil
}

func (c *client) ReadHTTP() (httpcodec.Response, liberr.Error) {
	tr := c.Transport()
	if tr == nil {
		return httpcodec.Response{}, ErrorNotConnected.Error(nil)
	}

	if res, ok := c.codec.ReadResponse(); ok {
		return res, nil
	}

	buf := make([]byte, readChunkSize)
	for {
		n, rerr := tr.Read(buf)
		if rerr != nil {
			return httpcodec.Response{}, ErrorRead.Error(rerr)
		}

		c.codec.PushResponse(buf[:n])

		if res, ok := c.codec.ReadResponse(); ok {
			return res, nil
		}
	}
}

func (c *client) Do(req httpcodec.Request) (httpcodec.Response, liberr.Error) {
	if werr := c.WriteHTTP(req); werr != nil {
		return httpcodec.Response{}, werr
	}
	return c.ReadHTTP()
}

func (c *client) DoAsync(req httpcodec.Request) (*workerpool.Future[httpcodec.Response], liberr.Error) {
	c.mu.Lock()
	wp := c.wp
	c.mu.Unlock()

	if wp == nil {
		return nil, ErrorNotConnected.Error(nil)
	}

	fut, err := wp.Submit(func() (httpcodec.Response, error) {
		res, derr := c.Do(req)
		if derr != nil {
			return httpcodec.Response{}, derr
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return fut, nil
}

func (c *client) Get(url string, header map[string]string) (httpcodec.Response, liberr.Error) {
	return c.Do(httpcodec.Request{Method: httpcodec.GET, URL: url, Header: header})
}

func (c *client) Post(url string, header map[string]string, body []byte) (httpcodec.Response, liberr.Error) {
	return c.Do(httpcodec.Request{Method: httpcodec.POST, URL: url, Header: header, Body: body})
}

func (c *client) Put(url string, header map[string]string, body []byte) (httpcodec.Response, liberr.Error) {
	return c.Do(httpcodec.Request{Method: httpcodec.PUT, URL: url, Header: header, Body: body})
}

func (c *client) Delete(url string, header map[string]string) (httpcodec.Response, liberr.Error) {
	return c.Do(httpcodec.Request{Method: httpcodec.DELETE, URL: url, Header: header})
}

func (c *client) Head(url string, header map[string]string) (httpcodec.Response, liberr.Error) {
	return c.Do(httpcodec.Request{Method: httpcodec.HEAD, URL: url, Header: header})
}

func (c *client) Options(url string, header map[string]string) (httpcodec.Response, liberr.Error) {
	return c.Do(httpcodec.Request{Method: httpcodec.OPTIONS, URL: url, Header: header})
}

func (c *client) Patch(url string, header map[string]string, body []byte) (httpcodec.Response, liberr.Error) {
	return c.Do(httpcodec.Request{Method: httpcodec.PATCH, URL: url, Header: header, Body: body})
}

func (c *client) Trace(url string, header map[string]string) (httpcodec.Response, liberr.Error) {
	return c.Do(httpcodec.Request{Method: httpcodec.TRACE, URL: url, Header: header})
}

func (c *client) Connect(url string, header map[string]string) (httpcodec.Response, liberr.Error) {
	return c.Do(httpcodec.Request{Method: httpcodec.CONNECT, URL: url, Header: header})
}

func (c *client) GetAsync(url string, header map[string]string) (*workerpool.Future[httpcodec.Response], liberr.Error) {
	return c.DoAsync(httpcodec.Request{Method: httpcodec.GET, URL: url, Header: header})
}

func (c *client) PostAsync(url string, header map[string]string, body []byte) (*workerpool.Future[httpcodec.Response], liberr.Error) {
	return c.DoAsync(httpcodec.Request{Method: httpcodec.POST, URL: url, Header: header, Body: body})
}

func (c *client) PutAsync(url string, header map[string]string, body []byte) (*workerpool.Future[httpcodec.Response], liberr.Error) {
	return c.DoAsync(httpcodec.Request{Method: httpcodec.PUT, URL: url, Header: header, Body: body})
}

func (c *client) DeleteAsync(url string, header map[string]string) (*workerpool.Future[httpcodec.Response], liberr.Error) {
	return c.DoAsync(httpcodec.Request{Method: httpcodec.DELETE, URL: url, Header: header})
}
