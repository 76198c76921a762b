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
	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/httpcodec"
	"github.com/nabbar/netkit/transport"
	"github.com/nabbar/netkit/workerpool"
)

// Client wraps one transport connection and one httpcodec.Codec. Every
// verb has a synchronous form (Get, Post, ...) and an asynchronous form
// (GetAsync, PostAsync, ...) that runs the synchronous form on a
// background worker and returns a future.
type Client interface {
	// Dial connects to the configured endpoint.
	Dial() liberr.Error

	// Close closes the transport and stops the async worker pool.
	Close() liberr.Error

	// WriteHTTP serializes and writes req.
	WriteHTTP(req httpcodec.Request) liberr.Error

	// ReadHTTP drives the codec, reading chunks as needed, until one
	// response is complete.
	ReadHTTP() (httpcodec.Response, liberr.Error)

	// Do writes req and returns the next complete response.
	Do(req httpcodec.Request) (httpcodec.Response, liberr.Error)

	// DoAsync runs Do on the async worker pool.
	DoAsync(req httpcodec.Request) (*workerpool.Future[httpcodec.Response], liberr.Error)

	Get(url string, header map[string]string) (httpcodec.Response, liberr.Error)
	Post(url string, header map[string]string, body []byte) (httpcodec.Response, liberr.Error)
	Put(url string, header map[string]string, body []byte) (httpcodec.Response, liberr.Error)
	Delete(url string, header map[string]string) (httpcodec.Response, liberr.Error)
	Head(url string, header map[string]string) (httpcodec.Response, liberr.Error)
	Options(url string, header map[string]string) (httpcodec.Response, liberr.Error)
	Patch(url string, header map[string]string, body []byte) (httpcodec.Response, liberr.Error)
	Trace(url string, header map[string]string) (httpcodec.Response, liberr.Error)
	Connect(url string, header map[string]string) (httpcodec.Response, liberr.Error)

	GetAsync(url string, header map[string]string) (*workerpool.Future[httpcodec.Response], liberr.Error)
	PostAsync(url string, header map[string]string, body []byte) (*workerpool.Future[httpcodec.Response], liberr.Error)
	PutAsync(url string, header map[string]string, body []byte) (*workerpool.Future[httpcodec.Response], liberr.Error)
	DeleteAsync(url string, header map[string]string) (*workerpool.Future[httpcodec.Response], liberr.Error)

	Transport() transport.Transport
}

// New builds a Client in the not-yet-connected state. Call Dial before
// issuing any request.
func New(cfg Config) Client {
	return &client{cfg: cfg, codec: httpcodec.NewCodec()}
}
