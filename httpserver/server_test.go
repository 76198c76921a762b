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

package httpserver_test

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/nabbar/netkit/httpcodec"
	"github.com/nabbar/netkit/httpserver"
	"github.com/nabbar/netkit/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newTestServer() httpserver.Server {
	srv, err := httpserver.New(httpserver.Config{
		Name:           "test",
		Endpoint:       transport.NewEndpoint("127.0.0.1", "0"),
		Backlog:        10,
		WorkerPoolSize: 2,
	})
	Expect(err).ToNot(HaveOccurred())
	return srv
}

func roundTrip(addr string, req httpcodec.Request) httpcodec.Response {
	_, portStr, err := net.SplitHostPort(addr)
	Expect(err).ToNot(HaveOccurred())
	port, err := strconv.Atoi(portStr)
	Expect(err).ToNot(HaveOccurred())

	cli, cerr := transport.DialTCP(context.Background(), transport.NewEndpoint("127.0.0.1", strconv.Itoa(port)))
	Expect(cerr).ToNot(HaveOccurred())
	defer cli.Close()

	c := httpcodec.NewCodec()
	Expect(c.WriteRequest(writerFor(cli), req)).ToNot(HaveOccurred())

	buf := make([]byte, 1024)
	var res httpcodec.Response
	Eventually(func() bool {
		n, rerr := cli.Read(buf)
		if rerr != nil {
			return false
		}
		c.PushResponse(buf[:n])
		r, ok := c.ReadResponse()
		if ok {
			res = r
			return true
		}
		return false
	}, "2s").Should(BeTrue())

	return res
}

type writerAdapter struct{ t transport.Transport }

func (w writerAdapter) Write(p []byte) (int, error) {
	n, err := w.t.Write(p)
	if err != nil {
		return n, err
	}
	return n, nil
}

func writerFor(t transport.Transport) writerAdapter {
	return writerAdapter{t: t}
}

var _ = Describe("HTTP server routing", func() {
	It("dispatches a registered GET handler", func() {
		srv := newTestServer()
		srv.Get("/hello", func(req httpcodec.Request) (httpcodec.Response, error) {
			return httpcodec.Response{Status: httpcodec.StatusOK, Body: []byte("world")}, nil
		})

		Expect(srv.Listen()).ToNot(HaveOccurred())
		defer srv.Shutdown()

		res := roundTrip(srv.GetBindable(), httpcodec.Request{Method: httpcodec.GET, URL: "/hello", Header: map[string]string{}})
		Expect(res.Status).To(Equal(200))
		Expect(string(res.Body)).To(Equal("world"))
	})

	It("returns 404 for a registered method with no matching path", func() {
		srv := newTestServer()
		srv.Get("/known", func(req httpcodec.Request) (httpcodec.Response, error) {
			return httpcodec.Response{Status: httpcodec.StatusOK}, nil
		})

		Expect(srv.Listen()).ToNot(HaveOccurred())
		defer srv.Shutdown()

		res := roundTrip(srv.GetBindable(), httpcodec.Request{Method: httpcodec.GET, URL: "/unknown", Header: map[string]string{}})
		Expect(res.Status).To(Equal(404))
	})

	It("returns 405 for an unregistered method", func() {
		srv := newTestServer()
		srv.Get("/x", func(req httpcodec.Request) (httpcodec.Response, error) {
			return httpcodec.Response{Status: httpcodec.StatusOK}, nil
		})

		Expect(srv.Listen()).ToNot(HaveOccurred())
		defer srv.Shutdown()

		res := roundTrip(srv.GetBindable(), httpcodec.Request{Method: httpcodec.POST, URL: "/x", Header: map[string]string{}})
		Expect(res.Status).To(Equal(405))
	})

	It("routes a StatusError from a handler to its registered error handler", func() {
		srv := newTestServer()
		srv.Get("/teapot", func(req httpcodec.Request) (httpcodec.Response, error) {
			return httpcodec.Response{}, httpserver.StatusError(418)
		})
		srv.AddErrorHandler(418, func(req httpcodec.Request, status int) httpcodec.Response {
			return httpcodec.Response{Status: 418, Body: []byte("short and stout")}
		})

		Expect(srv.Listen()).ToNot(HaveOccurred())
		defer srv.Shutdown()

		res := roundTrip(srv.GetBindable(), httpcodec.Request{Method: httpcodec.GET, URL: "/teapot", Header: map[string]string{}})
		Expect(res.Status).To(Equal(418))
		Expect(string(res.Body)).To(Equal("short and stout"))
	})
})

var _ = Describe("Server lifecycle", func() {
	It("Shutdown is idempotent and Restart rebinds a fresh listener", func() {
		srv := newTestServer()
		Expect(srv.Listen()).ToNot(HaveOccurred())

		first := srv.GetBindable()
		Expect(srv.Shutdown()).ToNot(HaveOccurred())
		Expect(srv.Shutdown()).ToNot(HaveOccurred())

		Expect(srv.Restart()).ToNot(HaveOccurred())
		defer srv.Shutdown()

		Expect(srv.GetBindable()).ToNot(BeEmpty())
		_ = first
	})

	It("WaitNotify shuts the server down once the context is cancelled", func() {
		srv := newTestServer()
		Expect(srv.Listen()).ToNot(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		Expect(srv.WaitNotify(ctx)).ToNot(HaveOccurred())
	})
})
