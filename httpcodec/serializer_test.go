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

package httpcodec_test

import (
	"bytes"
	"strings"

	"github.com/nabbar/netkit/httpcodec"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Serialization", func() {
	It("writes a request as METHOD SP URL SP VERSION CRLF, headers, CRLF, body", func() {
		c := httpcodec.NewCodec()
		var buf bytes.Buffer

		err := c.WriteRequest(&buf, httpcodec.Request{
			Method: httpcodec.POST,
			URL:    "/items",
			Header: map[string]string{"X-Trace": "1"},
			Body:   []byte("payload"),
		})
		Expect(err).ToNot(HaveOccurred())

		out := buf.String()
		Expect(out).To(HavePrefix("POST /items HTTP/1.1\r\n"))
		Expect(out).To(ContainSubstring("X-Trace: 1\r\n"))
		Expect(out).To(HaveSuffix("\r\n\r\npayload"))
	})

	It("injects Content-Length on a response with a non-empty body and no existing header", func() {
		c := httpcodec.NewCodec()
		var buf bytes.Buffer

		err := c.WriteResponse(&buf, httpcodec.Response{
			Status: 200,
			Body:   []byte("abcde"),
		})
		Expect(err).ToNot(HaveOccurred())

		out := buf.String()
		Expect(out).To(HavePrefix("HTTP/1.1 200 OK\r\n"))
		Expect(out).To(ContainSubstring("Content-Length: 5\r\n"))
	})

	It("does not inject Content-Length when the header is already present", func() {
		c := httpcodec.NewCodec()
		var buf bytes.Buffer

		err := c.WriteResponse(&buf, httpcodec.Response{
			Status: 200,
			Header: map[string]string{"Content-Length": "99"},
			Body:   []byte("abcde"),
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(strings.Count(buf.String(), "Content-Length")).To(Equal(1))
	})

	It("does not inject any header for an empty body", func() {
		c := httpcodec.NewCodec()
		var buf bytes.Buffer

		err := c.WriteResponse(&buf, httpcodec.Response{Status: 204})
		Expect(err).ToNot(HaveOccurred())
		Expect(buf.String()).ToNot(ContainSubstring("Content-Length"))
	})

	It("round-trips a serialized request back through the parser", func() {
		w := httpcodec.NewCodec()
		var buf bytes.Buffer

		Expect(w.WriteRequest(&buf, httpcodec.Request{
			Method: httpcodec.PUT,
			URL:    "/round/trip",
			Header: map[string]string{"content-length": "4"},
			Body:   []byte("data"),
		})).ToNot(HaveOccurred())

		r := httpcodec.NewCodec()
		r.PushRequest(buf.Bytes())

		req, ok := r.ReadRequest()
		Expect(ok).To(BeTrue())
		Expect(req.Method).To(Equal(httpcodec.PUT))
		Expect(req.URL).To(Equal("/round/trip"))
		Expect(string(req.Body)).To(Equal("data"))
	})
})
