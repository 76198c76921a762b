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

package httpcodec

import (
	"fmt"
	"io"
	"strconv"

	liberr "github.com/nabbar/netkit/errors"
)

// WriteRequest serializes r as "METHOD SP URL SP VERSION CRLF" followed by
// one "Key: Value CRLF" per header, a blank CRLF, then the body. No header
// is injected.
func (c *Codec) WriteRequest(w io.Writer, r Request) liberr.Error {
	version := r.Version
	if version == "" {
		version = "HTTP/1.1"
	}

	if _, err := fmt.Fprintf(w, "%s %s %s\r\n", r.Method.String(), r.URL, version); err != nil {
		return ErrorWrite.Error(err)
	}

	return writeHeadersAndBody(w, r.Header, r.Body)
}

// WriteResponse serializes r as "VERSION SP status SP reason CRLF"
// followed by headers and body, in the same form as WriteRequest. If the
// body is non-empty and no Content-Length header is present, one is
// injected automatically; no other header is ever injected.
func (c *Codec) WriteResponse(w io.Writer, r Response) liberr.Error {
	version := r.Version
	if version == "" {
		version = "HTTP/1.1"
	}

	reason := r.Reason
	if reason == "" {
		reason = ReasonPhrase(r.Status)
	}

	if _, err := fmt.Fprintf(w, "%s %d %s\r\n", version, r.Status, reason); err != nil {
		return ErrorWrite.Error(err)
	}

	header := r.Header
	if len(r.Body) > 0 {
		if _, ok := lookupCaseInsensitive(header, "content-length"); !ok {
			header = cloneHeader(header)
			header["Content-Length"] = strconv.Itoa(len(r.Body))
		}
	}

	return writeHeadersAndBody(w, header, r.Body)
}

func writeHeadersAndBody(w io.Writer, header map[string]string, body []byte) liberr.Error {
	for k, v := range header {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", k, v); err != nil {
			return ErrorWrite.Error(err)
		}
	}

	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return ErrorWrite.Error(err)
	}

	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return ErrorWrite.Error(err)
		}
	}

	return nil
}

func lookupCaseInsensitive(header map[string]string, key string) (string, bool) {
	for k, v := range header {
		if len(k) == len(key) && equalFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func cloneHeader(h map[string]string) map[string]string {
	out := make(map[string]string, len(h)+1)
	for k, v := range h {
		out[k] = v
	}
	return out
}
