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

// Method is an HTTP request method. Parsing is a case-sensitive exact
// compare against the wire token; anything unrecognized maps to Unknown.
type Method int

const (
	Unknown Method = iota - 1
	GET
	POST
	PUT
	DELETE
	HEAD
	OPTIONS
	PATCH
	TRACE
	CONNECT
)

var methodNames = map[Method]string{
	GET:     "GET",
	POST:    "POST",
	PUT:     "PUT",
	DELETE:  "DELETE",
	HEAD:    "HEAD",
	OPTIONS: "OPTIONS",
	PATCH:   "PATCH",
	TRACE:   "TRACE",
	CONNECT: "CONNECT",
}

var methodValues = map[string]Method{
	"GET":     GET,
	"POST":    POST,
	"PUT":     PUT,
	"DELETE":  DELETE,
	"HEAD":    HEAD,
	"OPTIONS": OPTIONS,
	"PATCH":   PATCH,
	"TRACE":   TRACE,
	"CONNECT": CONNECT,
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseMethod maps a wire token to its Method, case-sensitive, defaulting
// to Unknown.
func ParseMethod(s string) Method {
	if m, ok := methodValues[s]; ok {
		return m
	}
	return Unknown
}
