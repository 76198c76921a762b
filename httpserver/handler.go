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
	"fmt"
	"sync"

	"github.com/nabbar/netkit/httpcodec"
)

// HandlerFunc answers one matched request. Returning a non-nil err that is
// a StatusError short-circuits to the corresponding registered error
// handler (or the synthesized default) instead of the returned response.
type HandlerFunc func(httpcodec.Request) (httpcodec.Response, error)

// ErrorHandlerFunc answers a request that could not be routed normally
// (method not registered, path not matched, or a StatusError raised by a
// HandlerFunc).
type ErrorHandlerFunc func(httpcodec.Request, status int) httpcodec.Response

// StatusError lets a HandlerFunc short-circuit to an error handler by
// returning this as its error value.
type StatusError int

func (e StatusError) Error() string {
	return fmt.Sprintf("status %d", int(e))
}

type routeTable struct {
	mu     sync.RWMutex
	routes map[httpcodec.Method]map[string]HandlerFunc
	errs   map[int]ErrorHandlerFunc
}

func newRouteTable() *routeTable {
	return &routeTable{
		routes: make(map[httpcodec.Method]map[string]HandlerFunc),
		errs:   make(map[int]ErrorHandlerFunc),
	}
}

func (t *routeTable) register(m httpcodec.Method, path string, h HandlerFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.routes[m] == nil {
		t.routes[m] = make(map[string]HandlerFunc)
	}
	t.routes[m][path] = h
}

func (t *routeTable) addErrorHandler(code int, h ErrorHandlerFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs[code] = h
}

// dispatch implements the per-read routing algorithm from the HTTP server
// section: method not registered -> 405, method registered but path not
// matched -> 404, matched -> invoke, a StatusError from the handler
// redirects to that code's error handler.
func (t *routeTable) dispatch(req httpcodec.Request) httpcodec.Response {
	t.mu.RLock()
	byPath, methodKnown := t.routes[req.Method]
	t.mu.RUnlock()

	if !methodKnown {
		return t.respondError(req, httpcodec.StatusMethodNotAllowed)
	}

	t.mu.RLock()
	h, matched := byPath[req.URL]
	t.mu.RUnlock()

	if !matched {
		return t.respondError(req, httpcodec.StatusNotFound)
	}

	res, err := h(req)
	if err == nil {
		return res
	}

	if se, ok := err.(StatusError); ok {
		return t.respondError(req, int(se))
	}

	return t.respondError(req, httpcodec.StatusInternalServerError)
}

func (t *routeTable) respondError(req httpcodec.Request, code int) httpcodec.Response {
	t.mu.RLock()
	h, ok := t.errs[code]
	t.mu.RUnlock()

	if ok {
		return h(req, code)
	}

	return httpcodec.Response{
		Version: "HTTP/1.1",
		Status:  code,
		Reason:  httpcodec.ReasonPhrase(code),
		Header:  map[string]string{},
	}
}
