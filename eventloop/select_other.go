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

//go:build !linux

package eventloop

import (
	"time"

	liberr "github.com/nabbar/netkit/errors"
)

// selectLoop on non-Linux platforms is a stub: this toolkit's select/epoll
// backends target Linux, the runtime this library ships for. Poll is also
// available on darwin and the BSDs; elsewhere it is a stub as well.
type selectLoop struct{}

func newSelectLoop() *selectLoop {
	return &selectLoop{}
}

func (o *selectLoop) Kind() Kind                                  { return KindSelect }
func (o *selectLoop) Len() int                                    { return 0 }
func (o *selectLoop) AddEvent(ev Event) liberr.Error              { return ErrorUnsupportedBackend.Error(nil) }
func (o *selectLoop) RemoveEvent(fd int) liberr.Error             { return ErrorUnsupportedBackend.Error(nil) }
func (o *selectLoop) Close() liberr.Error                         { return nil }
func (o *selectLoop) WaitForEvents(timeout time.Duration) liberr.Error {
	return ErrorUnsupportedBackend.Error(nil)
}
