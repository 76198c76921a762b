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

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package eventloop

import (
	"time"

	liberr "github.com/nabbar/netkit/errors"
)

type pollLoop struct{}

func newPollLoop() *pollLoop {
	return &pollLoop{}
}

func (o *pollLoop) Kind() Kind                                     { return KindPoll }
func (o *pollLoop) Len() int                                       { return 0 }
func (o *pollLoop) AddEvent(ev Event) liberr.Error                 { return ErrorUnsupportedBackend.Error(nil) }
func (o *pollLoop) RemoveEvent(fd int) liberr.Error                { return ErrorUnsupportedBackend.Error(nil) }
func (o *pollLoop) Close() liberr.Error                            { return nil }
func (o *pollLoop) WaitForEvents(timeout time.Duration) liberr.Error {
	return ErrorUnsupportedBackend.Error(nil)
}
