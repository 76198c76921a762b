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

package eventloop

import (
	liberr "github.com/nabbar/netkit/errors"
)

const (
	ErrorUnsupportedBackend liberr.CodeError = iota + liberr.MinPkgEventLoop
	ErrorDescriptorCeiling
	ErrorSyscallWait
	ErrorSyscallRegister
	ErrorSyscallDeregister
	ErrorLoopClosed
)

func init() {
	liberr.RegisterIdFctMessage(ErrorUnsupportedBackend, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrorUnsupportedBackend:
		return "unsupported event loop backend"
	case ErrorDescriptorCeiling:
		return "descriptor exceeds the select backend's fd-set ceiling"
	case ErrorSyscallWait:
		return "event loop wait syscall failed"
	case ErrorSyscallRegister:
		return "event loop descriptor registration failed"
	case ErrorSyscallDeregister:
		return "event loop descriptor deregistration failed"
	case ErrorLoopClosed:
		return "event loop is closed"
	}

	return ""
}
