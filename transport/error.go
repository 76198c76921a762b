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

package transport

import (
	liberr "github.com/nabbar/netkit/errors"
)

const (
	ErrorResolveEndpoint liberr.CodeError = iota + liberr.MinPkgTransport
	ErrorSocketCreate
	ErrorSocketConnect
	ErrorSocketBind
	ErrorSocketListen
	ErrorSocketAccept
	ErrorInvalidState
	ErrorPeerClosed
	ErrorRead
	ErrorWrite
	ErrorClose
	ErrorTLSHandshake
	ErrorUnsupportedKind
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorResolveEndpoint)
	liberr.RegisterIdFctMessage(ErrorResolveEndpoint, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrorResolveEndpoint:
		return "cannot resolve endpoint to an address"
	case ErrorSocketCreate:
		return "cannot create socket"
	case ErrorSocketConnect:
		return "cannot connect socket"
	case ErrorSocketBind:
		return "cannot bind socket"
	case ErrorSocketListen:
		return "cannot listen on socket"
	case ErrorSocketAccept:
		return "cannot accept connection"
	case ErrorInvalidState:
		return "transport is not in a valid state for this operation"
	case ErrorPeerClosed:
		return "peer closed the connection"
	case ErrorRead:
		return "read error"
	case ErrorWrite:
		return "write error"
	case ErrorClose:
		return "close error"
	case ErrorTLSHandshake:
		return "TLS handshake failed"
	case ErrorUnsupportedKind:
		return "unsupported transport kind"
	}

	return ""
}
