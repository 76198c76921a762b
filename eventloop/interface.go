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
	"time"

	liberr "github.com/nabbar/netkit/errors"
)

// Kind identifies a readiness-multiplexer backend.
type Kind uint8

const (
	// KindSelect is the level-triggered, fd-set-size-bounded backend. Kept
	// only for platforms lacking epoll.
	KindSelect Kind = iota + 1

	// KindPoll is level-triggered with no descriptor ceiling.
	KindPoll

	// KindEpoll is edge-triggered (Linux only). Callers must drain a
	// descriptor to EAGAIN on every readable notification.
	KindEpoll
)

// String returns a human-readable backend name.
func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindPoll:
		return "poll"
	case KindEpoll:
		return "epoll"
	default:
		return "unknown"
	}
}

// Edge reports whether this backend delivers edge-triggered notifications.
func (k Kind) Edge() bool {
	return k == KindEpoll
}

// Handler groups the callbacks a registered descriptor reacts with. Interest
// (read/write/error) is derived from which callbacks are non-nil.
type Handler struct {
	OnRead  func(fd int)
	OnWrite func(fd int)
	OnError func(fd int, err error)
}

// Event pairs a file descriptor with the handler invoked on readiness.
type Event struct {
	FD      int
	Handler Handler
}

func (e Event) interestRead() bool {
	return e.Handler.OnRead != nil
}

func (e Event) interestWrite() bool {
	return e.Handler.OnWrite != nil
}

// Loop multiplexes readiness across a dynamic set of descriptors and
// dispatches read/write/error callbacks. Three interchangeable backends
// (select, poll, epoll) implement this same contract.
type Loop interface {
	// AddEvent registers fd with interest derived from which callbacks are
	// set on ev.Handler. Must accept a descriptor previously removed.
	AddEvent(ev Event) liberr.Error

	// RemoveEvent unregisters fd. Safe to call on an unknown descriptor.
	RemoveEvent(fd int) liberr.Error

	// WaitForEvents blocks up to timeout, dispatching ready descriptors.
	// Returns when at least one event was dispatched or the timeout
	// elapsed. Fails only on an unrecoverable syscall error; per-descriptor
	// errors are delivered through the registered OnError callback.
	WaitForEvents(timeout time.Duration) liberr.Error

	// Kind reports which backend this loop instance implements.
	Kind() Kind

	// Len reports the number of currently registered descriptors.
	Len() int

	// Close releases backend resources. Idempotent.
	Close() liberr.Error
}

// New constructs a Loop for the requested backend.
func New(kind Kind) (Loop, liberr.Error) {
	switch kind {
	case KindSelect:
		return newSelectLoop(), nil
	case KindPoll:
		return newPollLoop(), nil
	case KindEpoll:
		return newEpollLoop()
	default:
		return nil, ErrorUnsupportedBackend.Error(nil)
	}
}
