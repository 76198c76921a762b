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

//go:build linux

package eventloop

import (
	"sync"
	"time"

	liberr "github.com/nabbar/netkit/errors"
	"golang.org/x/sys/unix"
)

// selectCeiling is the fd-set size retained by this backend. Descriptors at
// or above this value cannot be registered.
const selectCeiling = unix.FD_SETSIZE

type selectLoop struct {
	mu     sync.Mutex
	events map[int]Event
	closed bool
}

func newSelectLoop() *selectLoop {
	return &selectLoop{events: make(map[int]Event)}
}

func (o *selectLoop) Kind() Kind {
	return KindSelect
}

func (o *selectLoop) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

func (o *selectLoop) AddEvent(ev Event) liberr.Error {
	if ev.FD >= selectCeiling || ev.FD < 0 {
		return ErrorDescriptorCeiling.Error(nil)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrorLoopClosed.Error(nil)
	}

	o.events[ev.FD] = ev
	return nil
}

func (o *selectLoop) RemoveEvent(fd int) liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.events, fd)
	return nil
}

func (o *selectLoop) Close() liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true
	o.events = make(map[int]Event)
	return nil
}

// WaitForEvents is level-triggered: a descriptor with unread bytes will be
// reported ready on every call until drained.
func (o *selectLoop) WaitForEvents(timeout time.Duration) liberr.Error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrorLoopClosed.Error(nil)
	}

	var (
		rfds unix.FdSet
		efds unix.FdSet
		max  int
	)

	for fd, ev := range o.events {
		if ev.interestRead() {
			fdSet(&rfds, fd)
		}
		fdSet(&efds, fd)
		if fd > max {
			max = fd
		}
	}
	snapshot := make(map[int]Event, len(o.events))
	for k, v := range o.events {
		snapshot[k] = v
	}
	o.mu.Unlock()

	tv := unix.NsecToTimeval(timeout.Nanoseconds())

	n, err := unix.Select(max+1, &rfds, nil, &efds, &tv)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return ErrorSyscallWait.Error(err)
	}
	if n == 0 {
		return nil
	}

	// READ dispatches before ERROR when a descriptor reports both.
	for fd, ev := range snapshot {
		if fdIsSet(&rfds, fd) && ev.Handler.OnRead != nil {
			ev.Handler.OnRead(fd)
		}
	}
	for fd, ev := range snapshot {
		if fdIsSet(&efds, fd) && ev.Handler.OnError != nil {
			ev.Handler.OnError(fd, unix.ECONNRESET)
		}
	}

	return nil
}

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	return set.Bits[fd/64]&(1<<(uint(fd)%64)) != 0
}
