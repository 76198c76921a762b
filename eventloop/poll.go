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

//go:build linux || darwin || freebsd || netbsd || openbsd

package eventloop

import (
	"sync"
	"time"

	liberr "github.com/nabbar/netkit/errors"
	"golang.org/x/sys/unix"
)

type pollLoop struct {
	mu     sync.Mutex
	events map[int]Event
	closed bool
}

func newPollLoop() *pollLoop {
	return &pollLoop{events: make(map[int]Event)}
}

func (o *pollLoop) Kind() Kind {
	return KindPoll
}

func (o *pollLoop) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

func (o *pollLoop) AddEvent(ev Event) liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrorLoopClosed.Error(nil)
	}

	o.events[ev.FD] = ev
	return nil
}

func (o *pollLoop) RemoveEvent(fd int) liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.events, fd)
	return nil
}

func (o *pollLoop) Close() liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true
	o.events = make(map[int]Event)
	return nil
}

// WaitForEvents is level-triggered, with no descriptor-count ceiling.
func (o *pollLoop) WaitForEvents(timeout time.Duration) liberr.Error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrorLoopClosed.Error(nil)
	}

	fds := make([]unix.PollFd, 0, len(o.events))
	order := make([]Event, 0, len(o.events))
	for _, ev := range o.events {
		var want int16 = unix.POLLERR | unix.POLLHUP
		if ev.interestRead() {
			want |= unix.POLLIN
		}
		if ev.interestWrite() {
			want |= unix.POLLOUT
		}
		fds = append(fds, unix.PollFd{Fd: int32(ev.FD), Events: want})
		order = append(order, ev)
	}
	o.mu.Unlock()

	if len(fds) == 0 {
		time.Sleep(timeout)
		return nil
	}

	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return ErrorSyscallWait.Error(err)
	}
	if n == 0 {
		return nil
	}

	for i, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}
		ev := order[i]

		// READ dispatches before ERROR when a descriptor reports both.
		if pfd.Revents&unix.POLLIN != 0 && ev.Handler.OnRead != nil {
			ev.Handler.OnRead(ev.FD)
		}
		if pfd.Revents&unix.POLLOUT != 0 && ev.Handler.OnWrite != nil {
			ev.Handler.OnWrite(ev.FD)
		}
		if pfd.Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 && ev.Handler.OnError != nil {
			ev.Handler.OnError(ev.FD, unix.ECONNRESET)
		}
	}

	return nil
}
