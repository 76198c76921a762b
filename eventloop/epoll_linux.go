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

type epollLoop struct {
	fd     int
	mu     sync.Mutex
	events map[int]Event
	buf    []unix.EpollEvent
	closed bool
}

func newEpollLoop() (*epollLoop, liberr.Error) {
	fd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, ErrorSyscallRegister.Error(err)
	}

	return &epollLoop{
		fd:     fd,
		events: make(map[int]Event),
		buf:    make([]unix.EpollEvent, 128),
	}, nil
}

func (o *epollLoop) Kind() Kind {
	return KindEpoll
}

func (o *epollLoop) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

// interestMask derives the epoll interest bitmask from which handler
// callbacks are set, always including edge-triggered + hangup + error.
func interestMask(ev Event) uint32 {
	var m uint32 = unix.EPOLLET | unix.EPOLLHUP | unix.EPOLLERR
	if ev.interestRead() {
		m |= unix.EPOLLIN
	}
	if ev.interestWrite() {
		m |= unix.EPOLLOUT
	}
	return m
}

func (o *epollLoop) AddEvent(ev Event) liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrorLoopClosed.Error(nil)
	}

	op := unix.EPOLL_CTL_ADD
	if _, exists := o.events[ev.FD]; exists {
		op = unix.EPOLL_CTL_MOD
	}

	if err := unix.EpollCtl(o.fd, op, ev.FD, &unix.EpollEvent{
		Events: interestMask(ev),
		Fd:     int32(ev.FD),
	}); err != nil {
		return ErrorSyscallRegister.Error(err)
	}

	o.events[ev.FD] = ev
	return nil
}

func (o *epollLoop) RemoveEvent(fd int) liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.events[fd]; !ok {
		return nil
	}

	_ = unix.EpollCtl(o.fd, unix.EPOLL_CTL_DEL, fd, nil)
	delete(o.events, fd)
	return nil
}

func (o *epollLoop) Close() liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}

	o.closed = true
	o.events = make(map[int]Event)
	return ErrorSyscallDeregister.IfError(unix.Close(o.fd))
}

// WaitForEvents is edge-triggered: it is the caller's responsibility (via
// OnRead/OnWrite) to drain each descriptor to EAGAIN. This backend will not
// re-notify on a descriptor whose readable state has not changed since the
// last notification.
func (o *epollLoop) WaitForEvents(timeout time.Duration) liberr.Error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrorLoopClosed.Error(nil)
	}
	o.mu.Unlock()

	ms := int(timeout.Milliseconds())
	if ms <= 0 && timeout > 0 {
		ms = 1
	}

	n, err := unix.EpollWait(o.fd, o.buf, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return ErrorSyscallWait.Error(err)
	}
	if n == 0 {
		return nil
	}

	o.mu.Lock()
	type dispatch struct {
		ev   Event
		mask uint32
	}
	batch := make([]dispatch, 0, n)
	for i := 0; i < n; i++ {
		fd := int(o.buf[i].Fd)
		if ev, ok := o.events[fd]; ok {
			batch = append(batch, dispatch{ev: ev, mask: o.buf[i].Events})
		}
	}
	o.mu.Unlock()

	for _, d := range batch {
		if d.mask&unix.EPOLLIN != 0 && d.ev.Handler.OnRead != nil {
			d.ev.Handler.OnRead(d.ev.FD)
		}
		if d.mask&(unix.EPOLLERR|unix.EPOLLHUP) != 0 && d.ev.Handler.OnError != nil {
			d.ev.Handler.OnError(d.ev.FD, unix.ECONNRESET)
		}
		if d.mask&unix.EPOLLOUT != 0 && d.ev.Handler.OnWrite != nil {
			d.ev.Handler.OnWrite(d.ev.FD)
		}
	}

	return nil
}
