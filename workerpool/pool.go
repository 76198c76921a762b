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

package workerpool

import (
	"context"
	"sync"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/sourcegraph/conc"
)

// Future resolves once its submitting task has run.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(v T, e error) {
	f.val = v
	f.err = e
	close(f.done)
}

// Get blocks until the task has run and returns its result.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.val, f.err
}

// Wait blocks until the task has run or ctx is done, whichever comes first.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ErrorFutureTimeout.Error(ctx.Err())
	}
}

type task[T any] struct {
	fn  func() (T, error)
	fut *Future[T]
}

// Pool is a fixed-size set of worker goroutines reading from one shared
// task queue.
type Pool[T any] struct {
	tasks   chan task[T]
	workers conc.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// New starts size worker goroutines, each looping on the pool's internal
// task queue until Stop closes it.
func New[T any](size int) *Pool[T] {
	if size < 1 {
		size = 1
	}

	p := &Pool[T]{tasks: make(chan task[T])}

	for i := 0; i < size; i++ {
		p.workers.Go(p.run)
	}

	return p
}

func (p *Pool[T]) run() {
	for t := range p.tasks {
		v, e := t.fn()
		t.fut.resolve(v, e)
	}
}

// Submit queues fn and returns a Future resolving with its return value.
// Fails with ErrorPoolStopped once Stop has been called.
func (p *Pool[T]) Submit(fn func() (T, error)) (*Future[T], liberr.Error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return nil, ErrorPoolStopped.Error(nil)
	}

	fut := newFuture[T]()
	p.tasks <- task[T]{fn: fn, fut: fut}
	return fut, nil
}

// Stop closes the task queue (letting every worker drain what is already
// queued) and joins all workers. Stop is idempotent.
func (p *Pool[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	p.workers.Wait()
}
