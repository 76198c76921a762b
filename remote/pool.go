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

package remote

import (
	"sync"

	liberr "github.com/nabbar/netkit/errors"
)

// Pool maps descriptor to Target under one mutex. A descriptor appears at
// most once; Remove implies Close.
type Pool struct {
	mu sync.Mutex
	m  map[int]*Target
}

func NewPool() *Pool {
	return &Pool{m: make(map[int]*Target)}
}

// Insert adds t, keyed by its descriptor. Returns ErrorTargetDuplicate if
// the descriptor is already present.
func (p *Pool) Insert(t *Target) liberr.Error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.m == nil {
		p.m = make(map[int]*Target)
	}

	if _, ok := p.m[t.FD()]; ok {
		return ErrorTargetDuplicate.Error(nil)
	}

	p.m[t.FD()] = t
	return nil
}

// Lookup returns the Target for fd, or nil if not present.
func (p *Pool) Lookup(fd int) *Target {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.m[fd]
}

// Remove deletes fd's Target from the pool and closes it. A missing fd is
// not an error: remove is idempotent from the caller's point of view.
func (p *Pool) Remove(fd int) liberr.Error {
	p.mu.Lock()
	t, ok := p.m[fd]
	if ok {
		delete(p.m, fd)
	}
	p.mu.Unlock()

	if !ok {
		return nil
	}

	return t.Close()
}

// Len returns the current number of tracked targets.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.m)
}

// Range iterates every tracked target under the pool's lock. fn must not
// call back into the pool.
func (p *Pool) Range(fn func(t *Target)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range p.m {
		fn(t)
	}
}

// CloseAll removes and closes every tracked target, used by the server
// runtime's shutdown sequence ("iterate pool and close all remotes").
func (p *Pool) CloseAll() liberr.Error {
	p.mu.Lock()
	targets := make([]*Target, 0, len(p.m))
	for fd, t := range p.m {
		targets = append(targets, t)
		delete(p.m, fd)
	}
	p.mu.Unlock()

	err := ErrorTargetClosed.Error(nil)
	for _, t := range targets {
		if e := t.Close(); e != nil {
			err.Add(e)
		}
	}

	if err.HasParent() {
		return err
	}

	return nil
}
