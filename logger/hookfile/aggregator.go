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

// Package hookfile provides file-based logging hooks for logrus.
// This file handles log file aggregation and rotation functionality.
// It manages multiple writers to the same log file efficiently.
package hookfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	libatm "github.com/nabbar/netkit/atomic"
)

// ErrClosedResources is returned by a fileAgg writer once its underlying
// file descriptor has been closed by a concurrent delAgg call.
var ErrClosedResources = errors.New("hookfile: aggregator resources are closed")

// fileAgg represents an aggregated file writer with reference counting.
// It manages a single log file that can be shared by multiple loggers.
type fileAgg struct {
	i *atomic.Int64
	m sync.Mutex
	f *os.File
	p string
	c bool
	o bool
	t *time.Ticker
	s chan struct{}
}

// Global map to manage file aggregators by file path
// Uses atomic operations for thread-safe access
var agg = libatm.NewMapTyped[string, *fileAgg]()

// init sets up a finalizer to close all open log files when the program exits.
func init() {
	runtime.SetFinalizer(agg, func(a libatm.MapTyped[string, *fileAgg]) {
		a.Range(func(k string, v *fileAgg) bool {
			if v != nil {
				_ = v.close()
			}
			return true
		})
	})
}

// setAgg retrieves or creates a file aggregator for the given file path.
// If an aggregator already exists for the path, its reference count is incremented.
func setAgg(k string, m os.FileMode, cre bool) (io.Writer, error) {
	i, l := agg.Load(k)

	if l && i != nil {
		i.i.Add(1)
		agg.Store(k, i)
		return i, nil
	}

	var e error
	i, e = newAgg(k, m, cre)

	if e != nil {
		return nil, e
	}

	agg.Store(k, i)
	return i, nil
}

// delAgg decreases the reference count for the file aggregator at the given path.
// If the reference count reaches zero, the file and its resources are closed.
func delAgg(k string) {
	i, _ := agg.Load(k)
	if i == nil {
		return
	}

	if i.i.Add(-1) > 0 {
		agg.Store(k, i)
	} else {
		agg.Delete(k)
		_ = i.close()
	}
}

// newAgg creates a new file aggregator for the specified file path. It opens
// the file in append mode and starts a background ticker that syncs the
// file and detects external rotation (e.g. logrotate renaming the path).
func newAgg(p string, m os.FileMode, cre bool) (*fileAgg, error) {
	fl := os.O_WRONLY | os.O_APPEND
	if cre {
		fl = fl | os.O_CREATE
	}

	f, e := os.OpenFile(p, fl, m)
	if e != nil {
		return nil, e
	}

	if _, e = f.Seek(0, io.SeekEnd); e != nil {
		_ = f.Close()
		return nil, e
	}

	i := &fileAgg{
		i: new(atomic.Int64),
		f: f,
		p: p,
		c: cre,
		t: time.NewTicker(time.Second),
		s: make(chan struct{}),
	}
	i.i.Add(1)

	go i.watch(fl, m)

	return i, nil
}

// watch periodically flushes the file and reopens it if it has been rotated
// out from under the descriptor we hold.
func (o *fileAgg) watch(fl int, m os.FileMode) {
	for {
		select {
		case <-o.s:
			o.t.Stop()
			return
		case <-o.t.C:
			o.m.Lock()
			if o.o {
				o.m.Unlock()
				continue
			}

			syncErr := o.f.Sync()

			needReopen := syncErr != nil
			if !needReopen && o.c {
				currentStat, err1 := o.f.Stat()
				diskStat, err2 := os.Stat(o.p)

				if err2 != nil || (err1 == nil && !os.SameFile(currentStat, diskStat)) {
					needReopen = true
				}
			}

			if needReopen {
				_ = o.f.Close()

				if nf, e := os.OpenFile(o.p, fl, m); e != nil {
					_, _ = fmt.Fprintf(os.Stderr, "error opening file %s: %v\n", o.p, e)
				} else {
					_, _ = nf.Seek(0, io.SeekEnd)
					o.f = nf
				}
			}
			o.m.Unlock()
		}
	}
}

// Write implements io.Writer, serializing access to the underlying file.
func (o *fileAgg) Write(p []byte) (int, error) {
	o.m.Lock()
	defer o.m.Unlock()

	if o.o {
		return 0, ErrClosedResources
	}

	return o.f.Write(p)
}

func (o *fileAgg) close() error {
	o.m.Lock()
	defer o.m.Unlock()

	if o.o {
		return nil
	}

	o.o = true
	close(o.s)
	return o.f.Close()
}

// ResetOpenFiles closes all open file aggregators and clears the aggregator
// map. Primarily used for test and process-shutdown cleanup.
func ResetOpenFiles() {
	agg.Range(func(k string, v *fileAgg) bool {
		_ = v.close()
		agg.Delete(k)
		return true
	})
}
