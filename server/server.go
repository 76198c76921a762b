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

package server

import (
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/eventloop"
	"github.com/nabbar/netkit/remote"
	"github.com/nabbar/netkit/transport"
	"github.com/nabbar/netkit/workerpool"
	"golang.org/x/sync/errgroup"
)

type runtime struct {
	cfg    Config
	hooks  Hooks
	status atomic.Int32

	ln   transport.Listener
	pool *remote.Pool
	wp   *workerpool.Pool[struct{}]
	loop eventloop.Loop

	addr     string
	stopCh   chan struct{}
	acceptWG sync.WaitGroup
}

// New builds a Server in the Disconnected state. Call Listen then Start to
// bring it up.
func New(cfg Config, hooks Hooks) Server {
	return &runtime{
		cfg:    cfg,
		hooks:  hooks,
		pool:   remote.NewPool(),
		stopCh: make(chan struct{}),
	}
}

func (s *runtime) Status() transport.Status {
	return transport.Status(s.status.Load())
}

func (s *runtime) Pool() *remote.Pool {
	return s.pool
}

func (s *runtime) Addr() string {
	return s.addr
}

// Listen resolves the configured endpoint, binds and listens.
// Disconnected -> Listening.
func (s *runtime) Listen() liberr.Error {
	if s.Status() != transport.StatusDisconnected {
		return ErrorInvalidState.Error(nil)
	}

	var ln transport.Listener
	var lerr liberr.Error

	if s.cfg.tlsEnabled() {
		ln, lerr = transport.ListenTLS(s.cfg.Endpoint, s.cfg.Backlog, s.cfg.TLS, s.cfg.ServerName)
	} else {
		ln, lerr = transport.ListenTCP(s.cfg.Endpoint, s.cfg.Backlog)
	}
	if lerr != nil {
		return ErrorListen.Error(lerr)
	}

	s.ln = ln
	s.addr = ln.Addr().String()
	s.status.Store(int32(transport.StatusListening))
	return nil
}

// Start spawns the accept loop, in event-loop mode if cfg.EventLoopKind is
// set, or the one-thread-per-connection fallback otherwise.
// Listening -> Connected.
func (s *runtime) Start() liberr.Error {
	if s.Status() != transport.StatusListening {
		return ErrorInvalidState.Error(nil)
	}

	s.wp = workerpool.New[struct{}](s.cfg.WorkerPoolSize)

	var lerr liberr.Error
	if s.cfg.EventLoopKind != 0 {
		lerr = s.startEventLoopMode()
	} else {
		lerr = s.startFallbackMode()
	}
	if lerr != nil {
		return lerr
	}

	s.status.Store(int32(transport.StatusConnected))
	return nil
}

// Close is legal and idempotent from any non-Disconnected state. Ordering
// is strict: signal-stop, join the accept thread, fan the pool drain and
// the event-loop teardown out through an errgroup (the two touch disjoint
// descriptor sets and have nothing left to race on once the accept thread
// has joined), stop the worker pool once that fan-in settles, close the
// listen fd — guaranteeing no worker is handed a freshly closed descriptor.
// The status moves to Disconnected before any of this, so a repeated Close
// returns at once.
func (s *runtime) Close() liberr.Error {
	old := transport.Status(s.status.Swap(int32(transport.StatusDisconnected)))
	if old == transport.StatusDisconnected {
		return nil
	}

	close(s.stopCh)
	s.acceptWG.Wait()

	err := ErrorShutdown.Error(nil)

	var grp errgroup.Group

	grp.Go(func() error {
		if perr := s.pool.CloseAll(); perr != nil {
			return perr
		}
		return nil
	})

	grp.Go(func() error {
		if s.loop == nil {
			return nil
		}
		if lerr := s.loop.Close(); lerr != nil {
			return lerr
		}
		return nil
	})

	if gerr := grp.Wait(); gerr != nil {
		err.Add(gerr)
	}

	if s.wp != nil {
		s.wp.Stop()
	}

	if s.ln != nil {
		if lerr := s.ln.Close(); lerr != nil {
			err.Add(lerr)
		}
	}

	if err.HasParent() {
		return err
	}

	return nil
}

// startEventLoopMode registers the listening fd for READ on a fresh
// eventloop.Loop of the configured kind; accept produces a RemoteTarget
// whose own fd is in turn registered, so later readiness fires on_read
// through the worker pool.
func (s *runtime) startEventLoopMode() liberr.Error {
	loop, lerr := eventloop.New(s.cfg.EventLoopKind)
	if lerr != nil {
		return ErrorEventLoop.Error(lerr)
	}

	lnFD, ferr := s.ln.FD()
	if ferr != nil {
		return ErrorEventLoop.Error(ferr)
	}

	if aerr := loop.AddEvent(eventloop.Event{
		FD: lnFD,
		Handler: eventloop.Handler{
			OnRead: func(int) { s.acceptOne() },
		},
	}); aerr != nil {
		return ErrorEventLoop.Error(aerr)
	}

	s.loop = loop
	s.acceptWG.Add(1)

	go func() {
		defer s.acceptWG.Done()

		for {
			select {
			case <-s.stopCh:
				return
			default:
			}

			if werr := loop.WaitForEvents(time.Second); werr != nil {
				metrics.acceptErr.WithLabelValues(s.addr).Inc()
			}
		}
	}()

	return nil
}

// acceptTarget accepts one connection, captures its fd, inserts it into the
// pool and updates metrics, returning nil if anything along the way fails
// (the failure itself is already accounted for). Shared by both accept-loop
// modes.
func (s *runtime) acceptTarget() *remote.Target {
	conn, aerr := s.ln.Accept()
	if aerr != nil {
		metrics.acceptErr.WithLabelValues(s.addr).Inc()
		return nil
	}

	fd, ferr := conn.FD()
	if ferr != nil {
		_ = conn.Close()
		return nil
	}

	target := remote.NewTarget(fd, conn)
	if ierr := s.pool.Insert(target); ierr != nil {
		_ = conn.Close()
		return nil
	}

	metrics.accepted.WithLabelValues(s.addr).Inc()
	metrics.activeConns.WithLabelValues(s.addr).Inc()

	if s.hooks.OnAccept != nil {
		s.hooks.OnAccept(target)
	}

	return target
}

// acceptOne is the event-loop-mode READ handler for the listening fd.
func (s *runtime) acceptOne() {
	target := s.acceptTarget()
	if target == nil {
		return
	}

	fd := target.FD()

	_ = s.loop.AddEvent(eventloop.Event{
		FD: fd,
		Handler: eventloop.Handler{
			OnRead:  func(int) { s.dispatchRead(target) },
			OnError: func(_ int, e error) { s.dispatchError(target, e) },
		},
	})

	if s.hooks.OnStart != nil {
		s.hooks.OnStart(target)
	}
}

// dispatchRead submits on_read to the worker pool so accept is never
// blocked by handler work. The target's descriptor is removed from the
// event loop while its handler runs and registered again once it returns,
// so at most one on_read task is in flight per target. If the pool already
// stopped (shutdown grace), it degrades to a direct call on the caller's
// goroutine instead of dropping the notification.
func (s *runtime) dispatchRead(t *remote.Target) {
	if s.hooks.OnRead == nil {
		return
	}

	_ = s.loop.RemoveEvent(t.FD())

	run := func() (struct{}, error) {
		s.hooks.OnRead(t)
		if t.Active() {
			_ = s.loop.AddEvent(eventloop.Event{FD: t.FD(), Handler: eventloop.Handler{
				OnRead:  func(int) { s.dispatchRead(t) },
				OnError: func(_ int, e error) { s.dispatchError(t, e) },
			}})
		}
		return struct{}{}, nil
	}

	if _, err := s.wp.Submit(run); err != nil {
		metrics.submitErr.WithLabelValues(s.addr).Inc()
		_, _ = run()
	}
}

func (s *runtime) dispatchError(t *remote.Target, e error) {
	if s.hooks.OnError != nil {
		s.hooks.OnError(t, e)
	}

	if s.loop != nil {
		_ = s.loop.RemoveEvent(t.FD())
	}

	if s.pool.Lookup(t.FD()) != nil {
		_ = s.pool.Remove(t.FD())
		metrics.activeConns.WithLabelValues(s.addr).Dec()
	}
}

// startFallbackMode uses a Select-backed eventloop.Loop purely to wait on
// the listening descriptor with a responsive-shutdown timeout, exactly as
// the no-event-loop mode describes; each accepted connection is then
// consumed to completion by a single worker-pool task.
func (s *runtime) startFallbackMode() liberr.Error {
	selLoop, lerr := eventloop.New(eventloop.KindSelect)
	if lerr != nil {
		return ErrorEventLoop.Error(lerr)
	}

	lnFD, ferr := s.ln.FD()
	if ferr != nil {
		return ErrorEventLoop.Error(ferr)
	}

	ready := make(chan struct{}, 1)
	if aerr := selLoop.AddEvent(eventloop.Event{
		FD: lnFD,
		Handler: eventloop.Handler{
			OnRead: func(int) {
				select {
				case ready <- struct{}{}:
				default:
				}
			},
		},
	}); aerr != nil {
		return ErrorEventLoop.Error(aerr)
	}

	s.loop = selLoop
	s.acceptWG.Add(1)

	go func() {
		defer s.acceptWG.Done()

		for {
			select {
			case <-s.stopCh:
				return
			default:
			}

			if werr := selLoop.WaitForEvents(time.Second); werr != nil {
				metrics.acceptErr.WithLabelValues(s.addr).Inc()
				continue
			}

			select {
			case <-ready:
				s.acceptAndConsume()
			default:
			}
		}
	}()

	return nil
}

// acceptAndConsume submits one task per connection that blocks reading
// until the peer closes or errors, invoking on_read per chunk — the
// thread-per-connection model the fallback mode describes.
func (s *runtime) acceptAndConsume() {
	target := s.acceptTarget()
	if target == nil {
		return
	}

	if s.hooks.OnStart != nil {
		s.hooks.OnStart(target)
	}

	conn := target.Transport()

	consume := func() (struct{}, error) {
		buf := make([]byte, 4096)
		for {
			_, rerr := conn.Read(buf)
			if rerr != nil {
				if s.hooks.OnError != nil {
					s.hooks.OnError(target, rerr)
				}
				break
			}
			if s.hooks.OnRead != nil {
				s.hooks.OnRead(target)
			}
		}

		if s.pool.Lookup(target.FD()) != nil {
			_ = s.pool.Remove(target.FD())
			metrics.activeConns.WithLabelValues(s.addr).Dec()
		}

		return struct{}{}, nil
	}

	if _, err := s.wp.Submit(consume); err != nil {
		metrics.submitErr.WithLabelValues(s.addr).Inc()
		go func() { _, _ = consume() }()
	}
}
