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
	"net"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-uuid"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/transport"
)

// Target is one accepted peer: its transport, a descriptor for pool
// keying, a session identifier stable across the target's lifetime (fd
// values get reused by the kernel the moment a descriptor closes, so
// anything that outlives the accept/close pair - logs, metrics labels,
// hooks fired after removal - needs a handle fd reuse can't collide with),
// an atomic active flag, and a mutex making close_remote idempotent and
// mutually exclusive with itself.
type Target struct {
	fd     int
	id     string
	tr     transport.Transport
	active atomic.Bool
	mu     sync.Mutex
}

// NewTarget wraps an already-accepted transport as a pool-ready Target.
// The caller must have already obtained fd via tr.FD().
func NewTarget(fd int, tr transport.Transport) *Target {
	id, _ := uuid.GenerateUUID()

	t := &Target{fd: fd, id: id, tr: tr}
	t.active.Store(true)
	return t
}

func (t *Target) FD() int {
	return t.fd
}

// ID returns the target's session identifier, generated once at accept
// time and stable for the lifetime of the Target regardless of fd reuse.
func (t *Target) ID() string {
	return t.id
}

func (t *Target) Transport() transport.Transport {
	return t.tr
}

func (t *Target) Active() bool {
	return t.active.Load()
}

func (t *Target) RemoteAddr() net.Addr {
	return t.tr.RemoteAddr()
}

// Handshaked reports the TLS handshake state for TLS targets, and true for
// any non-TLS transport (there is nothing to wait on).
func (t *Target) Handshaked() bool {
	type handshaker interface {
		Handshaked() bool
	}

	if h, ok := t.tr.(handshaker); ok {
		return h.Handshaked()
	}

	return true
}

// Close is close_remote: idempotent, mutually exclusive with itself, and
// guaranteed to release the descriptor exactly once.
func (t *Target) Close() liberr.Error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active.CompareAndSwap(true, false) {
		return nil
	}

	return t.tr.Close()
}
