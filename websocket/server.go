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

package websocket

import (
	"bytes"
	"context"
	"strings"
	"sync"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/httpcodec"
	"github.com/nabbar/netkit/remote"
	"github.com/nabbar/netkit/server"
)

// Server extends an HTTP server runtime with an allowlist of upgrade
// paths. A connection starts in HTTP mode; once a request to an allowed
// path carrying the upgrade headers is seen, the descriptor is marked
// upgraded and every subsequent read is routed through the frame codec
// instead of the HTTP codec.
type Server interface {
	// AllowedPath registers path as upgrade-eligible.
	AllowedPath(path string)

	// SetHandler installs the per-frame handler invoked for every
	// inbound data frame on an upgraded connection.
	SetHandler(h Handler)

	GetBindable() string

	Listen() liberr.Error
	Shutdown() liberr.Error
	Restart() liberr.Error
	WaitNotify(ctx context.Context) liberr.Error
}

func NewServer(cfg ServerConfig) (Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &wsServer{
		cfg:     cfg,
		allowed: make(map[string]bool),
	}, nil
}

type connState struct {
	httpCodec *httpcodec.Codec
	wsCodec   *Codec
	path      string
	upgraded  bool
}

type wsServer struct {
	cfg     ServerConfig
	allowed map[string]bool
	handler Handler

	mu    sync.Mutex
	rt    server.Server
	conns map[int]*connState
}

func (o *wsServer) AllowedPath(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.allowed[path] = true
}

func (o *wsServer) SetHandler(h Handler) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.handler = h
}

func (o *wsServer) GetBindable() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rt == nil {
		return ""
	}
	return o.rt.Addr()
}

func (o *wsServer) Listen() liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.conns = make(map[int]*connState)

	rt := server.New(server.Config{
		Endpoint:       o.cfg.Endpoint,
		Backlog:        o.cfg.Backlog,
		EventLoopKind:  o.cfg.EventLoopKind,
		WorkerPoolSize: o.cfg.WorkerPoolSize,
		TLS:            o.cfg.TLS,
		ServerName:     o.cfg.ServerName,
	}, server.Hooks{
		OnRead:  o.onRead,
		OnError: o.onError,
	})

	if lerr := rt.Listen(); lerr != nil {
		return lerr
	}
	if lerr := rt.Start(); lerr != nil {
		return lerr
	}

	o.rt = rt
	return nil
}

func (o *wsServer) Shutdown() liberr.Error {
	o.mu.Lock()
	rt := o.rt
	o.mu.Unlock()

	if rt == nil {
		return nil
	}
	return rt.Close()
}

func (o *wsServer) Restart() liberr.Error {
	if lerr := o.Shutdown(); lerr != nil {
		return lerr
	}
	return o.Listen()
}

func (o *wsServer) WaitNotify(ctx context.Context) liberr.Error {
	<-ctx.Done()
	return o.Shutdown()
}

func (o *wsServer) onRead(t *remote.Target) {
	state := o.stateFor(t.FD())

	buf := make([]byte, readChunkSize)
	n, rerr := t.Transport().Read(buf)
	if rerr != nil {
		return
	}

	if state.upgraded {
		o.readFrames(t, state, buf[:n])
		return
	}

	o.readHandshake(t, state, buf[:n])
}

func (o *wsServer) onError(t *remote.Target, _ error) {
	o.mu.Lock()
	delete(o.conns, t.FD())
	o.mu.Unlock()
}

func (o *wsServer) stateFor(fd int) *connState {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.conns[fd]
	if !ok {
		s = &connState{httpCodec: httpcodec.NewCodec()}
		o.conns[fd] = s
	}
	return s
}

// readHandshake drives the HTTP codec until one request completes, then
// either upgrades the connection or rejects it with a synthesized
// status response. A non-GET request or a path outside the allowlist is
// answered with 404; a request without the required upgrade headers is
// answered with 400. Either way the connection stays in HTTP mode for the
// next request.
func (o *wsServer) readHandshake(t *remote.Target, state *connState, chunk []byte) {
	state.httpCodec.PushRequest(chunk)

	for {
		req, ok := state.httpCodec.ReadRequest()
		if !ok {
			return
		}

		res, key, allowed := o.validateUpgrade(req)
		if !allowed {
			o.writeHTTP(t, state.httpCodec, res)
			continue
		}

		accept := AcceptKey(key)
		res = httpcodec.Response{
			Status: httpcodec.StatusSwitchingProtocols,
			Header: map[string]string{
				"Upgrade":              "websocket",
				"Connection":           "Upgrade",
				"Sec-WebSocket-Accept": accept,
			},
		}
		if !o.writeHTTP(t, state.httpCodec, res) {
			return
		}

		o.mu.Lock()
		state.upgraded = true
		state.wsCodec = NewCodec()
		state.path = req.URL
		o.mu.Unlock()
		return
	}
}

func (o *wsServer) validateUpgrade(req httpcodec.Request) (httpcodec.Response, string, bool) {
	o.mu.Lock()
	allowed := o.allowed[req.URL]
	o.mu.Unlock()

	if !allowed || req.Method != httpcodec.GET {
		return httpcodec.Response{Status: httpcodec.StatusNotFound}, "", false
	}

	if !headerEqualFold(req.Header, "upgrade", "websocket") {
		return httpcodec.Response{Status: httpcodec.StatusBadRequest}, "", false
	}

	key, ok := lookupHeader(req.Header, "sec-websocket-key")
	if !ok || key == "" {
		return httpcodec.Response{Status: httpcodec.StatusBadRequest}, "", false
	}

	return httpcodec.Response{}, key, true
}

func (o *wsServer) writeHTTP(t *remote.Target, codec *httpcodec.Codec, res httpcodec.Response) bool {
	var out bytes.Buffer
	if werr := codec.WriteResponse(&out, res); werr != nil {
		return false
	}
	if _, werr := t.Transport().Write(out.Bytes()); werr != nil {
		return false
	}
	return true
}

// readFrames drives the frame codec and dispatches every completed
// frame: control frames are handled inline (PING answered with PONG,
// CLOSE answered with an echoed CLOSE before the transport is torn
// down), data frames are routed to the user handler.
func (o *wsServer) readFrames(t *remote.Target, state *connState, chunk []byte) {
	state.wsCodec.Push(chunk)

	for {
		f, ok := state.wsCodec.Read()
		if !ok {
			return
		}

		if f.Opcode.IsControl() {
			if !o.dispatchControl(t, f) {
				o.mu.Lock()
				delete(o.conns, t.FD())
				o.mu.Unlock()
				_ = t.Transport().Close()
				return
			}
			continue
		}

		o.mu.Lock()
		h := o.handler
		o.mu.Unlock()

		if h == nil {
			continue
		}

		res := Frame{}
		h(f, &res, state.path)

		if len(res.Payload) == 0 && res.Opcode == OpContinuation {
			continue
		}
		res.Fin = true
		_ = o.writeFrame(t, res)
	}
}

// dispatchControl answers PING with PONG and CLOSE with an echoed
// CLOSE, returning false when the caller must tear the connection down.
func (o *wsServer) dispatchControl(t *remote.Target, f Frame) bool {
	switch f.Opcode {
	case OpPing:
		_ = o.writeFrame(t, Frame{Fin: true, Opcode: OpPong, Payload: f.Payload})
		return true
	case OpClose:
		_ = o.writeFrame(t, Frame{Fin: true, Opcode: OpClose, Payload: f.Payload})
		return false
	default:
		return true
	}
}

// writeFrame writes a server-originated frame, which must not be masked.
func (o *wsServer) writeFrame(t *remote.Target, f Frame) liberr.Error {
	f.Masked = false
	var buf bytes.Buffer
	if werr := WriteFrame(&buf, f); werr != nil {
		return werr
	}
	if _, werr := t.Transport().Write(buf.Bytes()); werr != nil {
		return ErrorFrameWrite.Error(werr)
	}
	return nil
}

func headerEqualFold(header map[string]string, key, value string) bool {
	v, ok := lookupHeader(header, key)
	return ok && strings.EqualFold(v, value)
}

func lookupHeader(header map[string]string, key string) (string, bool) {
	for k, v := range header {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
