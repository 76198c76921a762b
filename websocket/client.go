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
	"crypto/rand"
	"sync"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/httpcodec"
	"github.com/nabbar/netkit/transport"
)

const readChunkSize = 1024

// Client is a WebSocket client built around a TCP or TLS transport. It
// starts in HTTP mode; Upgrade retires the HTTP codec and switches
// ReadFrame/WriteFrame to the raw frame codec over the same connection.
type Client interface {
	Dial() liberr.Error
	Close() liberr.Error

	// Upgrade sends req as an HTTP GET with the WebSocket upgrade
	// headers, waits for a 101 response, and switches the connection
	// into frame mode. header may carry additional application headers;
	// a Sec-WebSocket-Key is generated if not already present in it.
	Upgrade(path string, header map[string]string) liberr.Error

	ReadFrame() (Frame, liberr.Error)
	WriteFrame(f Frame) liberr.Error
}

func New(cfg Config) Client {
	return &client{cfg: cfg}
}

type client struct {
	cfg Config

	mu       sync.Mutex
	tr       transport.Transport
	upgraded bool
	codec    *Codec
}

func (c *client) Dial() liberr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var tr transport.Transport
	var terr liberr.Error

	if c.cfg.tlsEnabled() {
		tr, terr = transport.DialTLS(context.Background(), c.cfg.Endpoint, c.cfg.TLS, c.cfg.ServerName)
	} else {
		tr, terr = transport.DialTCP(context.Background(), c.cfg.Endpoint)
	}
	if terr != nil {
		return terr
	}

	c.tr = tr
	c.codec = NewCodec()
	return nil
}

func (c *client) Close() liberr.Error {
	c.mu.Lock()
	tr := c.tr
	c.tr = nil
	c.mu.Unlock()

	if tr == nil {
		return nil
	}
	return tr.Close()
}

func (c *client) Upgrade(path string, header map[string]string) liberr.Error {
	c.mu.Lock()
	tr := c.tr
	c.mu.Unlock()

	if tr == nil {
		return ErrorNotConnected.Error(nil)
	}

	hdr := map[string]string{}
	for k, v := range header {
		hdr[k] = v
	}
	hdr["Upgrade"] = "websocket"
	hdr["Connection"] = "Upgrade"
	hdr["Sec-WebSocket-Version"] = "13"
	if _, ok := hdr["Sec-WebSocket-Key"]; !ok {
		hdr["Sec-WebSocket-Key"] = GenerateKey()
	}

	req := httpcodec.Request{Method: httpcodec.GET, URL: path, Header: hdr}

	hc := httpcodec.NewCodec()

	var buf bytes.Buffer
	if werr := hc.WriteRequest(&buf, req); werr != nil {
		return werr
	}
	if _, werr := tr.Write(buf.Bytes()); werr != nil {
		return ErrorHandshakeWrite.Error(werr)
	}

	rbuf := make([]byte, readChunkSize)
	var res httpcodec.Response

	for {
		n, rerr := tr.Read(rbuf)
		if rerr != nil {
			return ErrorHandshakeRead.Error(rerr)
		}
		hc.PushResponse(rbuf[:n])
		if r, ok := hc.ReadResponse(); ok {
			res = r
			break
		}
	}

	if res.Status != httpcodec.StatusSwitchingProtocols {
		return ErrorHandshakeRejected.Error(nil)
	}

	c.mu.Lock()
	c.upgraded = true
	c.mu.Unlock()
	return nil
}

// WriteFrame masks f's payload with a freshly generated key before
// writing it: client-originated frames must be masked per RFC 6455.
func (c *client) WriteFrame(f Frame) liberr.Error {
	c.mu.Lock()
	tr := c.tr
	upgraded := c.upgraded
	c.mu.Unlock()

	if tr == nil || !upgraded {
		return ErrorNotConnected.Error(nil)
	}

	var mask [4]byte
	_, _ = rand.Read(mask[:])
	f.Masked = true
	f.Mask = mask

	var buf bytes.Buffer
	if werr := WriteFrame(&buf, f); werr != nil {
		return werr
	}
	if _, werr := tr.Write(buf.Bytes()); werr != nil {
		return ErrorFrameWrite.Error(werr)
	}
	return nil
}

func (c *client) ReadFrame() (Frame, liberr.Error) {
	c.mu.Lock()
	tr := c.tr
	upgraded := c.upgraded
	codec := c.codec
	c.mu.Unlock()

	if tr == nil || !upgraded {
		return Frame{}, ErrorNotConnected.Error(nil)
	}

	if f, ok := codec.Read(); ok {
		return f, nil
	}

	buf := make([]byte, readChunkSize)
	for {
		n, rerr := tr.Read(buf)
		if rerr != nil {
			return Frame{}, ErrorFrameRead.Error(rerr)
		}

		codec.Push(buf[:n])
		if f, ok := codec.Read(); ok {
			return f, nil
		}
	}
}
