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
	"encoding/binary"
	"io"

	liberr "github.com/nabbar/netkit/errors"
)

// Frame is one RFC 6455 WebSocket frame. Mask is only meaningful when
// Masked is true; on a parsed frame Payload is already unmasked.
type Frame struct {
	Fin     bool
	Opcode  Opcode
	Masked  bool
	Mask    [4]byte
	Payload []byte
}

// applyMask XORs data in place against the 4-byte mask key, cycling the
// key every 4 bytes per RFC 6455 §5.3.
func applyMask(data []byte, key [4]byte) {
	for i := range data {
		data[i] ^= key[i%4]
	}
}

// WriteFrame serializes f onto w: the fixed 2-byte prefix, the 2- or
// 8-byte extended length if the payload doesn't fit in 7 bits, the
// 4-byte mask if f.Masked, then the payload. Masking client-originated
// frames and leaving server-originated frames unmasked is the caller's
// responsibility, not this codec's.
func WriteFrame(w io.Writer, f Frame) liberr.Error {
	var b0 byte
	if f.Fin {
		b0 |= 0x80
	}
	b0 |= byte(f.Opcode) & 0x0F

	var header []byte
	length := len(f.Payload)

	var b1 byte
	if f.Masked {
		b1 |= 0x80
	}

	switch {
	case length < 126:
		b1 |= byte(length)
		header = []byte{b0, b1}
	case length < 65536:
		b1 |= 126
		header = make([]byte, 4)
		header[0], header[1] = b0, b1
		binary.BigEndian.PutUint16(header[2:4], uint16(length))
	default:
		b1 |= 127
		header = make([]byte, 10)
		header[0], header[1] = b0, b1
		binary.BigEndian.PutUint64(header[2:10], uint64(length))
	}

	if f.Masked {
		header = append(header, f.Mask[:]...)
	}

	if _, err := w.Write(header); err != nil {
		return ErrorFrameWrite.Error(err)
	}

	payload := f.Payload
	if f.Masked {
		masked := make([]byte, len(payload))
		copy(masked, payload)
		applyMask(masked, f.Mask)
		payload = masked
	}

	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return ErrorFrameWrite.Error(err)
		}
	}

	return nil
}
