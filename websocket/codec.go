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

import "encoding/binary"

// Codec accumulates bytes read off the wire and emits exactly one
// complete frame per Read call, leaving any surplus buffered for the
// next one. It mirrors httpcodec.Codec's push/take shape but for the
// single frame direction a connection needs once upgraded.
type Codec struct {
	buf       []byte
	completed *Frame
}

// NewCodec returns a ready-to-use Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Push feeds a chunk of bytes read from the wire into the parser.
func (c *Codec) Push(chunk []byte) {
	c.buf = append(c.buf, chunk...)
	if c.completed == nil {
		c.drive()
	}
}

// Read returns at most one completed frame per call. ok is false if no
// frame has finished parsing yet.
func (c *Codec) Read() (Frame, bool) {
	if c.completed == nil {
		return Frame{}, false
	}

	f := *c.completed
	c.completed = nil
	c.drive()
	return f, true
}

func (c *Codec) drive() {
	for c.completed == nil {
		if !c.tryParseOne() {
			return
		}
	}
}

// tryParseOne computes the required header size from the first two
// bytes, waits for the full header plus the declared payload length to
// be buffered, then slices out exactly one frame and unmasks its
// payload if masked.
func (c *Codec) tryParseOne() bool {
	if len(c.buf) < 2 {
		return false
	}

	b0 := c.buf[0]
	b1 := c.buf[1]

	fin := b0&0x80 != 0
	opcode := Opcode(b0 & 0x0F)
	masked := b1&0x80 != 0
	lenField := b1 & 0x7F

	headerLen := 2
	var payloadLen uint64

	switch {
	case lenField < 126:
		payloadLen = uint64(lenField)
	case lenField == 126:
		headerLen += 2
		if len(c.buf) < headerLen {
			return false
		}
		payloadLen = uint64(binary.BigEndian.Uint16(c.buf[2:4]))
	default:
		headerLen += 8
		if len(c.buf) < headerLen {
			return false
		}
		payloadLen = binary.BigEndian.Uint64(c.buf[2:10])
	}

	maskOffset := headerLen
	if masked {
		headerLen += 4
	}
	if len(c.buf) < headerLen {
		return false
	}

	total := headerLen + int(payloadLen)
	if len(c.buf) < total {
		return false
	}

	payload := make([]byte, payloadLen)
	copy(payload, c.buf[headerLen:total])

	var maskKey [4]byte
	if masked {
		copy(maskKey[:], c.buf[maskOffset:maskOffset+4])
		applyMask(payload, maskKey)
	}

	f := Frame{Fin: fin, Opcode: opcode, Masked: masked, Mask: maskKey, Payload: payload}
	c.completed = &f

	carry := make([]byte, len(c.buf)-total)
	copy(carry, c.buf[total:])
	c.buf = carry

	return true
}
