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

package httpcodec

import (
	"bytes"
	"strconv"
	"strings"
)

const (
	phaseHeader = iota
	phaseBody
)

// parsedMessage is the generic three-field start-line plus header/body
// record shared by requests (method, URL, version) and responses
// (version, status, reason) before they're lifted into the public types.
type parsedMessage struct {
	startA, startB, startC string
	header                 map[string]string
	body                   []byte
}

// messageParser is one direction's two-phase streaming state machine.
// Phase 1 accumulates bytes until the CRLFCRLF header delimiter is found;
// phase 2 accumulates exactly content-length body bytes. A completed
// message is held in "completed" until take() consumes it, at which point
// any surplus bytes already buffered are drained into the next message —
// this is how several pipelined messages in one read are each delivered
// on successive calls.
type messageParser struct {
	state int

	headerBuf []byte
	carry     []byte

	startA, startB, startC string
	header                 map[string]string
	contentLen             int
	body                   []byte

	completed *parsedMessage
}

// push feeds a chunk of wire bytes into the state machine. Nothing is
// advanced past a completed, not-yet-consumed message.
func (p *messageParser) push(chunk []byte) {
	if len(chunk) > 0 {
		p.carry = append(p.carry, chunk...)
	}

	if p.completed == nil {
		p.drive()
	}
}

// take returns and clears the pending completed message, if any, and then
// tries to parse the next one from whatever carry-over bytes remain.
func (p *messageParser) take() (parsedMessage, bool) {
	if p.completed == nil {
		return parsedMessage{}, false
	}

	msg := *p.completed
	p.completed = nil
	p.drive()

	return msg, true
}

func (p *messageParser) drive() {
	for p.completed == nil {
		switch p.state {
		case phaseHeader:
			if !p.driveHeader() {
				return
			}
		case phaseBody:
			if !p.driveBody() {
				return
			}
		}
	}
}

func (p *messageParser) driveHeader() bool {
	if len(p.carry) == 0 {
		return false
	}

	oldSize := len(p.headerBuf)
	searchFrom := oldSize - 3
	if searchFrom < 0 {
		searchFrom = 0
	}

	p.headerBuf = append(p.headerBuf, p.carry...)
	p.carry = nil

	idx := indexHeaderEnd(p.headerBuf, searchFrom)
	if idx < 0 {
		return false
	}

	head := p.headerBuf[:idx]
	tail := append([]byte(nil), p.headerBuf[idx+4:]...)
	p.headerBuf = nil

	p.parseStartLineAndHeaders(head)
	p.contentLen = parseContentLength(p.header)
	p.body = tail
	p.state = phaseBody

	return true
}

func (p *messageParser) driveBody() bool {
	if len(p.body) >= p.contentLen {
		surplus := p.body[p.contentLen:]

		p.completed = &parsedMessage{
			startA: p.startA,
			startB: p.startB,
			startC: p.startC,
			header: p.header,
			body:   append([]byte(nil), p.body[:p.contentLen]...),
		}

		if len(surplus) > 0 {
			p.carry = append(append([]byte(nil), surplus...), p.carry...)
		}

		p.startA, p.startB, p.startC = "", "", ""
		p.header = nil
		p.body = nil
		p.contentLen = 0
		p.state = phaseHeader

		return false
	}

	if len(p.carry) == 0 {
		return false
	}

	remaining := p.contentLen - len(p.body)
	take := len(p.carry)
	if take > remaining {
		take = remaining
	}

	p.body = append(p.body, p.carry[:take]...)
	p.carry = p.carry[take:]

	return true
}

func (p *messageParser) parseStartLineAndHeaders(head []byte) {
	lines := bytes.Split(head, []byte("\r\n"))
	if len(lines) == 0 {
		return
	}

	tokens := strings.SplitN(string(lines[0]), " ", 3)
	for len(tokens) < 3 {
		tokens = append(tokens, "")
	}
	p.startA, p.startB, p.startC = tokens[0], tokens[1], tokens[2]

	p.header = make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		if len(line) == 0 {
			continue
		}

		i := bytes.IndexByte(line, ':')
		if i < 0 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(string(line[:i])))
		val := strings.TrimSpace(string(line[i+1:]))
		p.header[key] = val
	}
}

func indexHeaderEnd(buf []byte, from int) int {
	if from > len(buf) {
		from = len(buf)
	}

	idx := bytes.Index(buf[from:], []byte("\r\n\r\n"))
	if idx < 0 {
		return -1
	}

	return from + idx
}

func parseContentLength(header map[string]string) int {
	v, ok := header["content-length"]
	if !ok {
		return 0
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}

	return n
}

func parseStatus(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}
