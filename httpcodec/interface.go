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

// Request is a parsed or to-be-serialized HTTP request. Header keys are
// lowercased on parse and written back verbatim as given on serialize.
type Request struct {
	Method  Method
	URL     string
	Version string
	Header  map[string]string
	Body    []byte
}

// Response is a parsed or to-be-serialized HTTP response.
type Response struct {
	Version string
	Status  int
	Reason  string
	Header  map[string]string
	Body    []byte
}

// Codec holds two independent streaming parsers, one for inbound requests
// and one for inbound responses, so a single instance can serve both an
// HTTP server role and an HTTP client role.
type Codec struct {
	req messageParser
	res messageParser
}

// NewCodec returns a ready-to-use Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// PushRequest feeds a chunk of bytes read from the wire into the inbound
// request parser. The surplus left after a completed message is re-pushed
// internally so pipelined follow-on requests remain visible to ReadRequest.
func (c *Codec) PushRequest(chunk []byte) {
	c.req.push(chunk)
}

// PushResponse feeds a chunk of bytes read from the wire into the inbound
// response parser.
func (c *Codec) PushResponse(chunk []byte) {
	c.res.push(chunk)
}

// ReadRequest returns at most one completed request per call. ok is false
// if no request has finished parsing yet.
func (c *Codec) ReadRequest() (Request, bool) {
	msg, ok := c.req.take()
	if !ok {
		return Request{}, false
	}

	return Request{
		Method:  ParseMethod(msg.startA),
		URL:     msg.startB,
		Version: msg.startC,
		Header:  msg.header,
		Body:    msg.body,
	}, true
}

// ReadResponse returns at most one completed response per call.
func (c *Codec) ReadResponse() (Response, bool) {
	msg, ok := c.res.take()
	if !ok {
		return Response{}, false
	}

	status := parseStatus(msg.startB)

	return Response{
		Version: msg.startA,
		Status:  status,
		Reason:  msg.startC,
		Header:  msg.header,
		Body:    msg.body,
	}, true
}
