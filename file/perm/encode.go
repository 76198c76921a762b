/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package perm

import (
	"encoding/json"
)

// MarshalJSON returns the JSON encoding of p.
//
// The JSON encoding is a simple string encoding of the Perm value,
// surrounded by double quotes.
//
// The returned bytes are valid JSON.
//
// The function does not return an error.
func (p Perm) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses a JSON encoding of a file permission into a Perm.
// The JSON encoding is expected to be a simple string encoding of the Perm value,
// surrounded by double quotes.
//
// The function returns an error if the JSON encoding is not a valid file permission.
//
// The function does not return an error if the JSON encoding is valid.
func (p *Perm) UnmarshalJSON(b []byte) error {
	return p.unmarshall(b)
}

// MarshalText returns the text encoding of p.
//
// The text encoding is a simple string encoding of the Perm value.
//
// The returned bytes are valid text.
//
// The function does not return an error.
func (p Perm) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a text encoding of a file permission into a Perm.
//
// The text encoding is expected to be a simple string encoding of the Perm value.
//
// The function returns an error if the text encoding is not a valid file permission.
//
// The function does not return an error if the text encoding is valid.
func (p *Perm) UnmarshalText(b []byte) error {
	return p.unmarshall(b)
}
