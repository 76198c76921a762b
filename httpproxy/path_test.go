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

package httpproxy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("forwardedPath", func() {
	It("strips scheme and host from an absolute-form URL", func() {
		Expect(forwardedPath("http://example.com/a/b")).To(Equal("/a/b"))
	})

	It("keeps a bare path unchanged when it has fewer than three slashes", func() {
		Expect(forwardedPath("/a/b")).To(Equal("/a/b"))
	})

	It("returns the root path when the URL ends at the host", func() {
		Expect(forwardedPath("http://example.com/")).To(Equal("/"))
	})
})

var _ = Describe("lookupHost", func() {
	It("matches the Host header case-insensitively", func() {
		Expect(lookupHost(map[string]string{"host": "upstream.local:8080"})).To(Equal("upstream.local:8080"))
		Expect(lookupHost(map[string]string{"Host": "upstream.local:8080"})).To(Equal("upstream.local:8080"))
	})

	It("returns empty when no Host header is present", func() {
		Expect(lookupHost(map[string]string{"accept": "*/*"})).To(Equal(""))
	})
})
