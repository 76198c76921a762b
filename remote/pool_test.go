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

package remote_test

import (
	"context"
	"net"
	"strconv"

	"github.com/nabbar/netkit/remote"
	"github.com/nabbar/netkit/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newLoopbackTarget() *remote.Target {
	ln, lerr := transport.ListenTCP(transport.NewEndpoint("127.0.0.1", "0"), 10)
	Expect(lerr).ToNot(HaveOccurred())

	a := ln.Addr().(*net.TCPAddr)
	accepted := make(chan transport.Transport, 1)
	go func() {
		c, e := ln.Accept()
		Expect(e).ToNot(HaveOccurred())
		accepted <- c
	}()

	cli, cerr := transport.DialTCP(context.Background(), transport.NewEndpoint("127.0.0.1", strconv.Itoa(a.Port)))
	Expect(cerr).ToNot(HaveOccurred())

	srv := <-accepted
	_ = ln.Close()
	_ = cli.Close()

	fd, ferr := srv.FD()
	Expect(ferr).ToNot(HaveOccurred())

	return remote.NewTarget(fd, srv)
}

var _ = Describe("Pool", func() {
	It("tracks at most one target per descriptor", func() {
		p := remote.NewPool()
		t := newLoopbackTarget()

		Expect(p.Insert(t)).ToNot(HaveOccurred())
		Expect(p.Insert(t)).To(HaveOccurred())
		Expect(p.Len()).To(Equal(1))
		Expect(p.Lookup(t.FD())).To(Equal(t))
	})

	It("Remove implies Close", func() {
		p := remote.NewPool()
		t := newLoopbackTarget()

		Expect(p.Insert(t)).ToNot(HaveOccurred())
		Expect(p.Remove(t.FD())).ToNot(HaveOccurred())
		Expect(t.Active()).To(BeFalse())
		Expect(p.Len()).To(Equal(0))
	})

	It("Remove on an unknown descriptor is not an error", func() {
		p := remote.NewPool()
		Expect(p.Remove(99999)).ToNot(HaveOccurred())
	})

	It("CloseAll drains and closes every target", func() {
		p := remote.NewPool()
		t1 := newLoopbackTarget()
		t2 := newLoopbackTarget()

		Expect(p.Insert(t1)).ToNot(HaveOccurred())
		Expect(p.Insert(t2)).ToNot(HaveOccurred())

		Expect(p.CloseAll()).ToNot(HaveOccurred())
		Expect(p.Len()).To(Equal(0))
		Expect(t1.Active()).To(BeFalse())
		Expect(t2.Active()).To(BeFalse())
	})
})
