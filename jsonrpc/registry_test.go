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

package jsonrpc_test

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nabbar/jrpc/jsonrpc"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Method registry", func() {
	var reg *jsonrpc.Registry

	BeforeEach(func() {
		reg = jsonrpc.NewRegistry(3)
	})

	It("looks up a registered method", func() {
		Expect(reg.Register("echo", func(p json.RawMessage) jsonrpc.Result {
			return jsonrpc.Raw(p)
		})).To(BeTrue())

		h, ok := reg.Lookup("echo")
		Expect(ok).To(BeTrue())
		Expect(h).ToNot(BeNil())
	})

	It("reports no handler for an unknown method", func() {
		_, ok := reg.Lookup("nope")
		Expect(ok).To(BeFalse())
	})

	It("is silent on an empty name or nil handler", func() {
		Expect(reg.Register("", func(json.RawMessage) jsonrpc.Result { return jsonrpc.NoResult })).To(BeFalse())
		Expect(reg.Register("x", nil)).To(BeFalse())
		Expect(reg.Len()).To(Equal(0))
	})

	It("replaces the handler for an existing name without affecting the bound", func() {
		Expect(reg.Register("add", func(json.RawMessage) jsonrpc.Result { return jsonrpc.Of(1) })).To(BeTrue())
		Expect(reg.Register("add", func(json.RawMessage) jsonrpc.Result { return jsonrpc.Of(2) })).To(BeTrue())
		Expect(reg.Len()).To(Equal(1))

		h, ok := reg.Lookup("add")
		Expect(ok).To(BeTrue())
		Expect(h(nil).Value).To(MatchJSON(`2`))
	})

	It("silently ignores a new name once at capacity", func() {
		for i := 0; i < 3; i++ {
			name := fmt.Sprintf("m%d", i)
			Expect(reg.Register(name, func(json.RawMessage) jsonrpc.Result { return jsonrpc.NoResult })).To(BeTrue())
		}
		Expect(reg.Register("overflow", func(json.RawMessage) jsonrpc.Result { return jsonrpc.NoResult })).To(BeFalse())
		Expect(reg.Len()).To(Equal(3))

		// re-registering an existing name still succeeds once at capacity
		Expect(reg.Register("m0", func(json.RawMessage) jsonrpc.Result { return jsonrpc.Of("replaced") })).To(BeTrue())
	})

	It("drains every stored entry on teardown", func() {
		Expect(reg.Register("echo", func(p json.RawMessage) jsonrpc.Result { return jsonrpc.Raw(p) })).To(BeTrue())
		reg.Drain()
		Expect(reg.Len()).To(Equal(0))
		_, ok := reg.Lookup("echo")
		Expect(ok).To(BeFalse())
	})

	It("keeps exactly one entry under concurrent registrations of the same name", func() {
		reg = jsonrpc.NewRegistry(10)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				reg.Register("multi", func(json.RawMessage) jsonrpc.Result { return jsonrpc.Of(i) })
			}()
		}
		wg.Wait()

		h, ok := reg.Lookup("multi")
		Expect(ok).To(BeTrue())
		Expect(h).ToNot(BeNil())
		Expect(reg.Len()).To(Equal(1))
	})
})
