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

	"github.com/nabbar/jrpc/jsonrpc"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Wire codec", func() {
	Describe("EncodeRequest / DecodeRequest", func() {
		It("round-trips a method with object params", func() {
			buf, err := jsonrpc.EncodeRequest("echo", map[string]string{"message": "hello"})
			Expect(err).ToNot(HaveOccurred())

			req, err := jsonrpc.DecodeRequest(buf)
			Expect(err).ToNot(HaveOccurred())
			Expect(req.Method).To(Equal("echo"))

			var params map[string]string
			Expect(json.Unmarshal(req.Params, &params)).To(Succeed())
			Expect(params).To(Equal(map[string]string{"message": "hello"}))
		})

		It("round-trips a method with array params", func() {
			buf, err := jsonrpc.EncodeRequest("add", []int{5, 3})
			Expect(err).ToNot(HaveOccurred())

			req, err := jsonrpc.DecodeRequest(buf)
			Expect(err).ToNot(HaveOccurred())

			var params []int
			Expect(json.Unmarshal(req.Params, &params)).To(Succeed())
			Expect(params).To(Equal([]int{5, 3}))
		})

		It("omits params entirely when nil", func() {
			buf, err := jsonrpc.EncodeRequest("nope", nil)
			Expect(err).ToNot(HaveOccurred())

			req, err := jsonrpc.DecodeRequest(buf)
			Expect(err).ToNot(HaveOccurred())
			Expect(req.Params).To(BeEmpty())
		})

		It("rejects a request missing a method name", func() {
			_, err := jsonrpc.DecodeRequest([]byte(`{"params":{}}`))
			Expect(err).To(HaveOccurred())
		})

		It("rejects malformed JSON as a parse failure", func() {
			_, err := jsonrpc.DecodeRequest([]byte(`{not json`))
			Expect(err).To(HaveOccurred())
		})

		It("rejects a truncated request the same way as malformed JSON", func() {
			full, err := jsonrpc.EncodeRequest("echo", map[string]string{"message": "hello world"})
			Expect(err).ToNot(HaveOccurred())

			_, err = jsonrpc.DecodeRequest(full[:len(full)-5])
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DecodeResponse", func() {
		It("decodes a scalar response", func() {
			v, err := jsonrpc.DecodeResponse([]byte(`8`))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(v)).To(Equal("8"))
		})

		It("decodes an object response", func() {
			v, err := jsonrpc.DecodeResponse([]byte(`{"message":"hello"}`))
			Expect(err).ToNot(HaveOccurred())

			var out map[string]string
			Expect(json.Unmarshal(v, &out)).To(Succeed())
			Expect(out["message"]).To(Equal("hello"))
		})

		It("errors on malformed JSON", func() {
			_, err := jsonrpc.DecodeResponse([]byte(`{bad`))
			Expect(err).To(HaveOccurred())
		})
	})
})
