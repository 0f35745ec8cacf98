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

package server_test

import (
	"context"
	"encoding/json"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/jrpc/jsonrpc"
	"github.com/nabbar/jrpc/server"
)

var _ = Describe("Server request handling", func() {
	var (
		path     string
		cleanup  func()
		srv      *server.Server
		ctx      context.Context
		cancel   context.CancelFunc
	)

	BeforeEach(func() {
		var err error
		path, cleanup = tempSocketPath()

		srv, err = server.New(server.Config{SocketPath: path, BufferSize: 64}, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		srv.Register("echo", func(params json.RawMessage) jsonrpc.Result {
			return jsonrpc.Raw(params)
		})
		srv.Register("add", func(params json.RawMessage) jsonrpc.Result {
			var nums []float64
			if err := json.Unmarshal(params, &nums); err != nil || len(nums) != 2 {
				return jsonrpc.NoResult
			}
			return jsonrpc.Of(nums[0] + nums[1])
		})

		ctx, cancel = context.WithCancel(context.Background())
		Expect(srv.Start(ctx)).To(Succeed())
	})

	AfterEach(func() {
		cancel()
		dctx, dcancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer dcancel()
		_ = srv.Destroy(dctx)
		cleanup()
	})

	It("echoes a request's params back verbatim", func() {
		req, err := jsonrpc.EncodeRequest("echo", map[string]string{"message": "hello"})
		Expect(err).NotTo(HaveOccurred())

		resp, err := dialAndRoundTrip(path, req, 256)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp).To(MatchJSON(`{"message":"hello"}`))
	})

	It("sums two numbers for the add scenario", func() {
		req, err := jsonrpc.EncodeRequest("add", []float64{5, 3})
		Expect(err).NotTo(HaveOccurred())

		resp, err := dialAndRoundTrip(path, req, 256)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(resp)).To(Equal("8"))
	})

	It("writes nothing for a missing method", func() {
		req, err := jsonrpc.EncodeRequest("does-not-exist", nil)
		Expect(err).NotTo(HaveOccurred())

		resp, err := dialAndRoundTrip(path, req, 256)
		Expect(err).To(HaveOccurred())
		Expect(resp).To(BeEmpty())
	})

	It("supports registering a method after Start", func() {
		ok := srv.Register("multiply", func(params json.RawMessage) jsonrpc.Result {
			var nums []float64
			if err := json.Unmarshal(params, &nums); err != nil || len(nums) != 2 {
				return jsonrpc.NoResult
			}
			return jsonrpc.Of(nums[0] * nums[1])
		})
		Expect(ok).To(BeTrue())

		req, err := jsonrpc.EncodeRequest("multiply", []float64{6, 7})
		Expect(err).NotTo(HaveOccurred())

		resp, err := dialAndRoundTrip(path, req, 256)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(resp)).To(Equal("42"))
	})

	It("enforces one-shot-per-connection: a second write on the same socket gets no second response", func() {
		req, err := jsonrpc.EncodeRequest("echo", "first")
		Expect(err).NotTo(HaveOccurred())

		conn, err := net.Dial("unix", path)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write(req)
		Expect(err).NotTo(HaveOccurred())
		buf := make([]byte, 256)
		n, err := conn.Read(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf[:n]).To(MatchJSON(`"first"`))

		// the server has closed its end: the second write either fails or
		// is never answered, and the next read sees no bytes.
		_, _ = conn.Write(req)
		n, _ = conn.Read(buf)
		Expect(n).To(BeZero())
	})
})
