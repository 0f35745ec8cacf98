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
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/jrpc/jsonrpc"
	"github.com/nabbar/jrpc/server"
)

var _ = Describe("Server lifecycle", func() {
	It("reports IsRunning/IsGone across Start/Destroy", func() {
		path, cleanup := tempSocketPath()
		defer cleanup()

		srv, err := server.New(server.Config{SocketPath: path}, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(srv.IsRunning()).To(BeFalse())
		Expect(srv.IsGone()).To(BeFalse())

		ctx, cancel := context.WithCancel(context.Background())
		Expect(srv.Start(ctx)).To(Succeed())
		Expect(srv.IsRunning()).To(BeTrue())

		cancel()
		dctx, dcancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer dcancel()
		Expect(srv.Destroy(dctx)).To(Succeed())

		Expect(srv.IsRunning()).To(BeFalse())
		Expect(srv.IsGone()).To(BeTrue())
	})

	It("is valid to Destroy even when Start was never called", func() {
		path, cleanup := tempSocketPath()
		defer cleanup()

		srv, err := server.New(server.Config{SocketPath: path}, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(srv.Destroy(context.Background())).To(Succeed())
		Expect(srv.IsGone()).To(BeTrue())
	})

	It("rejects registration beyond MaxMethods without disturbing existing entries", func() {
		path, cleanup := tempSocketPath()
		defer cleanup()

		srv, err := server.New(server.Config{SocketPath: path, MaxMethods: 2}, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		noop := func(json.RawMessage) jsonrpc.Result { return jsonrpc.NoResult }
		Expect(srv.Register("a", noop)).To(BeTrue())
		Expect(srv.Register("b", noop)).To(BeTrue())
		Expect(srv.Register("c", noop)).To(BeFalse())

		// replacing an existing entry at capacity still succeeds.
		Expect(srv.Register("a", noop)).To(BeTrue())
	})

	It("spreads connections across workers and drains OpenConnections back to zero", func() {
		path, cleanup := tempSocketPath()
		defer cleanup()

		srv, err := server.New(server.Config{SocketPath: path, Workers: 3}, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		srv.Register("echo", func(params json.RawMessage) jsonrpc.Result {
			return jsonrpc.Raw(params)
		})

		var mu sync.Mutex
		opened := make(map[int]int)
		srv.OnConnState(func(workerID int, _ string, state server.ConnState) {
			if state == server.ConnOpened {
				mu.Lock()
				opened[workerID]++
				mu.Unlock()
			}
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(srv.Start(ctx)).To(Succeed())

		req, err := jsonrpc.EncodeRequest("echo", "x")
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 9; i++ {
			_, err = dialAndRoundTrip(path, req, 64)
			Expect(err).NotTo(HaveOccurred())
		}

		Eventually(func() int64 {
			return srv.OpenConnections()
		}, time.Second).Should(BeNumerically("==", 0))

		// round-robin over 3 workers: 9 sequential connections, 3 each.
		Eventually(func() map[int]int {
			mu.Lock()
			defer mu.Unlock()
			out := make(map[int]int, len(opened))
			for id, n := range opened {
				out[id] = n
			}
			return out
		}, time.Second).Should(Equal(map[int]int{0: 3, 1: 3, 2: 3}))

		fmt.Fprint(GinkgoWriter, "worker loads: ")
		for i := 0; i < 3; i++ {
			fmt.Fprintf(GinkgoWriter, "%d ", srv.WorkerLoad(i))
		}
	})
})
