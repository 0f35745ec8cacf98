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

package client_test

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/jrpc/client"
	"github.com/nabbar/jrpc/jsonrpc"
)

var _ = Describe("Client.CallAsync", func() {
	var (
		path     string
		teardown func()
	)

	BeforeEach(func() {
		path, teardown = startEchoServer(map[string]jsonrpc.HandlerFunc{
			"string": func(params json.RawMessage) jsonrpc.Result {
				var in struct {
					Text string `json:"text"`
				}
				if err := json.Unmarshal(params, &in); err != nil {
					return jsonrpc.NoResult
				}
				return jsonrpc.Of(strings.ToUpper(in.Text))
			},
		})
	})

	AfterEach(func() {
		teardown()
	})

	It("delivers the upper scenario's result on a callback goroutine", func() {
		c, err := client.Create(client.Config{SocketPath: path}, nil)
		Expect(err).NotTo(HaveOccurred())
		defer c.Destroy()

		done := make(chan jsonrpc.Result, 1)
		c.CallAsync("string", map[string]string{"text": "hello world"}, func(result jsonrpc.Result) {
			done <- result
		})

		var result jsonrpc.Result
		Eventually(done, time.Second).Should(Receive(&result))
		Expect(result.Ok).To(BeTrue())
		Expect(string(result.Value)).To(Equal(`"HELLO WORLD"`))
	})

	It("runs many async calls against one client without losing any callback", func() {
		c, err := client.Create(client.Config{SocketPath: path}, nil)
		Expect(err).NotTo(HaveOccurred())
		defer c.Destroy()

		const n = 25
		var wg sync.WaitGroup
		var mu sync.Mutex
		seen := 0

		wg.Add(n)
		for i := 0; i < n; i++ {
			c.CallAsync("string", map[string]string{"text": "x"}, func(result jsonrpc.Result) {
				mu.Lock()
				if result.Ok {
					seen++
				}
				mu.Unlock()
				wg.Done()
			})
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		Eventually(done, 5*time.Second).Should(BeClosed())
		Expect(seen).To(Equal(n))
	})

	It("tolerates a nil callback", func() {
		c, err := client.Create(client.Config{SocketPath: path}, nil)
		Expect(err).NotTo(HaveOccurred())
		defer c.Destroy()

		Expect(func() {
			c.CallAsync("string", map[string]string{"text": "x"}, nil)
		}).NotTo(Panic())
	})
})
