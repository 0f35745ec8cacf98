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

package client

import (
	"github.com/hashicorp/go-uuid"

	"github.com/nabbar/jrpc/jsonrpc"
	"github.com/nabbar/jrpc/logging"
)

// Callback receives the outcome of an asynchronous call. It may run on any
// goroutine and must be reentrant: spec.md §4.3 permits multiple async
// tasks against the same client, and callbacks serialize only through
// whatever shared state the caller itself introduces.
type Callback func(result jsonrpc.Result)

// CallAsync is the fire-and-forget shim spec.md §4.3 describes as
// call_async: it allocates a task (method, params and an optional
// callback), spawns one detached goroutine to run it, and returns
// immediately. The task carries no lock of its own - per this rewrite's
// resolution of spec.md §9's third open question, the only shared state an
// async call touches is the client's own wire-round-trip mutex, which
// already serializes it against every other call on this client.
func (c *Client) CallAsync(method string, params interface{}, callback Callback) {
	taskID, _ := uuid.GenerateUUID()
	log := c.log.WithFields(logging.Fields{"task": taskID, "method": method})

	go func() {
		log.Debug("async call started")
		result, err := c.CallSync(method, params)
		if err != nil {
			log.WithFields(logging.Fields{"error": err.Error()}).Warn("async call failed")
		}
		if callback != nil {
			callback(result)
		}
		log.Debug("async call finished")
	}()
}
