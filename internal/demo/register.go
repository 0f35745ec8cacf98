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

package demo

import "github.com/nabbar/jrpc/jsonrpc"

// Registerer is the one method of *server.Server this package depends on.
// Accepting it as an interface keeps demo decoupled from server's other
// lifecycle methods, matching the teacher's habit of depending on the
// narrowest interface a component actually needs.
type Registerer interface {
	Register(name string, handler jsonrpc.HandlerFunc) bool
}

// Register wires every example handler onto srv under the method names
// spec.md §8's scenarios name them by. kv is shared state across calls;
// calc and str are pure functions.
func Register(srv Registerer, kv *KV) {
	srv.Register("get", kv.Get)
	srv.Register("set", kv.Set)
	srv.Register("del", kv.Del)
	srv.Register("keys", kv.Keys)

	srv.Register("add", Add)
	srv.Register("multiply", Multiply)
	srv.Register("divide", Divide)

	srv.Register("string", String)

	srv.Register("sort", Sort)
	srv.Register("process", Process)
	srv.Register("matmul", Matmul)
}
