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

package jsonrpc

import "encoding/json"

// Result is the value a HandlerFunc hands back to the dispatching worker.
//
// Ok distinguishes "no result" from a present JSON value: a handler that
// wants the server to write nothing at all (the protocol's explicit
// "no result" sentinel, distinct from the JSON literal null) returns a zero
// Result. A handler that wants to signal an application-level error without
// relying on the sentinel should instead return a normal Result carrying a
// JSON object with a known "error" field - the out-of-band convention
// described by the protocol's error handling design.
type Result struct {
	Value json.RawMessage
	Ok    bool
}

// NoResult is returned by handlers that have nothing to send back.
var NoResult = Result{}

// Of wraps v as a present Result, marshaling it to JSON.
//
// A marshal failure collapses to NoResult: the server side writes nothing
// rather than a half-formed response, and the caller observes it exactly
// like a missing method.
func Of(v interface{}) Result {
	b, err := json.Marshal(v)
	if err != nil {
		return NoResult
	}
	return Result{Value: b, Ok: true}
}

// Raw wraps an already-encoded JSON value as a present Result.
func Raw(b json.RawMessage) Result {
	if len(b) == 0 {
		return NoResult
	}
	return Result{Value: b, Ok: true}
}

// HandlerFunc is a pure function params -> result.
//
// A handler receives the raw JSON params from the request (or nil/empty if
// the caller omitted the field) and returns a Result. Handlers must be
// reentrant: the registry may invoke the same handler concurrently on
// distinct worker goroutines, one per connection.
type HandlerFunc func(params json.RawMessage) Result
