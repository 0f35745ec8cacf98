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

import (
	"encoding/json"
	"fmt"
)

// Request is the single wire shape clients send: a method name plus an
// arbitrary JSON params value. There is no framing and no correlation id -
// one request, one response, one connection.
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// EncodeRequest builds and serializes a Request in one step.
//
// params is marshaled as-is; passing nil omits the field entirely, matching
// the wire protocol's "params: <any JSON value or absent>".
func EncodeRequest(method string, params interface{}) ([]byte, error) {
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("jsonrpc: encode params: %w", err)
		}
		raw = b
	}
	return json.Marshal(Request{Method: method, Params: raw})
}

// DecodeRequest parses a raw request buffer as read off the wire.
//
// A buffer that isn't a well-formed JSON object, or one missing a non-empty
// method name, is treated as a parse failure: spec-wise this and truncation
// both collapse to "drop the request silently".
func DecodeRequest(buf []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(buf, &req); err != nil {
		return Request{}, fmt.Errorf("jsonrpc: decode request: %w", err)
	}
	if req.Method == "" {
		return Request{}, fmt.Errorf("jsonrpc: decode request: empty method")
	}
	return req, nil
}

// DecodeResponse parses whatever the single read off a response connection
// returned. A zero-length buffer is not an error at this layer - the caller
// (client.CallSync) is responsible for turning that into "no result".
func DecodeResponse(buf []byte) (json.RawMessage, error) {
	var v json.RawMessage
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil, fmt.Errorf("jsonrpc: decode response: %w", err)
	}
	return v, nil
}
