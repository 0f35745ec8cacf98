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

import (
	"encoding/json"

	"github.com/nabbar/jrpc/jsonrpc"
)

// Add is spec.md §8 scenario 2: params is a two-element number array,
// result is their sum.
func Add(params json.RawMessage) jsonrpc.Result {
	nums, ok := pairOf(params)
	if !ok {
		return jsonrpc.NoResult
	}
	return jsonrpc.Of(nums[0] + nums[1])
}

// Multiply is spec.md §8 scenario 4's first registration: [a, b] -> a*b.
func Multiply(params json.RawMessage) jsonrpc.Result {
	nums, ok := pairOf(params)
	if !ok {
		return jsonrpc.NoResult
	}
	return jsonrpc.Of(nums[0] * nums[1])
}

// Divide is spec.md §8 scenario 4's second registration: [a, b] -> a/b.
// Division by zero returns the out-of-band application-error convention
// spec §7 allows rather than NoResult, since the request itself was
// well-formed.
func Divide(params json.RawMessage) jsonrpc.Result {
	nums, ok := pairOf(params)
	if !ok {
		return jsonrpc.NoResult
	}
	if nums[1] == 0 {
		return jsonrpc.Of(map[string]string{"error": "division by zero"})
	}
	return jsonrpc.Of(nums[0] / nums[1])
}

func pairOf(params []byte) ([2]float64, bool) {
	var nums []float64
	if err := json.Unmarshal(params, &nums); err != nil || len(nums) != 2 {
		return [2]float64{}, false
	}
	return [2]float64{nums[0], nums[1]}, true
}
