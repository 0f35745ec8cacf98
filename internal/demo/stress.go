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
	"sort"
	"strings"

	"github.com/nabbar/jrpc/jsonrpc"
)

// Sort is spec.md §8 scenario 6's first stress handler: an array of
// integers in, the same values sorted ascending out.
func Sort(params json.RawMessage) jsonrpc.Result {
	var nums []int
	if err := json.Unmarshal(params, &nums); err != nil {
		return jsonrpc.NoResult
	}
	out := make([]int, len(nums))
	copy(out, nums)
	sort.Ints(out)
	return jsonrpc.Of(out)
}

// Process is spec.md §8 scenario 6's second stress handler: a string in,
// its reverse upper-cased out.
func Process(params json.RawMessage) jsonrpc.Result {
	var text string
	if err := json.Unmarshal(params, &text); err != nil {
		return jsonrpc.NoResult
	}

	runes := []rune(strings.ToUpper(text))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return jsonrpc.Of(string(runes))
}

// matrix is a square integer matrix, the wire shape both Matmul operands
// and its result share.
type matrix [][]int

type matmulParams struct {
	A matrix `json:"a"`
	B matrix `json:"b"`
}

// Matmul is spec.md §8 scenario 6's third stress handler: two same-sized
// square integer matrices in, their product out.
func Matmul(params json.RawMessage) jsonrpc.Result {
	var p matmulParams
	if err := json.Unmarshal(params, &p); err != nil {
		return jsonrpc.NoResult
	}
	n := len(p.A)
	if n == 0 || len(p.B) != n {
		return jsonrpc.NoResult
	}
	for _, row := range p.A {
		if len(row) != n {
			return jsonrpc.NoResult
		}
	}
	for _, row := range p.B {
		if len(row) != n {
			return jsonrpc.NoResult
		}
	}

	out := make(matrix, n)
	for i := range out {
		out[i] = make([]int, n)
		for j := 0; j < n; j++ {
			sum := 0
			for k := 0; k < n; k++ {
				sum += p.A[i][k] * p.B[k][j]
			}
			out[i][j] = sum
		}
	}
	return jsonrpc.Of(out)
}
