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

// Package demo is the set of example handlers spec.md §1 treats as an
// out-of-scope external collaborator: a key-value store, a calculator, a
// string-ops handler, and the three handlers the stress scenario (§8.6)
// drives. They exist to give the server engine something to dispatch to -
// none of them is part of the protocol itself.
package demo

import (
	"encoding/json"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/nabbar/jrpc/jsonrpc"
)

// KV is an in-memory key-value store exposing get/set/del/keys handlers.
type KV struct {
	mu    sync.RWMutex
	items map[string]interface{}
}

// NewKV allocates an empty store.
func NewKV() *KV {
	return &KV{items: make(map[string]interface{})}
}

type kvKeyParams struct {
	Key string `mapstructure:"key"`
}

type kvSetParams struct {
	Key   string      `mapstructure:"key"`
	Value interface{} `mapstructure:"value"`
}

// decodeParams unmarshals raw JSON params into a loosely-typed tree, then
// uses mapstructure to decode that tree into out - the same two-step
// convention the teacher's config package uses for viper-sourced values,
// applied here to JSON-RPC params instead.
func decodeParams(raw []byte, out interface{}) error {
	var anyVal interface{}
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		return err
	}
	return mapstructure.Decode(anyVal, out)
}

// Get returns the handler bound to "get": {"key": "..."} -> the stored
// value, or NoResult if the key is absent.
func (k *KV) Get(params json.RawMessage) jsonrpc.Result {
	var p kvKeyParams
	if err := decodeParams(params, &p); err != nil || p.Key == "" {
		return jsonrpc.NoResult
	}

	k.mu.RLock()
	v, ok := k.items[p.Key]
	k.mu.RUnlock()
	if !ok {
		return jsonrpc.NoResult
	}
	return jsonrpc.Of(v)
}

// Set is "set": {"key": "...", "value": <any>} -> true.
func (k *KV) Set(params json.RawMessage) jsonrpc.Result {
	var p kvSetParams
	if err := decodeParams(params, &p); err != nil || p.Key == "" {
		return jsonrpc.NoResult
	}

	k.mu.Lock()
	k.items[p.Key] = p.Value
	k.mu.Unlock()
	return jsonrpc.Of(true)
}

// Del is "del": {"key": "..."} -> true if the key existed.
func (k *KV) Del(params json.RawMessage) jsonrpc.Result {
	var p kvKeyParams
	if err := decodeParams(params, &p); err != nil || p.Key == "" {
		return jsonrpc.NoResult
	}

	k.mu.Lock()
	_, existed := k.items[p.Key]
	delete(k.items, p.Key)
	k.mu.Unlock()
	return jsonrpc.Of(existed)
}

// Keys is "keys": no params -> the current key set.
func (k *KV) Keys(json.RawMessage) jsonrpc.Result {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]string, 0, len(k.items))
	for key := range k.items {
		out = append(out, key)
	}
	return jsonrpc.Of(out)
}
