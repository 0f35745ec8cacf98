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

import "sync"

// DefaultMaxMethods is the registry's default bounded capacity, matching the
// reference implementation's compile-time constant.
const DefaultMaxMethods = 100

// Registry is a thread-safe name -> handler table.
//
// Lookup copies the handler value out before releasing the lock, so a
// handler runs without the registry mutex held - concurrent Register calls
// never block an in-flight dispatch and vice versa. Name comparison is
// byte-exact; re-registering an existing name replaces its handler in
// place without affecting the bound.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]HandlerFunc
	max     int
}

// NewRegistry allocates a registry bounded at max entries. A non-positive
// max falls back to DefaultMaxMethods.
func NewRegistry(max int) *Registry {
	if max <= 0 {
		max = DefaultMaxMethods
	}
	return &Registry{
		methods: make(map[string]HandlerFunc, max),
		max:     max,
	}
}

// Register inserts or replaces the handler bound to name.
//
// It is a silent no-op - matching the reference's "fails silently" contract
// - when name is empty, handler is nil, or the registry is already at
// capacity and name is not an existing entry. Safe to call before or after
// the server owning this registry has started, from any goroutine.
func (r *Registry) Register(name string, handler HandlerFunc) bool {
	if name == "" || handler == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.methods[name]; !exists && len(r.methods) >= r.max {
		return false
	}
	r.methods[name] = handler
	return true
}

// Lookup returns the handler bound to name, if any.
//
// The returned function value is a copy taken under the read lock; the
// caller may invoke it freely after Lookup returns without risk of racing
// a concurrent Register removing or replacing the entry mid-call.
func (r *Registry) Lookup(name string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.methods[name]
	return h, ok
}

// Len reports the current number of registered methods.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.methods)
}

// Names returns a snapshot of every registered method name, for teardown
// and diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.methods))
	for name := range r.methods {
		out = append(out, name)
	}
	return out
}

// Drain removes every registered method. Go's garbage collector reclaims
// the name copies and handler closures; Drain exists to mirror the
// reference's explicit teardown step and to make "no further dispatch is
// possible after this point" an observable fact via Len/Lookup.
func (r *Registry) Drain() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods = make(map[string]HandlerFunc, r.max)
}
