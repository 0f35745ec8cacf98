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
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// tempSocketPath returns a socket path under a fresh temp dir plus a
// cleanup func that removes the whole dir.
func tempSocketPath() (string, func()) {
	dir, err := os.MkdirTemp("", "jrpc-server-test-*")
	if err != nil {
		panic(err)
	}
	path := filepath.Join(dir, fmt.Sprintf("srv-%d.sock", time.Now().UnixNano()))
	return path, func() { _ = os.RemoveAll(dir) }
}

// dialAndRoundTrip writes req to path and returns whatever a single read
// produced - this bypasses the client package entirely so server tests
// stay a layer below it.
func dialAndRoundTrip(path string, req []byte, bufSize int) ([]byte, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err = conn.Write(req); err != nil {
		return nil, err
	}

	buf := make([]byte, bufSize)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		return nil, err
	}
	return buf[:n], nil
}
