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
	"fmt"

	libdur "github.com/nabbar/jrpc/pkg/duration"
)

// DefaultBufferSize mirrors server.DefaultBufferSize so a client dialing a
// default-configured server needs no tuning.
const DefaultBufferSize = 4096

// Config describes one client connection: the socket to dial and the
// bounds on a single read.
//
// cmd/jrpcctl builds it directly from its --socket flag; zero value is
// filled with defaults by withDefaults, matching server.Config's convention.
type Config struct {
	// SocketPath is the filesystem path of the server's listening socket.
	SocketPath string `mapstructure:"socket_path"`

	// DialTimeout bounds the connect each CallSync performs; zero means no
	// timeout.
	DialTimeout libdur.Duration `mapstructure:"dial_timeout"`

	// BufferSize bounds a single response read. A response larger than
	// this is truncated, mirroring the server's own BufferSize contract.
	BufferSize int `mapstructure:"buffer_size"`
}

func (c Config) withDefaults() Config {
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	return c
}

func (c Config) validate() error {
	if c.SocketPath == "" {
		return fmt.Errorf("client: socket path is required")
	}
	return nil
}
