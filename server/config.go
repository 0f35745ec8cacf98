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

package server

import (
	"fmt"

	libdur "github.com/nabbar/jrpc/pkg/duration"
	libprm "github.com/nabbar/jrpc/pkg/permfile"
)

// sunPathMax is the platform sun_path limit on Linux; the socket path must
// fit in this buffer minus the trailing NUL (spec.md §3: "Filesystem path
// <= platform sun_path limit minus 1").
const sunPathMax = 108

// Defaults matching the reference implementation's compile-time constants.
const (
	DefaultWorkers    = 4
	DefaultBufferSize = 4096
	DefaultBacklog    = 4096 // not passed to listen(): listenUnix requests the platform maximum via unix.SOMAXCONN
	DefaultMaxMethods = 100
	DefaultPollTimeout = 100 // milliseconds, epoll_wait timeout so shutdown is observed promptly
)

// Config describes one server instance: the socket it listens on, its
// worker pool shape, and the bounds that protect it from unbounded input.
//
// Decoded by github.com/spf13/viper in cmd/jrpcd; every field here has a
// zero value that New() fills with the defaults above, matching the
// teacher's socket/config package's "zero value is a usable default" style.
type Config struct {
	// SocketPath is the filesystem path the server binds to. Any stale file
	// at this path is unlinked on Start.
	SocketPath string `mapstructure:"socket_path"`

	// PermFile is the Unix permission applied to the socket file after bind.
	PermFile libprm.Perm `mapstructure:"perm_file"`

	// GroupPerm chowns the socket file to this gid after bind; nil leaves the
	// group unchanged (matching the teacher's sckcfg.Server.GroupPerm). A
	// pointer, not a sentinel int, because 0 is gid root - a caller asking
	// for it explicitly must be distinguishable from a caller who never set
	// the field at all.
	GroupPerm *int32 `mapstructure:"group_perm"`

	// Workers is the fixed size of the worker pool. Defaults to 4.
	Workers int `mapstructure:"workers"`

	// BufferSize bounds a single read: requests at or above this size fail
	// to parse (truncation, spec.md §8's boundary behavior).
	BufferSize int `mapstructure:"buffer_size"`

	// MaxMethods bounds the registry's capacity.
	MaxMethods int `mapstructure:"max_methods"`

	// ConIdleTimeout, if non-zero, closes a connection that has sent no
	// complete request within the given duration. Zero disables the timeout.
	ConIdleTimeout libdur.Duration `mapstructure:"con_idle_timeout"`

	// PollTimeoutMS is the epoll_wait timeout in milliseconds each worker
	// uses so it can observe server shutdown promptly.
	PollTimeoutMS int `mapstructure:"poll_timeout_ms"`
}

// withDefaults returns a copy of c with every zero-valued tunable field
// replaced by its reference default.
func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.MaxMethods <= 0 {
		c.MaxMethods = DefaultMaxMethods
	}
	if c.PermFile == 0 {
		c.PermFile = libprm.DefaultSocketPerm
	}
	if c.PollTimeoutMS <= 0 {
		c.PollTimeoutMS = DefaultPollTimeout
	}
	return c
}

// validate reports a construction-time error for a socket path that cannot
// possibly be bound - empty, or longer than the platform's sun_path limit.
func (c Config) validate() error {
	if c.SocketPath == "" {
		return fmt.Errorf("server: socket path is required")
	}
	if len(c.SocketPath) > sunPathMax-1 {
		return fmt.Errorf("server: socket path %q exceeds sun_path limit of %d bytes", c.SocketPath, sunPathMax-1)
	}
	return nil
}
