//go:build linux

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
	"os"

	libprm "github.com/nabbar/jrpc/pkg/permfile"
	"golang.org/x/sys/unix"
)

// listenUnix opens a non-blocking AF_UNIX/SOCK_STREAM socket, unlinks any
// stale file at path, binds, chmods/chowns it, and places it in listening
// mode with the platform-maximum backlog - spec.md §4.2 steps 1-4.
//
// Any failure here aborts startup: Start returns the error and leaves the
// server in an unstarted state.
func listenUnix(path string, perm libprm.Perm, gid *int32) (int, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("server: socket: %w", err)
	}

	_ = os.Remove(path)

	addr := &unix.SockaddrUnix{Name: path}
	if err = unix.Bind(fd, addr); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("server: bind(%s): %w", path, err)
	}

	if err = os.Chmod(path, perm.FileMode()); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("server: chmod(%s): %w", path, err)
	}
	if gid != nil {
		if err = os.Chown(path, -1, int(*gid)); err != nil {
			_ = unix.Close(fd)
			return -1, fmt.Errorf("server: chown(%s): %w", path, err)
		}
	}

	if err = unix.Listen(fd, unix.SOMAXCONN); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("server: listen(%s): %w", path, err)
	}

	return fd, nil
}

// acceptOne accepts a single connection off listenFD, already returning it
// non-blocking (SOCK_NONBLOCK on the accepted fd, not just the listener).
//
// eagain reports whether the error was EAGAIN/EWOULDBLOCK/EINTR - the
// accept loop retries on those and exits on anything else, per spec.md
// §4.2's accept loop.
func acceptOne(listenFD int) (fd int, eagain bool, err error) {
	fd, _, err = unix.Accept4(listenFD, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		switch err {
		case unix.EAGAIN, unix.EINTR:
			return -1, true, err
		default:
			return -1, false, err
		}
	}
	return fd, false, nil
}

// readNonBlocking drains fd into buf until EOF, EAGAIN (no more data
// currently available), or the buffer is full minus one byte - spec.md
// §4.2 step 1. EINTR is retried transparently.
//
// n is the total number of bytes read; eof reports a peer-initiated close.
func readNonBlocking(fd int, buf []byte) (n int, eof bool, err error) {
	limit := len(buf) - 1
	if limit < 0 {
		limit = 0
	}
	for n < limit {
		r, e := unix.Read(fd, buf[n:limit])
		if e != nil {
			if e == unix.EINTR {
				continue
			}
			if e == unix.EAGAIN {
				return n, false, nil
			}
			return n, false, e
		}
		if r == 0 {
			return n, true, nil
		}
		n += r
	}
	return n, false, nil
}

// writeAll loops over partial writes until buf is fully written or a hard
// error occurs - spec.md §4.2 step 7 / §4.3 step 4. EAGAIN/EINTR are
// transparent: the non-blocking fd is simply retried.
func writeAll(fd int, buf []byte) error {
	for len(buf) > 0 {
		n, err := unix.Write(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return fmt.Errorf("server: write: %w", err)
		}
		buf = buf[n:]
	}
	return nil
}
