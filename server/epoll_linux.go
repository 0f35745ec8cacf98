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

	"golang.org/x/sys/unix"
)

// readinessSet is one worker's epoll instance: the kernel-assisted
// multiplexing primitive spec.md §4.2 calls a "readiness set". Each worker
// owns exactly one, registers edge-triggered-readable interest for every
// connection the accept loop assigns to it, and waits on it with a bounded
// timeout so shutdown is observable without a wake-up descriptor.
type readinessSet struct {
	epfd int
}

func newReadinessSet() (*readinessSet, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("server: epoll_create1: %w", err)
	}
	return &readinessSet{epfd: fd}, nil
}

// add registers fd for edge-triggered readable events, tagging the event
// with fd itself so wait below reads it from the event's Fd field with no
// side table lookup.
func (r *readinessSet) add(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLET, Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("server: epoll_ctl(add, %d): %w", fd, err)
	}
	return nil
}

// remove unregisters fd. Safe to call even if fd was already removed by the
// kernel (e.g. because it was closed) - EBADF/ENOENT are not reported.
func (r *readinessSet) remove(fd int) {
	_ = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// wait blocks up to timeoutMS milliseconds and returns the fds that became
// readable. A timeout returns an empty, non-error result so the caller can
// simply loop and re-check its running flag.
func (r *readinessSet) wait(timeoutMS int, buf []unix.EpollEvent) ([]int, error) {
	for {
		n, err := unix.EpollWait(r.epfd, buf, timeoutMS)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, fmt.Errorf("server: epoll_wait: %w", err)
		}
		if n == 0 {
			return nil, nil
		}
		out := make([]int, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, int(buf[i].Fd))
		}
		return out, nil
	}
}

func (r *readinessSet) close() error {
	return unix.Close(r.epfd)
}
