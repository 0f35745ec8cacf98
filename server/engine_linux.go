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

// Package server is the JSON-RPC runtime's concurrency engine: a
// non-blocking accept loop, a fixed pool of epoll-driven workers, and the
// thread-safe method registry they dispatch against. It implements
// spec.md §4.2 and §4.1: one server, one Unix-domain socket, N workers
// multiplexing many connections each via its own readiness set.
//
// Workers are goroutines rather than OS threads - Go's scheduler already
// multiplexes goroutines over OS threads, so a "worker thread" in the
// reference maps onto a worker goroutine here; the per-worker epoll
// instance is still real, so the readiness-based multiplexing the spec
// requires is not simulated by goroutine fan-out alone.
package server

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/jrpc/pkg/errors"

	"github.com/nabbar/jrpc/jsonrpc"
	"github.com/nabbar/jrpc/logging"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sys/unix"
)

// ConnState is the per-connection transition reported to OnConnState: a
// connection assigned to a worker (opened) or closed by it (closed).
type ConnState int

const (
	ConnOpened ConnState = iota
	ConnClosed
)

func (s ConnState) String() string {
	if s == ConnOpened {
		return "opened"
	}
	return "closed"
}

// ErrorFunc is the server's error callback, mirroring the teacher's
// RegisterFuncError convention: the protocol itself has no error channel
// (spec.md §7), so failures that would otherwise only be "logged
// diagnostics" are also handed to this optional hook.
type ErrorFunc func(error)

// InfoFunc is the server's connection-lifecycle callback, mirroring the
// teacher's RegisterFuncInfo convention.
type InfoFunc func(workerID int, remoteAddr string, state ConnState)

type workerSlot struct {
	id        int
	rs        *readinessSet
	mu        sync.Mutex
	connCount int64
	lastSeen  map[int]time.Time
	server    *Server
}

func (w *workerSlot) track(fd int) {
	w.mu.Lock()
	w.connCount++
	if w.lastSeen == nil {
		w.lastSeen = make(map[int]time.Time)
	}
	w.lastSeen[fd] = time.Now()
	w.mu.Unlock()
}

// untrack removes fd from this worker's tracked set and reports whether it
// was still present - a caller uses that to make closing fd idempotent when
// two paths (a worker's own handleRequest and Destroy's forced-shutdown
// sweep) might otherwise race to close the same fd.
func (w *workerSlot) untrack(fd int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.lastSeen[fd]; !ok {
		return false
	}
	w.connCount--
	delete(w.lastSeen, fd)
	return true
}

// snapshotFDs returns every currently tracked fd, copied out under the
// worker's own mutex so a caller (Destroy's forced-shutdown path) never
// ranges over lastSeen directly while track/untrack are concurrently
// mutating it from the worker's own goroutine.
func (w *workerSlot) snapshotFDs() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]int, 0, len(w.lastSeen))
	for fd := range w.lastSeen {
		out = append(out, fd)
	}
	return out
}

func (w *workerSlot) load() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connCount
}

// idle returns fds whose last activity predates the cutoff.
func (w *workerSlot) idle(cutoff time.Time) []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []int
	for fd, seen := range w.lastSeen {
		if seen.Before(cutoff) {
			out = append(out, fd)
		}
	}
	return out
}

// Server is a single JSON-RPC endpoint bound to one Unix-domain socket.
//
// New builds the registry and per-worker readiness sets but does not
// bind; Start performs the bind/listen and spawns the accept goroutine and
// worker pool; Destroy stops everything and removes the socket file. These
// three map directly onto spec.md §6's server_create/server_start/
// server_destroy.
type Server struct {
	cfg      Config
	registry *jsonrpc.Registry
	log      logging.Logger
	metrics  *metrics

	listenFD  int
	acceptSet *readinessSet
	workers   []*workerSlot
	nextCur   uint32

	running int32
	gone    int32
	wg      sync.WaitGroup

	mu      sync.Mutex
	onError ErrorFunc
	onInfo  InfoFunc
}

// New allocates a Server: it builds the registry and one epoll readiness
// set per worker slot, but does not touch the filesystem or open the
// listening socket - that happens in Start. A construction failure (e.g.
// the kernel refuses another epoll instance) is reported as an error
// rather than spec's bare "no handle", since Go's zero value for *Server
// is nil regardless.
func New(cfg Config, log logging.Logger, reg prometheus.Registerer) (*Server, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, liberr.Construction("invalid server config", err)
	}
	if log == nil {
		log = logging.Discard()
	}

	s := &Server{
		cfg:      cfg,
		registry: jsonrpc.NewRegistry(cfg.MaxMethods),
		log:      log,
		metrics:  newMetrics(reg, cfg.SocketPath),
		listenFD: -1,
	}

	acceptSet, err := newReadinessSet()
	if err != nil {
		return nil, liberr.Construction("create accept readiness set", err)
	}
	s.acceptSet = acceptSet

	s.workers = make([]*workerSlot, cfg.Workers)
	for i := range s.workers {
		rs, err := newReadinessSet()
		if err != nil {
			for j := 0; j < i; j++ {
				_ = s.workers[j].rs.close()
			}
			_ = acceptSet.close()
			return nil, liberr.Construction(fmt.Sprintf("create worker %d readiness set", i), err)
		}
		s.workers[i] = &workerSlot{id: i, rs: rs, server: s}
	}

	return s, nil
}

// Register inserts or replaces the handler bound to name. Safe before or
// after Start, from any goroutine - it simply delegates to the registry's
// own mutex.
func (s *Server) Register(name string, handler jsonrpc.HandlerFunc) bool {
	ok := s.registry.Register(name, handler)
	s.metrics.setRegistrySize(s.registry.Len())
	return ok
}

// OnError registers fn to be called for failures the protocol itself has
// no channel for (epoll/accept/read/write errors). fn may be called
// concurrently from any worker or the accept goroutine and must be
// reentrant.
func (s *Server) OnError(fn ErrorFunc) {
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// OnConnState registers fn to observe connection open/close transitions.
func (s *Server) OnConnState(fn InfoFunc) {
	s.mu.Lock()
	s.onInfo = fn
	s.mu.Unlock()
}

func (s *Server) reportError(err error) {
	s.mu.Lock()
	fn := s.onError
	s.mu.Unlock()
	if fn != nil {
		fn(err)
	}
	s.log.WithFields(logging.Fields{"socket": s.cfg.SocketPath}).Error(err.Error())
}

func (s *Server) reportConn(workerID int, state ConnState) {
	s.mu.Lock()
	fn := s.onInfo
	s.mu.Unlock()
	if fn != nil {
		fn(workerID, s.cfg.SocketPath, state)
	}
}

// IsRunning reports whether the server has completed Start and not yet
// begun Destroy.
func (s *Server) IsRunning() bool { return atomic.LoadInt32(&s.running) == 1 }

// IsGone reports whether Destroy has fully torn the server down: every
// worker joined, the socket file removed.
func (s *Server) IsGone() bool { return atomic.LoadInt32(&s.gone) == 1 }

// OpenConnections reports the total number of connections currently
// assigned across every worker. Observability only - it carries no load
// feedback into the round-robin cursor (spec.md §4.2's Load Balancer note).
func (s *Server) OpenConnections() int64 {
	var total int64
	for _, w := range s.workers {
		total += w.load()
	}
	return total
}

// WorkerLoad reports the connection count for a single worker slot.
func (s *Server) WorkerLoad(workerID int) int64 {
	if workerID < 0 || workerID >= len(s.workers) {
		return 0
	}
	return s.workers[workerID].load()
}

// Start binds the configured socket path, places it in listening mode, and
// spawns the worker pool and a detached accept goroutine. It returns once
// the socket is ready to accept connections; it does not block for the
// server's lifetime (spec.md §6: "returns immediately").
//
// Any failure during bind/listen leaves the server in its unstarted state;
// Destroy remains valid to call afterward.
func (s *Server) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return nil
	}

	fd, err := listenUnix(s.cfg.SocketPath, s.cfg.PermFile, s.cfg.GroupPerm)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		return liberr.Construction("start server", err)
	}
	s.listenFD = fd

	if err = s.acceptSet.add(fd); err != nil {
		_ = unix.Close(fd)
		atomic.StoreInt32(&s.running, 0)
		return liberr.Construction("register listening socket", err)
	}

	for _, w := range s.workers {
		s.wg.Add(1)
		go s.workerLoop(w)
	}

	s.wg.Add(1)
	go s.acceptLoop(ctx)

	s.log.WithFields(logging.Fields{"socket": s.cfg.SocketPath, "workers": len(s.workers)}).Info("server started")
	return nil
}

// acceptLoop is the single accept thread of spec.md §4.2: it waits for the
// listening socket to become readable, drains every pending connection
// with Accept4, and assigns each to a worker in round-robin order.
func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()

	buf := make([]unix.EpollEvent, 1)
	for atomic.LoadInt32(&s.running) == 1 {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := s.acceptSet.wait(s.cfg.PollTimeoutMS, buf); err != nil {
			s.reportError(err)
			return
		}

		for atomic.LoadInt32(&s.running) == 1 {
			fd, eagain, err := acceptOne(s.listenFD)
			if eagain {
				break
			}
			if err != nil {
				s.reportError(err)
				return
			}
			s.assign(fd)
		}
	}
}

// assign hands a freshly accepted connection to the next worker in
// round-robin order. Registration failure closes the connection and
// continues, per spec.md §4.2.
func (s *Server) assign(fd int) {
	idx := atomic.AddUint32(&s.nextCur, 1) % uint32(len(s.workers))
	w := s.workers[idx]

	// track before add: once fd is in the readiness set the worker may
	// handle and closeConn it at once, and closeConn only closes fds that
	// are already tracked.
	w.track(fd)
	if err := w.rs.add(fd); err != nil {
		w.untrack(fd)
		_ = unix.Close(fd)
		s.reportError(err)
		return
	}

	s.metrics.connOpened()
	s.reportConn(w.id, ConnOpened)
}

// closeConn is idempotent: untrack reports whether fd was still tracked, so
// a worker's own handleRequest and Destroy's forced-shutdown sweep can both
// reach the same fd without double-closing it or double-decrementing
// connCount.
func (s *Server) closeConn(w *workerSlot, fd int) {
	if !w.untrack(fd) {
		return
	}
	w.rs.remove(fd)
	_ = unix.Close(fd)
	s.metrics.connClosed()
	s.reportConn(w.id, ConnClosed)
}

// workerLoop is one worker of spec.md §4.2: it waits on its own readiness
// set with a bounded timeout (so shutdown is observable), handles every
// descriptor that became readable, and sweeps idle connections that never
// sent a request within ConIdleTimeout.
func (s *Server) workerLoop(w *workerSlot) {
	defer s.wg.Done()

	buf := make([]unix.EpollEvent, 64)
	for atomic.LoadInt32(&s.running) == 1 {
		fds, err := w.rs.wait(s.cfg.PollTimeoutMS, buf)
		if err != nil {
			s.reportError(err)
			return
		}

		for _, fd := range fds {
			s.handleRequest(w, fd)
		}

		if s.cfg.ConIdleTimeout.Value() > 0 {
			cutoff := time.Now().Add(-s.cfg.ConIdleTimeout.Value())
			for _, fd := range w.idle(cutoff) {
				s.closeConn(w, fd)
			}
		}
	}
}

// handleRequest is the per-request handler of spec.md §4.2: read, parse,
// dispatch, write, and - per this rewrite's resolution of spec.md §9's
// open question - close. One request, one response, one connection.
func (s *Server) handleRequest(w *workerSlot, fd int) {
	buf := make([]byte, s.cfg.BufferSize)

	n, eof, err := readNonBlocking(fd, buf)
	if err != nil {
		s.closeConn(w, fd)
		s.reportError(liberr.Transport("read", err))
		return
	}
	if n == 0 {
		s.closeConn(w, fd)
		_ = eof
		return
	}

	req, err := jsonrpc.DecodeRequest(buf[:n])
	if err != nil {
		s.closeConn(w, fd)
		return
	}

	handler, ok := s.registry.Lookup(req.Method)
	if !ok {
		s.metrics.observeDispatch(req.Method, "no_method", 0)
		s.closeConn(w, fd)
		return
	}

	start := time.Now()
	result := handler(req.Params)
	elapsed := time.Since(start).Seconds()

	if result.Ok {
		if err = writeAll(fd, result.Value); err != nil {
			s.metrics.observeDispatch(req.Method, "transport_error", elapsed)
			s.reportError(liberr.Transport("write", err))
		} else {
			s.metrics.observeDispatch(req.Method, "ok", elapsed)
		}
	} else {
		s.metrics.observeDispatch(req.Method, "no_result", elapsed)
	}

	s.closeConn(w, fd)
}

// Destroy stops accepting new connections, joins every worker (waiting up
// to ctx's deadline, if any, for in-flight handler invocations to finish
// before connections are force-closed), removes the socket file, and
// releases the registry. Destroy is valid to call even if Start was never
// called or failed.
func (s *Server) Destroy(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		// either never started, or already torn down; release what New
		// allocated, once.
		if atomic.LoadInt32(&s.gone) == 1 {
			return nil
		}
		return s.release()
	}

	if s.listenFD >= 0 {
		_ = unix.Shutdown(s.listenFD, unix.SHUT_RDWR)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// force-close every tracked connection so the joined goroutines
		// observe read/write errors and exit promptly. snapshotFDs copies
		// the fd set out under w.mu first - the workers are still running
		// here, concurrently mutating the same map via track/untrack, so
		// ranging over it directly would race.
		for _, w := range s.workers {
			for _, fd := range w.snapshotFDs() {
				s.closeConn(w, fd)
			}
		}
		<-done
	}

	return s.release()
}

func (s *Server) release() error {
	for _, w := range s.workers {
		_ = w.rs.close()
	}
	if s.acceptSet != nil {
		_ = s.acceptSet.close()
	}
	if s.listenFD >= 0 {
		_ = unix.Close(s.listenFD)
		s.listenFD = -1
	}
	_ = os.Remove(s.cfg.SocketPath)
	s.registry.Drain()
	s.metrics.setRegistrySize(0)
	atomic.StoreInt32(&s.gone, 1)
	s.log.WithFields(logging.Fields{"socket": s.cfg.SocketPath}).Info("server destroyed")
	return nil
}
