// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package serial

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/samber/oops"

	"github.com/holomush/serialcli/internal/observability"
)

// TransportTCP labels sessions bridged over TCP.
const TransportTCP = "tcp"

// Server exposes the interpreter over TCP, one Session per connection.
// It stands in for a serial line during development.
type Server struct {
	addr       string
	dispatcher Dispatcher
	cfg        SessionConfig
	metrics    *observability.Metrics

	mu       sync.RWMutex
	listener net.Listener
	wg       sync.WaitGroup
	active   atomic.Int64
	ready    atomic.Bool
}

// NewServer creates a TCP bridge. metrics may be nil.
func NewServer(addr string, d Dispatcher, cfg SessionConfig, metrics *observability.Metrics) *Server {
	return &Server{
		addr:       addr,
		dispatcher: d,
		cfg:        cfg,
		metrics:    metrics,
	}
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Ready reports whether the server is accepting connections.
func (s *Server) Ready() bool {
	return s.ready.Load()
}

// ActiveSessions returns the number of open connections.
func (s *Server) ActiveSessions() int {
	return int(s.active.Load())
}

// Run listens and serves until ctx is cancelled, then waits for every
// session to finish.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return oops.Code("LISTEN_FAILED").With("addr", s.addr).Wrap(err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.ready.Store(true)
	defer s.ready.Store(false)
	defer s.wg.Wait()

	slog.Info("serial bridge started", "addr", listener.Addr().String())

	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			slog.Debug("error closing listener", "error", err)
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("accept failed", "error", err)
			continue
		}

		s.wg.Add(1)
		go s.serve(ctx, conn)
	}
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	s.active.Add(1)
	defer s.active.Add(-1)

	defer func() {
		if err := conn.Close(); err != nil {
			slog.Debug("error closing connection", "error", err)
		}
	}()

	session := NewSession(conn, s.dispatcher, s.cfg, WithMetrics(s.metrics, TransportTCP))
	slog.Debug("connection accepted",
		"session_id", session.ID().String(),
		"remote", conn.RemoteAddr().String(),
	)
	if err := session.Run(ctx); err != nil && !errors.Is(err, net.ErrClosed) {
		slog.Debug("session read error",
			"session_id", session.ID().String(),
			"error", err,
		)
	}
}
