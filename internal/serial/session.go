// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package serial connects byte-stream terminals to the command interpreter.
// A Session reads CRLF-terminated lines from any io.ReadWriter, so the same
// loop serves a UART device node, stdin/stdout and TCP connections.
package serial

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/holomush/serialcli/internal/command"
	"github.com/holomush/serialcli/internal/logging"
	"github.com/holomush/serialcli/internal/observability"
	"github.com/holomush/serialcli/pkg/errutil"
)

// DefaultMaxLine is the longest line accepted when SessionConfig.MaxLine is zero.
const DefaultMaxLine = 256

// minBufferSize matches the smallest buffer bufio will allocate.
const minBufferSize = 16

// Terminal notices written by the session itself.
const (
	MsgLineTooLong = "Line too long.\r\n"
	MsgSlowDown    = "Too many commands. Please slow down.\r\n"
)

// Dispatcher executes one input line, writing any response to out.
type Dispatcher interface {
	Dispatch(ctx context.Context, line []byte, out io.Writer) error
}

// SessionConfig controls terminal presentation and input limits.
type SessionConfig struct {
	// Banner is written once when the session starts. Empty disables it.
	Banner string
	// Prompt is written before every line is read.
	Prompt string
	// MaxLine bounds a line's length, excluding its terminator.
	MaxLine int
	// RateLimit is the sustained number of lines per second a session may
	// dispatch. Zero disables limiting.
	RateLimit float64
	// Burst is the number of lines allowed above RateLimit at once.
	Burst int
}

func (c SessionConfig) maxLine() int {
	if c.MaxLine <= 0 {
		return DefaultMaxLine
	}
	return c.MaxLine
}

// Session runs the read-dispatch-prompt loop for one terminal.
type Session struct {
	id         ulid.ULID
	rw         io.ReadWriter
	dispatcher Dispatcher
	cfg        SessionConfig
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	transport  string
	logger     *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMetrics records session and line metrics under the given transport label.
func WithMetrics(m *observability.Metrics, transport string) SessionOption {
	return func(s *Session) {
		s.metrics = m
		s.transport = transport
	}
}

// WithSessionLogger overrides slog.Default for this session.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session that reads from and writes to rw.
func NewSession(rw io.ReadWriter, d Dispatcher, cfg SessionConfig, opts ...SessionOption) *Session {
	s := &Session{
		id:         NewID(),
		rw:         rw,
		dispatcher: d,
		cfg:        cfg,
		transport:  "stream",
		logger:     slog.Default(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier attached to every log record.
func (s *Session) ID() ulid.ULID {
	return s.id
}

// inputLine is one unit delivered by the reader goroutine.
type inputLine struct {
	data     []byte
	overflow bool
}

// Run processes lines until the stream ends or ctx is cancelled.
// A clean end of input returns nil. Run does not close the stream; callers
// close it to release a reader blocked on a cancelled session.
func (s *Session) Run(ctx context.Context) error {
	ctx = logging.WithSessionID(ctx, s.id.String())

	s.metrics.SessionOpened(s.transport)
	defer s.metrics.SessionClosed(s.transport)

	s.logger.DebugContext(ctx, "session started", "transport", s.transport)
	defer s.logger.DebugContext(ctx, "session ended", "transport", s.transport)

	if s.cfg.Banner != "" {
		s.write(ctx, s.cfg.Banner+"\r\n")
	}
	s.write(ctx, s.cfg.Prompt)

	done := make(chan struct{})
	defer close(done)

	lines := make(chan inputLine)
	errCh := make(chan error, 1)
	go s.readLines(done, lines, errCh)

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-errCh:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err

		case in := <-lines:
			s.processLine(ctx, in)
			s.write(ctx, s.cfg.Prompt)
		}
	}
}

// readLines splits the stream into lines. Each delivered slice is a fresh
// copy owned by the receiver. Lines longer than the limit are drained up to
// their terminator and reported as a single overflow.
func (s *Session) readLines(done <-chan struct{}, lines chan<- inputLine, errCh chan<- error) {
	maxLine := s.cfg.maxLine()
	size := maxLine + 2
	if size < minBufferSize {
		size = minBufferSize
	}
	reader := bufio.NewReaderSize(s.rw, size)

	send := func(in inputLine) bool {
		select {
		case lines <- in:
			return true
		case <-done:
			return false
		}
	}

	discarding := false
	for {
		chunk, err := reader.ReadSlice('\n')
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			discarding = true
			continue
		case err != nil:
			// A final unterminated line is still a line.
			if discarding || len(chunk) > 0 {
				in := inputLine{overflow: true}
				if !discarding {
					in = s.classify(chunk, maxLine)
				}
				if !send(in) {
					return
				}
			}
			errCh <- err
			return
		}

		if discarding {
			discarding = false
			if !send(inputLine{overflow: true}) {
				return
			}
			continue
		}
		if !send(s.classify(chunk, maxLine)) {
			return
		}
	}
}

func (s *Session) classify(chunk []byte, maxLine int) inputLine {
	if len(command.TrimLineEnding(chunk)) > maxLine {
		return inputLine{overflow: true}
	}
	return inputLine{data: bytes.Clone(chunk)}
}

func (s *Session) processLine(ctx context.Context, in inputLine) {
	if in.overflow {
		s.metrics.LineProcessed(observability.LineOverflow)
		s.write(ctx, MsgLineTooLong)
		return
	}

	// Blank lines only re-prompt.
	if len(command.TrimLineEnding(in.data)) == 0 {
		return
	}

	if s.limiter != nil && !s.limiter.Allow() {
		s.metrics.LineProcessed(observability.LineRateLimited)
		s.write(ctx, MsgSlowDown)
		return
	}

	s.metrics.LineProcessed(observability.LineDispatched)
	if err := s.dispatcher.Dispatch(ctx, in.data, s.rw); err != nil {
		errutil.LogErrorContext(ctx, s.logger, slog.LevelDebug, "command rejected", err)
	}
}

func (s *Session) write(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	if _, err := io.WriteString(s.rw, msg); err != nil {
		s.logger.DebugContext(ctx, "failed to write to terminal", "error", err)
	}
}
