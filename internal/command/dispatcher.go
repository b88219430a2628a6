// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("serialcli/command")

// Dispatcher matches lines against a Table and runs the matched handler.
// It holds no per-call state, so one Dispatcher may serve many sessions.
type Dispatcher struct {
	table  *Table
	logger *slog.Logger
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for handler failures and sink errors.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher over table. Returns an error if table is nil.
func NewDispatcher(table *Table, opts ...DispatcherOption) (*Dispatcher, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	d := &Dispatcher{
		table:  table,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Table returns the table the dispatcher matches against.
func (d *Dispatcher) Table() *Table {
	return d.table
}

// Dispatch processes one input line and writes diagnostics to out.
// A nil error means the line was handled (help or a handler ran); a
// non-nil error carries one of the Code* values. A nil line fails with
// CodeNilLine and writes nothing. A nil out discards all output.
//
// Trailing CR/LF bytes are stripped from line before matching; the
// handler sees the trimmed view of the caller's buffer.
func (d *Dispatcher) Dispatch(ctx context.Context, line []byte, out io.Writer) (err error) {
	if line == nil {
		return ErrNilLine()
	}
	if out == nil {
		out = io.Discard
	}
	line = TrimLineEnding(line)

	metrics := NewMetricsRecorder()
	defer metrics.Record()

	ctx, span := tracer.Start(ctx, "command.dispatch",
		trace.WithAttributes(attribute.Int("command.line_length", len(line))),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if isHelp(line) {
		metrics.SetCommandName(helpCommand)
		metrics.SetStatus(StatusSuccess)
		span.SetAttributes(attribute.String("command.name", helpCommand))
		if werr := d.table.WriteHelp(out); werr != nil {
			d.logger.DebugContext(ctx, "failed to write help", "error", werr)
		}
		return nil
	}

	entry, ok := d.table.Lookup(line)
	if !ok {
		metrics.SetCommandName(unknownLabel)
		metrics.SetStatus(StatusNotFound)
		d.writeDiagnostic(ctx, out, MsgUnknownCommand)
		err = ErrUnknownCommand(string(firstWord(line)))
		return err
	}

	metrics.SetCommandName(entry.Name)
	span.SetAttributes(attribute.String("command.name", entry.Name))

	if entry.Params >= 0 {
		got := CountParameters(line)
		if got < entry.Params {
			metrics.SetStatus(StatusInvalidArgs)
			d.writeDiagnostic(ctx, out, MsgInvalidArgs)
			err = ErrInvalidArgs(entry.Name, entry.Params, got)
			return err
		}
	}

	err = d.execute(ctx, entry, line, out)
	if err != nil {
		metrics.SetStatus(StatusPanic)
		return err
	}
	metrics.SetStatus(StatusSuccess)
	return nil
}

// DispatchString is Dispatch for callers holding a string.
func (d *Dispatcher) DispatchString(ctx context.Context, line string, out io.Writer) error {
	return d.Dispatch(ctx, []byte(line), out)
}

func (d *Dispatcher) execute(ctx context.Context, entry Descriptor, line []byte, out io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "command handler panicked",
				"command", entry.Name,
				"panic", r,
			)
			d.writeDiagnostic(ctx, out, MsgHandlerPanic)
			err = ErrHandlerPanic(entry.Name, r)
		}
	}()

	entry.Handler.Execute(ctx, &Execution{Line: line, Output: out})
	return nil
}

func (d *Dispatcher) writeDiagnostic(ctx context.Context, out io.Writer, msg string) {
	if _, err := io.WriteString(out, msg); err != nil {
		d.logger.DebugContext(ctx, "failed to write diagnostic", "error", err)
	}
}

func firstWord(line []byte) []byte {
	if i := bytes.IndexByte(line, separator); i >= 0 {
		return line[:i]
	}
	return line
}
