// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/holomush/serialcli/internal/command"
	"github.com/holomush/serialcli/internal/observability"
)

// lineEnd terminates every line written back to the terminal.
const lineEnd = "\r\n"

// logOutputError logs a write failure at warn level with structured context
// and increments the command output failure metric.
// The command itself is not failed: the sink is usually a dropped link.
func logOutputError(ctx context.Context, cmd string, bytesWritten int, err error) {
	slog.WarnContext(ctx, "failed to write command output",
		"command", cmd,
		"bytes_written", bytesWritten,
		"error", err,
	)
	observability.RecordCommandOutputFailure(cmd)
}

// writeOutput writes msg followed by CRLF and logs any error.
func writeOutput(ctx context.Context, exec *command.Execution, cmd, msg string) {
	if n, err := io.WriteString(exec.Output, msg+lineEnd); err != nil {
		logOutputError(ctx, cmd, n, err)
	}
}

// writeOutputf writes a formatted line followed by CRLF and logs any error.
func writeOutputf(ctx context.Context, exec *command.Execution, cmd, format string, args ...any) {
	if n, err := fmt.Fprintf(exec.Output, format+lineEnd, args...); err != nil {
		logOutputError(ctx, cmd, n, err)
	}
}
