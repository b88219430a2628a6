// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"

	"github.com/holomush/serialcli/internal/command"
)

// Echo writes back everything after the first parameter's start,
// preserving the spacing between words.
func (h *Handlers) Echo(ctx context.Context, exec *command.Execution) {
	p, ok := command.Parameter(exec.Line, 1)
	if !ok {
		writeOutput(ctx, exec, "echo", "")
		return
	}
	writeOutput(ctx, exec, "echo", string(exec.Line[p.Offset:]))
}
