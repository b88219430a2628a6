// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"time"

	"github.com/holomush/serialcli/internal/command"
)

// Status prints uptime, register count and LED state.
func (h *Handlers) Status(ctx context.Context, exec *command.Execution) {
	writeOutputf(ctx, exec, "status", "uptime: %s", h.store.Uptime().Truncate(time.Second))
	writeOutputf(ctx, exec, "status", "registers: %d", h.store.Len())
	writeOutputf(ctx, exec, "status", "led: %s", onOff(h.store.LED()))
}

// Uptime prints whole seconds since boot.
func (h *Handlers) Uptime(ctx context.Context, exec *command.Execution) {
	writeOutputf(ctx, exec, "uptime", "%d", int64(h.store.Uptime()/time.Second))
}

// Version prints the firmware version. With a parameter, it instead reports
// whether the version satisfies that constraint.
func (h *Handlers) Version(ctx context.Context, exec *command.Execution) {
	constraint, ok := exec.Param(1)
	if !ok {
		writeOutputf(ctx, exec, "version", "serialcli %s", h.build)
		return
	}

	satisfied, err := h.build.Satisfies(constraint)
	if err != nil {
		writeOutputf(ctx, exec, "version", "invalid constraint: %s", constraint)
		return
	}
	writeOutputf(ctx, exec, "version", "%s %s: %s", h.build.Short(), constraint, yesNo(satisfied))
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
