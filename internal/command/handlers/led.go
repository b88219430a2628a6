// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"

	"github.com/holomush/serialcli/internal/command"
)

// LED handles "led on", "led off" and "led toggle".
func (h *Handlers) LED(ctx context.Context, exec *command.Execution) {
	arg, _ := exec.Param(1)

	switch arg {
	case "on":
		h.store.SetLED(true)
	case "off":
		h.store.SetLED(false)
	case "toggle":
		h.store.ToggleLED()
	default:
		writeOutput(ctx, exec, "led", "usage: led <on|off|toggle>")
		return
	}
	writeOutputf(ctx, exec, "led", "led: %s", onOff(h.store.LED()))
}
