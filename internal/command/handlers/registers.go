// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"strings"

	"github.com/samber/oops"

	"github.com/holomush/serialcli/internal/command"
	"github.com/holomush/serialcli/internal/device"
)

// globMeta are the characters that turn a get argument into a pattern.
const globMeta = "*?[{"

// Set stores "set <key> <value>". Parameters beyond the value are ignored.
func (h *Handlers) Set(ctx context.Context, exec *command.Execution) {
	key, _ := exec.Param(1)
	value, _ := exec.Param(2)

	if err := h.store.Set(key, value); err != nil {
		writeOutputf(ctx, exec, "set", "ERROR: %s", deviceMessage(err))
		return
	}
	writeOutput(ctx, exec, "set", "OK")
}

// Get prints "key=value" for an exact key, or for every key matching a
// glob pattern.
func (h *Handlers) Get(ctx context.Context, exec *command.Execution) {
	arg, _ := exec.Param(1)

	if !strings.ContainsAny(arg, globMeta) {
		v, ok := h.store.Get(arg)
		if !ok {
			writeOutputf(ctx, exec, "get", "not found: %s", arg)
			return
		}
		writeOutputf(ctx, exec, "get", "%s=%s", arg, v)
		return
	}

	regs, err := h.store.Match(arg)
	if err != nil {
		writeOutputf(ctx, exec, "get", "ERROR: %s", deviceMessage(err))
		return
	}
	if len(regs) == 0 {
		writeOutputf(ctx, exec, "get", "not found: %s", arg)
		return
	}
	for _, r := range regs {
		writeOutputf(ctx, exec, "get", "%s=%s", r.Key, r.Value)
	}
}

// deviceMessage maps device errors to terminal text.
func deviceMessage(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "internal error"
	}
	switch oopsErr.Code() {
	case device.CodeInvalidKey:
		return "invalid key"
	case device.CodeInvalidPattern:
		return "invalid pattern"
	case device.CodeStoreFull:
		return "register file full"
	default:
		return "internal error"
	}
}
