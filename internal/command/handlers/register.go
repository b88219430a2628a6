// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package handlers provides the device's static command table.
package handlers

import (
	"github.com/holomush/serialcli/internal/buildinfo"
	"github.com/holomush/serialcli/internal/command"
	"github.com/holomush/serialcli/internal/device"
)

// Handlers binds the command implementations to the device they drive.
type Handlers struct {
	store *device.Store
	build buildinfo.Info
}

// New creates the handler set for store.
func New(store *device.Store, build buildinfo.Info) *Handlers {
	return &Handlers{store: store, build: build}
}

// Table returns the static command table. Order is significant: the first
// entry whose token matches a line wins.
// Panics if an entry is invalid (indicates a programming error).
func (h *Handlers) Table() *command.Table {
	return command.MustTable(
		command.Descriptor{
			Name:    "status",
			Help:    "status - show uptime, register count and LED state",
			Handler: command.HandlerFunc(h.Status),
			Params:  0,
		},
		command.Descriptor{
			Name:    "echo",
			Help:    "echo [text...] - write text back",
			Handler: command.HandlerFunc(h.Echo),
			Params:  command.Variadic,
		},
		command.Descriptor{
			Name:    "set",
			Help:    "set <key> <value> - store a register value",
			Handler: command.HandlerFunc(h.Set),
			Params:  2,
		},
		command.Descriptor{
			Name:    "get",
			Help:    "get <key|pattern> - print matching registers, e.g. get sensor.*",
			Handler: command.HandlerFunc(h.Get),
			Params:  1,
		},
		command.Descriptor{
			Name:    "led",
			Help:    "led <on|off|toggle> - switch the status LED",
			Handler: command.HandlerFunc(h.LED),
			Params:  1,
		},
		command.Descriptor{
			Name:    "version",
			Help:    "version [constraint] - show firmware version or check it, e.g. version >=1.2",
			Handler: command.HandlerFunc(h.Version),
			Params:  0,
		},
		command.Descriptor{
			Name:    "uptime",
			Help:    "uptime - seconds since boot",
			Handler: command.HandlerFunc(h.Uptime),
			Params:  0,
		},
	)
}
