// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package command implements a static, table-driven line interpreter.
//
// A line is trimmed of its line terminators, matched against an ordered
// Table of Descriptors (first match wins), checked for a minimum number of
// space-delimited parameters and handed to the matched Handler. The literal
// line "help" lists the table instead.
package command

import (
	"context"
	"io"
)

// Variadic disables the parameter count check for a Descriptor.
const Variadic = -1

// Handler runs a matched command. Output goes to exec.Output; there is no
// return value, a handler reports problems by writing to the sink.
type Handler interface {
	Execute(ctx context.Context, exec *Execution)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, exec *Execution)

// Execute calls f(ctx, exec).
func (f HandlerFunc) Execute(ctx context.Context, exec *Execution) {
	f(ctx, exec)
}

// Descriptor pairs a command token with its help text, handler and
// expected parameter count.
type Descriptor struct {
	Name    string  // command token, case-sensitive (e.g., "status")
	Help    string  // one-line usage text shown by "help"
	Handler Handler // invoked with the full trimmed line
	Params  int     // minimum parameter count, or Variadic
}

// Execution is what a Handler receives for a single dispatch.
//
// Line is borrowed from the caller of Dispatch and is only valid for the
// duration of Execute. Handlers MUST NOT retain it.
type Execution struct {
	Line   []byte
	Output io.Writer
}

// Param returns the index-th parameter (1-based) of the line as a string.
func (e *Execution) Param(index int) (string, bool) {
	return ParameterString(e.Line, index)
}

// ParamCount returns the number of parameters after the command word.
func (e *Execution) ParamCount() int {
	return CountParameters(e.Line)
}
