// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"github.com/samber/oops"
)

// Error codes for dispatch and table construction failures.
const (
	CodeNilLine        = "NIL_LINE"
	CodeUnknownCommand = "UNKNOWN_COMMAND"
	CodeInvalidArgs    = "INVALID_ARGS"
	CodeHandlerPanic   = "HANDLER_PANIC"
	CodeInvalidName    = "INVALID_NAME"
	CodeInvalidEntry   = "INVALID_ENTRY"
	CodeNilTable       = "NIL_TABLE"
)

// Diagnostics written to the output sink. The wording and the CRLF
// terminators are what serial terminals on the other end expect.
const (
	MsgUnknownCommand = "Command not recognized.  Enter 'help' to view a list of available commands.\r\n"
	MsgInvalidArgs    = "Incorrect command parameter(s).  Enter 'help' to view a list of available commands.\r\n"
	MsgHandlerPanic   = "Command failed.\r\n"
)

// ErrNilTable is returned by NewDispatcher when no table is supplied.
var ErrNilTable = oops.Code(CodeNilTable).Errorf("command table is nil")

// ErrNilLine creates the error for a dispatch without an input line.
func ErrNilLine() error {
	return oops.Code(CodeNilLine).Errorf("no input line")
}

// ErrUnknownCommand creates an error for a line that matched no entry.
func ErrUnknownCommand(word string) error {
	return oops.Code(CodeUnknownCommand).
		With("command", word).
		Errorf("unknown command: %s", word)
}

// ErrInvalidArgs creates an error for a line with too few parameters.
func ErrInvalidArgs(cmd string, want, got int) error {
	return oops.Code(CodeInvalidArgs).
		With("command", cmd).
		With("want", want).
		With("got", got).
		Errorf("command %s expects %d parameter(s), got %d", cmd, want, got)
}

// ErrHandlerPanic creates an error for a handler that panicked.
func ErrHandlerPanic(cmd string, recovered any) error {
	return oops.Code(CodeHandlerPanic).
		With("command", cmd).
		With("panic", recovered).
		Errorf("handler for %s panicked: %v", cmd, recovered)
}

// Diagnostic returns the text written to the output sink for err, or ""
// when the error has no user-facing diagnostic.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	switch oopsErr.Code() {
	case CodeUnknownCommand:
		return MsgUnknownCommand
	case CodeInvalidArgs:
		return MsgInvalidArgs
	case CodeHandlerPanic:
		return MsgHandlerPanic
	default:
		return ""
	}
}

// HasCode reports whether err is an oops error carrying code.
func HasCode(err error, code string) bool {
	oopsErr, ok := oops.AsOops(err)
	return ok && oopsErr.Code() == code
}
