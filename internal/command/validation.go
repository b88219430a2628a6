// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"regexp"

	"github.com/samber/oops"
)

const (
	// MaxNameLength is the maximum length of a command token.
	MaxNameLength = 32
)

// namePattern validates command tokens: must start with a letter, followed
// by letters, digits, or _.!?+-
// Whitespace is never allowed, since a space ends the token on the line.
var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.!?+\-]{0,31}$`)

// ValidateCommandName validates a command token.
func ValidateCommandName(name string) error {
	if name == "" {
		return oops.Code(CodeInvalidName).
			Errorf("command name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return oops.Code(CodeInvalidName).
			With("name", name).
			With("length", len(name)).
			With("max", MaxNameLength).
			Errorf("command name exceeds maximum length of %d", MaxNameLength)
	}

	if !namePattern.MatchString(name) {
		return oops.Code(CodeInvalidName).
			With("name", name).
			Errorf("command name %q must start with a letter and contain only letters, digits, or _.!?+-", name)
	}

	if name == helpCommand {
		return oops.Code(CodeInvalidName).
			With("name", name).
			Errorf("command name %q is reserved", name)
	}

	return nil
}

func validateDescriptor(d Descriptor) error {
	if err := ValidateCommandName(d.Name); err != nil {
		return err
	}
	if d.Handler == nil {
		return oops.Code(CodeInvalidEntry).
			With("command", d.Name).
			Errorf("command %s has no handler", d.Name)
	}
	if d.Params < Variadic {
		return oops.Code(CodeInvalidEntry).
			With("command", d.Name).
			With("params", d.Params).
			Errorf("command %s has invalid parameter count %d", d.Name, d.Params)
	}
	return nil
}
