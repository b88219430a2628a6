// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"fmt"
	"io"
)

const (
	helpCommand = "help"
	helpHeader  = "Known commands:\r\n"
)

// WriteHelp writes the help header followed by one "<name> -> <help>" line
// per entry, in table order. It stops at the first write error.
func (t *Table) WriteHelp(w io.Writer) error {
	if _, err := io.WriteString(w, helpHeader); err != nil {
		return err //nolint:wrapcheck // caller only logs sink failures
	}
	for _, e := range t.entries {
		if _, err := fmt.Fprintf(w, "%s -> %s\r\n", e.Name, e.Help); err != nil {
			return err //nolint:wrapcheck // caller only logs sink failures
		}
	}
	return nil
}

func isHelp(line []byte) bool {
	return string(line) == helpCommand
}
