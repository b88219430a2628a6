// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"log/slog"
)

// Table is an ordered, immutable list of command descriptors.
// Order matters: the first entry whose token matches a line wins.
// A Table is safe for concurrent use.
type Table struct {
	entries []Descriptor
}

// NewTable validates entries and builds a table from a copy of them.
// A duplicate token is kept but can never match; it is logged as a warning.
func NewTable(entries ...Descriptor) (*Table, error) {
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if err := validateDescriptor(e); err != nil {
			return nil, err
		}
		if first, ok := seen[e.Name]; ok {
			slog.Warn("command shadowed by earlier table entry",
				"command", e.Name,
				"position", i,
				"shadowed_by", first)
			continue
		}
		seen[e.Name] = i
	}

	t := &Table{entries: make([]Descriptor, len(entries))}
	copy(t.entries, entries)
	return t, nil
}

// MustTable is NewTable for statically defined tables.
// Panics on an invalid entry (indicates a programming error).
func MustTable(entries ...Descriptor) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic("invalid command table: " + err.Error())
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the descriptors in table order.
// The returned slice is a copy and safe to modify.
func (t *Table) Entries() []Descriptor {
	out := make([]Descriptor, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the first descriptor whose token starts line and is
// followed by a space or the end of the line. "set" therefore matches
// "set a 1" but not "settings".
func (t *Table) Lookup(line []byte) (Descriptor, bool) {
	for _, e := range t.entries {
		if matchesToken(line, e.Name) {
			return e, true
		}
	}
	return Descriptor{}, false
}

func matchesToken(line []byte, name string) bool {
	n := len(name)
	if len(line) < n {
		return false
	}
	if len(line) > n && line[n] != separator {
		return false
	}
	return string(line[:n]) == name
}
