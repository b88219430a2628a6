// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

// separator is the only byte that delimits words. Tabs are ordinary
// characters, and there is no quoting or escaping.
const separator = ' '

// Param locates a parameter inside the line it was extracted from.
// It is a view, not a copy: use Bytes or Text with the same line.
type Param struct {
	Offset int
	Len    int
}

// Bytes returns the parameter as a sub-slice of line. The slice capacity is
// clipped so appending to it cannot overwrite the rest of the line.
func (p Param) Bytes(line []byte) []byte {
	end := p.Offset + p.Len
	return line[p.Offset:end:end]
}

// Text returns a copy of the parameter as a string.
func (p Param) Text(line []byte) string {
	return string(p.Bytes(line))
}

// CountParameters returns the number of space-delimited words in line,
// not counting the leading command word. Runs of spaces collapse and
// trailing spaces never add a phantom parameter.
func CountParameters(line []byte) int {
	words := 0
	inSpace := true
	for _, c := range line {
		if c == separator {
			inSpace = true
			continue
		}
		if inSpace {
			words++
			inSpace = false
		}
	}
	if words == 0 {
		return 0
	}
	return words - 1
}

// Parameter finds the index-th parameter of line, where index 1 is the
// first word after the command. It reports false when index is not
// positive or the line has fewer parameters.
func Parameter(line []byte, index int) (Param, bool) {
	if index <= 0 {
		return Param{}, false
	}

	found := 0
	i := 0
	for i < len(line) {
		// Skip the current word; on the first pass this is the command.
		for i < len(line) && line[i] != separator {
			i++
		}
		for i < len(line) && line[i] == separator {
			i++
		}
		if i == len(line) {
			break
		}

		found++
		if found != index {
			continue
		}

		start := i
		for i < len(line) && line[i] != separator {
			i++
		}
		if i == start {
			return Param{}, false
		}
		return Param{Offset: start, Len: i - start}, true
	}
	return Param{}, false
}

// ParameterString is Parameter followed by Text.
func ParameterString(line []byte, index int) (string, bool) {
	p, ok := Parameter(line, index)
	if !ok {
		return "", false
	}
	return p.Text(line), true
}
