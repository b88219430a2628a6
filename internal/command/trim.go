// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

// TrimLineEnding strips every trailing carriage return and line feed from
// line. The result shares line's backing array; nothing is copied. A line
// made only of CR/LF bytes becomes empty, and nil stays nil.
func TrimLineEnding(line []byte) []byte {
	end := len(line)
	for end > 0 && (line[end-1] == '\r' || line[end-1] == '\n') {
		end--
	}
	return line[:end]
}
