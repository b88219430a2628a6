// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package main is the entry point for the serialcli interpreter.
package main

import (
	"os"

	"github.com/holomush/serialcli/internal/buildinfo"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	build := buildinfo.New(version, commit, date)
	cmd := NewRootCmd(build)
	cmd.Version = build.String()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
