// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/serialcli/internal/buildinfo"
	"github.com/holomush/serialcli/internal/config"
)

// NewRootCmd creates the root command for the serialcli CLI.
func NewRootCmd(build buildinfo.Info) *cobra.Command {
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "serialcli",
		Short: "serialcli - a line-oriented command interpreter for serial consoles",
		Long: `serialcli runs a small table-driven command interpreter on a serial
console: a character device, stdin/stdout, or a TCP bridge for development.`,
		SilenceUsage: true,
	}

	// Global flags; config file keys use the same names
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("log-format", defaults.LogFormat, "log format (json or text)")
	flags.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.String("metrics-addr", defaults.MetricsAddr, "address for /metrics and health probes (empty disables)")
	flags.String("banner", defaults.Banner, "text written when a session starts")
	flags.String("prompt", defaults.Prompt, "text written before each line is read")
	flags.Int("max-line", defaults.MaxLine, "longest accepted input line")
	flags.Float64("rate-limit", defaults.RateLimit, "lines per second per session (0 disables)")
	flags.Int("burst", defaults.Burst, "lines allowed above the rate limit at once")

	cmd.AddCommand(NewServeCmd(build))
	cmd.AddCommand(NewConsoleCmd(build))
	cmd.AddCommand(NewExecCmd(build))
	cmd.AddCommand(NewConfigCmd())

	return cmd
}
