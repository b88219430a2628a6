// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/holomush/serialcli/internal/buildinfo"
)

// NewExecCmd creates the exec subcommand.
func NewExecCmd(build buildinfo.Info) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <line...>",
		Short: "Dispatch a single command line and exit",
		Long: `Join the arguments with single spaces and dispatch them as one input
line. The exit status is non-zero when the line is rejected. Use -- before
arguments that start with a dash.`,
		Example: `  serialcli exec help
  serialcli exec set sensor.temp 21`,
		Args: cobra.MinimumNArgs(1),
		// The interpreter already wrote its diagnostic to stdout
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, build)
			if err != nil {
				cmd.PrintErrln("Error:", err)
				return err
			}
			return a.dispatcher.DispatchString(cmd.Context(), strings.Join(args, " "), cmd.OutOrStdout())
		},
	}
}
