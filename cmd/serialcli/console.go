// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/holomush/serialcli/internal/buildinfo"
	"github.com/holomush/serialcli/internal/config"
	"github.com/holomush/serialcli/internal/serial"
)

// transportStdio labels sessions on the process's own stdin/stdout.
const transportStdio = "stdio"

// terminal joins separate input and output streams into one ReadWriter.
type terminal struct {
	io.Reader
	io.Writer
}

// NewConsoleCmd creates the console subcommand.
func NewConsoleCmd(build buildinfo.Info) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run one interpreter session on a serial device or stdin/stdout",
		Long: `Run a single interpreter session. With --device, the session reads
from and writes to that character device (for example /dev/ttyUSB0),
waiting for it to appear. Without it, stdin and stdout are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, build)
			if err != nil {
				return err
			}
			return a.console(cmd.Context(), terminal{Reader: cmd.InOrStdin(), Writer: cmd.OutOrStdout()})
		},
	}

	defaults := config.Defaults()
	cmd.Flags().String("device", defaults.Device, "serial character device path")
	cmd.Flags().Int("device-open-retries", defaults.DeviceOpenRetries, "times to retry while the device does not exist")

	return cmd
}

// console runs a session on the configured device, or on stdio when none is set.
func (a *app) console(parent context.Context, stdio io.ReadWriter) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics, _, stopObs, err := a.startObservability(nil)
	if err != nil {
		return err
	}
	defer stopObs()

	rw, transport := stdio, transportStdio
	if a.cfg.Device != "" {
		f, err := serial.OpenDevice(ctx, a.cfg.Device, a.cfg.DeviceOpenRetries)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				a.logger.Debug("error closing device", "device", a.cfg.Device, "error", err)
			}
		}()
		rw, transport = f, serial.TransportDevice
		a.logger.Info("console attached", "device", a.cfg.Device)
	}

	session := serial.NewSession(rw, a.dispatcher, a.cfg.SessionConfig(),
		serial.WithMetrics(metrics, transport),
		serial.WithSessionLogger(a.logger),
	)
	return session.Run(ctx)
}
