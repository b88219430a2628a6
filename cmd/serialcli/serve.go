// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/serialcli/internal/buildinfo"
	"github.com/holomush/serialcli/internal/config"
	"github.com/holomush/serialcli/internal/serial"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd(build buildinfo.Info) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interpreter over TCP",
		Long: `Serve the command interpreter over TCP, one session per connection.
Useful during development when no serial line is attached; connect with
telnet or nc.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, build)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().String("listen", config.Defaults().Listen, "TCP listen address")

	return cmd
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The readiness probe may run before the bridge exists.
	var bridge atomic.Pointer[serial.Server]
	metrics, obsErr, stopObs, err := a.startObservability(func() bool {
		srv := bridge.Load()
		return srv != nil && srv.Ready()
	})
	if err != nil {
		return err
	}
	defer stopObs()

	srv := serial.NewServer(a.cfg.Listen, a.dispatcher, a.cfg.SessionConfig(), metrics)
	bridge.Store(srv)

	runErr := make(chan error, 1)
	go func() { runErr <- srv.Run(ctx) }()

	a.logger.Info("serialcli started", "version", a.build.Short(), "listen", a.cfg.Listen)

	select {
	case err := <-runErr:
		return err
	case err, ok := <-obsErr:
		if ok && err != nil {
			cancel()
			<-runErr
			return oops.With("component", "observability").Wrap(err)
		}
		return <-runErr
	}
}
