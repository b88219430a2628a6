// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/serialcli/internal/buildinfo"
	"github.com/holomush/serialcli/internal/command"
	"github.com/holomush/serialcli/internal/command/handlers"
	"github.com/holomush/serialcli/internal/config"
	"github.com/holomush/serialcli/internal/device"
	"github.com/holomush/serialcli/internal/logging"
	"github.com/holomush/serialcli/internal/observability"
	"github.com/holomush/serialcli/internal/xdg"
)

const serviceName = "serialcli"

// shutdownTimeout bounds how long the observability server may take to stop.
const shutdownTimeout = 5 * time.Second

// app is the wiring shared by every subcommand.
type app struct {
	cfg        config.Config
	build      buildinfo.Info
	logger     *slog.Logger
	store      *device.Store
	dispatcher *command.Dispatcher
}

// loadConfig reads --config, or the per-user config file when the flag is
// absent, and then the command's flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, oops.Wrap(err)
	}
	if path == "" {
		// Without HOME there is simply no per-user file.
		if def, ok, err := xdg.DefaultConfigFile(); err == nil && ok {
			path = def
		}
	}
	return config.Load(path, cmd.Flags())
}

// newApp loads configuration, installs the default logger and builds the
// device and command table.
func newApp(cmd *cobra.Command, build buildinfo.Info) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: build.Short(),
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
	}, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	store := device.NewStore()
	dispatcher, err := command.NewDispatcher(
		handlers.New(store, build).Table(),
		command.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		build:      build,
		logger:     logger,
		store:      store,
		dispatcher: dispatcher,
	}, nil
}

// startObservability starts the metrics server when metrics-addr is set.
// The returned metrics are nil when it is disabled. stop is always safe to call.
func (a *app) startObservability(ready observability.ReadinessChecker) (metrics *observability.Metrics, errCh <-chan error, stop func(), err error) {
	if a.cfg.MetricsAddr == "" {
		return nil, nil, func() {}, nil
	}

	srv := observability.NewServer(a.cfg.MetricsAddr, ready)
	command.RegisterMetrics(srv.Registry())

	errCh, err = srv.Start()
	if err != nil {
		return nil, nil, nil, oops.With("operation", "start_observability_server").Wrap(err)
	}

	stop = func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			a.logger.Warn("failed to stop observability server", "error", err)
		}
	}
	return srv.Metrics(), errCh, stop, nil
}
