package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"echo-relay/agent/internal/config"
	"echo-relay/agent/internal/coordinator"
	"echo-relay/agent/internal/executor"
	"echo-relay/agent/internal/identity"
	"echo-relay/agent/internal/logger"
	"echo-relay/agent/internal/loop"
	"echo-relay/network"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	flags := pflag.NewFlagSet("agent", pflag.ContinueOnError)
	cfgPath := flags.String("config", config.DefaultPath, "Path to configuration file")
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*cfgPath, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 1
	}
	if err := logger.Init(cfg.LogPath); err != nil {
		fmt.Fprintln(os.Stderr, "cannot open log file:", err)
		return 1
	}

	deviceID, err := identity.GetOrCreate(cfg.IDPath)
	if err != nil {
		logger.Errorf("Cannot obtain device identity from %s: %v", cfg.IDPath, err)
		return 1
	}

	api := network.NewClient(cfg.Server, cfg.RequestTimeout)
	logger.L.Info().Str("device_id", deviceID).Str("server", api.BaseURL()).
		Dur("poll_interval", cfg.PollInterval).Dur("exec_timeout", cfg.ExecTimeout).Msg("Agent starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lp := loop.New(
		coordinator.New(api, deviceID),
		executor.New(cfg.ExecTimeout, cfg.Shell),
		loop.Options{Interval: cfg.PollInterval, Logger: logger.L},
	)

	if _, err := os.Stat(*cfgPath); err == nil {
		if err := config.Watch(ctx, *cfgPath, flags, logger.L, func(next config.AppConfig) {
			lp.SetInterval(next.PollInterval)
		}); err != nil {
			logger.Warnf("Config hot reload disabled: %v", err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.L.Error().Str("stack", string(debug.Stack())).Msgf("Agent crashed: %v", r)
			code = 1
		}
	}()

	if err := lp.Run(ctx); errors.Is(err, context.Canceled) {
		logger.Info("Interrupt received, agent exiting")
	}
	return 0
}
