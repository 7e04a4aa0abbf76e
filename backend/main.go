package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"echo-relay/backend/config"
	"echo-relay/backend/initialize"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("backend", pflag.ContinueOnError)
	cfgPath := flags.String("config", "config/backend.yaml", "Path to configuration file")
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	log := initialize.NewLogger(os.Stdout)

	cfg, err := config.Load(*cfgPath, flags)
	if err != nil {
		log.Error().Err(err).Msg("load config")
		return 1
	}

	app, err := initialize.Build(*cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("init app")
		return 1
	}
	defer app.Close()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.Addr()).Msg("listen")
		return 1
	}

	srv := &http.Server{
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", ln.Addr().String()).Str("store", cfg.Store.Driver).Msg("coordinator listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("http server stopped")
		return 1
	}
	log.Info().Msg("coordinator stopped")
	return 0
}
