package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"echo-relay/cmd/console/directory"
	"echo-relay/cmd/console/menu"
	"echo-relay/cmd/console/ui"
	"echo-relay/network"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, in io.Reader, out io.Writer) int {
	flags := pflag.NewFlagSet("console", pflag.ContinueOnError)
	cfgPath := flags.String("config", defaultConfigPath, "Path to configuration file")
	tui := flags.Bool("tui", false, "Start the interactive terminal UI instead of the line menu")
	debug := flags.Bool("debug", false, "Write diagnostic logs to stderr")
	registerFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	log := zerolog.Nop()
	if *debug {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).With().Timestamp().Logger()
	}

	cfg, err := loadConfig(*cfgPath, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 1
	}

	api := network.NewClient(cfg.Server, cfg.RequestTimeout)
	dir := directory.New(api)
	log.Debug().Str("server", api.BaseURL()).Dur("timeout", cfg.RequestTimeout).Bool("tui", *tui).Msg("console starting")

	if *tui {
		if err := ui.Run(ui.NewSession(dir, cfg.RequestTimeout)); err != nil {
			log.Error().Err(err).Msg("terminal UI failed")
			fmt.Fprintln(os.Stderr, "terminal UI failed:", err)
			return 1
		}
		return 0
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	// A blocked stdin read cannot be cancelled, so an interrupt ends the process here.
	go func() {
		if _, ok := <-sigs; ok {
			fmt.Fprintln(out, "\ninterrupted")
			os.Exit(0)
		}
	}()

	m := menu.New(dir, in, out, menu.Options{Server: api.BaseURL(), PollInterval: cfg.PollInterval})
	if err := m.Run(context.Background()); err != nil {
		log.Error().Err(err).Msg("console stopped")
		fmt.Fprintln(os.Stderr, "console stopped:", err)
		return 1
	}
	return 0
}
