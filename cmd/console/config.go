package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultConfigPath = "config/console.yaml"

type consoleConfig struct {
	Server         string
	RequestTimeout time.Duration
	PollInterval   time.Duration
}

func registerFlags(fs *pflag.FlagSet) {
	fs.String("server", "http://127.0.0.1:5000", "Coordinator base URL")
	fs.Duration("timeout", 10*time.Second, "Timeout for each coordinator request")
	fs.Duration("poll-interval", 5*time.Second, "Agent polling interval shown after a dispatch")
}

func loadConfig(path string, fs *pflag.FlagSet) (consoleConfig, error) {
	v := viper.New()
	v.SetDefault("console.server", "http://127.0.0.1:5000")
	v.SetDefault("console.request_timeout", 10*time.Second)
	v.SetDefault("console.poll_interval", 5*time.Second)

	v.SetEnvPrefix("ECHORELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range map[string]string{
		"server":        "console.server",
		"timeout":       "console.request_timeout",
		"poll-interval": "console.poll_interval",
	} {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return consoleConfig{}, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return consoleConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := consoleConfig{
		Server:         strings.TrimSpace(v.GetString("console.server")),
		RequestTimeout: v.GetDuration("console.request_timeout"),
		PollInterval:   v.GetDuration("console.poll_interval"),
	}
	var errs []error
	if cfg.Server == "" {
		errs = append(errs, errors.New("console.server is required"))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, errors.New("console.request_timeout must be positive"))
	}
	return cfg, errors.Join(errs...)
}
