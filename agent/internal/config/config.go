package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultPath is the optional agent config file.
const DefaultPath = "config/agent.yaml"

type AppConfig struct {
	Server         string
	IDPath         string
	PollInterval   time.Duration
	ExecTimeout    time.Duration
	RequestTimeout time.Duration
	Shell          string
	LogPath        string
}

// flag name -> config key
var flagKeys = map[string]string{
	"server":          "agent.server",
	"id-file":         "agent.id_path",
	"poll-interval":   "agent.poll_interval",
	"exec-timeout":    "agent.exec_timeout",
	"request-timeout": "agent.request_timeout",
	"shell":           "agent.shell",
	"log-path":        "agent.log_path",
}

// RegisterFlags adds the agent's command line overrides to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("server", "http://127.0.0.1:5000", "Coordinator base URL")
	fs.String("id-file", ".device_id", "File holding the persistent device identifier")
	fs.Duration("poll-interval", 5*time.Second, "Pause between polling cycles")
	fs.Duration("exec-timeout", 30*time.Second, "Upper bound on one command's run time")
	fs.Duration("request-timeout", 10*time.Second, "Timeout for each coordinator request")
	fs.String("shell", "", "Shell prefix used to run commands (default: platform shell)")
	fs.String("log-path", "", "Write logs to this file instead of stdout")
}

// Load resolves the agent config from defaults, the yaml file at path (if it
// exists), ECHORELAY_* environment variables and any flags set in fs.
func Load(path string, fs *pflag.FlagSet) (AppConfig, error) {
	v := viper.New()
	v.SetDefault("agent.server", "http://127.0.0.1:5000")
	v.SetDefault("agent.id_path", ".device_id")
	v.SetDefault("agent.poll_interval", 5*time.Second)
	v.SetDefault("agent.exec_timeout", 30*time.Second)
	v.SetDefault("agent.request_timeout", 10*time.Second)
	v.SetDefault("agent.shell", "")
	v.SetDefault("agent.log_path", "")

	v.SetEnvPrefix("ECHORELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return AppConfig{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return AppConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := AppConfig{
		Server:         strings.TrimSpace(v.GetString("agent.server")),
		IDPath:         v.GetString("agent.id_path"),
		PollInterval:   v.GetDuration("agent.poll_interval"),
		ExecTimeout:    v.GetDuration("agent.exec_timeout"),
		RequestTimeout: v.GetDuration("agent.request_timeout"),
		Shell:          v.GetString("agent.shell"),
		LogPath:        v.GetString("agent.log_path"),
	}
	return cfg, cfg.validate()
}

func (c AppConfig) validate() error {
	var errs []error
	if c.Server == "" {
		errs = append(errs, errors.New("agent.server is required"))
	}
	if strings.TrimSpace(c.IDPath) == "" {
		errs = append(errs, errors.New("agent.id_path is required"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("agent.poll_interval must be positive"))
	}
	if c.ExecTimeout <= 0 {
		errs = append(errs, errors.New("agent.exec_timeout must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("agent.request_timeout must be positive"))
	}
	return errors.Join(errs...)
}
