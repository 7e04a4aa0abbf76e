package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type HTTP struct {
	Host string
	Port int
}

type DB struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Store struct {
	Driver     string // memory, sqlite, mysql or redis
	SQLitePath string
	DB         DB
	Redis      Redis
}

type Config struct {
	HTTP  HTTP
	Store Store
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port) }

// RegisterFlags adds the backend's command line overrides to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("host", "127.0.0.1", "HTTP listen host")
	fs.Int("port", 5000, "HTTP listen port")
	fs.String("store", "memory", "Storage driver: memory, sqlite, mysql or redis")
}

// Load reads the optional yaml file at path, then ECHORELAY_* environment
// variables, then flags set in fs.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("backend.host", "127.0.0.1")
	v.SetDefault("backend.port", 5000)
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.sqlite_path", "data/echo-relay.db")
	v.SetDefault("store.db.host", "127.0.0.1")
	v.SetDefault("store.db.port", 3306)
	v.SetDefault("store.db.user", "root")
	v.SetDefault("store.db.pass", "")
	v.SetDefault("store.db.name", "echo_relay")
	v.SetDefault("store.redis.addr", "127.0.0.1:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "echorelay")

	v.SetEnvPrefix("ECHORELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range map[string]string{"host": "backend.host", "port": "backend.port", "store": "store.driver"} {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		HTTP: HTTP{Host: v.GetString("backend.host"), Port: v.GetInt("backend.port")},
		Store: Store{
			Driver:     strings.ToLower(v.GetString("store.driver")),
			SQLitePath: v.GetString("store.sqlite_path"),
			DB:         DB{Host: v.GetString("store.db.host"), Port: v.GetInt("store.db.port"), User: v.GetString("store.db.user"), Pass: v.GetString("store.db.pass"), Name: v.GetString("store.db.name")},
			Redis:      Redis{Addr: v.GetString("store.redis.addr"), Password: v.GetString("store.redis.password"), DB: v.GetInt("store.redis.db"), Prefix: v.GetString("store.redis.prefix")},
		},
	}
	switch cfg.Store.Driver {
	case "memory", "sqlite", "mysql", "redis":
	default:
		return nil, fmt.Errorf("unknown store.driver %q", cfg.Store.Driver)
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return nil, fmt.Errorf("backend.port %d out of range", cfg.HTTP.Port)
	}
	return cfg, nil
}
