package initialize

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"echo-relay/backend/app/controllers"
	"echo-relay/backend/app/db"
	"echo-relay/backend/app/middleware"
	"echo-relay/backend/app/repo"
	"echo-relay/backend/app/services"
	"echo-relay/backend/config"
	"echo-relay/backend/router"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type App struct {
	Cfg     config.Config
	Log     zerolog.Logger
	Store   repo.Store
	Relay   *services.RelayService
	Router  http.Handler
	Devices *controllers.DeviceController
	Control *controllers.ControlController
}

func Build(cfg config.Config, log zerolog.Logger) (*App, error) {
	store, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	// Services
	relay := services.NewRelayService(store)

	// Controllers
	deviceCtrl := controllers.NewDeviceController(relay)
	controlCtrl := controllers.NewControlController(relay)

	// Router, outermost middleware last
	h := router.NewRouter(deviceCtrl, controlCtrl)
	h = middleware.Recover(log, h)
	h = middleware.CORS(h)
	h = middleware.Logging(log, h)

	return &App{Cfg: cfg, Log: log, Store: store, Relay: relay, Router: h, Devices: deviceCtrl, Control: controlCtrl}, nil
}

// OpenStore connects the configured storage backend.
func OpenStore(cfg config.Store) (repo.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return repo.NewMemoryStore(), nil
	case "sqlite", "mysql":
		gdb, err := db.Connect(db.Config{
			Driver:     cfg.Driver,
			SQLitePath: cfg.SQLitePath,
			Host:       cfg.DB.Host,
			Port:       cfg.DB.Port,
			User:       cfg.DB.User,
			Password:   cfg.DB.Pass,
			DBName:     cfg.DB.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if err := db.Migrate(gdb); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return repo.NewGormStore(gdb), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return repo.NewRedisStore(rdb, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (a *App) Close() error { return a.Store.Close() }
