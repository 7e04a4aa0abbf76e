package db

import (
	"fmt"
	"os"
	"path/filepath"

	"echo-relay/backend/app/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Driver     string // sqlite or mysql
	SQLitePath string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
}

func Connect(cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
		return gorm.Open(mysql.Open(dsn), gcfg)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}
}

// Migrate creates or updates the coordinator tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.Device{}, &models.Command{}, &models.Echo{})
}
