package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"pagesmith/internal/storage"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	HTTPAddr    string `env:"PAGESMITH_HTTP_ADDR" envDefault:":8080"`
	DataDir     string `env:"PAGESMITH_DATA_DIR" envDefault:"./data"`
	ImportDir   string `env:"PAGESMITH_IMPORT_DIR"`
	PublishCron string `env:"PAGESMITH_PUBLISH_CRON" envDefault:"* * * * *"`

	DBDriver   string `env:"PAGESMITH_DB_DRIVER" envDefault:"sqlite"`
	DBHost     string `env:"PAGESMITH_DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"PAGESMITH_DB_PORT"`
	DBName     string `env:"PAGESMITH_DB_NAME" envDefault:"pagesmith"`
	DBUser     string `env:"PAGESMITH_DB_USER"`
	DBPassword string `env:"PAGESMITH_DB_PASSWORD"`
	DBSSLMode  string `env:"PAGESMITH_DB_SSLMODE" envDefault:"disable"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Storage maps the process configuration onto a storage backend config.
func (c Config) Storage() storage.Config {
	return storage.Config{
		Driver:   c.DBDriver,
		Path:     filepath.Join(c.DataDir, "pagesmith.db"),
		Host:     c.DBHost,
		Port:     c.DBPort,
		Database: c.DBName,
		Username: c.DBUser,
		Password: c.DBPassword,
		SSLMode:  c.DBSSLMode,
	}
}
