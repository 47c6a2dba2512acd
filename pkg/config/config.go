package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"customer-analytics/pkg/database"
	"customer-analytics/pkg/logger"
)

// Config is read from the environment, optionally seeded from .env files.
type Config struct {
	DSN          string          `env:"ANALYTICS_DSN"`
	HTTPAddr     string          `env:"HTTP_ADDR" envDefault:":8080"`
	ReportDir    string          `env:"REPORT_DIR" envDefault:"reports"`
	ReportFormat string          `env:"REPORT_FORMAT" envDefault:"json"`
	QueryTimeout time.Duration   `env:"QUERY_TIMEOUT" envDefault:"30s"`
	Log          logger.Config   `envPrefix:"LOG_"`
	Tables       database.Tables `envPrefix:"TABLE_"`
}

// Load reads files (default ".env") into the environment, then parses it. A missing default
// file is not an error; variables already set win over the files.
func Load(files ...string) (*Config, error) {
	explicit := len(files) > 0
	if !explicit {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
