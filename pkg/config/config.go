package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings sourced from the environment.
// Ports and the log level are flags, everything else lives here.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL" envDefault:"sqlite://data/game.db"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"insecure-dev-secret"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	BackupDir      string        `env:"BACKUP_DIR" envDefault:"data/backups"`
	BackupInterval time.Duration `env:"BACKUP_INTERVAL" envDefault:"6h"`
	BackupRetain   int           `env:"BACKUP_RETAIN" envDefault:"7"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %v", err)
	}
	return cfg, nil
}
