package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mcoot/tourney/internal/api"
	"github.com/mcoot/tourney/internal/factory"
	"github.com/mcoot/tourney/internal/services/auth"
	"github.com/mcoot/tourney/internal/services/tournament"
	redisstorage "github.com/mcoot/tourney/internal/storage/redis"
)

// Config holds the server settings read from the environment
type Config struct {
	Host     string `env:"TOURNEY_HOST"`
	Port     int    `env:"TOURNEY_PORT" envDefault:"8080"`
	LogLevel string `env:"TOURNEY_LOG_LEVEL" envDefault:"info"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/tourney.db"`

	// OperatorKeyHash is a bcrypt hash of the operator key. Empty disables auth.
	OperatorKeyHash string `env:"OPERATOR_KEY_HASH"`

	RetentionInterval     time.Duration `env:"RETENTION_INTERVAL" envDefault:"24h"`
	DisplayRetractDefault time.Duration `env:"DISPLAY_RETRACT_DEFAULT" envDefault:"30s"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment
func Load() (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the environment only
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combination of settings is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("TOURNEY_PORT must be between 1 and 65535, got %d", c.Port)
	}
	switch c.StorageType {
	case factory.StorageTypeMemory, factory.StorageTypeSQLite:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q", c.StorageType)
	}
	if c.RetentionInterval <= 0 {
		return fmt.Errorf("RETENTION_INTERVAL must be positive, got %s", c.RetentionInterval)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return level, fmt.Errorf("invalid TOURNEY_LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}

// Factory builds the application factory settings
func (c *Config) Factory(logger *slog.Logger) factory.Config {
	authCfg := auth.DefaultConfig()
	authCfg.KeyHash = c.OperatorKeyHash

	tournamentCfg := tournament.DefaultConfig()
	tournamentCfg.DefaultDisplayDuration = c.DisplayRetractDefault

	cfg := factory.Config{
		AuthConfig:       authCfg,
		TournamentConfig: tournamentCfg,
		Logger:           logger,
		StorageType:      c.StorageType,
		SQLitePath:       c.SQLitePath,
	}
	if c.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// Server builds the HTTP server settings
func (c *Config) Server() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	return cfg
}
