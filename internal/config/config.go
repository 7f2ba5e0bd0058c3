package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Save backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// ErrNoAPIKey is returned when the LLM player is requested without a key.
var ErrNoAPIKey = errors.New("GEMINI_API_KEY environment variable is not set")

// Config holds the application configuration.
type Config struct {
	SaveDir      string `env:"WCAN_SAVE_DIR" envDefault:".saves"`
	Store        string `env:"WCAN_STORE" envDefault:"file"`
	DBPath       string `env:"WCAN_DB_PATH" envDefault:".saves/wcan.db"`
	SaveSlot     string `env:"WCAN_SAVE_SLOT" envDefault:"current"`
	RulesetPath  string `env:"WCAN_RULESET"`
	Seed         uint64 `env:"WCAN_SEED"`
	LogFile      string `env:"WCAN_LOG_FILE" envDefault:"wcan.log"`
	MaxTurns     int    `env:"WCAN_MAX_TURNS" envDefault:"60"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Store != StoreFile && cfg.Store != StoreSQLite {
		return nil, fmt.Errorf("WCAN_STORE must be %q or %q, got %q", StoreFile, StoreSQLite, cfg.Store)
	}
	if cfg.MaxTurns <= 0 {
		return nil, fmt.Errorf("WCAN_MAX_TURNS must be positive, got %d", cfg.MaxTurns)
	}
	return &cfg, nil
}

// RequireAPIKey reports ErrNoAPIKey when no Gemini key is configured.
func (c *Config) RequireAPIKey() error {
	if c.GeminiAPIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}
