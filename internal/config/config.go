// Package config loads runtime configuration from the environment.
//
// A .env file is honored when present (local development); real deployments
// set the variables directly. Validation happens once at load time so the
// rest of the application can trust the values.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Data     DataConfig
	Cache    CacheConfig
	Screener ScreenerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"optscreener"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// DataConfig points at the upstream datasets. The sheet URLs are published
// CSV exports of the spreadsheet tabs; when StocksURL is empty the synthetic
// provider is used instead.
type DataConfig struct {
	StocksURL      string        `envconfig:"STOCKS_CSV_URL"`
	OptionsURL     string        `envconfig:"OPTIONS_CSV_URL"`
	FixedIncomeURL string        `envconfig:"FIXED_INCOME_CSV_URL"`
	ETFURL         string        `envconfig:"ETF_CSV_URL"`
	BCBBaseURL     string        `envconfig:"BCB_BASE_URL" default:"https://api.bcb.gov.br" validate:"url"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
}

type CacheConfig struct {
	// Path is the badger directory for the durable value store.
	// Empty means memory-only (no persistence across restarts).
	Path string `envconfig:"CACHE_PATH" default:"./data/valuecache"`
}

type ScreenerConfig struct {
	Workers          int     `envconfig:"SCREENER_WORKERS" default:"5" validate:"min=1,max=16"`
	FallbackRiskFree float64 `envconfig:"FALLBACK_RISK_FREE" default:"0.1075" validate:"gt=0,lt=1"`
}

// Load reads the environment (plus an optional .env file) into a validated
// Config.
func Load() (*Config, error) {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no environment is present,
// mainly for tests.
func Default() *Config {
	return &Config{
		App:   AppConfig{Name: "optscreener", Env: "development", LogLevel: "info"},
		Data:  DataConfig{BCBBaseURL: "https://api.bcb.gov.br", HTTPTimeout: 15 * time.Second},
		Cache: CacheConfig{Path: ""},
		Screener: ScreenerConfig{
			Workers:          5,
			FallbackRiskFree: 0.1075,
		},
	}
}
