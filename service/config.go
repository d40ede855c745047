package service

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Token store backends selectable with TOKEN_STORE
const (
	TokenStoreMemory = "memory"
	TokenStoreSQLite = "sqlite"
	TokenStoreRedis  = "redis"
)

const devSessionSecret = "development-session-secret-change-me"

// Config is the application configuration, loaded from environment variables
// with github.com/caarlos0/env.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8000"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	// Timezone is the zone class dates and booking times are entered in
	Timezone string `env:"TIMEZONE" envDefault:"Local"`

	API struct {
		BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:5000/api"`
		Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
	} `envPrefix:"API_"`

	Session struct {
		Secret  string        `env:"SECRET"`
		MaxAge  time.Duration `env:"MAX_AGE" envDefault:"720h"`
		IdleTTL time.Duration `env:"IDLE_TTL" envDefault:"2h"`
	} `envPrefix:"SESSION_"`

	// ReconcileWait bounds how long a request waits for a restored session to be verified
	ReconcileWait time.Duration `env:"RECONCILE_WAIT" envDefault:"2s"`
	NoticeTTL     time.Duration `env:"NOTICE_TTL" envDefault:"3s"`

	TokenStore string `env:"TOKEN_STORE" envDefault:"sqlite"`
	DBPath     string `env:"DB_PATH" envDefault:"./db/fitnesshub.db"`

	Redis struct {
		Addr     string `env:"ADDR" envDefault:"localhost:6379"`
		Password string `env:"PASSWORD"`
		DB       int    `env:"DB" envDefault:"0"`
	} `envPrefix:"REDIS_"`

	Stripe struct {
		PublishableKey string `env:"PUBLISHABLE_KEY"`
	} `envPrefix:"STRIPE_"`
}

// LoadConfig reads .env (when present) and the process environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Sanitize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location returns the configured time zone
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Sanitize applies guardrails to values loaded from env
func (c *Config) Sanitize() error {
	c.TokenStore = strings.ToLower(strings.TrimSpace(c.TokenStore))
	switch c.TokenStore {
	case "":
		c.TokenStore = TokenStoreSQLite
	case TokenStoreMemory, TokenStoreSQLite, TokenStoreRedis:
	default:
		return fmt.Errorf("invalid TOKEN_STORE %q (valid options: memory, sqlite, redis)", c.TokenStore)
	}

	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.API.Timeout <= 0 {
		c.API.Timeout = 15 * time.Second
	}
	if c.Session.MaxAge <= 0 {
		c.Session.MaxAge = 30 * 24 * time.Hour
	}
	if c.Session.IdleTTL <= 0 {
		c.Session.IdleTTL = 2 * time.Hour
	}
	if c.ReconcileWait < 0 {
		c.ReconcileWait = 0
	}
	if c.NoticeTTL <= 0 {
		c.NoticeTTL = 3 * time.Second
	}

	if c.Timezone != "" && c.Timezone != "Local" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
		}
	}

	if c.Session.Secret == "" {
		if c.IsProduction() {
			return errors.New("SESSION_SECRET is required in production")
		}
		slog.Warn("SESSION_SECRET not set, using development secret")
		c.Session.Secret = devSessionSecret
	}
	return nil
}
