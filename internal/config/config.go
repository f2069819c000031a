package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Upstream store API
	UpstreamBaseURL string `env:"UPSTREAM_BASE_URL,required"`
	CatalogPath     string `env:"UPSTREAM_CATALOG_PATH" envDefault:"/wp-json/wc/v3/products"`
	OrdersPath      string `env:"UPSTREAM_ORDERS_PATH" envDefault:"/wp-json/wc/v3/orders"`
	ConsumerKey     string `env:"UPSTREAM_CONSUMER_KEY,required"`
	ConsumerSecret  string `env:"UPSTREAM_CONSUMER_SECRET,required"`

	// CORS allow-list
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:8000" envSeparator:","`

	// Rate limiting, requests per second per client IP
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Redis (session and cart state)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session TTL in hours (default: 30 days)
	SessionTTL int `env:"SESSION_TTL_HOURS" envDefault:"720"`

	// PostgreSQL (user accounts and addresses)
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"storefront_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"storefront"`
	PostgresSSL  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Registration creates customer-class accounts when enabled;
	// otherwise accounts fall back to the generic subscriber class.
	CustomerRole bool `env:"CUSTOMER_ROLE_ENABLED" envDefault:"true"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !strings.HasPrefix(c.UpstreamBaseURL, "http://") && !strings.HasPrefix(c.UpstreamBaseURL, "https://") {
		return fmt.Errorf("upstream base URL must be http(s): %q", c.UpstreamBaseURL)
	}
	if c.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be positive: %d", c.RateLimitRPS)
	}
	if c.SessionTTL < 1 {
		return fmt.Errorf("session TTL must be at least one hour: %d", c.SessionTTL)
	}
	return nil
}
