// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, preview, cache, rate limiting and logging

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Preview contains outbound call settings for the preview engine
	Preview PreviewConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// RateLimit contains per-IP rate limiting configuration
	RateLimit RateLimitConfig

	// Log contains logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `env:"PORT" envDefault:"8000" validate:"required,numeric"`
}

// PreviewConfig holds preview engine configuration
type PreviewConfig struct {
	// Timeout bounds every outbound call
	Timeout time.Duration `env:"PREVIEW_TIMEOUT" envDefault:"5s" validate:"gt=0"`

	MarketplaceAPIURL string `env:"MARKETPLACE_API_URL" envDefault:"https://shopee.co.id/api/v4/item/get" validate:"required,url"`
	CDNPrefix         string `env:"MARKETPLACE_CDN_PREFIX" envDefault:"https://cf.shopee.co.id/file/" validate:"required,url"`

	// BreakerFailures consecutive upstream failures open the circuit breaker
	BreakerFailures uint32        `env:"BREAKER_FAILURES" envDefault:"5" validate:"min=1"`
	BreakerCooldown time.Duration `env:"BREAKER_COOLDOWN" envDefault:"30s" validate:"gt=0"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite/none)
	Type string `env:"CACHE_TYPE" envDefault:"memory" validate:"oneof=memory redis sqlite none"`

	// TTL is how long successful previews are kept
	TTL time.Duration `env:"CACHE_TTL" envDefault:"10m" validate:"gte=0"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLitePath is the database file for the sqlite backend
	SQLitePath string `env:"SQLITE_PATH" envDefault:"preview-cache.db"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`

	// Password is the Redis authentication password
	Password string `env:"REDIS_PASSWORD"`

	// DB is the Redis database number
	DB int `env:"REDIS_DB" envDefault:"0" validate:"min=0,max=15"`
}

// RateLimitConfig holds per-IP rate limiting configuration
type RateLimitConfig struct {
	// PerMinute is the sustained request rate; 0 disables limiting
	PerMinute int `env:"RATE_LIMIT" envDefault:"60" validate:"min=0"`

	// Burst is the number of requests allowed above the sustained rate
	Burst int `env:"RATE_BURST" envDefault:"10" validate:"min=0"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	// File enables a rotating log file when set
	File string `env:"LOG_FILE"`
}

// LoadFromEnv loads an optional .env file, then parses and validates
// configuration from environment variables
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.Type == "sqlite" && c.Cache.SQLitePath == "" {
		return errors.New("sqlite path cannot be empty when using sqlite cache")
	}

	if c.RateLimit.PerMinute > 0 && c.RateLimit.Burst < 1 {
		return errors.New("rate burst must be at least 1 when rate limiting is enabled")
	}

	return nil
}
