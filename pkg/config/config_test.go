package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Preview.Timeout)
	assert.Equal(t, "https://shopee.co.id/api/v4/item/get", cfg.Preview.MarketplaceAPIURL)
	assert.Equal(t, "https://cf.shopee.co.id/file/", cfg.Preview.CDNPrefix)
	assert.Equal(t, uint32(5), cfg.Preview.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.Preview.BreakerCooldown)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Address)
	assert.Equal(t, 60, cfg.RateLimit.PerMinute)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("PREVIEW_TIMEOUT", "2s")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("REDIS_ADDRESS", "redis.internal:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Preview.Timeout)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, "redis.internal:6380", cfg.Cache.Redis.Address)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric port", "PORT", "http"},
		{"unknown cache type", "CACHE_TYPE", "memcached"},
		{"unparseable timeout", "PREVIEW_TIMEOUT", "soon"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"bad api url", "MARKETPLACE_API_URL", "not a url"},
		{"zero breaker failures", "BREAKER_FAILURES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			cfg, err := LoadFromEnv()

			assert.Nil(t, cfg)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8000"},
			Preview: PreviewConfig{
				Timeout:           5 * time.Second,
				MarketplaceAPIURL: "https://shopee.co.id/api/v4/item/get",
				CDNPrefix:         "https://cf.shopee.co.id/file/",
				BreakerFailures:   5,
				BreakerCooldown:   30 * time.Second,
			},
			Cache:     CacheConfig{Type: "memory", TTL: time.Minute},
			RateLimit: RateLimitConfig{PerMinute: 60, Burst: 10},
			Log:       LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "cache disabled", mutate: func(c *Config) { c.Cache.Type = "none" }},
		{
			name:    "redis without address",
			mutate:  func(c *Config) { c.Cache.Type = "redis" },
			wantErr: "redis address",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Cache.Type = "sqlite" },
			wantErr: "sqlite path",
		},
		{
			name:    "rate limit without burst",
			mutate:  func(c *Config) { c.RateLimit.Burst = 0 },
			wantErr: "rate burst",
		},
		{
			name:    "rate limit disabled without burst",
			mutate:  func(c *Config) { c.RateLimit = RateLimitConfig{} },
		},
		{
			name:    "empty port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "Port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
