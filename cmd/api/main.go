// ABOUTME: Main entry point for the link preview API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wofihansamu/mini-ecommerce-affiliate/api"
	"github.com/wofihansamu/mini-ecommerce-affiliate/api/handlers"
	"github.com/wofihansamu/mini-ecommerce-affiliate/api/middleware"
	"github.com/wofihansamu/mini-ecommerce-affiliate/core/interfaces"
	"github.com/wofihansamu/mini-ecommerce-affiliate/core/preview"
	"github.com/wofihansamu/mini-ecommerce-affiliate/infrastructure/cache/memory"
	"github.com/wofihansamu/mini-ecommerce-affiliate/infrastructure/cache/redis"
	"github.com/wofihansamu/mini-ecommerce-affiliate/infrastructure/cache/sqlite"
	stdhttp "github.com/wofihansamu/mini-ecommerce-affiliate/infrastructure/http/standard"
	logruslogger "github.com/wofihansamu/mini-ecommerce-affiliate/infrastructure/logger/logrus"
	"github.com/wofihansamu/mini-ecommerce-affiliate/infrastructure/metrics/prometheus"
	"github.com/wofihansamu/mini-ecommerce-affiliate/pkg/config"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logruslogger.New(logruslogger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	defer logger.Close()

	logger.Info("Starting link preview API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"timeout":    cfg.Preview.Timeout.String(),
	})

	cache, closeCache := newCache(cfg.Cache, logger)
	defer closeCache()

	metrics := prometheus.New()

	transport := &middleware.LoggingRoundTripper{
		Transport: http.DefaultTransport,
		Logger:    logger,
	}
	httpClient := stdhttp.NewStandardHTTPClient(cfg.Preview.Timeout, transport)

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
		Metrics:    metrics,
	}

	service := preview.NewService(deps, preview.Options{
		Timeout: cfg.Preview.Timeout,
		Marketplace: preview.MarketplaceConfig{
			APIURL:          cfg.Preview.MarketplaceAPIURL,
			CDNPrefix:       cfg.Preview.CDNPrefix,
			Timeout:         cfg.Preview.Timeout,
			BreakerFailures: cfg.Preview.BreakerFailures,
			BreakerCooldown: cfg.Preview.BreakerCooldown,
		},
		Generic: preview.GenericConfig{
			Timeout:   cfg.Preview.Timeout,
			Transport: transport,
		},
		CacheTTL: cfg.Cache.TTL,
	})

	apiConfig := api.APIConfig{
		Logger:  logger,
		Metrics: metrics,
	}
	if cfg.RateLimit.PerMinute > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
		defer limiter.Stop()
		apiConfig.RateLimiter = limiter
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	handlers.NewPreviewHandler(service).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3*cfg.Preview.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

// newCache builds the configured cache backend. Redis and SQLite fall back
// to memory when they cannot be opened. The returned func releases it.
func newCache(cfg config.CacheConfig, logger interfaces.Logger) (interfaces.Cache, func()) {
	nop := func() {}

	switch cfg.Type {
	case "none":
		logger.Info("Preview cache disabled", nil)
		return nil, nop
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Redis)
		if err == nil {
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Redis.Address,
			})
			return redisCache, func() { redisCache.Close() }
		}
		logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.SQLitePath, time.Minute)
		if err == nil {
			logger.Info("Using SQLite cache", map[string]interface{}{
				"path": cfg.SQLitePath,
			})
			return sqliteCache, func() { sqliteCache.Close() }
		}
		logger.Error("Failed to create SQLite cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	default:
		logger.Info("Using memory cache", nil)
	}

	return memory.NewMemoryCache(time.Minute), nop
}
