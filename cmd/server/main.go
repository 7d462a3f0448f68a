package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/smarttrip/internal/cache"
	"github.com/dharmasatrya/smarttrip/internal/catalog"
	"github.com/dharmasatrya/smarttrip/internal/config"
	"github.com/dharmasatrya/smarttrip/internal/handler"
	"github.com/dharmasatrya/smarttrip/internal/logging"
	"github.com/dharmasatrya/smarttrip/internal/metrics"
	"github.com/dharmasatrya/smarttrip/internal/optimizer"
	"github.com/dharmasatrya/smarttrip/internal/ratelimit"
	"github.com/dharmasatrya/smarttrip/internal/search"
	"github.com/dharmasatrya/smarttrip/internal/session"
)

const sweepInterval = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
	}))
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())

	limiter := ratelimit.NewEndpointLimiter(ratelimit.Limit{
		PerSecond: cfg.OptimizerRPS,
		Burst:     cfg.OptimizerBurst,
	})
	limiter.SetLimit(optimizer.EndpointAvailableDates, ratelimit.Limit{PerSecond: 10, Burst: 20})

	httpClient := optimizer.NewHTTPClient(optimizer.Config{
		BaseURL:     cfg.OptimizerBaseURL,
		Timeout:     cfg.OptimizerTimeout,
		OptionCount: cfg.OptionCount,
		Limiter:     limiter,
	}, logger)

	var resultCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.RedisTTL,
		})
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		resultCache = redisCache
		logger.Info("Redis cache enabled", "host", cfg.RedisHost, "port", cfg.RedisPort, "ttl", cfg.RedisTTL)
	} else {
		resultCache = cache.NewNoOpCache()
		logger.Info("Cache disabled")
	}
	defer resultCache.Close()

	client := optimizer.NewCachedClient(httpClient, resultCache, logger)
	cities := catalog.Default()
	svc := search.NewService(client, cities, logger)

	sessions := session.NewStore(cfg.SessionIdleTTL)
	go sessions.Run(ctx, sweepInterval)

	trips := handler.NewTripHandler(svc, sessions, cities, client)

	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", metrics.Handler())
	trips.Register(e.Group("/api/v1"))

	go func() {
		logger.Info("Starting SmartTrip server", "port", cfg.Port, "optimizer", cfg.OptimizerBaseURL)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
