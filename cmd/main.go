package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"cinescope-api/internal/cache"
	"cinescope-api/internal/config"
	"cinescope-api/internal/database"
	"cinescope-api/internal/handler"
	"cinescope-api/internal/palette"
	"cinescope-api/internal/server"
	"cinescope-api/internal/service"
	"cinescope-api/internal/tmdb"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.TMDB.APIKey == "" {
		slog.Warn("TMDB_API_KEY is not set, upstream calls will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to Redis (fall back to an in-process cache if unavailable)
	var store cache.Store
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, using in-memory cache", "error", err)
		}
	}
	if rdb != nil {
		store = cache.NewRedisStore(rdb, "cinescope:")
	} else {
		store = cache.NewMemoryStore()
	}

	// Initialize layers
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Timeout)
	extractor := palette.NewExtractor(cfg.PaletteTimeout)
	svc := service.NewMovieService(tmdbClient, extractor, cache.New(store), cfg.TMDB.ImageBaseURL)
	h := handler.NewMovieHandler(svc)

	// Swagger docs
	swaggerYAML, err := os.ReadFile(cfg.SwaggerPath)
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
		swaggerYAML = nil
	}

	app := server.New(h, server.Options{
		AllowOrigins: cfg.CORS.Origins(),
		SwaggerYAML:  swaggerYAML,
		AccessLog:    true,
	})

	go func() {
		addr := ":" + cfg.Port
		slog.Info("starting cinescope api", "addr", addr, "cache", store.Name(), "origins", cfg.CORS.Origins())
		if err := app.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down cinescope api...")

	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("error closing Redis connection", "error", err)
		}
	}

	slog.Info("shutdown complete")
}
