// Command api is the Slo-Pitch Standings API server.
//
// Usage:
//
//	slopitch-api
//	API_PORT=8080 slopitch-api

// @title Slo-Pitch Standings API
// @version 1.0.0
// @description Read-only league API serving computed standings with Slo-Pitch Ontario tie-breaking, team records, streaks, schedules, and scoreboards.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Thamesford Slo-Pitch
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/thamesford/slopitch-standings/internal/api"
	"github.com/thamesford/slopitch-standings/internal/cache"
	"github.com/thamesford/slopitch-standings/internal/config"
	"github.com/thamesford/slopitch-standings/internal/db"
	"github.com/thamesford/slopitch-standings/internal/metrics"
	"github.com/thamesford/slopitch-standings/internal/store"

	_ "github.com/thamesford/slopitch-standings/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Metrics (Prometheus exposition, optional OTLP push)
	recorder, promHandler, metricsShutdown, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.MetricsEnabled,
		ServiceName:  "slopitch-standings",
		OtlpEndpoint: cfg.OtlpEndpoint,
		OtlpInsecure: cfg.OtlpInsecure,
	})
	if err != nil {
		logger.Error("Failed to set up metrics", "error", err)
		os.Exit(1)
	}

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Create router
	router := api.NewRouter(store.NewPostgres(pool), appCache, cfg, logger, recorder, promHandler)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Slo-Pitch Standings API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	appCache.Close()
	if err := metricsShutdown(shutdownCtx); err != nil {
		logger.Error("Metrics shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
