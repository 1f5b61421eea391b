// Command api is the SportsEdge Engage notification API server.
//
// Usage:
//
//	engage-api
//	API_PORT=8080 engage-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/sportsedge/engage/internal/api"
	"github.com/sportsedge/engage/internal/api/handler"
	"github.com/sportsedge/engage/internal/cache"
	"github.com/sportsedge/engage/internal/config"
	"github.com/sportsedge/engage/internal/db"
	"github.com/sportsedge/engage/internal/listener"
	"github.com/sportsedge/engage/internal/maintenance"
	"github.com/sportsedge/engage/internal/notify"
	"github.com/sportsedge/engage/internal/push"
	"github.com/sportsedge/engage/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

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

	// Profile cache
	appCache := cache.New(true)

	// Stores
	profiles := store.NewProfiles(pool.Pool, appCache)
	logs := store.NewLogs(pool.Pool)
	engagements := store.NewEngagements(pool.Pool)

	// Push gateway
	gateway := push.NewGateway(cfg.PushGatewayURL, cfg.PushGatewayToken, cfg.PushBatchSize, pool.Pool, logger)
	if cfg.PushGatewayURL == "" {
		logger.Info("Push gateway disabled (no PUSH_GATEWAY_URL), sends are dry-run")
	}

	// Engine
	templates := notify.NewTemplateStore(notify.DefaultTemplates)
	engine := notify.NewEngine(profiles, logs, engagements, gateway, templates, logger,
		notify.WithWorkers(cfg.BatchWorkers))

	// Start LISTEN/NOTIFY consumer for real-time notification events
	go listener.Start(ctx, cfg.DatabaseURL, engine, profiles, logger)

	// Start maintenance tickers (log retention cleanup)
	maintCfg := maintenance.DefaultConfig()
	maintCfg.LogRetention = cfg.LogRetention
	go maintenance.Start(ctx, logs, engagements, maintCfg, logger)

	// Create router
	h := handler.New(engine, templates, pool.Pool, appCache, cfg)
	router := api.NewRouter(h, cfg)

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
		logger.Info("Starting SportsEdge Engage API",
			"addr", addr,
			"environment", cfg.Environment)
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
	logger.Info("Server stopped")
}
