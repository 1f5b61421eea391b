// Package maintenance runs periodic background tasks as Go tickers.
// Replaces pg_cron — all scheduled work is driven from Go since the API is
// already a persistent, long-running service (required for LISTEN/NOTIFY).
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/sportsedge/engage/internal/store"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration // Purge of aged notification/engagement logs
	LogRetention    time.Duration // How long log rows are kept
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		CleanupInterval: 30 * time.Minute,
		LogRetention:    30 * 24 * time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, logs *store.Logs, engagements *store.Engagements, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"cleanup", cfg.CleanupInterval,
		"retention", cfg.LogRetention)

	if cfg.CleanupInterval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleanup(ctx, logs, engagements, cfg.LogRetention, logger)
		case <-ctx.Done():
			logger.Info("Maintenance tickers stopped")
			return
		}
	}
}

// cleanup purges notification and engagement log rows older than the
// retention window. Notification rows must outlive engagement rows: an
// engagement referencing a purged log entry becomes a recorded no-op.
func cleanup(ctx context.Context, logs *store.Logs, engagements *store.Engagements, retention time.Duration, logger *slog.Logger) {
	cutoff := time.Now().Add(-retention)

	removedEng, err := engagements.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		logger.Warn("Engagement log purge failed", "error", err)
	}
	removedLogs, err := logs.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		logger.Warn("Notification log purge failed", "error", err)
	}

	if removedEng+removedLogs > 0 {
		logger.Info("Log cleanup complete",
			"notification_rows", removedLogs,
			"engagement_rows", removedEng,
			"cutoff", cutoff.Format(time.RFC3339))
	}
}
