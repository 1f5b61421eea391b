// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsedge/engage/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the engine and stores
// use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Profiles
		"get_user_prefs":         "SELECT prefs FROM users WHERE id = $1",
		"get_user_follows":       "SELECT entity_type, entity_id FROM user_follows WHERE user_id = $1",
		"get_user_rates":         "SELECT notification_type, rate FROM engagement_stats WHERE user_id = $1",
		"get_followers_of":       "SELECT DISTINCT user_id FROM user_follows WHERE entity_type = $1 AND entity_id = ANY($2)",
		"get_user_device_tokens": "SELECT token FROM user_devices WHERE user_id = $1 AND is_active = true",

		// Notification log
		"count_logs_since": "SELECT COUNT(*) FROM notification_log WHERE user_id = $1 AND created_at >= $2",
		"write_log": `INSERT INTO notification_log (id, user_id, type, title, body, data, priority, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		"read_log": "SELECT id, user_id, type, title, body, data, priority, created_at FROM notification_log WHERE id = $1",

		// Engagement feedback — single-statement atomic EMA update
		"update_engagement_rate": `INSERT INTO engagement_stats (user_id, notification_type, rate, updated_at)
			VALUES ($1, $2, $3 * $4, NOW())
			ON CONFLICT (user_id, notification_type)
			DO UPDATE SET rate = $3 * $4 + (1 - $3) * engagement_stats.rate, updated_at = NOW()
			RETURNING rate`,
		"write_engagement_log": `INSERT INTO engagement_log (log_id, user_id, action, created_at)
			VALUES ($1, $2, $3, NOW())`,

		// Maintenance
		"purge_notification_logs": "DELETE FROM notification_log WHERE created_at < $1",
		"purge_engagement_logs":   "DELETE FROM engagement_log WHERE created_at < $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
