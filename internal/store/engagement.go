package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsedge/engage/internal/notify"
)

// Engagements applies engagement-rate updates and records engagement events.
type Engagements struct {
	pool *pgxpool.Pool
}

// NewEngagements creates an engagement store.
func NewEngagements(pool *pgxpool.Pool) *Engagements {
	return &Engagements{pool: pool}
}

// UpdateRate applies newRate = α·reward + (1-α)·oldRate for one (user, type)
// pair and returns the new rate. The whole read-modify-write runs as a single
// INSERT .. ON CONFLICT DO UPDATE statement, so concurrent updates for the
// same key serialize inside Postgres instead of losing writes.
func (s *Engagements) UpdateRate(ctx context.Context, userID string, t notify.Type, alpha, reward float64) (float64, error) {
	var rate float64
	err := s.pool.QueryRow(ctx, "update_engagement_rate",
		userID, string(t), alpha, reward).Scan(&rate)
	if err != nil {
		return 0, fmt.Errorf("update engagement rate: %w", err)
	}
	return rate, nil
}

// WriteEngagement records one immutable engagement event.
func (s *Engagements) WriteEngagement(ctx context.Context, logID, userID string, action notify.EngagementAction) error {
	_, err := s.pool.Exec(ctx, "write_engagement_log", logID, userID, string(action))
	if err != nil {
		return fmt.Errorf("write engagement log: %w", err)
	}
	return nil
}

// PurgeOlderThan deletes engagement events recorded before the cutoff.
func (s *Engagements) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, "purge_engagement_logs", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge engagement logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
