package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsedge/engage/internal/notify"
)

// Logs persists and reads notification log entries.
type Logs struct {
	pool *pgxpool.Pool
}

// NewLogs creates a log store.
func NewLogs(pool *pgxpool.Pool) *Logs {
	return &Logs{pool: pool}
}

// CountSince returns the number of log entries for a user at or after since.
// Drives the daily send cap.
func (s *Logs) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "count_logs_since", userID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return n, nil
}

// Write inserts one immutable log entry and returns its generated id.
func (s *Logs) Write(ctx context.Context, e *notify.LogEntry) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(e.Data)
	if err != nil {
		return "", fmt.Errorf("encode log data: %w", err)
	}
	_, err = s.pool.Exec(ctx, "write_log",
		id, e.UserID, string(e.Type), e.Title, e.Body, data, e.Priority, e.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("write log: %w", err)
	}
	return id, nil
}

// Read returns the log entry for id, or notify.ErrNotFound.
func (s *Logs) Read(ctx context.Context, id string) (*notify.LogEntry, error) {
	var (
		e       notify.LogEntry
		typ     string
		rawData []byte
	)
	err := s.pool.QueryRow(ctx, "read_log", id).Scan(
		&e.ID, &e.UserID, &typ, &e.Title, &e.Body, &rawData, &e.Priority, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notify.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	e.Type = notify.Type(typ)
	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &e.Data); err != nil {
			return nil, fmt.Errorf("decode log data: %w", err)
		}
	}
	return &e, nil
}

// PurgeOlderThan deletes log entries created before the cutoff. Returns the
// number of rows removed. Called by the maintenance cleanup ticker.
func (s *Logs) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, "purge_notification_logs", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notification logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
