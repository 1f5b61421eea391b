// Package listener provides a Postgres LISTEN/NOTIFY consumer for real-time
// notification events. It holds a dedicated pgx connection (not from the
// pool) listening on the `notification_event` channel.
//
// Event sources (prediction writes, value-bet detection, game schedulers)
// fire pg_notify with the event payload; this consumer resolves candidate
// users and runs the engine's batch fan-out.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sportsedge/engage/internal/notify"
	"github.com/sportsedge/engage/internal/store"
)

const (
	channel          = "notification_event"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// EventPayload is the JSON payload from pg_notify('notification_event', ...).
// UserIDs may be empty, in which case candidates are resolved from followers
// of the affected teams and players.
type EventPayload struct {
	Type            string            `json:"type"`
	Data            map[string]string `json:"data"`
	AffectedTeams   []string          `json:"affected_teams"`
	AffectedPlayers []string          `json:"affected_players"`
	IsLocal         bool              `json:"is_local"`
	UserIDs         []string          `json:"user_ids"`
	Timestamp       int64             `json:"ts"`
}

// Start opens a dedicated connection and listens on the notification_event
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, engine *notify.Engine, profiles *store.Profiles, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, engine, profiles, logger)
		if ctx.Err() != nil {
			logger.Info("Event listener stopped (context cancelled)")
			return
		}

		logger.Error("Event listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, engine *notify.Engine, profiles *store.Profiles, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Event listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event EventPayload
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("Failed to parse notification event",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Info("Notification event received",
			"type", event.Type,
			"teams", len(event.AffectedTeams),
			"players", len(event.AffectedPlayers),
			"explicit_users", len(event.UserIDs))

		// Process asynchronously to avoid blocking the listener
		go handleEvent(ctx, engine, profiles, event, logger)
	}
}

// handleEvent resolves candidate users and runs the batch fan-out.
func handleEvent(ctx context.Context, engine *notify.Engine, profiles *store.Profiles, event EventPayload, logger *slog.Logger) {
	userIDs := event.UserIDs
	if len(userIDs) == 0 {
		var err error
		userIDs, err = resolveCandidates(ctx, profiles, event)
		if err != nil {
			logger.Warn("Failed to resolve candidate users",
				"type", event.Type, "error", err)
			return
		}
	}
	if len(userIDs) == 0 {
		return
	}

	data := event.Data
	if data == nil {
		data = map[string]string{}
	}
	result := engine.SendToUsers(ctx, userIDs, notify.Event{
		Type:            notify.Type(event.Type),
		Payload:         data,
		AffectedTeams:   event.AffectedTeams,
		AffectedPlayers: event.AffectedPlayers,
		IsLocal:         event.IsLocal,
	})

	logger.Info("Event fan-out complete",
		"type", event.Type,
		"total", result.Total,
		"success", result.SuccessCount,
		"failed", result.FailureCount)
}

// resolveCandidates unions the followers of the event's teams and players.
func resolveCandidates(ctx context.Context, profiles *store.Profiles, event EventPayload) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string

	add := func(found []string) {
		for _, id := range found {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	if len(event.AffectedTeams) > 0 {
		found, err := profiles.FollowersOf(ctx, "team", event.AffectedTeams)
		if err != nil {
			return nil, err
		}
		add(found)
	}
	if len(event.AffectedPlayers) > 0 {
		found, err := profiles.FollowersOf(ctx, "player", event.AffectedPlayers)
		if err != nil {
			return nil, err
		}
		add(found)
	}
	return ids, nil
}
