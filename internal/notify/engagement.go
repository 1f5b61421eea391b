package notify

import (
	"context"
	"errors"
	"fmt"
)

// smoothingAlpha is the exponential-moving-average weight for new engagement
// signals: newRate = α·reward + (1-α)·oldRate.
const smoothingAlpha = 0.3

// rewardFor maps an engagement action to its reward signal.
func rewardFor(action EngagementAction) float64 {
	if action == ActionOpen || action == ActionClick {
		return 1
	}
	return 0
}

// RecordEngagement replays one engagement action into the feedback loop. The
// referenced log entry recovers the notification type; a missing entry is a
// data-integrity no-op (logged, not an error to the caller). The rate update
// is atomic per (user, type) — the store serializes concurrent writers.
func (e *Engine) RecordEngagement(ctx context.Context, logID, userID string, action EngagementAction) error {
	if !action.Valid() {
		return fmt.Errorf("invalid engagement action %q", action)
	}

	entry, err := e.logs.Read(ctx, logID)
	if errors.Is(err, ErrNotFound) {
		e.logger.Warn("Engagement references unknown log entry",
			"log_id", logID, "user_id", userID, "action", action)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read log %s: %w", logID, err)
	}

	newRate, err := e.engagements.UpdateRate(ctx, userID, entry.Type, smoothingAlpha, rewardFor(action))
	if err != nil {
		return fmt.Errorf("update engagement rate for %s/%s: %w", userID, entry.Type, err)
	}

	if err := e.engagements.WriteEngagement(ctx, logID, userID, action); err != nil {
		return fmt.Errorf("write engagement log: %w", err)
	}

	e.logger.Info("Engagement recorded",
		"user_id", userID, "type", entry.Type, "action", action, "rate", newRate)
	return nil
}
