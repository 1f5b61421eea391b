package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// defaultBatchWorkers caps concurrent per-user pipelines inside one batch.
const defaultBatchWorkers = 16

// Engine is the dispatch orchestrator: it runs the per-user pipeline and the
// concurrent batch fan-out. All external collaborators are injected.
type Engine struct {
	profiles    ProfileStore
	logs        LogStore
	engagements EngagementStore
	pusher      Pusher
	personal    *Personalizer
	templates   *TemplateStore
	logger      *slog.Logger

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time

	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithWorkers sets the batch fan-out concurrency.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine wires an Engine from its collaborators.
func NewEngine(profiles ProfileStore, logs LogStore, engagements EngagementStore, pusher Pusher, templates *TemplateStore, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		profiles:    profiles,
		logs:        logs,
		engagements: engagements,
		pusher:      pusher,
		personal:    NewPersonalizer(templates),
		templates:   templates,
		logger:      logger,
		now:         time.Now,
		workers:     defaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --------------------------------------------------------------------------
// Single-user path
// --------------------------------------------------------------------------

// SendToUser runs the full pipeline for one user: eligibility → personalize →
// score → priority-only check → dispatch → log. Suppressions return a no-op
// result with a reason; only infrastructure failures return an error.
func (e *Engine) SendToUser(ctx context.Context, userID string, event Event) (SendResult, error) {
	result := SendResult{UserID: userID}

	profile, err := e.profiles.GetUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		result.SuppressionReason = ReasonUserNotFound
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("get user %s: %w", userID, err)
	}

	now := e.now()
	sentToday, err := e.logs.CountSince(ctx, userID, StartOfDay(now))
	if err != nil {
		return result, fmt.Errorf("count logs for %s: %w", userID, err)
	}

	if elig := CheckEligibility(profile.Preferences, event.Type, now, sentToday); !elig.Eligible {
		result.SuppressionReason = elig.Reason
		return result, nil
	}

	if !e.templates.Known(event.Type) {
		e.logger.Warn("No template family for type, using fallback",
			"type", event.Type, "user_id", userID)
	}

	notification := e.personal.Personalize(event, profile)
	notification.Priority = Score(event, profile)
	notification.Data["priority"] = fmt.Sprintf("%g", notification.Priority)
	result.Priority = notification.Priority

	if profile.Preferences.PriorityOnly && notification.Priority < priorityThreshold {
		result.SuppressionReason = ReasonLowPriority
		return result, nil
	}

	// Push is the only built-in channel; absent channel map means enabled.
	if enabled, ok := profile.Preferences.Channels["push"]; ok && !enabled {
		result.SuppressionReason = ReasonChannelDisabled
		return result, nil
	}

	err = e.pusher.Send(ctx, userID, notification.Title, notification.Body, notification.Data)
	if errors.Is(err, ErrNoDevices) {
		result.SuppressionReason = ReasonNoDeviceTokens
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("push to %s: %w", userID, err)
	}

	logID, err := e.logs.Write(ctx, &LogEntry{
		UserID:    userID,
		Type:      event.Type,
		Title:     notification.Title,
		Body:      notification.Body,
		Data:      notification.Data,
		Priority:  notification.Priority,
		CreatedAt: now,
	})
	if err != nil {
		// Delivered but unlogged: surface as a failure so operators see it.
		return result, fmt.Errorf("write log for %s: %w", userID, err)
	}

	result.Sent = true
	result.LogID = logID
	return result, nil
}

// --------------------------------------------------------------------------
// Batch path
// --------------------------------------------------------------------------

// SendToUsers fans one event out across many users. Per-user pipelines run
// concurrently through a worker pool with no ordering guarantee; one user's
// failure never aborts siblings. Suppressed evaluations count as successes.
func (e *Engine) SendToUsers(ctx context.Context, userIDs []string, event Event) BatchResult {
	result := BatchResult{Total: len(userIDs)}
	if len(userIDs) == 0 {
		return result
	}

	workers := e.workers
	if workers > len(userIDs) {
		workers = len(userIDs)
	}

	ch := make(chan string, len(userIDs))
	for _, id := range userIDs {
		ch <- id
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range ch {
				r, err := e.SendToUser(ctx, userID, event)

				mu.Lock()
				if err != nil {
					e.logger.Warn("Send failed", "user_id", userID, "error", err)
					result.FailureCount++
					result.Results = append(result.Results, SendResult{UserID: userID})
				} else {
					result.SuccessCount++
					result.Results = append(result.Results, r)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return result
}
