// Package notify implements the personalized notification engine: per-user
// eligibility gating, content personalization, priority scoring, concurrent
// fan-out, and the engagement feedback loop that tunes future prioritization.
//
// Pipeline per user: eligibility → personalize → score → priority-only check →
// channel dispatch → log. Engagement events replay through RecordEngagement
// and update a smoothed per-type engagement rate.
package notify

import (
	"context"
	"errors"
	"time"
)

// --------------------------------------------------------------------------
// Notification types
// --------------------------------------------------------------------------

// Type identifies a notification category. The set is closed: events carrying
// an unknown type still flow through the engine but score zero and render the
// generic fallback template.
type Type string

const (
	TypePrediction       Type = "prediction"
	TypeValueBet         Type = "valueBet"
	TypeGameReminder     Type = "gameReminder"
	TypeModelPerformance Type = "modelPerformance"
	TypeNews             Type = "news"
	TypePlayerUpdate     Type = "playerUpdate"
	TypeLocalTeam        Type = "localTeam"
	TypeLocalGame        Type = "localGame"
	TypeLocalOdds        Type = "localOdds"
	TypeReferralJoined   Type = "referralJoined"
	TypeReferralReward   Type = "referralReward"
	TypeSystem           Type = "system"
)

// KnownTypes lists every notification type the engine understands.
// Category preference keys are a subset of this set.
var KnownTypes = []Type{
	TypePrediction, TypeValueBet, TypeGameReminder, TypeModelPerformance,
	TypeNews, TypePlayerUpdate, TypeLocalTeam, TypeLocalGame, TypeLocalOdds,
	TypeReferralJoined, TypeReferralReward, TypeSystem,
}

// --------------------------------------------------------------------------
// User profile
// --------------------------------------------------------------------------

// QuietHours is a user-configured suppression window. Overnight windows
// (Start > End) wrap past midnight.
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"` // HH:MM, 24h
	End     string `json:"end"`   // HH:MM, 24h
}

// Preferences controls whether and how a user is notified.
type Preferences struct {
	Enabled      bool            `json:"enabled"`
	Categories   map[Type]bool   `json:"categories"` // absent key ⇒ allowed
	QuietHours   QuietHours      `json:"quietHours"`
	MaxPerDay    int             `json:"maxPerDay"` // 0 ⇒ unlimited
	PriorityOnly bool            `json:"priorityOnly"`
	Channels     map[string]bool `json:"channels"` // "push" is the only built-in
	IncludeOdds  bool            `json:"includeOdds"`
	IncludeStats bool            `json:"includeStats"`
	OddsFormat   OddsFormat      `json:"oddsFormat"`
	LocalAlerts  bool            `json:"localAlerts"`
}

// Favorites is the set of followed team and player identifiers. Read-only to
// the engine; used for affinity boosts and the withFavorite variant.
type Favorites struct {
	Teams   []string `json:"teams"`
	Players []string `json:"players"`
}

// HasTeam reports whether id is a followed team.
func (f Favorites) HasTeam(id string) bool {
	for _, t := range f.Teams {
		if t == id {
			return true
		}
	}
	return false
}

// HasPlayer reports whether id is a followed player.
func (f Favorites) HasPlayer(id string) bool {
	for _, p := range f.Players {
		if p == id {
			return true
		}
	}
	return false
}

// UserProfile is the engine's read model of one user. Only EngagementStats is
// ever written back, and only by the feedback loop.
type UserProfile struct {
	ID              string
	Preferences     Preferences
	Favorites       Favorites
	EngagementStats map[Type]float64 // smoothed rate in [0,1]; absent ⇒ 0
}

// --------------------------------------------------------------------------
// Events and derived content
// --------------------------------------------------------------------------

// Event is a triggering occurrence delivered by an external source (scheduled
// timer, document write, HTTP call). Payload values feed template substitution.
type Event struct {
	Type            Type
	Payload         map[string]string
	AffectedTeams   []string
	AffectedPlayers []string
	IsLocal         bool
}

// Notification is the personalized content for one (event, user) pair.
// Ephemeral: it exists only between personalization and dispatch, and is
// persisted solely as a log entry.
type Notification struct {
	Title    string
	Body     string
	Data     map[string]string
	Variant  Variant
	Priority float64
}

// --------------------------------------------------------------------------
// Log entries
// --------------------------------------------------------------------------

// LogEntry is the immutable audit record written once per dispatched
// notification. The feedback loop resolves engagement actions against it.
type LogEntry struct {
	ID        string
	UserID    string
	Type      Type
	Title     string
	Body      string
	Data      map[string]string
	Priority  float64
	CreatedAt time.Time
}

// EngagementAction is a user's reaction to a delivered notification.
type EngagementAction string

const (
	ActionOpen    EngagementAction = "open"
	ActionClick   EngagementAction = "click"
	ActionDismiss EngagementAction = "dismiss"
)

// Valid reports whether the action is one the feedback loop accepts.
func (a EngagementAction) Valid() bool {
	return a == ActionOpen || a == ActionClick || a == ActionDismiss
}

// --------------------------------------------------------------------------
// Results
// --------------------------------------------------------------------------

// Suppression reasons. Suppressed sends are successful evaluations, not errors.
const (
	ReasonDisabled         = "disabled"
	ReasonCategoryDisabled = "category_disabled"
	ReasonQuietHours       = "quiet_hours"
	ReasonDailyLimit       = "daily_limit"
	ReasonLowPriority      = "low_priority"
	ReasonChannelDisabled  = "channel_disabled"
	ReasonUserNotFound     = "user_not_found"
	ReasonNoDeviceTokens   = "no_device_tokens"
)

// SendResult is the outcome of one per-user send operation.
type SendResult struct {
	UserID            string  `json:"userId"`
	Sent              bool    `json:"sent"`
	SuppressionReason string  `json:"suppressionReason,omitempty"`
	LogID             string  `json:"logId,omitempty"`
	Priority          float64 `json:"priority,omitempty"`
}

// Suppressed reports whether the send was evaluated but intentionally withheld.
func (r SendResult) Suppressed() bool {
	return !r.Sent && r.SuppressionReason != ""
}

// BatchResult aggregates a concurrent fan-out across many users. Suppressed
// counts toward Success: the operation completed, the user was just not due a
// notification.
type BatchResult struct {
	Total        int          `json:"total"`
	SuccessCount int          `json:"successCount"`
	FailureCount int          `json:"failureCount"`
	Results      []SendResult `json:"results,omitempty"`
}

// --------------------------------------------------------------------------
// Collaborator interfaces
// --------------------------------------------------------------------------

// ErrNotFound is returned by stores when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ProfileStore reads user profiles.
type ProfileStore interface {
	GetUser(ctx context.Context, id string) (*UserProfile, error)
}

// LogStore persists and reads notification log entries.
type LogStore interface {
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
	Write(ctx context.Context, e *LogEntry) (string, error)
	Read(ctx context.Context, id string) (*LogEntry, error)
}

// EngagementStore applies the smoothed-rate update and records the engagement
// event. UpdateRate must be atomic per (user, type): concurrent updates for
// the same key serialize rather than losing writes.
type EngagementStore interface {
	UpdateRate(ctx context.Context, userID string, t Type, alpha, reward float64) (float64, error)
	WriteEngagement(ctx context.Context, logID, userID string, action EngagementAction) error
}

// ErrNoDevices is returned by a Pusher when the user has no registered,
// active device tokens. The engine treats it as a soft suppression.
var ErrNoDevices = errors.New("no active device tokens")

// Pusher delivers a personalized notification to one user's devices through
// an external push gateway. Transport failures surface as errors and are
// caught per user.
type Pusher interface {
	Send(ctx context.Context, userID, title, body string, data map[string]string) error
}
