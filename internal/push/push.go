// Package push delivers notifications through an HTTP push gateway. The
// gateway contract is minimal: POST a JSON batch of {to, title, body, data}
// messages, receive per-message tickets. Device tokens are resolved from the
// user_devices table.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsedge/engage/internal/notify"
)

const (
	requestTimeout   = 10 * time.Second
	defaultBatchSize = 100
	highPriority     = "high"
	normalPriority   = "normal"
)

// message is one gateway push message.
type message struct {
	To       string            `json:"to"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

// ticket is the gateway's per-message receipt.
type ticket struct {
	Status  string `json:"status"` // "ok" | "error"
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type ticketResponse struct {
	Data []ticket `json:"data"`
}

// Gateway sends push notifications through the configured HTTP endpoint.
// Nil-safe: when not configured (empty base URL), sends log and succeed so
// development environments work without a gateway.
type Gateway struct {
	baseURL    string
	authToken  string
	batchSize  int
	pool       *pgxpool.Pool
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGateway creates a gateway client. Returns a dry-run client (nil-safe,
// logs only) when baseURL is empty.
func NewGateway(baseURL, authToken string, batchSize int, pool *pgxpool.Pool, logger *slog.Logger) *Gateway {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Gateway{
		baseURL:    baseURL,
		authToken:  authToken,
		batchSize:  batchSize,
		pool:       pool,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Send delivers one personalized notification to all of a user's active
// devices. Returns notify.ErrNoDevices when the user has no registered
// tokens, which the engine treats as a soft suppression.
func (g *Gateway) Send(ctx context.Context, userID, title, body string, data map[string]string) error {
	tokens, err := g.deviceTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("device tokens for %s: %w", userID, err)
	}
	if len(tokens) == 0 {
		return notify.ErrNoDevices
	}

	if g.baseURL == "" {
		g.logger.Info("Push send (gateway disabled)",
			"user_id", userID, "devices", len(tokens), "title", title)
		return nil
	}

	msgs := make([]message, 0, len(tokens))
	for _, token := range tokens {
		msgs = append(msgs, message{
			To:       token,
			Title:    title,
			Body:     body,
			Data:     data,
			Priority: priorityFor(data),
		})
	}

	for start := 0; start < len(msgs); start += g.batchSize {
		end := min(start+g.batchSize, len(msgs))
		if err := g.post(ctx, msgs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// post sends one chunk and surfaces the first per-ticket error.
func (g *Gateway) post(ctx context.Context, msgs []message) error {
	payload, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode push batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/push/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.authToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}

	var tickets ticketResponse
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		// Delivered but unparseable receipt: log, don't fail the send
		g.logger.Warn("Unparseable push gateway response", "error", err)
		return nil
	}
	for _, tk := range tickets.Data {
		if tk.Status == "error" {
			return fmt.Errorf("push rejected: %s", tk.Message)
		}
	}
	return nil
}

func (g *Gateway) deviceTokens(ctx context.Context, userID string) ([]string, error) {
	rows, err := g.pool.Query(ctx, "get_user_device_tokens", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// priorityFor maps the computed urgency score onto the gateway's two-level
// priority field.
func priorityFor(data map[string]string) string {
	if score, ok := data["priority"]; ok && score != "" {
		var v float64
		if _, err := fmt.Sscanf(score, "%g", &v); err == nil && v >= 5 {
			return highPriority
		}
	}
	return normalPriority
}
