// Package handler provides HTTP handlers for the notification engine API.
// Handlers decode request JSON, delegate to the engine, and render results;
// suppressions come back as 200s with a reason, never as errors.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsedge/engage/internal/api/respond"
	"github.com/sportsedge/engage/internal/cache"
	"github.com/sportsedge/engage/internal/config"
	"github.com/sportsedge/engage/internal/notify"
)

// maxBodyBytes caps request body size; batch requests carry at most a list
// of user ids and one payload map.
const maxBodyBytes = 1 << 20

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	engine    *notify.Engine
	templates *notify.TemplateStore
	pool      *pgxpool.Pool
	cache     *cache.Cache
	cfg       *config.Config
}

// New creates a Handler with shared dependencies.
func New(engine *notify.Engine, templates *notify.TemplateStore, pool *pgxpool.Pool, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		templates: templates,
		pool:      pool,
		cache:     c,
		cfg:       cfg,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "SportsEdge Engage API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n)
	if err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeJSON reads a size-capped JSON request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_JSON", "request body is not valid JSON")
		return false
	}
	return true
}
