package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportsedge/engage/internal/api/respond"
	"github.com/sportsedge/engage/internal/notify"
)

// eventRequest is the wire shape of a triggering event.
type eventRequest struct {
	Type            string            `json:"type"`
	Payload         map[string]string `json:"data"`
	AffectedTeams   []string          `json:"affectedTeams,omitempty"`
	AffectedPlayers []string          `json:"affectedPlayers,omitempty"`
	IsLocal         bool              `json:"isLocal,omitempty"`
}

func (e eventRequest) toEvent() notify.Event {
	payload := e.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	return notify.Event{
		Type:            notify.Type(e.Type),
		Payload:         payload,
		AffectedTeams:   e.AffectedTeams,
		AffectedPlayers: e.AffectedPlayers,
		IsLocal:         e.IsLocal,
	}
}

// SendNotification evaluates and dispatches one personalized notification.
// Suppression is a successful evaluation: the response carries success=false
// plus the reason, with HTTP 200.
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		eventRequest
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Type == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_FIELD", "userId and type are required")
		return
	}

	result, err := h.engine.SendToUser(r.Context(), req.UserID, req.toEvent())
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "SEND_FAILED", "notification could not be evaluated")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"success":           result.Sent,
		"suppressionReason": result.SuppressionReason,
		"logId":             result.LogID,
		"priority":          result.Priority,
	})
}

// SendNotificationBatch fans one event out to many users concurrently.
func (h *Handler) SendNotificationBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserIDs []string `json:"userIds"`
		eventRequest
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.UserIDs) == 0 || req.Type == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_FIELD", "userIds and type are required")
		return
	}

	result := h.engine.SendToUsers(r.Context(), req.UserIDs, req.toEvent())

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"total":        result.Total,
		"successCount": result.SuccessCount,
		"failureCount": result.FailureCount,
	})
}

// RecordEngagement replays one open/click/dismiss action into the feedback
// loop. Unknown log ids are a no-op, not an error.
func (h *Handler) RecordEngagement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LogID  string `json:"logId"`
		UserID string `json:"userId"`
		Action string `json:"action"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.LogID == "" || req.UserID == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_FIELD", "logId and userId are required")
		return
	}

	action := notify.EngagementAction(req.Action)
	if !action.Valid() {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ACTION", "action must be open, click, or dismiss")
		return
	}

	if err := h.engine.RecordEngagement(r.Context(), req.LogID, req.UserID, action); err != nil {
		respond.WriteError(w, http.StatusBadGateway, "ENGAGEMENT_FAILED", "engagement could not be recorded")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"recorded": true})
}

// PreviewTemplate renders a template variant with caller-supplied variables.
// Content review tool; takes variables from query parameters.
func (h *Handler) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	typ := notify.Type(chi.URLParam(r, "type"))
	variant := notify.Variant(r.URL.Query().Get("variant"))
	if variant == "" {
		variant = notify.VariantDefault
	}

	vars := make(map[string]string)
	for k, vs := range r.URL.Query() {
		if k != "variant" && len(vs) > 0 {
			vars[k] = vs[0]
		}
	}

	title, body := h.templates.Resolve(typ, variant, vars)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"type":    typ,
		"variant": variant,
		"known":   h.templates.Known(typ),
		"title":   title,
		"body":    body,
	})
}
