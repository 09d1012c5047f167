// Package api is the inbound HTTP boundary: webhook ingress, the debug
// payload endpoint, and health.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/meetsync/meetsync/internal/api/respond"
	"github.com/meetsync/meetsync/internal/fathom"
	"github.com/meetsync/meetsync/internal/model"
	"github.com/meetsync/meetsync/internal/payloadstore"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps the accepted webhook body size.
const maxBodyBytes = 1 << 20

// Syncer processes one recording notification.
type Syncer interface {
	SyncRecording(ctx context.Context, recordingID string) (*model.SyncResult, error)
}

// WebhookHandler handles recording notifications (thin transport layer).
type WebhookHandler struct {
	svc   Syncer
	store payloadstore.Store
	token string
	log   zerolog.Logger
}

// NewWebhookHandler creates a webhook handler. token, when non-empty, gates
// the debug GET endpoint.
func NewWebhookHandler(svc Syncer, store payloadstore.Store, token string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, store: store, token: token, log: log}
}

// HandleWebhook handles POST /webhooks/fathom. The body must be JSON with
// the correlation identifier under recording_id or call_id (string or
// number). The raw payload is stored best-effort for diagnostics before the
// sync runs.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respond.WriteBadRequest(w, "could not read request body")
		return
	}

	var payload struct {
		RecordingID any `json:"recording_id"`
		CallID      any `json:"call_id"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}

	if err := h.store.Put(r.Context(), body); err != nil {
		// Diagnostics only; never blocks the sync.
		h.log.Warn().Err(err).Msg("failed to store webhook payload")
	}

	recordingID := fathom.IDString(payload.RecordingID)
	if recordingID == "" {
		recordingID = fathom.IDString(payload.CallID)
	}
	if recordingID == "" {
		respond.WriteBadRequest(w, "no recording_id or call_id in webhook data")
		return
	}

	res, err := h.svc.SyncRecording(r.Context(), recordingID)
	if err != nil {
		h.log.Error().Err(err).Str("recording_id", recordingID).Msg("sync failed")
		switch {
		case errors.Is(err, model.ErrConfig):
			respond.WriteInternalError(w, err.Error())
		case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrUpstream):
			respond.WriteError(w, http.StatusBadGateway, err.Error())
		default:
			respond.WriteInternalError(w, err.Error())
		}
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"status":               "success",
		"message":              "Recording synced to Airtable",
		"recording_id":         res.RecordingID,
		"meeting_record_id":    res.MeetingRecordID,
		"action_items_created": res.ActionItemsCreated,
	})
}

// HandleLastPayload handles GET /webhooks/fathom: returns the most recently
// received payload for debugging. When a token is configured the request
// must present the identical token.
func (h *WebhookHandler) HandleLastPayload(w http.ResponseWriter, r *http.Request) {
	if h.token != "" && r.URL.Query().Get("token") != h.token {
		respond.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	body, receivedAt, err := h.store.GetLatest(r.Context())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "no payload received yet")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"received_at": receivedAt.Format(time.RFC3339),
		"payload":     json.RawMessage(body),
	})
}
