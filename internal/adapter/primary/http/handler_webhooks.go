package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/port/primary"
)

// ListWebhooksHandler handles GET /api/webhooks/{sessionId} requests.
type ListWebhooksHandler struct {
	service primary.InspectionService
	logger  *zap.Logger
}

// NewListWebhooksHandler creates a handler listing the records of one session.
func NewListWebhooksHandler(service primary.InspectionService, logger *zap.Logger) *ListWebhooksHandler {
	return &ListWebhooksHandler{
		service: service,
		logger:  logger.Named("list-webhooks-handler"),
	}
}

// ServeHTTP writes the session's records in capture order.
func (h *ListWebhooksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")

	records, err := h.service.ListWebhooks(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to list webhooks", zap.String("session_id", sessionID), zap.Error(err))
		respondStorageError(w)
		return
	}

	respondJSON(w, http.StatusOK, toWebhookResponses(records))
}

// ClearSessionHandler handles DELETE /api/webhooks/{sessionId} requests.
type ClearSessionHandler struct {
	service primary.InspectionService
	logger  *zap.Logger
}

// NewClearSessionHandler creates a handler deleting every record of a session.
func NewClearSessionHandler(service primary.InspectionService, logger *zap.Logger) *ClearSessionHandler {
	return &ClearSessionHandler{
		service: service,
		logger:  logger.Named("clear-session-handler"),
	}
}

// ServeHTTP clears the session. Clearing an unknown session reports zero deletions.
func (h *ClearSessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")

	deleted, err := h.service.ClearSession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to clear session", zap.String("session_id", sessionID), zap.Error(err))
		respondStorageError(w)
		return
	}

	respondJSON(w, http.StatusOK, ClearResponse{
		Status:       "cleared",
		SessionID:    sessionID,
		DeletedCount: deleted,
	})
}
