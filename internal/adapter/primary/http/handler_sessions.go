package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/port/primary"
)

// ListSessionsHandler handles GET /api/webhooks requests.
type ListSessionsHandler struct {
	service primary.InspectionService
	logger  *zap.Logger
}

// NewListSessionsHandler creates a handler listing every session.
func NewListSessionsHandler(service primary.InspectionService, logger *zap.Logger) *ListSessionsHandler {
	return &ListSessionsHandler{
		service: service,
		logger:  logger.Named("list-sessions-handler"),
	}
}

// ServeHTTP writes sessions with their record counts, most recent first.
func (h *ListSessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.ListSessions(r.Context())
	if err != nil {
		h.logger.Error("failed to list sessions", zap.Error(err))
		respondStorageError(w)
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponses(sessions))
}

// HomeHandler handles GET / requests.
type HomeHandler struct {
	service primary.InspectionService
	logger  *zap.Logger
}

// NewHomeHandler creates the service metadata handler.
func NewHomeHandler(service primary.InspectionService, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{
		service: service,
		logger:  logger.Named("home-handler"),
	}
}

// ServeHTTP writes the service name, version, routes and active sessions.
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("failed to build overview", zap.Error(err))
		respondStorageError(w)
		return
	}

	respondJSON(w, http.StatusOK, toHomeResponse(overview))
}
