package http

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/domain"
	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/port/primary"
)

// CaptureHandler handles POST|GET|PUT|PATCH|DELETE /{sessionId} requests.
type CaptureHandler struct {
	service primary.CaptureService
	logger  *zap.Logger
}

// NewCaptureHandler creates a handler for webhook capture.
func NewCaptureHandler(service primary.CaptureService, logger *zap.Logger) *CaptureHandler {
	return &CaptureHandler{
		service: service,
		logger:  logger.Named("capture-handler"),
	}
}

// ServeHTTP captures the request or answers with the simulated outcome.
func (h *CaptureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
		return
	}

	outcome, err := h.service.Capture(r.Context(), &entity.InboundRequest{
		SessionID: r.PathValue("sessionId"),
		Method:    r.Method,
		Headers:   inboundHeaders(r),
		Body:      body,
	})
	if err != nil {
		h.logger.Error("failed to capture request",
			zap.String("session_id", r.PathValue("sessionId")),
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrCaptureFailed) {
			respondStorageError(w)
			return
		}
		respondInternalError(w)
		return
	}

	respondJSON(w, outcome.Status, outcome.Payload)
}

// inboundHeaders returns the request headers including Host, which net/http
// moves out of the header map.
func inboundHeaders(r *http.Request) map[string][]string {
	headers := make(map[string][]string, len(r.Header)+1)
	for name, values := range r.Header {
		headers[name] = values
	}
	if r.Host != "" {
		if _, ok := headers["Host"]; !ok {
			headers["Host"] = []string{r.Host}
		}
	}
	return headers
}
