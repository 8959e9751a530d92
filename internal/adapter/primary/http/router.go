package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/port/primary"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// captureMethods are the verbs accepted on /{sessionId}.
var captureMethods = []string{
	http.MethodPost,
	http.MethodGet,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// NewRouter creates an HTTP mux with all application routes registered.
func NewRouter(
	captureService primary.CaptureService,
	inspectionService primary.InspectionService,
	healthChecks []secondary.HealthChecker,
	logger *zap.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Inspection endpoints
	mux.Handle("GET /{$}", NewHomeHandler(inspectionService, logger))
	mux.Handle("GET /api/webhooks", NewListSessionsHandler(inspectionService, logger))
	mux.Handle("GET /api/webhooks/{sessionId}", NewListWebhooksHandler(inspectionService, logger))
	mux.Handle("DELETE /api/webhooks/{sessionId}", NewClearSessionHandler(inspectionService, logger))

	// Operational endpoints
	mux.Handle("GET /health", NewHealthHandler(healthChecks))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Capture endpoint
	captureHandler := NewCaptureHandler(captureService, logger)
	for _, method := range captureMethods {
		mux.Handle(method+" /{sessionId}", captureHandler)
	}

	return RequestID(AccessLog(logger)(mux))
}
