package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Capture outcomes, labelled by simulation kind (capture, simulated_error, ...).
	CapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hooktrap_captures_total",
			Help: "Total number of capture requests by outcome",
		},
		[]string{"outcome"},
	)

	CaptureBodyBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hooktrap_capture_body_bytes_total",
			Help: "Total bytes of request bodies persisted",
		},
	)

	CaptureDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hooktrap_capture_duration_seconds",
			Help:    "Duration of capture handling in seconds, including simulated waits",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10, 15, 30, 60},
		},
		[]string{"outcome"},
	)

	// Storage metrics
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hooktrap_store_errors_total",
			Help: "Total number of storage errors by operation",
		},
		[]string{"operation"},
	)

	StoredSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hooktrap_stored_sessions",
			Help: "Number of sessions holding at least one record, as of the last refresh",
		},
	)

	StoredWebhooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hooktrap_stored_webhooks",
			Help: "Number of stored records across all sessions, as of the last refresh",
		},
	)

	// Event stream metrics
	EventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hooktrap_capture_events_published_total",
			Help: "Total number of capture events published",
		},
	)

	EventPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hooktrap_capture_event_publish_errors_total",
			Help: "Total number of capture events that failed to publish",
		},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hooktrap_http_requests_total",
			Help: "Total number of HTTP requests by method and status",
		},
		[]string{"method", "status"},
	)
)
