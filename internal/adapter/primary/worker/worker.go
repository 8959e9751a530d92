package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/metrics"
	"github.com/ruudy-sib/hooktrap/internal/port/primary"
)

// Worker periodically reads session aggregates from the store and publishes
// them as gauges. It respects context cancellation for graceful shutdown.
type Worker struct {
	service      primary.InspectionService
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewWorker creates a Worker that refreshes store statistics at the given interval.
func NewWorker(
	service primary.InspectionService,
	pollInterval time.Duration,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		service:      service,
		pollInterval: pollInterval,
		logger:       logger.Named("stats-worker"),
	}
}

// Run refreshes once immediately, then on every tick. It blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started",
		zap.Duration("poll_interval", w.pollInterval),
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *Worker) refresh(ctx context.Context) {
	sessions, err := w.service.ListSessions(ctx)
	if err != nil {
		// Log but do not return -- the worker should keep running.
		w.logger.Error("error reading session statistics", zap.Error(err))
		return
	}

	total := 0
	for _, s := range sessions {
		total += s.Count
	}
	metrics.StoredSessions.Set(float64(len(sessions)))
	metrics.StoredWebhooks.Set(float64(total))
}
