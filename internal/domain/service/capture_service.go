package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/domain"
	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/domain/simulation"
	"github.com/ruudy-sib/hooktrap/internal/domain/valueobject"
	"github.com/ruudy-sib/hooktrap/internal/metrics"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// CaptureOption customizes a CaptureService.
type CaptureOption func(*captureOptions)

type captureOptions struct {
	sleep        simulation.Sleeper
	now          func() time.Time
	timeoutDelay time.Duration
}

// WithSleeper replaces time.Sleep for the timeout and delay simulations.
func WithSleeper(sleep simulation.Sleeper) CaptureOption {
	return func(o *captureOptions) { o.sleep = sleep }
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) CaptureOption {
	return func(o *captureOptions) { o.now = now }
}

// WithTimeoutDelay overrides how long fail-timeout- sessions block.
func WithTimeoutDelay(d time.Duration) CaptureOption {
	return func(o *captureOptions) { o.timeoutDelay = d }
}

// CaptureService normalizes inbound requests, runs the simulation rules and
// persists whatever the rules let through.
type CaptureService struct {
	engine    *simulation.Engine
	recorder  *recorder
	publisher secondary.EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewCaptureService creates a CaptureService with its dependencies injected.
func NewCaptureService(
	store secondary.WebhookStore,
	publisher secondary.EventPublisher,
	logger *zap.Logger,
	opts ...CaptureOption,
) *CaptureService {
	o := captureOptions{
		sleep:        time.Sleep,
		now:          time.Now,
		timeoutDelay: domain.TimeoutSimulationDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}

	rec := &recorder{store: store, now: o.now}

	return &CaptureService{
		engine:    simulation.NewEngine(simulation.DefaultRules(rec, o.sleep, o.timeoutDelay, o.now)...),
		recorder:  rec,
		publisher: publisher,
		now:       o.now,
		logger:    logger.Named("capture-service"),
	}
}

// Capture handles one inbound request end to end and returns the response to send.
func (s *CaptureService) Capture(ctx context.Context, req *entity.InboundRequest) (*entity.Outcome, error) {
	start := s.now()

	headers := entity.NormalizeHeaders(req.Headers)
	body := entity.BodyFromBytes(req.Body)

	logger := s.logger.With(
		zap.String("session_id", req.SessionID),
		zap.String("method", req.Method),
	)

	decision, err := s.engine.Evaluate(ctx, &simulation.Input{
		SessionID: valueobject.NewSessionID(req.SessionID),
		Method:    req.Method,
		Headers:   headers,
		Body:      body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCaptureFailed, err)
	}

	var outcome *entity.Outcome
	switch decision.Kind {
	case simulation.KindSimulatedError:
		outcome = simulatedErrorOutcome(decision)
	case simulation.KindTimeout:
		outcome = timeoutOutcome()
	case simulation.KindRetryFailure:
		s.publish(ctx, decision.Record, entity.CaptureEventSimulatedFailure, logger)
		outcome = retryFailureOutcome(decision)
	case simulation.KindMissingSignature:
		outcome = missingSignatureOutcome()
	default:
		rec, err := s.recorder.Record(ctx, req.SessionID, req.Method, headers, body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCaptureFailed, err)
		}
		s.publish(ctx, rec, entity.CaptureEventCaptured, logger)
		outcome = capturedOutcome(rec)
	}

	kind := decision.Kind.String()
	metrics.CapturesTotal.WithLabelValues(kind).Inc()
	metrics.CaptureDuration.WithLabelValues(kind).Observe(s.now().Sub(start).Seconds())

	if decision.Kind == simulation.KindCapture {
		logger.Info("request captured", zap.Int64("webhook_id", outcome.Record.ID))
	} else {
		logger.Info("simulation rule applied",
			zap.String("rule", decision.Rule),
			zap.Int("status", outcome.Status),
		)
	}

	return outcome, nil
}

// publish announces a persisted record. Failures are logged and never fail the
// request: the record is already stored.
func (s *CaptureService) publish(
	ctx context.Context,
	rec *entity.CapturedRequest,
	outcome entity.CaptureEventOutcome,
	logger *zap.Logger,
) {
	event := entity.CaptureEvent{
		WebhookID:  rec.ID,
		SessionID:  rec.SessionID,
		Method:     rec.Method,
		Outcome:    outcome,
		CapturedAt: rec.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.EventPublishErrors.Inc()
		logger.Warn("failed to publish capture event",
			zap.Int64("webhook_id", rec.ID),
			zap.Error(err),
		)
		return
	}
	metrics.EventsPublished.Inc()
}
