package service

import (
	"context"
	"time"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/metrics"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// recorder persists normalized requests. It is the only writer of records.
type recorder struct {
	store secondary.WebhookStore
	now   func() time.Time
}

// Record stores one request stamped with the current time and returns it with its ID set.
func (r *recorder) Record(
	ctx context.Context,
	sessionID, method string,
	headers map[string]string,
	body *string,
) (*entity.CapturedRequest, error) {
	rec := &entity.CapturedRequest{
		SessionID: sessionID,
		Method:    method,
		Headers:   headers,
		Body:      body,
		CreatedAt: r.now().UTC(),
	}
	if err := r.store.Insert(ctx, rec); err != nil {
		metrics.StoreErrors.WithLabelValues("insert").Inc()
		return nil, err
	}
	observeBody(rec)
	return rec, nil
}

// RecordAttempt implements simulation.AttemptRecorder on top of the store's
// atomic count-then-insert.
func (r *recorder) RecordAttempt(ctx context.Context, rec *entity.CapturedRequest, failCount int) (int, bool, error) {
	attempts, inserted, err := r.store.InsertIfBelow(ctx, rec, failCount)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("insert_if_below").Inc()
		return 0, false, err
	}
	if inserted {
		observeBody(rec)
	}
	return attempts, inserted, nil
}

func observeBody(rec *entity.CapturedRequest) {
	if rec.Body != nil {
		metrics.CaptureBodyBytesTotal.Add(float64(len(*rec.Body)))
	}
}
