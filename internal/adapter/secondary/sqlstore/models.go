package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
)

// webhookRecord maps the webhooks table. created_at holds unix microseconds
// so ordering and MAX() behave the same on every dialect.
type webhookRecord struct {
	bun.BaseModel `bun:"table:webhooks,alias:w"`

	ID        int64             `bun:"id,pk,autoincrement"`
	SessionID string            `bun:"session_id,notnull"`
	Method    string            `bun:"method,notnull"`
	Headers   map[string]string `bun:"headers,notnull"`
	Body      *string           `bun:"body"`
	CreatedAt int64             `bun:"created_at,notnull"`
}

type sessionRow struct {
	SessionID      string `bun:"session_id"`
	Count          int    `bun:"count"`
	LastCapturedAt int64  `bun:"last_captured_at"`
}

func toRecord(rec *entity.CapturedRequest) *webhookRecord {
	headers := rec.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	return &webhookRecord{
		SessionID: rec.SessionID,
		Method:    rec.Method,
		Headers:   headers,
		Body:      rec.Body,
		CreatedAt: rec.CreatedAt.UnixMicro(),
	}
}

func toEntity(r *webhookRecord) *entity.CapturedRequest {
	return &entity.CapturedRequest{
		ID:        r.ID,
		SessionID: r.SessionID,
		Method:    r.Method,
		Headers:   r.Headers,
		Body:      r.Body,
		CreatedAt: time.UnixMicro(r.CreatedAt).UTC(),
	}
}
