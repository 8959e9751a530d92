package entity

import "time"

// CapturedRequest is one persisted webhook delivery. Records are append-only:
// the store assigns ID on insert and nothing is ever updated afterwards.
type CapturedRequest struct {
	ID        int64
	SessionID string
	Method    string
	Headers   map[string]string
	Body      *string
	CreatedAt time.Time
}

// HasBody reports whether the request carried a non-empty body.
func (r *CapturedRequest) HasBody() bool {
	return r.Body != nil
}

// SessionSummary aggregates the records of one session.
type SessionSummary struct {
	SessionID      string
	Count          int
	LastCapturedAt time.Time
}

// InboundRequest is the transport-neutral view of a request hitting a capture endpoint.
// Headers are raw: names as received, every value kept.
type InboundRequest struct {
	SessionID string
	Method    string
	Headers   map[string][]string
	Body      []byte
}
