package http

import (
	"github.com/ruudy-sib/hooktrap/internal/domain"
	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/port/primary"
)

// WebhookResponse is one captured request on the read path.
type WebhookResponse struct {
	ID        int64             `json:"id"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Body      any               `json:"body"`
	CreatedAt string            `json:"created_at"`
}

// SessionResponse is one row of GET /api/webhooks.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Count     int    `json:"count"`
}

// SessionOverviewResponse is one session on the homepage.
type SessionOverviewResponse struct {
	SessionID    string `json:"session_id"`
	WebhookCount int    `json:"webhook_count"`
	LastWebhook  string `json:"last_webhook"`
}

// HomeResponse is returned by GET /.
type HomeResponse struct {
	Service   string                    `json:"service"`
	Version   string                    `json:"version"`
	Endpoints map[string]string         `json:"endpoints"`
	Sessions  []SessionOverviewResponse `json:"sessions"`
}

// ClearResponse is returned after a session has been cleared.
type ClearResponse struct {
	Status       string `json:"status"`
	SessionID    string `json:"session_id"`
	DeletedCount int    `json:"deleted_count"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func toWebhookResponse(rec *entity.CapturedRequest) WebhookResponse {
	headers := rec.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	return WebhookResponse{
		ID:        rec.ID,
		Method:    rec.Method,
		Headers:   headers,
		Body:      entity.ClassifyBody(rec.Body),
		CreatedAt: rec.CreatedAt.UTC().Format(domain.CreatedAtLayout),
	}
}

func toWebhookResponses(records []*entity.CapturedRequest) []WebhookResponse {
	out := make([]WebhookResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toWebhookResponse(rec))
	}
	return out
}

func toSessionResponses(sessions []entity.SessionSummary) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionResponse{SessionID: s.SessionID, Count: s.Count})
	}
	return out
}

func toHomeResponse(o *primary.Overview) HomeResponse {
	endpoints := make(map[string]string, len(o.Endpoints))
	for _, e := range o.Endpoints {
		endpoints[e.Route] = e.Description
	}

	sessions := make([]SessionOverviewResponse, 0, len(o.Sessions))
	for _, s := range o.Sessions {
		sessions = append(sessions, SessionOverviewResponse{
			SessionID:    s.SessionID,
			WebhookCount: s.Count,
			LastWebhook:  s.LastCapturedAt.UTC().Format(domain.CreatedAtLayout),
		})
	}

	return HomeResponse{
		Service:   o.Service,
		Version:   o.Version,
		Endpoints: endpoints,
		Sessions:  sessions,
	}
}
