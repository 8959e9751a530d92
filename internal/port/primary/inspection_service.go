package primary

import (
	"context"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
)

// Endpoint describes one route for the homepage listing.
type Endpoint struct {
	Route       string
	Description string
}

// Overview is the service metadata shown on the homepage.
type Overview struct {
	Service   string
	Version   string
	Endpoints []Endpoint
	Sessions  []entity.SessionSummary
}

// InspectionService defines the primary port for reading and clearing captured webhooks.
type InspectionService interface {
	// ListWebhooks returns the records of a session in capture order. Never nil.
	ListWebhooks(ctx context.Context, sessionID string) ([]*entity.CapturedRequest, error)

	// ListSessions returns every session, most recently active first. Never nil.
	ListSessions(ctx context.Context) ([]entity.SessionSummary, error)

	// ClearSession deletes all records of a session and returns how many were removed.
	ClearSession(ctx context.Context, sessionID string) (int, error)

	// Overview returns the homepage metadata.
	Overview(ctx context.Context) (*Overview, error)
}
