package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/domain"
	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/metrics"
	"github.com/ruudy-sib/hooktrap/internal/port/primary"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// Endpoints is the route table advertised on the homepage.
var Endpoints = []primary.Endpoint{
	{Route: "POST /{session_id}", Description: "Capture webhook"},
	{Route: "GET /api/webhooks/{session_id}", Description: "Retrieve webhooks"},
	{Route: "DELETE /api/webhooks/{session_id}", Description: "Clear webhooks"},
	{Route: "GET /api/webhooks", Description: "List sessions"},
}

// InspectionService serves the read and clear side of captured sessions.
type InspectionService struct {
	store  secondary.WebhookStore
	logger *zap.Logger
}

// NewInspectionService creates an InspectionService.
func NewInspectionService(store secondary.WebhookStore, logger *zap.Logger) *InspectionService {
	return &InspectionService{
		store:  store,
		logger: logger.Named("inspection-service"),
	}
}

// ListWebhooks returns the records of a session in capture order.
func (s *InspectionService) ListWebhooks(ctx context.Context, sessionID string) ([]*entity.CapturedRequest, error) {
	records, err := s.store.ListBySession(ctx, sessionID)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrQueryFailed, err)
	}
	if records == nil {
		records = []*entity.CapturedRequest{}
	}
	return records, nil
}

// ListSessions returns every known session, most recently active first.
func (s *InspectionService) ListSessions(ctx context.Context) ([]entity.SessionSummary, error) {
	sessions, err := s.store.Sessions(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("sessions").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrQueryFailed, err)
	}
	if sessions == nil {
		sessions = []entity.SessionSummary{}
	}
	return sessions, nil
}

// ClearSession deletes all records of a session. Unknown sessions delete nothing.
func (s *InspectionService) ClearSession(ctx context.Context, sessionID string) (int, error) {
	deleted, err := s.store.DeleteBySession(ctx, sessionID)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		return 0, fmt.Errorf("%w: %v", domain.ErrQueryFailed, err)
	}

	s.logger.Info("session cleared",
		zap.String("session_id", sessionID),
		zap.Int("deleted_count", deleted),
	)
	return deleted, nil
}

// Overview returns the homepage metadata.
func (s *InspectionService) Overview(ctx context.Context) (*primary.Overview, error) {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return &primary.Overview{
		Service:   domain.ServiceName,
		Version:   domain.ServiceVersion,
		Endpoints: Endpoints,
		Sessions:  sessions,
	}, nil
}
