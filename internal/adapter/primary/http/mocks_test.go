package http

import (
	"context"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/port/primary"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// mockCaptureService implements primary.CaptureService for testing.
type mockCaptureService struct {
	outcome    *entity.Outcome
	captureErr error
	lastReq    *entity.InboundRequest
}

func (m *mockCaptureService) Capture(_ context.Context, req *entity.InboundRequest) (*entity.Outcome, error) {
	m.lastReq = req
	if m.captureErr != nil {
		return nil, m.captureErr
	}
	return m.outcome, nil
}

// mockInspectionService implements primary.InspectionService for testing.
type mockInspectionService struct {
	records     []*entity.CapturedRequest
	sessions    []entity.SessionSummary
	deleted     int
	err         error
	lastSession string
}

func (m *mockInspectionService) ListWebhooks(_ context.Context, sessionID string) ([]*entity.CapturedRequest, error) {
	m.lastSession = sessionID
	return m.records, m.err
}

func (m *mockInspectionService) ListSessions(_ context.Context) ([]entity.SessionSummary, error) {
	return m.sessions, m.err
}

func (m *mockInspectionService) ClearSession(_ context.Context, sessionID string) (int, error) {
	m.lastSession = sessionID
	return m.deleted, m.err
}

func (m *mockInspectionService) Overview(_ context.Context) (*primary.Overview, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Overview{
		Service:   "Webhook Receiver",
		Version:   "1.0.0",
		Endpoints: []primary.Endpoint{{Route: "GET /api/webhooks", Description: "List sessions"}},
		Sessions:  m.sessions,
	}, nil
}

// mockHealthCheck is a test double for health checks.
type mockHealthCheck struct {
	name string
	err  error
}

func (m mockHealthCheck) Name() string {
	return m.name
}

func (m mockHealthCheck) Check(_ context.Context) error {
	return m.err
}

// Compile-time interface assertions
var (
	_ primary.CaptureService    = (*mockCaptureService)(nil)
	_ primary.InspectionService = (*mockInspectionService)(nil)
	_ secondary.HealthChecker   = mockHealthCheck{}
)
