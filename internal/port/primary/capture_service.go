package primary

import (
	"context"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
)

// CaptureService defines the primary port for capturing inbound webhooks
// exposed to driving adapters (HTTP handlers, the embeddable library).
type CaptureService interface {
	// Capture runs the simulation rules for the request and, unless a rule
	// short-circuits, persists it. A non-nil error means the request could
	// not be stored and no success outcome may be returned.
	Capture(ctx context.Context, req *entity.InboundRequest) (*entity.Outcome, error)
}
