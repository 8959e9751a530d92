package secondary

import (
	"context"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
)

// EventPublisher defines the secondary port for announcing persisted captures
// on an event stream (e.g., Kafka).
type EventPublisher interface {
	// Publish emits one capture event.
	Publish(ctx context.Context, event entity.CaptureEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
