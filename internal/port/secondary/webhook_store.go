package secondary

import (
	"context"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
)

// WebhookStore defines the secondary port for persisting and querying captured
// requests by session (e.g., memory, Redis, SQLite, Postgres).
type WebhookStore interface {
	// Insert persists rec and sets rec.ID to the identifier assigned by the store.
	Insert(ctx context.Context, rec *entity.CapturedRequest) error

	// InsertIfBelow atomically counts the records of rec.SessionID and inserts rec
	// only when that count is below limit. It returns the count observed before
	// the insert and whether rec was inserted.
	InsertIfBelow(ctx context.Context, rec *entity.CapturedRequest, limit int) (int, bool, error)

	// ListBySession returns the records of a session ordered by creation time, then ID.
	ListBySession(ctx context.Context, sessionID string) ([]*entity.CapturedRequest, error)

	// CountBySession returns the number of records in a session.
	CountBySession(ctx context.Context, sessionID string) (int, error)

	// DeleteBySession removes every record of a session and returns how many were removed.
	DeleteBySession(ctx context.Context, sessionID string) (int, error)

	// Sessions returns one summary per session, most recently active first.
	Sessions(ctx context.Context) ([]entity.SessionSummary, error)

	// Close releases any resources held by the store.
	Close() error
}
