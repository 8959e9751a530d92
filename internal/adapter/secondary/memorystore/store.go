package memorystore

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// Store implements secondary.WebhookStore in process memory. Data does not
// survive a restart; it is the default driver for local use and tests.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	sessions map[string][]*entity.CapturedRequest
	logger   *zap.Logger
}

// New creates an empty in-memory store.
func New(logger *zap.Logger) secondary.WebhookStore {
	return newStore(logger)
}

func newStore(logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string][]*entity.CapturedRequest),
		logger:   logger.Named("memory-store"),
	}
}

// Insert appends rec to its session and assigns the next ID.
func (s *Store) Insert(_ context.Context, rec *entity.CapturedRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLocked(rec)
	return nil
}

// InsertIfBelow counts and inserts under one lock.
func (s *Store) InsertIfBelow(_ context.Context, rec *entity.CapturedRequest, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.sessions[rec.SessionID])
	if count >= limit {
		return count, false, nil
	}
	s.appendLocked(rec)
	return count, true, nil
}

// ListBySession returns copies of the session's records in capture order.
func (s *Store) ListBySession(_ context.Context, sessionID string) ([]*entity.CapturedRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.sessions[sessionID]
	out := make([]*entity.CapturedRequest, 0, len(records))
	for _, r := range records {
		out = append(out, clone(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// CountBySession returns the number of records in a session.
func (s *Store) CountBySession(_ context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions[sessionID]), nil
}

// DeleteBySession drops a session and returns how many records it held.
func (s *Store) DeleteBySession(_ context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := len(s.sessions[sessionID])
	delete(s.sessions, sessionID)
	return deleted, nil
}

// Sessions summarizes every session, most recently active first.
func (s *Store) Sessions(_ context.Context) ([]entity.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.SessionSummary, 0, len(s.sessions))
	for id, records := range s.sessions {
		summary := entity.SessionSummary{SessionID: id, Count: len(records)}
		for _, r := range records {
			if r.CreatedAt.After(summary.LastCapturedAt) {
				summary.LastCapturedAt = r.CreatedAt
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastCapturedAt.Equal(out[j].LastCapturedAt) {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].LastCapturedAt.After(out[j].LastCapturedAt)
	})
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	s.logger.Debug("memory store closed")
	return nil
}

func (s *Store) appendLocked(rec *entity.CapturedRequest) {
	s.nextID++
	rec.ID = s.nextID
	s.sessions[rec.SessionID] = append(s.sessions[rec.SessionID], clone(rec))
}

func clone(r *entity.CapturedRequest) *entity.CapturedRequest {
	c := *r
	if r.Headers != nil {
		c.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			c.Headers[k] = v
		}
	}
	if r.Body != nil {
		b := *r.Body
		c.Body = &b
	}
	return &c
}
