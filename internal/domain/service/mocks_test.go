package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
)

// mockStore implements secondary.WebhookStore in memory for testing.
// Setting an *Err field makes the matching operation fail.
type mockStore struct {
	mu      sync.Mutex
	nextID  int64
	records []*entity.CapturedRequest

	insertErr error
	listErr   error
	deleteErr error
	sessErr   error

	insertCalls        int
	insertIfBelowCalls int
}

func (m *mockStore) Insert(_ context.Context, rec *entity.CapturedRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++
	if m.insertErr != nil {
		return m.insertErr
	}
	m.appendLocked(rec)
	return nil
}

func (m *mockStore) InsertIfBelow(_ context.Context, rec *entity.CapturedRequest, limit int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertIfBelowCalls++
	if m.insertErr != nil {
		return 0, false, m.insertErr
	}
	count := m.countLocked(rec.SessionID)
	if count >= limit {
		return count, false, nil
	}
	m.appendLocked(rec)
	return count, true, nil
}

func (m *mockStore) ListBySession(_ context.Context, sessionID string) ([]*entity.CapturedRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*entity.CapturedRequest
	for _, r := range m.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) CountBySession(_ context.Context, sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(sessionID), nil
}

func (m *mockStore) DeleteBySession(_ context.Context, sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	kept := m.records[:0]
	deleted := 0
	for _, r := range m.records {
		if r.SessionID == sessionID {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

func (m *mockStore) Sessions(_ context.Context) ([]entity.SessionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessErr != nil {
		return nil, m.sessErr
	}
	bySession := map[string]*entity.SessionSummary{}
	for _, r := range m.records {
		s, ok := bySession[r.SessionID]
		if !ok {
			s = &entity.SessionSummary{SessionID: r.SessionID}
			bySession[r.SessionID] = s
		}
		s.Count++
		if r.CreatedAt.After(s.LastCapturedAt) {
			s.LastCapturedAt = r.CreatedAt
		}
	}
	var out []entity.SessionSummary
	for _, s := range bySession {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastCapturedAt.After(out[j].LastCapturedAt)
	})
	return out, nil
}

func (m *mockStore) Close() error { return nil }

func (m *mockStore) appendLocked(rec *entity.CapturedRequest) {
	m.nextID++
	rec.ID = m.nextID
	m.records = append(m.records, rec)
}

func (m *mockStore) countLocked(sessionID string) int {
	n := 0
	for _, r := range m.records {
		if r.SessionID == sessionID {
			n++
		}
	}
	return n
}

// mockPublisher implements secondary.EventPublisher for testing.
type mockPublisher struct {
	mu     sync.Mutex
	events []entity.CaptureEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event entity.CaptureEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// steppingClock returns a strictly increasing time on each call.
type steppingClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{cur: time.Date(2025, 11, 5, 15, 35, 58, 0, time.UTC)}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Millisecond)
	return c.cur
}

func noSleep(time.Duration) {}
