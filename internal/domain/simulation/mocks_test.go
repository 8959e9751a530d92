package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
)

// mockRecorder implements AttemptRecorder with per-session counters.
type mockRecorder struct {
	mu       sync.Mutex
	counts   map[string]int
	recorded []*entity.CapturedRequest
	err      error
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{counts: make(map[string]int)}
}

func (m *mockRecorder) RecordAttempt(_ context.Context, rec *entity.CapturedRequest, failCount int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return 0, false, m.err
	}
	attempts := m.counts[rec.SessionID]
	if attempts >= failCount {
		return attempts, false, nil
	}
	m.counts[rec.SessionID]++
	rec.ID = int64(len(m.recorded) + 1)
	m.recorded = append(m.recorded, rec)
	return attempts, true, nil
}

// fakeSleeper records requested sleeps instead of blocking.
type fakeSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (f *fakeSleeper) Sleep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleeps = append(f.sleeps, d)
}

func (f *fakeSleeper) calls() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.sleeps...)
}

func fixedClock() time.Time {
	return time.Date(2025, 11, 5, 15, 35, 58, 0, time.UTC)
}
