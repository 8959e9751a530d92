package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/domain"
	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
)

func newTestCaptureService(store *mockStore, pub *mockPublisher, opts ...CaptureOption) *CaptureService {
	base := []CaptureOption{WithSleeper(noSleep), WithClock(newSteppingClock().Now)}
	return NewCaptureService(store, pub, zap.NewNop(), append(base, opts...)...)
}

func post(session string, headers map[string][]string, body string) *entity.InboundRequest {
	return &entity.InboundRequest{
		SessionID: session,
		Method:    http.MethodPost,
		Headers:   headers,
		Body:      []byte(body),
	}
}

func TestCaptureService_Capture(t *testing.T) {
	tests := []struct {
		name        string
		req         *entity.InboundRequest
		wantStatus  int
		wantPayload any
		wantStored  int
	}{
		{
			name:       "plain session is captured",
			req:        post("s1", nil, `{"event":"x"}`),
			wantStatus: http.StatusOK,
			wantPayload: entity.CapturedPayload{
				Status:    "captured",
				SessionID: "s1",
				WebhookID: "1",
			},
			wantStored: 1,
		},
		{
			name:        "fail-500 is not stored",
			req:         post("fail-500-a", nil, `{}`),
			wantStatus:  http.StatusInternalServerError,
			wantPayload: entity.ErrorPayload{Error: "Internal Server Error (simulated)"},
		},
		{
			name:        "fail-503 is not stored",
			req:         post("fail-503-a", nil, `{}`),
			wantStatus:  http.StatusServiceUnavailable,
			wantPayload: entity.ErrorPayload{Error: "Service Unavailable (simulated)"},
		},
		{
			name:        "fail-401 is not stored",
			req:         post("fail-401-a", nil, `{}`),
			wantStatus:  http.StatusUnauthorized,
			wantPayload: entity.ErrorPayload{Error: "Unauthorized (simulated)"},
		},
		{
			name:        "fail-403 is not stored",
			req:         post("fail-403-a", nil, `{}`),
			wantStatus:  http.StatusForbidden,
			wantPayload: entity.ErrorPayload{Error: "Forbidden (simulated)"},
		},
		{
			name:        "timeout answers without storing",
			req:         post("fail-timeout-a", nil, `{}`),
			wantStatus:  http.StatusOK,
			wantPayload: entity.StatusPayload{Status: "captured_after_timeout"},
		},
		{
			name:        "require-auth without signature is rejected",
			req:         post("require-auth-a", nil, `{}`),
			wantStatus:  http.StatusUnauthorized,
			wantPayload: entity.ErrorPayload{Error: "Missing X-Webhook-Signature header"},
		},
		{
			name:       "require-auth with signature is captured",
			req:        post("require-auth-a", map[string][]string{"X-Webhook-Signature": {"sha256=abc"}}, `{}`),
			wantStatus: http.StatusOK,
			wantPayload: entity.CapturedPayload{
				Status:    "captured",
				SessionID: "require-auth-a",
				WebhookID: "1",
			},
			wantStored: 1,
		},
		{
			name:       "delay session is captured",
			req:        post("delay-2s-a", nil, `{}`),
			wantStatus: http.StatusOK,
			wantPayload: entity.CapturedPayload{
				Status:    "captured",
				SessionID: "delay-2s-a",
				WebhookID: "1",
			},
			wantStored: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			svc := newTestCaptureService(store, &mockPublisher{})

			got, err := svc.Capture(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
			if got.Payload != tt.wantPayload {
				t.Fatalf("Payload = %#v, want %#v", got.Payload, tt.wantPayload)
			}
			if len(store.records) != tt.wantStored {
				t.Fatalf("stored %d records, want %d", len(store.records), tt.wantStored)
			}
		})
	}
}

func TestCaptureService_StoresNormalizedRequest(t *testing.T) {
	store := &mockStore{}
	svc := newTestCaptureService(store, &mockPublisher{})

	req := &entity.InboundRequest{
		SessionID: "headers",
		Method:    http.MethodPatch,
		Headers: map[string][]string{
			"Content-Type":  {"application/json"},
			"Authorization": {"Bearer token123"},
			"Accept":        {"a", "b"},
		},
	}
	if _, err := svc.Capture(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := store.records[0]
	if rec.Method != http.MethodPatch {
		t.Fatalf("Method = %q, want PATCH", rec.Method)
	}
	if rec.Body != nil {
		t.Fatalf("expected absent body, got %q", *rec.Body)
	}
	if rec.Headers["content-type"] != "application/json" ||
		rec.Headers["authorization"] != "Bearer token123" ||
		rec.Headers["accept"] != "a" {
		t.Fatalf("unexpected headers: %v", rec.Headers)
	}
	if rec.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", rec.CreatedAt.Location())
	}
}

func TestCaptureService_RetryThenOk(t *testing.T) {
	store := &mockStore{}
	pub := &mockPublisher{}
	svc := newTestCaptureService(store, pub)
	ctx := context.Background()

	const session = "fail-2x-then-ok-abc"
	for attempt := 1; attempt <= 2; attempt++ {
		req := post(session, nil, `{"attempt":1}`)
		req.Method = http.MethodPut

		got, err := svc.Capture(ctx, req)
		if err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", attempt, err)
		}
		want := entity.RetryFailurePayload{Error: "Simulated failure", Attempt: attempt, WillSucceedAfter: 2}
		if got.Status != http.StatusInternalServerError || got.Payload != want {
			t.Fatalf("attempt %d: got %d %#v, want 500 %#v", attempt, got.Status, got.Payload, want)
		}
	}

	got, err := svc.Capture(ctx, post(session, nil, `{"attempt":3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != http.StatusOK {
		t.Fatalf("third attempt status = %d, want 200", got.Status)
	}

	if len(store.records) != 3 {
		t.Fatalf("stored %d records, want 3", len(store.records))
	}
	for i, rec := range store.records {
		if rec.Method != http.MethodPost {
			t.Fatalf("record %d method = %q, want POST", i, rec.Method)
		}
		if i > 0 && !rec.CreatedAt.After(store.records[i-1].CreatedAt) {
			t.Fatalf("record %d is not after record %d", i, i-1)
		}
	}

	if len(pub.events) != 3 {
		t.Fatalf("published %d events, want 3", len(pub.events))
	}
	if pub.events[0].Outcome != entity.CaptureEventSimulatedFailure || pub.events[2].Outcome != entity.CaptureEventCaptured {
		t.Fatalf("unexpected event outcomes: %+v", pub.events)
	}
}

func TestCaptureService_ConcurrentRetryAttemptsDoNotDuplicateOrdinals(t *testing.T) {
	store := &mockStore{}
	svc := newTestCaptureService(store, &mockPublisher{})

	const (
		session  = "fail-5x-then-ok-race"
		requests = 20
	)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		attempts = map[int]int{}
		successes int
	)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Capture(context.Background(), post(session, nil, `{}`))
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if p, ok := got.Payload.(entity.RetryFailurePayload); ok {
				attempts[p.Attempt]++
				return
			}
			successes++
		}()
	}
	wg.Wait()

	for n := 1; n <= 5; n++ {
		if attempts[n] != 1 {
			t.Fatalf("attempt %d seen %d times, want exactly once", n, attempts[n])
		}
	}
	if successes != requests-5 {
		t.Fatalf("successes = %d, want %d", successes, requests-5)
	}
	if len(store.records) != requests {
		t.Fatalf("stored %d records, want %d", len(store.records), requests)
	}
}

func TestCaptureService_TimeoutUsesConfiguredDelay(t *testing.T) {
	var slept []time.Duration
	sleeper := func(d time.Duration) { slept = append(slept, d) }

	svc := newTestCaptureService(&mockStore{}, &mockPublisher{},
		WithSleeper(sleeper),
		WithTimeoutDelay(3*time.Second),
	)
	if _, err := svc.Capture(context.Background(), post("fail-timeout-x", nil, "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slept) != 1 || slept[0] != 3*time.Second {
		t.Fatalf("slept %v, want [3s]", slept)
	}
}

func TestCaptureService_StorageErrors(t *testing.T) {
	tests := []struct {
		name    string
		session string
	}{
		{name: "default capture", session: "s1"},
		{name: "stateful retry", session: "fail-1x-then-ok-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{insertErr: errors.New("disk full")}
			pub := &mockPublisher{}
			svc := newTestCaptureService(store, pub)

			got, err := svc.Capture(context.Background(), post(tt.session, nil, `{}`))
			if err == nil {
				t.Fatalf("expected error, got outcome %+v", got)
			}
			if !errors.Is(err, domain.ErrCaptureFailed) {
				t.Fatalf("expected error wrapping %v, got %v", domain.ErrCaptureFailed, err)
			}
			if got != nil {
				t.Fatalf("expected nil outcome, got %+v", got)
			}
			if len(pub.events) != 0 {
				t.Fatalf("expected no events, got %d", len(pub.events))
			}
		})
	}
}

func TestCaptureService_PublishFailureDoesNotFailCapture(t *testing.T) {
	store := &mockStore{}
	svc := newTestCaptureService(store, &mockPublisher{err: errors.New("broker down")})

	got, err := svc.Capture(context.Background(), post("s1", nil, "hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != http.StatusOK {
		t.Fatalf("Status = %d, want 200", got.Status)
	}
	if len(store.records) != 1 {
		t.Fatalf("stored %d records, want 1", len(store.records))
	}
}
