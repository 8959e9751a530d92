package hooktrap_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/pkg/hooktrap"
)

func newBenchReceiver(b *testing.B) *hooktrap.Receiver {
	b.Helper()
	cfg := hooktrap.DefaultConfig()
	cfg.Logger = zap.NewNop()

	r, err := hooktrap.New(cfg)
	if err != nil {
		b.Fatalf("Failed to create receiver: %v", err)
	}
	b.Cleanup(func() { _ = r.Close() })
	return r
}

// BenchmarkCapture benchmarks plain captures spread over many sessions.
func BenchmarkCapture(b *testing.B) {
	r := newBenchReceiver(b)
	handler := r.Handler()
	body := `{"event":"order.created","order_id":12345}`

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/bench-%d", i%64), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

// BenchmarkCaptureParallel benchmarks concurrent captures into one session.
func BenchmarkCaptureParallel(b *testing.B) {
	r := newBenchReceiver(b)
	handler := r.Handler()

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest(http.MethodPost, "/bench-parallel", strings.NewReader(`{"benchmark":true}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				b.Errorf("unexpected status %d", rec.Code)
				return
			}
		}
	})
}

// BenchmarkRetrySimulation benchmarks the atomic count-then-insert path.
func BenchmarkRetrySimulation(b *testing.B) {
	r := newBenchReceiver(b)
	handler := r.Handler()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/fail-3x-then-ok-%d", i%16), strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
}
