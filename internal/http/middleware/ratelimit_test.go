package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rateLimitedHandler(cfg RateLimitConfig) http.Handler {
	return RateLimit(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doFrom(handler http.Handler, remoteAddr string) int {
	request := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	request.RemoteAddr = remoteAddr
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder.Code
}

func TestRateLimitThrottlesAfterBurst(t *testing.T) {
	handler := rateLimitedHandler(RateLimitConfig{RPS: 1, Burst: 2})

	for i := 0; i < 2; i++ {
		if code := doFrom(handler, "10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := doFrom(handler, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
}

func TestRateLimitTracksCallersIndependently(t *testing.T) {
	handler := rateLimitedHandler(RateLimitConfig{RPS: 1, Burst: 1})

	if code := doFrom(handler, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("expected 200 for first caller, got %d", code)
	}
	if code := doFrom(handler, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("expected first caller throttled, got %d", code)
	}
	// A different IP gets its own bucket.
	if code := doFrom(handler, "10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("expected 200 for second caller, got %d", code)
	}
}

func TestRateLimitSweepReclaimsIdleBuckets(t *testing.T) {
	handler := rateLimitedHandler(RateLimitConfig{
		RPS:           0.001,
		Burst:         1,
		VisitorTTL:    20 * time.Millisecond,
		SweepInterval: 10 * time.Millisecond,
	})

	if code := doFrom(handler, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := doFrom(handler, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 with bucket drained, got %d", code)
	}

	// After the idle TTL the sweeper drops the bucket, so the caller starts
	// fresh instead of waiting out the refill rate.
	time.Sleep(60 * time.Millisecond)
	if code := doFrom(handler, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("expected fresh bucket after sweep, got %d", code)
	}
}
