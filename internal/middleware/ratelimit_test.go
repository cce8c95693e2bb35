package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterBurstThenDeny(t *testing.T) {
	l := NewRateLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("request %d within burst must pass", i)
		}
	}
	if l.Allow("key") {
		t.Fatal("request beyond burst must be denied")
	}
	if !l.Allow("other") {
		t.Fatal("keys must have independent buckets")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	l := NewRateLimiter(100, 1)
	if !l.Allow("key") {
		t.Fatal("first request must pass")
	}
	if l.Allow("key") {
		t.Fatal("bucket must be empty")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("key") {
		t.Fatal("bucket must refill over time")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	h := l.Middleware(func(r *http.Request) string { return "fixed" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest("POST", "/api/v1/chat", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request: got %d", first.Code)
	}

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest("POST", "/api/v1/chat", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", second.Code)
	}
}
