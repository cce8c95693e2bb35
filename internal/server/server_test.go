package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/svc"
)

func testRouter(c config.Config) http.Handler {
	return Router(svc.NewServiceContext(c), true)
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(testRouter(config.Default()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d", resp.StatusCode)
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Status != "healthy" {
		t.Fatalf("got status %q", payload.Status)
	}
}

func TestCORSPreflight(t *testing.T) {
	c := config.Default()
	c.Server.AllowedOrigin = "https://chat.example.com"
	srv := httptest.NewServer(testRouter(c))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/chat", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://chat.example.com" {
		t.Fatalf("got origin %q", got)
	}

	other, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/chat", nil)
	other.Header.Set("Origin", "https://evil.example.com")
	resp2, err := http.DefaultClient.Do(other)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.Header.Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("mismatched origin must not be allowed")
	}
}

func TestRateLimitApplied(t *testing.T) {
	c := config.Default()
	c.Security.RateLimitPerSec = 0.001
	c.Security.RateLimitBurst = 1
	srv := httptest.NewServer(testRouter(c))
	defer srv.Close()

	// Same bearer token, so both requests land in one bucket regardless of
	// the ephemeral source port. Body is invalid on purpose; only the
	// status matters here.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u1"}).
		SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	post := func() int {
		req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/chat", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := post(); code == http.StatusTooManyRequests {
		t.Fatal("first request must not be limited")
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	c := config.Default()
	c.Security.RateLimitEnabled = "false"
	c.Security.RateLimitPerSec = 0.001
	c.Security.RateLimitBurst = 1
	srv := httptest.NewServer(testRouter(c))
	defer srv.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Post(srv.URL+"/api/v1/chat", "application/json", nil)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			t.Fatal("disabled limiter must never fire")
		}
	}
}
