package relay

import (
	"net/http"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status     int
		wantKind   Kind
		wantStatus int
	}{
		{400, KindBadRequest, http.StatusBadRequest},
		{401, KindAuth, http.StatusUnauthorized},
		{402, KindCredits, http.StatusPaymentRequired},
		{403, KindModeration, http.StatusForbidden},
		{408, KindTimeout, http.StatusRequestTimeout},
		{429, KindRateLimited, http.StatusTooManyRequests},
		{502, KindUnavailable, http.StatusBadGateway},
		{503, KindUnavailable, http.StatusBadGateway},
		{500, KindOther, http.StatusBadGateway},
	}
	for _, tt := range tests {
		e := classify(tt.status, "upstream detail")
		if e.Kind != tt.wantKind {
			t.Fatalf("status %d: got kind %s, want %s", tt.status, e.Kind, tt.wantKind)
		}
		if e.HTTPStatus() != tt.wantStatus {
			t.Fatalf("status %d: got http %d, want %d", tt.status, e.HTTPStatus(), tt.wantStatus)
		}
		if e.UserMessage() == "" {
			t.Fatalf("status %d: empty user message", tt.status)
		}
	}
}

func TestUserMessageHidesUpstreamDetail(t *testing.T) {
	e := classify(401, "invalid api key sk-abc123")
	if e.UserMessage() == e.Message {
		t.Fatal("user message must not expose the upstream detail")
	}
}
