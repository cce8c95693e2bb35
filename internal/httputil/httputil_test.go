package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type body struct {
	Model    string `json:"model"`
	Messages []any  `json:"messages"`
}

func TestParseStrict(t *testing.T) {
	allowed := []string{"model", "messages"}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"model":"gpt-4","messages":[]}`))
	var v body
	if err := ParseStrict(r, &v, allowed, 1<<20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Model != "gpt-4" {
		t.Fatalf("got model %q", v.Model)
	}
}

func TestParseStrictRejectsUnknownKeys(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"model":"gpt-4","zzz":1,"aaa":2}`))
	var v body
	err := ParseStrict(r, &v, []string{"model"}, 1<<20)
	if err == nil {
		t.Fatal("expected error for unknown keys")
	}
	// Keys are sorted so the message is stable.
	if !strings.Contains(err.Error(), "aaa, zzz") {
		t.Fatalf("wrong error text: %q", err.Error())
	}
}

func TestParseStrictRejectsInvalidJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"model":`))
	var v body
	if err := ParseStrict(r, &v, []string{"model"}, 1<<20); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestParseStrictShapeMismatch(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"model":123}`))
	var v body
	if err := ParseStrict(r, &v, []string{"model"}, 1<<20); err == nil {
		t.Fatal("expected error for wrong value type")
	}
}
