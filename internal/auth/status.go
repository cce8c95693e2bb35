// Package auth talks to the external entitlement service and extracts
// caller identity for rate limiting.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hackmate-ai/hackmate/internal/config"
)

// StatusError is the entitlement service's rejection, passed through to the
// client with its original status and body.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status check rejected with %d", e.Status)
}

// StatusClient checks per-user entitlement before a request is processed.
type StatusClient struct {
	url   string
	httpc *http.Client
}

func NewStatusClient(cfg config.Config) *StatusClient {
	return &StatusClient{
		url:   cfg.Auth.StatusCheckURL,
		httpc: &http.Client{Timeout: cfg.AuthTimeout()},
	}
}

// Check posts the caller's token and requested model to the status
// endpoint. nil means the request may proceed. A *StatusError carries the
// endpoint's rejection; other errors are transport failures.
func (c *StatusClient) Check(ctx context.Context, authToken, model string) error {
	if c.url == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{"model": model})
	if err != nil {
		return fmt.Errorf("encode status check: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build status check: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("status check call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return &StatusError{Status: resp.StatusCode, Body: string(raw)}
}
