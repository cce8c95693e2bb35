// Package relay streams chat completions from the configured LLM backend
// and re-emits plain text deltas.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go/packages/ssestream"

	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/stream"
	"github.com/hackmate-ai/hackmate/internal/types"
)

// Options tune one completion call.
type Options struct {
	Temperature *float64
	MaxTokens   int
	// ToolContext is retrieved/plugin material appended as a final user
	// turn. When set, the tool system prompt replaces the chat one.
	ToolContext string
	// SystemPrompt overrides both configured prompts when non-empty.
	SystemPrompt string
}

// Client selects the backend for a model and relays its stream.
type Client struct {
	cfg   config.Config
	httpc *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.CompletionTimeout()},
	}
}

// Stream starts a completion and returns its event channel. Upstream
// failures known before any delta (bad status, transport errors) are
// returned synchronously as *APIError.
func (c *Client) Stream(ctx context.Context, model string, window []types.Message, opts Options) (<-chan stream.Event, error) {
	m, ok := c.cfg.ModelFor(model)
	if !ok {
		return nil, fmt.Errorf("unknown model %q", model)
	}
	msgs := c.prepare(window, opts)
	if m.Backend == "anthropic" {
		return c.streamAnthropic(ctx, m, msgs, opts)
	}
	return c.streamOpenAI(ctx, m, msgs, opts)
}

// CompleteText runs a completion to the end and returns the joined text.
// Used for command translation, where the reply is parsed, not streamed.
func (c *Client) CompleteText(ctx context.Context, model string, window []types.Message, opts Options) (string, error) {
	events, err := c.Stream(ctx, model, window, opts)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for ev := range events {
		switch ev.Type {
		case stream.EventDelta:
			b.WriteString(ev.Text)
		case stream.EventError:
			if ev.Err != nil {
				return "", ev.Err
			}
			return "", errors.New(ev.Text)
		}
	}
	return b.String(), nil
}

func (c *Client) prepare(window []types.Message, opts Options) []types.Message {
	sys := c.cfg.Completion.SystemPrompt
	if opts.ToolContext != "" && c.cfg.Completion.ToolSystemPrompt != "" {
		sys = c.cfg.Completion.ToolSystemPrompt
	}
	if opts.SystemPrompt != "" {
		sys = opts.SystemPrompt
	}
	msgs := SoftenLast(CleanHistory(window))
	out := make([]types.Message, 0, len(msgs)+2)
	if sys != "" {
		out = append(out, types.Message{Role: types.RoleSystem, Content: sys})
	}
	out = append(out, msgs...)
	if opts.ToolContext != "" {
		out = append(out, types.Message{Role: types.RoleUser, Content: opts.ToolContext})
	}
	return out
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *Client) streamOpenAI(ctx context.Context, m config.Model, msgs []types.Message, opts Options) (<-chan stream.Event, error) {
	base := c.cfg.Completion.OpenAIBaseURL
	key := c.cfg.Completion.OpenAIKey
	if m.Backend == "openrouter" {
		base = c.cfg.Completion.OpenRouterBaseURL
		key = c.cfg.Completion.OpenRouterKey
	}

	body := chatCompletionRequest{
		Model:       m.BackendModel,
		Messages:    make([]chatMessage, 0, len(msgs)),
		Temperature: c.temperature(opts),
		MaxTokens:   c.maxTokens(opts),
		Stream:      true,
	}
	for _, msg := range msgs {
		body.Messages = append(body.Messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(base, "/")+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)
	if m.Backend == "openrouter" {
		req.Header.Set("HTTP-Referer", c.cfg.Completion.Referer)
		req.Header.Set("X-Title", c.cfg.Completion.Title)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindUnavailable, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, classify(resp.StatusCode, upstreamMessage(raw))
	}

	events := make(chan stream.Event, 100)
	go c.decodeStream(resp, events)
	return events, nil
}

// decodeStream reads the upstream SSE stream and re-emits text deltas.
// A payload that is not valid JSON kills the stream; a [DONE] marker or a
// finish_reason closes it without waiting for the connection to drain.
func (c *Client) decodeStream(resp *http.Response, events chan<- stream.Event) {
	defer close(events)
	decoder := ssestream.NewDecoder(resp)
	defer decoder.Close()

	for decoder.Next() {
		data := bytes.TrimSpace(decoder.Event().Data)
		if len(data) == 0 {
			continue
		}
		if bytes.Equal(data, []byte("[DONE]")) {
			events <- stream.End()
			return
		}
		var chunk chatCompletionChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			events <- stream.Error("", fmt.Errorf("malformed completion stream payload: %w", err))
			return
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.Delta.Content != "" {
			events <- stream.Delta(choice.Delta.Content)
		}
		if choice.FinishReason != nil && *choice.FinishReason != "" {
			events <- stream.End()
			return
		}
	}
	if err := decoder.Err(); err != nil {
		events <- stream.Error("", fmt.Errorf("completion stream: %w", err))
		return
	}
	events <- stream.End()
}

func (c *Client) temperature(opts Options) float64 {
	if opts.Temperature != nil {
		return *opts.Temperature
	}
	return c.cfg.Completion.DefaultTemperature
}

func (c *Client) maxTokens(opts Options) int {
	if opts.MaxTokens > 0 {
		return opts.MaxTokens
	}
	return c.cfg.Completion.DefaultMaxTokens
}

func upstreamMessage(raw []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return string(raw)
}
