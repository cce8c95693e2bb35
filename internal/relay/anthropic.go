package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/stream"
	"github.com/hackmate-ai/hackmate/internal/types"
)

func (c *Client) streamAnthropic(ctx context.Context, m config.Model, msgs []types.Message, opts Options) (<-chan stream.Event, error) {
	clientOpts := []option.RequestOption{option.WithAPIKey(c.cfg.Completion.AnthropicKey)}
	if c.cfg.Completion.AnthropicBaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(c.cfg.Completion.AnthropicBaseURL))
	}
	client := anthropic.NewClient(clientOpts...)

	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam
	for _, msg := range msgs {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case types.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case types.RoleUser:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case types.RoleAssistant:
			turns = append(turns, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content)},
			})
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.BackendModel),
		MaxTokens: int64(c.maxTokens(opts)),
		Messages:  turns,
	}
	if len(system) > 0 {
		params.System = system
	}
	if opts.Temperature != nil {
		params.Temperature = anthropic.Float(*opts.Temperature)
	}

	s := client.Messages.NewStreaming(ctx, params)
	events := make(chan stream.Event, 100)
	go func() {
		defer close(events)
		for s.Next() {
			event := s.Current()
			switch event.Type {
			case "content_block_delta":
				delta := event.AsContentBlockDelta()
				if d, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok && d.Text != "" {
					events <- stream.Delta(d.Text)
				}
			case "message_stop":
				events <- stream.End()
				return
			case "error":
				events <- stream.Error("", fmt.Errorf("anthropic stream error: %s", event.RawJSON()))
				return
			}
		}
		if err := s.Err(); err != nil {
			events <- stream.Error("", classifyAnthropic(err))
			return
		}
		events <- stream.End()
	}()
	return events, nil
}

func classifyAnthropic(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return classify(apierr.StatusCode, apierr.Error())
	}
	return &APIError{Kind: KindUnavailable, Message: err.Error()}
}
