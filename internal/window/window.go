// Package window fits a conversation history into a model's token budget.
package window

import (
	"errors"
	"fmt"

	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/tokenizer"
	"github.com/hackmate-ai/hackmate/internal/types"
)

// ErrModelNotFound is returned when the requested model has no budget entry.
var ErrModelNotFound = errors.New("model not found")

// MessageTooLongError means the latest message alone blows the budget.
// It is a hard error: the user's own message is never silently truncated.
type MessageTooLongError struct {
	Limit int
}

func (e *MessageTooLongError) Error() string {
	return fmt.Sprintf("This message exceeds the model's maximum token limit of %d. Please shorten your message.", e.Limit)
}

// Build trims history to fit the model's token limit, newest first. The
// returned window keeps chronological order with older turns dropped, always
// ends with the latest message, and counts the system prompt against the
// budget. The second return value is the total token count of prompt plus
// window.
func Build(enc tokenizer.Encoder, cfg config.Config, model, systemPrompt string, history []types.Message) ([]types.Message, int, error) {
	m, ok := cfg.ModelFor(model)
	if !ok {
		return nil, 0, ErrModelNotFound
	}
	if len(history) == 0 {
		return nil, 0, errors.New("empty message history")
	}

	last := history[len(history)-1]
	reserved := m.ReservedTokens
	if m.WideReservedTokens > 0 {
		// Terse and verbose prompts both tend to need more completion
		// headroom, so a band on the last message length widens the reserve.
		n := len(last.Content)
		if n < cfg.Window.MinLastMessageLen || n > cfg.Window.MaxLastMessageLen {
			reserved = m.WideReservedTokens
		}
	}

	lastTokens := enc.Count(last.Content)
	if lastTokens+reserved > m.TokenLimit {
		return nil, 0, &MessageTooLongError{Limit: m.TokenLimit}
	}

	used := enc.Count(systemPrompt) + lastTokens
	win := []types.Message{last}
	for i := len(history) - 2; i >= 0; i-- {
		t := enc.Count(history[i].Content)
		if used+t+reserved > m.TokenLimit {
			break
		}
		used += t
		win = append([]types.Message{history[i]}, win...)
	}
	return win, used, nil
}
