// Package tokenizer wraps the BPE encoder used for context budgeting.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encoder counts prompt tokens. The interface exists so tests can swap in a
// cheap deterministic counter instead of the real BPE tables.
type Encoder interface {
	Count(text string) int
}

// Factory builds an Encoder per request.
type Factory func() (Encoder, error)

type encoding struct {
	tk *tiktoken.Tiktoken
}

// New returns the cl100k_base encoder shared by all supported models.
func New() (Encoder, error) {
	tk, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load encoding: %w", err)
	}
	return &encoding{tk: tk}, nil
}

func (e *encoding) Count(text string) int {
	return len(e.tk.Encode(text, nil, nil))
}
