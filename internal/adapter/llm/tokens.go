package llm

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncoding is used for models tiktoken has no mapping for (llama, claude, gemini).
const fallbackEncoding = "cl100k_base"

// TokenCounter estimates prompt and response sizes. Counts for non-OpenAI
// models are approximations.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter loads the BPE ranks for model. The first call may download
// them, so counting is opt-in through llm.count_tokens.
func NewTokenCounter(model string) (*TokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("load tiktoken encoding: %w", err)
		}
	}
	return &TokenCounter{enc: enc}, nil
}

// Count returns the number of tokens in text; zero on a nil counter.
func (c *TokenCounter) Count(text string) int {
	if c == nil || c.enc == nil {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}
