// Package gemini counts prompt tokens with the local Gemini tokenizer from
// google.golang.org/genai. Ollama models use other vocabularies, so counts
// are an estimate of prompt size rather than an exact budget.
package gemini

import (
	"context"

	"github.com/watercrawl/wcollama"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ wcollama.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens using a local tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for the given tokenizer model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, wcollama.Errorf(wcollama.ECONFIG, "load tokenizer %q: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the number of tokens in text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, wcollama.Errorf(wcollama.EINTERNAL, "count tokens: %v", err)
	}
	return int(result.TotalTokens), nil
}
