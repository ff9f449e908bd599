// Package readability finds the main content of a page with go-readability.
// It backs up the trafilatura extractor on pages trafilatura finds empty.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/watercrawl/wcollama"
)

var _ wcollama.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and the main article HTML.
func (e *Extractor) Extract(rawHTML string) (*wcollama.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, wcollama.Errorf(wcollama.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, wcollama.Errorf(wcollama.EINVALID, "readability: %v", err)
	}

	return &wcollama.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
