// Package trafilatura strips boilerplate from crawled HTML using
// go-trafilatura, keeping only the main content of a page.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/watercrawl/wcollama"
	"golang.org/x/net/html"
)

var _ wcollama.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Fallback extraction is enabled so
// short pages still yield content.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{EnableFallback: true}}
}

// Extract returns the page title and the main content rendered back to
// HTML. A page without recognisable main content yields an empty
// ContentHTML and no error.
func (e *Extractor) Extract(rawHTML string) (*wcollama.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, wcollama.Errorf(wcollama.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, wcollama.Errorf(wcollama.EINVALID, "extract main content: %v", err)
	}

	out := &wcollama.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, wcollama.Errorf(wcollama.EINTERNAL, "render main content: %v", err)
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
