package mock

import "github.com/watercrawl/wcollama"

var _ wcollama.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of wcollama.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*wcollama.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*wcollama.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ wcollama.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of wcollama.Sanitizer.
type Sanitizer struct {
	IsHTMLFn   func(content string) bool
	SanitizeFn func(html string) (string, error)
}

func (s *Sanitizer) IsHTML(content string) bool {
	return s.IsHTMLFn(content)
}

func (s *Sanitizer) Sanitize(html string) (string, error) {
	return s.SanitizeFn(html)
}
