// Package goquery detects and cleans HTML page content using goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/watercrawl/wcollama"
)

var _ wcollama.Sanitizer = (*Sanitizer)(nil)

// DefaultStripSelectors lists elements that never carry page content.
var DefaultStripSelectors = []string{
	"script", "style", "noscript", "template",
	"iframe", "object", "embed", "svg", "canvas",
	"link", "meta",
}

var documentPattern = regexp.MustCompile(`(?i)<!doctype\s+html|<html[\s>]|<body[\s>]`)

// Sanitizer removes non-content elements from HTML.
type Sanitizer struct {
	strip string
}

// NewSanitizer creates a Sanitizer that removes DefaultStripSelectors plus
// any extra selectors given.
func NewSanitizer(extra ...string) *Sanitizer {
	selectors := append(append([]string(nil), DefaultStripSelectors...), extra...)
	return &Sanitizer{strip: strings.Join(selectors, ", ")}
}

// IsHTML reports whether content is an HTML document or fragment. It
// requires a document-level signal (doctype, <html> or <body>) or content
// that is wrapped in markup from start to end. Markdown with inline tags
// such as <br> or <img> is not HTML.
func (s *Sanitizer) IsHTML(content string) bool {
	if !strings.Contains(content, "<") {
		return false
	}
	if documentPattern.MatchString(content) {
		return true
	}

	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "<") || !strings.HasSuffix(trimmed, ">") {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return false
	}
	return doc.Find("head *, body *").Length() > 0
}

// Sanitize returns the document with stripped elements removed.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", wcollama.Errorf(wcollama.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", wcollama.Errorf(wcollama.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(s.strip).Remove()

	out, err := doc.Html()
	if err != nil {
		return "", wcollama.Errorf(wcollama.EINTERNAL, "render HTML: %v", err)
	}
	return out, nil
}
