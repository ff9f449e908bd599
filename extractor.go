package wcollama

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// Sanitizer removes markup that carries no content (scripts, styles,
// embedded media) before conversion.
type Sanitizer interface {
	// IsHTML reports whether content contains HTML elements.
	IsHTML(content string) bool

	// Sanitize returns HTML with non-content elements removed.
	Sanitize(html string) (string, error)
}
