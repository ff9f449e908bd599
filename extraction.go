package wcollama

import (
	"context"
	"strings"
	"time"
)

// Format controls how a completion is mapped into ExtractionResult.Data.
type Format string

// Supported output formats.
const (
	// FormatAuto decodes JSON objects and arrays and returns anything else as text.
	FormatAuto Format = ""
	// FormatJSON requires the completion to be a JSON value.
	FormatJSON Format = "json"
	// FormatText returns the completion as text without decoding.
	FormatText Format = "text"
)

// ContentType tells the adapter how PageContent is encoded.
type ContentType string

// Supported content types.
const (
	// ContentAuto detects HTML documents and passes anything else through.
	ContentAuto ContentType = ""
	// ContentMarkdown is passed to the model as is, even when it embeds
	// inline HTML tags.
	ContentMarkdown ContentType = "markdown"
	// ContentHTML is always cleaned and converted to Markdown.
	ContentHTML ContentType = "html"
)

// ExtractionRequest is one page handed over by the host for extraction.
type ExtractionRequest struct {
	// PageContent is the crawled content: HTML, Markdown or plain text.
	PageContent string      `json:"page_content"`
	ContentType ContentType `json:"content_type,omitempty"`

	// Goal is a free-text instruction describing what to extract.
	Goal string `json:"extraction_goal,omitempty"`

	// Schema is an optional JSON schema the extracted data must satisfy.
	// A schema implies FormatJSON.
	Schema map[string]any `json:"schema,omitempty"`

	URL      string         `json:"url,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`

	// Model overrides Config.Model for this request.
	Model  string `json:"model,omitempty"`
	Format Format `json:"format,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
func (r *ExtractionRequest) Validate() error {
	if r == nil {
		return Errorf(EINVALID, "extraction request required")
	}
	if strings.TrimSpace(r.PageContent) == "" {
		return Errorf(EINVALID, "page content required")
	}
	switch r.Format {
	case FormatAuto, FormatJSON, FormatText:
	default:
		return Errorf(EINVALID, "unsupported format %q", r.Format)
	}
	switch r.ContentType {
	case ContentAuto, ContentMarkdown, ContentHTML:
	default:
		return Errorf(EINVALID, "unsupported content type %q", r.ContentType)
	}
	if r.Format == FormatText && r.Schema != nil {
		return Errorf(EINVALID, "schema cannot be combined with text format")
	}
	return nil
}

// WantsJSON reports whether the completion must decode as JSON.
func (r *ExtractionRequest) WantsJSON() bool {
	return r.Format == FormatJSON || r.Schema != nil
}

// ExtractionResult is returned to the host for every extraction call.
// Failures are reported here rather than as Go errors.
type ExtractionResult struct {
	Data         any    `json:"data,omitempty"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`

	Model            string        `json:"model,omitempty"`
	ContentHash      string        `json:"content_hash,omitempty"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Duration         time.Duration `json:"duration,omitempty"`
}

// Fail marks the result as failed with the code and message of err.
func (r *ExtractionResult) Fail(err error) *ExtractionResult {
	r.Data = nil
	r.Success = false
	r.ErrorCode = ErrorCode(err)
	r.ErrorMessage = ErrorMessage(err)
	return r
}

// Adapter turns page content into extracted data using an LLM backend.
type Adapter interface {
	// Extract never returns nil and never panics; every failure is
	// reported through the returned result.
	Extract(ctx context.Context, req *ExtractionRequest) *ExtractionResult
}
