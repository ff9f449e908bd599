// Package extract implements wcollama.Adapter: it prepares crawled page
// content, prompts an LLM backend and maps the completion into an
// ExtractionResult.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/watercrawl/wcollama"
)

var _ wcollama.Adapter = (*Adapter)(nil)

// Adapter performs one backend call per extraction. All fields except
// Config and Generator are optional. Fallback is tried when Extractor finds
// no main content. Adapter holds no mutable state and is
// safe for concurrent use when its collaborators are.
type Adapter struct {
	Config    wcollama.Config
	Generator wcollama.Generator

	Sanitizer    wcollama.Sanitizer
	Extractor    wcollama.Extractor
	Fallback     wcollama.Extractor
	Converter    wcollama.Converter
	TokenCounter wcollama.TokenCounter
	Validator    wcollama.SchemaValidator
	Limiter      wcollama.Limiter

	now func() time.Time
}

// Extract runs one extraction. It never returns nil and converts panics in
// collaborators into EINTERNAL failures.
func (a *Adapter) Extract(ctx context.Context, req *wcollama.ExtractionRequest) (res *wcollama.ExtractionResult) {
	begin := a.clock()
	res = &wcollama.ExtractionResult{}
	defer func() {
		if r := recover(); r != nil {
			res.Fail(wcollama.Errorf(wcollama.EINTERNAL, "extraction panicked: %v", r))
		}
		res.Duration = a.clock().Sub(begin)
	}()

	if err := req.Validate(); err != nil {
		return res.Fail(err)
	}
	if a.Generator == nil {
		return res.Fail(wcollama.Errorf(wcollama.ECONFIG, "no backend configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, a.Config.EffectiveTimeout())
	defer cancel()

	content := a.prepare(req.PageContent, req.ContentType)
	content, tokens, err := a.truncate(ctx, content)
	if err != nil {
		return res.Fail(err)
	}
	res.ContentHash = fmt.Sprintf("%x", xxhash.Sum64String(content))
	res.PromptTokens = tokens

	msgs, err := BuildMessages(req, content)
	if err != nil {
		return res.Fail(err)
	}

	model := req.Model
	if model == "" {
		model = a.Config.Model
	}
	res.Model = model

	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			return res.Fail(wcollama.TransportError(err))
		}
	}

	gen, err := a.Generator.Generate(ctx, &wcollama.GenerateRequest{
		Model:    model,
		System:   a.Config.EffectiveSystemPrompt(),
		Messages: msgs,
		JSON:     req.WantsJSON(),
	})
	if err != nil {
		return res.Fail(backendError(err))
	}
	if gen == nil {
		return res.Fail(wcollama.Errorf(wcollama.EBACKEND, "backend returned no generation"))
	}
	if gen.Model != "" {
		res.Model = gen.Model
	}
	if gen.PromptTokens > 0 {
		res.PromptTokens = gen.PromptTokens
	}
	res.CompletionTokens = gen.CompletionTokens

	data, err := ParseCompletion(gen.Text, req.WantsJSON())
	if err != nil {
		return res.Fail(err)
	}
	if req.Format == wcollama.FormatText {
		data = strings.TrimSpace(gen.Text)
	}

	if req.Schema != nil && a.Validator != nil {
		if err := a.Validator.Validate(req.Schema, data); err != nil {
			return res.Fail(wcollama.Errorf(wcollama.EBACKEND, "completion does not match schema: %s", wcollama.ErrorMessage(err)))
		}
	}

	res.Data = data
	res.Success = true
	return res
}

// prepare reduces HTML to Markdown. Markdown and plain text pass through.
// Each step falls back to its input when it fails or yields nothing.
func (a *Adapter) prepare(content string, kind wcollama.ContentType) string {
	switch kind {
	case wcollama.ContentMarkdown:
		return content
	case wcollama.ContentAuto:
		if a.Sanitizer == nil || !a.Sanitizer.IsHTML(content) {
			return content
		}
	}

	html := content
	if a.Sanitizer != nil {
		if clean, err := a.Sanitizer.Sanitize(html); err == nil && strings.TrimSpace(clean) != "" {
			html = clean
		}
	}

	if main, ok := mainContent(a.Extractor, html); ok {
		html = main
	} else if main, ok := mainContent(a.Fallback, html); ok {
		html = main
	}

	if a.Converter == nil {
		return html
	}
	md, err := a.Converter.Convert(html)
	if err != nil || strings.TrimSpace(md) == "" {
		return html
	}
	return md
}

func mainContent(ext wcollama.Extractor, html string) (string, bool) {
	if ext == nil {
		return "", false
	}
	res, err := ext.Extract(html)
	if err != nil || res == nil || strings.TrimSpace(res.ContentHTML) == "" {
		return "", false
	}
	return res.ContentHTML, true
}

// truncate cuts content to Config.MaxContentTokens. Counting is optional:
// without a TokenCounter content is returned as is with a zero count.
func (a *Adapter) truncate(ctx context.Context, content string) (string, int, error) {
	if a.TokenCounter == nil {
		return content, 0, nil
	}

	tokens, err := a.TokenCounter.CountTokens(ctx, content)
	if err != nil {
		return "", 0, wcollama.Errorf(wcollama.EINTERNAL, "count tokens: %s", wcollama.ErrorMessage(err))
	}

	limit := a.Config.MaxContentTokens
	if limit <= 0 || tokens <= limit {
		return content, tokens, nil
	}

	// Token density is roughly uniform across a page, so cut proportionally
	// by runes and re-count until the content fits. keep shrinks on every
	// pass, so the loop ends.
	runes := []rune(content)
	keep := len(runes)
	for tokens > limit {
		next := keep * limit / tokens
		if next >= keep {
			next = keep - 1
		}
		if next < 1 {
			return "", 0, wcollama.Errorf(wcollama.EINVALID, "content cannot be cut to %d tokens", limit)
		}
		keep = next
		content = string(runes[:keep])

		if tokens, err = a.TokenCounter.CountTokens(ctx, content); err != nil {
			return "", 0, wcollama.Errorf(wcollama.EINTERNAL, "count tokens: %s", wcollama.ErrorMessage(err))
		}
	}
	return content, tokens, nil
}

func (a *Adapter) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// backendError keeps application errors from the Generator and classifies
// anything else as a transport failure.
func backendError(err error) error {
	if wcollama.ErrorCode(err) != wcollama.EINTERNAL {
		return err
	}
	return wcollama.TransportError(err)
}
