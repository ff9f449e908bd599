package slog

import (
	"context"
	"log/slog"

	"github.com/watercrawl/wcollama"
)

// Ensure LoggingAdapter implements wcollama.Adapter.
var _ wcollama.Adapter = (*LoggingAdapter)(nil)

// LoggingAdapter wraps an Adapter and logs one line per extraction.
// Failures are logged at warn level since they never surface as errors.
type LoggingAdapter struct {
	next   wcollama.Adapter
	logger *slog.Logger
}

// NewLoggingAdapter creates a new LoggingAdapter.
func NewLoggingAdapter(next wcollama.Adapter, logger *slog.Logger) *LoggingAdapter {
	return &LoggingAdapter{next: next, logger: logger}
}

// Extract delegates to the wrapped adapter and logs the result.
func (a *LoggingAdapter) Extract(ctx context.Context, req *wcollama.ExtractionRequest) *wcollama.ExtractionResult {
	res := a.next.Extract(ctx, req)

	var url string
	if req != nil {
		url = req.URL
	}
	attrs := []any{
		"url", url,
		"model", res.Model,
		"success", res.Success,
		"hash", res.ContentHash,
		"duration", res.Duration,
	}
	if !res.Success {
		attrs = append(attrs, "code", res.ErrorCode, "err", res.ErrorMessage)
		a.logger.Warn("extract", attrs...)
		return res
	}
	a.logger.Info("extract", attrs...)
	return res
}
