package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/watercrawl/wcollama"
)

// Ensure LoggingGenerator implements wcollama.Generator.
var _ wcollama.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator and logs every backend call.
type LoggingGenerator struct {
	next   wcollama.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next wcollama.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate logs the model, token counts and duration of the call.
func (g *LoggingGenerator) Generate(ctx context.Context, req *wcollama.GenerateRequest) (gen *wcollama.Generation, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"model", req.Model,
			"json", req.JSON,
			"messages", len(req.Messages),
			"duration", time.Since(begin),
		}
		if gen != nil {
			attrs = append(attrs,
				"prompt_tokens", gen.PromptTokens,
				"completion_tokens", gen.CompletionTokens,
			)
		}
		if err != nil {
			attrs = append(attrs, "code", wcollama.ErrorCode(err), "err", wcollama.ErrorMessage(err))
			g.logger.Warn("generate", attrs...)
			return
		}
		g.logger.Debug("generate", attrs...)
	}(time.Now())
	return g.next.Generate(ctx, req)
}

// Ping logs the result of the reachability check.
func (g *LoggingGenerator) Ping(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		g.logger.Debug("ping",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Ping(ctx)
}
