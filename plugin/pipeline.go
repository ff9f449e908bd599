package plugin

import (
	"context"
	"log/slog"
	"maps"

	"github.com/watercrawl/wcollama"
)

// Pipeline runs extraction over crawled items.
type Pipeline struct {
	Adapter wcollama.Adapter
	Logger  *slog.Logger
}

// ProcessItem extracts structured data from item["markdown"] and stores it
// under item["extraction"]. Items are skipped (nil result) when opts are
// nil or inactive, or when the item has no markdown. On failure the item is
// returned unchanged along with the failed result.
func (p *Pipeline) ProcessItem(ctx context.Context, item wcollama.Item, opts *wcollama.ExtractOptions) (wcollama.Item, *wcollama.ExtractionResult) {
	if opts == nil || !opts.IsActive {
		return item, nil
	}

	url := item.String(wcollama.ItemURL)
	markdown := item.String(wcollama.ItemMarkdown)
	if markdown == "" {
		p.logger().Warn("item must contain a 'markdown' key with content", "url", url)
		return item, nil
	}

	res := p.Adapter.Extract(ctx, &wcollama.ExtractionRequest{
		PageContent: markdown,
		ContentType: wcollama.ContentMarkdown,
		Goal:        opts.Prompt,
		Schema:      opts.ExtractorSchema,
		URL:         url,
		Metadata:    item.Map(wcollama.ItemMetadata),
		Model:       opts.LLMModel,
		Format:      wcollama.FormatJSON,
	})
	if !res.Success {
		p.logger().Error("processing item with ollama",
			"url", url,
			"code", res.ErrorCode,
			"err", res.ErrorMessage,
		)
		return item, res
	}

	out := maps.Clone(item)
	out[wcollama.ItemExtraction] = res.Data
	return out, res
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}
