package mock

import (
	"context"

	"github.com/watercrawl/wcollama"
)

var _ wcollama.Plugin = (*Plugin)(nil)

// Plugin is a mock implementation of wcollama.Plugin.
type Plugin struct {
	InfoFn            func() wcollama.PluginInfo
	InputSchemaFn     func() map[string]any
	ValidateOptionsFn func(opts *wcollama.ExtractOptions) error
	ProcessItemFn     func(ctx context.Context, item wcollama.Item, opts *wcollama.ExtractOptions) (wcollama.Item, *wcollama.ExtractionResult)
}

func (p *Plugin) Info() wcollama.PluginInfo {
	return p.InfoFn()
}

func (p *Plugin) InputSchema() map[string]any {
	return p.InputSchemaFn()
}

func (p *Plugin) ValidateOptions(opts *wcollama.ExtractOptions) error {
	return p.ValidateOptionsFn(opts)
}

func (p *Plugin) ProcessItem(ctx context.Context, item wcollama.Item, opts *wcollama.ExtractOptions) (wcollama.Item, *wcollama.ExtractionResult) {
	return p.ProcessItemFn(ctx, item, opts)
}

var _ wcollama.SchemaValidator = (*SchemaValidator)(nil)

// SchemaValidator is a mock implementation of wcollama.SchemaValidator.
type SchemaValidator struct {
	ValidateFn func(schema map[string]any, value any) error
}

func (v *SchemaValidator) Validate(schema map[string]any, value any) error {
	return v.ValidateFn(schema, value)
}
