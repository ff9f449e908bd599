package mock

import (
	"context"

	"github.com/watercrawl/wcollama"
)

var _ wcollama.Adapter = (*Adapter)(nil)

// Adapter is a mock implementation of wcollama.Adapter.
type Adapter struct {
	ExtractFn func(ctx context.Context, req *wcollama.ExtractionRequest) *wcollama.ExtractionResult
}

func (a *Adapter) Extract(ctx context.Context, req *wcollama.ExtractionRequest) *wcollama.ExtractionResult {
	return a.ExtractFn(ctx, req)
}
