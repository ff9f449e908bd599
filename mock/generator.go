package mock

import (
	"context"

	"github.com/watercrawl/wcollama"
)

var _ wcollama.Generator = (*Generator)(nil)

// Generator is a mock implementation of wcollama.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, req *wcollama.GenerateRequest) (*wcollama.Generation, error)
	PingFn     func(ctx context.Context) error
}

func (g *Generator) Generate(ctx context.Context, req *wcollama.GenerateRequest) (*wcollama.Generation, error) {
	return g.GenerateFn(ctx, req)
}

func (g *Generator) Ping(ctx context.Context) error {
	return g.PingFn(ctx)
}
