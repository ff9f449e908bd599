package extract

import (
	"context"

	"github.com/watercrawl/wcollama"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is used when Batch is called with a
// non-positive concurrency.
const DefaultBatchConcurrency = 4

// Batch runs one extraction per request with at most concurrency calls in
// flight. Results are returned in request order. A failed request never
// stops the others.
func Batch(ctx context.Context, adapter wcollama.Adapter, reqs []*wcollama.ExtractionRequest, concurrency int) []*wcollama.ExtractionResult {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]*wcollama.ExtractionResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = adapter.Extract(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
