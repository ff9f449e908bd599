package mock

import (
	"context"

	"github.com/watercrawl/wcollama"
)

var _ wcollama.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of wcollama.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
