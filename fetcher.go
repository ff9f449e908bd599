package wcollama

import "context"

// Fetcher retrieves page HTML from URLs. The host normally crawls pages
// itself; the CLI uses a Fetcher to extract from a single URL.
type Fetcher interface {
	// Fetch returns the HTML served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources.
	Close() error
}
