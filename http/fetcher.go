// Package http serves extraction and plugins over HTTP and fetches pages
// from static sites for the CLI.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/watercrawl/wcollama"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 10 * time.Second

// MaxPageBytes caps how much of a page the Fetcher reads.
const MaxPageBytes = 10 << 20

// UserAgent identifies the fetcher to crawled sites.
const UserAgent = "wcollama/1.0 (+https://github.com/watercrawl/watercrawl-ollama)"

var _ wcollama.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page HTML with plain HTTP GET requests. It does not
// execute JavaScript.
type Fetcher struct {
	client *http.Client
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*http.Client)

// WithFetchTimeout sets the timeout for page requests.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(c *http.Client) {
		c.Timeout = d
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	c := &http.Client{Timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return &Fetcher{client: c}
}

// Fetch returns the body served at url. Non-200 responses are ENOTFOUND for
// 404 and EINVALID otherwise; transport failures are classified by
// wcollama.TransportError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", wcollama.Errorf(wcollama.EINVALID, "invalid page URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", wcollama.TransportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", wcollama.Errorf(wcollama.ENOTFOUND, "HTTP 404 for %s", url)
	case resp.StatusCode != http.StatusOK:
		return "", wcollama.Errorf(wcollama.EINVALID, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes))
	if err != nil {
		return "", wcollama.TransportError(err)
	}
	return string(body), nil
}

// Close is a no-op; http.Client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}
