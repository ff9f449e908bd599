package mock

import (
	"context"

	"github.com/watercrawl/wcollama"
)

var _ wcollama.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of wcollama.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
