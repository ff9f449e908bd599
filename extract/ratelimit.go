package extract

import (
	"context"

	"github.com/watercrawl/wcollama"
	"golang.org/x/time/rate"
)

var _ wcollama.Limiter = (*Limiter)(nil)

// Limiter throttles backend calls with a token bucket shared by every
// extraction of one plugin instance.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter returns a Limiter allowing rps calls per second with a burst of
// 1. It returns nil when rps is not positive, meaning no throttling.
func NewLimiter(rps float64) *Limiter {
	if rps <= 0 {
		return nil
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until a call is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// rate reports a wait that would outlast the deadline without
		// waiting for it.
		return context.DeadlineExceeded
	}
	return nil
}
