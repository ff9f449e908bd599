package wcollama

import "context"

// Limiter throttles calls to the backend.
type Limiter interface {
	// Wait blocks until a call is allowed or ctx is done.
	Wait(ctx context.Context) error
}
