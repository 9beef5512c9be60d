package retry

import (
	"context"
	"time"
)

// Policy drives Do: how many attempts, the initial backoff (doubled after
// each failure), and which errors are worth retrying at all.
type Policy struct {
	Attempts  int
	Backoff   time.Duration
	Retryable func(error) bool
}

// Do runs fn until it succeeds, the policy is exhausted, or the context
// is cancelled. The last error is returned as-is so callers can keep
// matching on typed errors.
func Do(ctx context.Context, p Policy, fn func(context.Context) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := p.Backoff

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err = fn(ctx); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}
	return err
}
