// Package retry implements a small bounded-retry policy shared by the
// pipeline's external calls. Attempts are strictly sequential; each one
// consumes the same rate-limited quota, so there is never speculative
// parallelism here.
package retry

import (
	"context"
	"time"
)

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// Backoff returns the delay inserted after failed attempt n (1-based).
	// Nil means no delay.
	Backoff func(attempt int) time.Duration
	// Penalty returns an extra delay keyed on the failure, e.g. a longer
	// pause after a rate-limit response. Nil means no penalty.
	Penalty func(err error) time.Duration
	// Permanent reports failures that must not be retried (bad credentials,
	// invalid input). The first such error is returned immediately.
	Permanent func(err error) bool
}

// Do runs op until it succeeds, a permanent error occurs, the attempts are
// exhausted, or ctx is cancelled. On exhaustion the last attempt's error is
// returned.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		if p.Permanent != nil && p.Permanent(err) {
			return err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if p.Penalty != nil {
			delay += p.Penalty(err)
		}
		if delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	return lastErr
}
