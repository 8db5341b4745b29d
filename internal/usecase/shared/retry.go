package shared

import (
	"context"
	"log/slog"
	"time"

	"payment-3p/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// AttemptFunc runs one attempt. retry=true asks for another attempt; a
// non-nil error ends the loop immediately.
type AttemptFunc[T any] func(ctx context.Context, attempt int) (result T, retry bool, err error)

// RunWithRetry runs fn until it settles, waiting with exponential backoff
// between attempts. onRetry may be nil.
func RunWithRetry[T any](ctx context.Context, op string, policy RetryPolicy, onRetry func(), fn AttemptFunc[T]) (T, error) {
	var zero T

	maxAttempts := max(policy.MaxAttempts, 1)
	b := newBackOff(ctx, policy)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, retry, err := fn(ctx, attempt)
		if err != nil {
			return zero, err
		}
		if !retry {
			return result, nil
		}
		if attempt == maxAttempts {
			break
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			if ctx.Err() != nil {
				return zero, StoreUnavailable(errs.Wrap(ctx.Err(), "waiting for next attempt"))
			}
			break
		}
		if onRetry != nil {
			onRetry()
		}
		slog.Debug("retrying ledger operation",
			"operation", op,
			"attempt", attempt,
			"wait_time", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, StoreUnavailable(errs.Wrap(ctx.Err(), "waiting for next attempt"))
		case <-timer.C:
		}
	}

	slog.Warn("contention exhausted",
		"operation", op,
		"attempts", maxAttempts)
	return zero, errs.Mark(errs.Newf("%s gave up after %d attempts", op, maxAttempts), ErrContentionExhausted)
}

func newBackOff(ctx context.Context, policy RetryPolicy) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		eb.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		eb.MaxInterval = policy.MaxInterval
	}
	// attempts bound the loop, not elapsed time
	eb.MaxElapsedTime = 0
	eb.Reset()
	return backoff.WithContext(eb, ctx)
}
