package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const jitter = 0.2

type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// MaxDelay caps a single wait; zero leaves it uncapped.
	MaxDelay time.Duration
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// NewBackOff doubles BaseDelay on every call to NextBackOff with ±20% jitter and never stops on its own.
func (p Policy) NewBackOff() backoff.BackOff {
	if p.BaseDelay <= 0 {
		return &backoff.ZeroBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = jitter
	b.MaxInterval = time.Duration(math.MaxInt64)
	if p.MaxDelay > 0 {
		b.MaxInterval = p.MaxDelay
	}
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Do runs fn until it succeeds, returns a non-retryable error, or the attempt budget is spent.
// It reports how many attempts were made. attempt is zero-based.
// When ctx ends between attempts the last error from fn is returned, not ctx.Err().
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context, attempt int) error) (int, error) {
	var (
		attempt int
		last    error
	)
	op := func() error {
		last = fn(ctx, attempt)
		attempt++
		if last != nil && !retryable(last) {
			return backoff.Permanent(last)
		}
		return last
	}

	// #nosec G115 -- attempts() is at least 1
	b := backoff.WithContext(backoff.WithMaxRetries(p.NewBackOff(), uint64(p.attempts()-1)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		if last != nil {
			return attempt, last
		}
		return attempt, err
	}
	return attempt, nil
}
