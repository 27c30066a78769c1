// Package retry runs an operation a bounded number of times with a
// backoff between attempts.
package retry

import (
	"context"
	"errors"
	"time"
)

// Backoff returns the delay after the given failed attempt (1-based).
type Backoff func(attempt int) time.Duration

// Linear grows the delay proportionally with the attempt number.
func Linear(base time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// Constant waits the same delay after every attempt.
func Constant(delay time.Duration) Backoff {
	return func(int) time.Duration {
		return delay
	}
}

// Policy bounds an operation's attempts.
type Policy struct {
	// Attempts is the total number of tries; values below 1 mean 1.
	Attempts int

	// Backoff is consulted after each failed attempt. Nil means no delay.
	Backoff Backoff

	// OnError is called after each failed attempt, before sleeping.
	OnError func(attempt int, err error)

	// Sleep waits between attempts; it defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// permanent marks an error that must not be retried.
type permanent struct {
	err error
}

func (p *permanent) Error() string { return p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

// Permanent wraps err so Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// Do calls fn until it succeeds, returns a Permanent error, the context
// ends, or the policy's attempts are used up. It returns the number of
// attempts made alongside the last result.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, int, error) {
	attempts := max(p.Attempts, 1)
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var (
		zero T
		err  error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, attempt - 1, ctxErr
		}

		var result T
		result, err = fn(ctx, attempt)
		if err == nil {
			return result, attempt, nil
		}

		var perm *permanent
		if errors.As(err, &perm) {
			return zero, attempt, perm.err
		}

		if p.OnError != nil {
			p.OnError(attempt, err)
		}

		if attempt < attempts && p.Backoff != nil {
			if sleepErr := sleep(ctx, p.Backoff(attempt)); sleepErr != nil {
				return zero, attempt, sleepErr
			}
		}
	}

	return zero, attempts, err
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
