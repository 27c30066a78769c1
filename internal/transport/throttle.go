package transport

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces out calls to one service. A single Throttle shared by
// every caller enforces an aggregate ceiling regardless of how many
// goroutines issue requests.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows one call per interval. A non-positive interval disables throttling.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		return &Throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or ctx ends.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return ctx.Err()
	}
	return t.limiter.Wait(ctx)
}

// Interval reports the spacing between calls.
func (t *Throttle) Interval() time.Duration {
	if t == nil || t.limiter.Limit() == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(t.limiter.Limit()))
}
