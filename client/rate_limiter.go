package client

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing API requests. A nil *RateLimiter never waits.
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter allows perSecond requests per second with a burst of the
// same size (at least one). A non-positive rate disables limiting.
func NewRateLimiter(perSecond float64) *RateLimiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil || r.lim == nil {
		return nil
	}
	return r.lim.Wait(ctx)
}

// Limit returns the configured rate, 0 when disabled.
func (r *RateLimiter) Limit() float64 {
	if r == nil || r.lim == nil {
		return 0
	}
	return float64(r.lim.Limit())
}
