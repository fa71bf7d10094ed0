// Package ratelimiter throttles the calls a dispatch session executes.
//
// It is a thin wrapper around golang.org/x/time/rate's token bucket. A
// zero rate means unlimited, so callers can construct a limiter straight
// from configuration without special-casing the disabled state.
package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter allows callsPerSecond calls on average with bursts of up to
// burst calls.
//
// Thread safety:
// All methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter.
//
// Special cases:
//   - callsPerSecond = 0: no limiting
//   - burst = 0: burst defaults to callsPerSecond
func New(callsPerSecond, burst uint) *RateLimiter {
	if callsPerSecond == 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst == 0 {
		burst = callsPerSecond
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(callsPerSecond), int(burst)),
	}
}

// Unlimited reports whether the limiter lets every call through.
func (r *RateLimiter) Unlimited() bool {
	return r.limiter.Limit() == rate.Inf
}

// Allow consumes a token if one is available and reports whether it did.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
