package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket caps unauthenticated calls at a number of requests per period.
type TokenBucket struct {
	limiter *rate.Limiter
	metrics *Metrics
}

// Metrics tracks statistics about token bucket usage.
type Metrics struct {
	totalRequests   atomic.Int64
	allowedRequests atomic.Int64
	deniedRequests  atomic.Int64
}

// NewTokenBucket allows requests per period, with a burst of requests.
func NewTokenBucket(requests int, period time.Duration) *TokenBucket {
	return &TokenBucket{
		limiter: rate.NewLimiter(perSecond(requests, period), requests),
		metrics: &Metrics{},
	}
}

func perSecond(requests int, period time.Duration) rate.Limit {
	return rate.Limit(float64(requests) / period.Seconds())
}

// Wait blocks until a request is allowed or the context is cancelled.
func (b *TokenBucket) Wait(ctx context.Context) error {
	b.metrics.totalRequests.Add(1)
	if err := b.limiter.Wait(ctx); err != nil {
		b.metrics.deniedRequests.Add(1)
		return err
	}
	b.metrics.allowedRequests.Add(1)
	return nil
}

// Allow returns true if a request is permitted immediately.
func (b *TokenBucket) Allow() bool {
	b.metrics.totalRequests.Add(1)
	allowed := b.limiter.Allow()
	if allowed {
		b.metrics.allowedRequests.Add(1)
	} else {
		b.metrics.deniedRequests.Add(1)
	}
	return allowed
}

// SetLimit updates the rate to requests per period.
func (b *TokenBucket) SetLimit(requests int, period time.Duration) {
	b.limiter.SetLimit(perSecond(requests, period))
	b.limiter.SetBurst(requests)
}

// Metrics returns a snapshot of the current statistics.
func (b *TokenBucket) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests:   b.metrics.totalRequests.Load(),
		AllowedRequests: b.metrics.allowedRequests.Load(),
		DeniedRequests:  b.metrics.deniedRequests.Load(),
	}
}

// MetricsSnapshot is a point-in-time capture of token bucket statistics.
type MetricsSnapshot struct {
	// TotalRequests is the total number of checks performed.
	TotalRequests int64
	// AllowedRequests is the number of requests that were allowed.
	AllowedRequests int64
	// DeniedRequests is the number of requests that were denied.
	DeniedRequests int64
}
