package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter throttles bridge calls with a continuously refilling token
// bucket. The bridge caps request rates per API token, and bulk sweeps fan
// out many accounts at once, so all gateway requests share one limiter.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	perToken   time.Duration
	lastRefill time.Time
}

// NewRateLimiter allows maxTokens calls per refillInterval. The bucket
// starts full so short bursts go through immediately.
func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     float64(maxTokens),
		maxTokens:  float64(maxTokens),
		perToken:   refillInterval / time.Duration(maxTokens),
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens >= 1 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - r.tokens) * float64(r.perToken))
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RateLimiter) refill() {
	now := time.Now()
	r.tokens += float64(now.Sub(r.lastRefill)) / float64(r.perToken)
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
	r.lastRefill = now
}
