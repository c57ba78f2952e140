package engine

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window limiter over a rolling 60 second span. It
// guards against runaway generation loops, not against the remote quota; the
// remote 429 is handled separately at the provider boundary.
type rateLimiter struct {
	mu          sync.Mutex
	requests    []time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

func (r *rateLimiter) canMakeRequest() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	return len(r.requests) < r.maxRequests
}

func (r *rateLimiter) record() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, r.now())
}

// timeUntilReset returns how long until the oldest in-window request ages out.
func (r *rateLimiter) timeUntilReset() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	if len(r.requests) == 0 {
		return 0
	}
	oldest := r.requests[0]
	remaining := r.window - r.now().Sub(oldest)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// prune drops entries older than the window. Callers hold the lock.
func (r *rateLimiter) prune() {
	cutoff := r.now().Add(-r.window)
	kept := r.requests[:0]
	for _, t := range r.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	r.requests = kept
}
