package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a single-process sliding-window limiter. It keeps the
// admission timestamps per bucket and prunes lazily on each check; counts
// only ever cover the last window ending at "now". The mutex makes the
// check-then-append atomic under concurrent requests for one bucket.
type MemoryLimiter struct {
	maxRequests int
	window      time.Duration

	mu   sync.Mutex
	hits map[string][]time.Time

	now func() time.Time
}

func NewMemoryLimiter(maxRequests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		maxRequests: maxRequests,
		window:      window,
		hits:        make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.maxRequests {
		// Oldest surviving hit leaves the window first.
		retryAfter := l.window - now.Sub(kept[0])
		l.hits[key] = kept
		return &LimitExceededError{Limit: l.maxRequests, RetryAfter: retryAfter}
	}

	l.hits[key] = append(kept, now)
	return nil
}

// Remaining reports how many admissions the bucket has left in the
// current window.
func (l *MemoryLimiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			count++
		}
	}

	if remaining := l.maxRequests - count; remaining > 0 {
		return remaining
	}
	return 0
}
