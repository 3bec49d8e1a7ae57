// Package ratelimiter limits how often a key may perform an operation.
package ratelimiter

import (
	"sync"
	"time"
)

// window is the fixed-window counter of one key.
type window struct {
	count     int
	lastReset time.Time
}

// RateLimiter allows at most limit operations per key in each interval.
// Counters reset when interval has passed since the first operation of the window.
type RateLimiter struct {
	limit    int           // operations per interval
	interval time.Duration // window length

	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimiter creates a RateLimiter. A limit of 0 or less disables limiting.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
		now:      time.Now,
	}
}

// Allow records an operation for key and reports whether it is within the limit.
// When it is not, retryAfter is the time left until the window resets.
func (rl *RateLimiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	if rl.limit <= 0 {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, ok := rl.windows[key]
	if !ok {
		w = &window{lastReset: now}
		rl.windows[key] = w
	}
	// Reset the count once the interval has passed
	if now.Sub(w.lastReset) >= rl.interval {
		w.count = 0
		w.lastReset = now
	}

	w.count++
	if w.count > rl.limit {
		return false, rl.interval - now.Sub(w.lastReset)
	}
	return true, 0
}

// sweep drops expired windows so the map does not grow without bound.
func (rl *RateLimiter) sweep(now time.Time) {
	if len(rl.windows) < 1024 {
		return
	}
	for key, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, key)
		}
	}
}
