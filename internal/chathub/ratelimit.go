package chathub

import "time"

// rateLimiter admits at most max events per fixed window. The window restarts
// on the first event after it expires.
type rateLimiter struct {
	window   time.Duration
	max      int
	requests []time.Time
	resetAt  time.Time
}

func newRateLimiter(window time.Duration, max int, now time.Time) *rateLimiter {
	return &rateLimiter{
		window:   window,
		max:      max,
		requests: make([]time.Time, 0, max),
		resetAt:  now.Add(window),
	}
}

func (r *rateLimiter) allow(now time.Time) bool {
	if !now.Before(r.resetAt) {
		r.requests = r.requests[:0]
		r.resetAt = now.Add(r.window)
	}
	if len(r.requests) >= r.max {
		return false
	}
	r.requests = append(r.requests, now)
	return true
}
