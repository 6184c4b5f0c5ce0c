package server

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter enforces per-client and global request rate limits using
// token buckets.
type RateLimiter struct {
	mu        sync.Mutex
	global    *rate.Limiter
	clients   map[string]*rate.Limiter
	perClient rate.Limit
	burst     int
}

// NewRateLimiter creates a rate limiter allowing perClientRPM requests per
// minute per client. The global budget is ten times the per-client one.
func NewRateLimiter(perClientRPM int) *RateLimiter {
	clientRate := rate.Limit(float64(perClientRPM) / 60.0)
	clientBurst := perClientRPM
	if clientBurst < 1 {
		clientBurst = 1
	}
	globalRPM := perClientRPM * 10
	return &RateLimiter{
		global:    rate.NewLimiter(rate.Limit(float64(globalRPM)/60.0), globalRPM),
		clients:   make(map[string]*rate.Limiter),
		perClient: clientRate,
		burst:     clientBurst,
	}
}

// Allow checks whether a request from the given client is allowed.
func (rl *RateLimiter) Allow(client string) bool {
	if !rl.global.Allow() {
		return false
	}
	rl.mu.Lock()
	limiter, ok := rl.clients[client]
	if !ok {
		limiter = rate.NewLimiter(rl.perClient, rl.burst)
		rl.clients[client] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}
