// Package ratelimit provides a keyed rate limiter using token bucket algorithm.
// It supports both non-blocking (Allow) and blocking (Wait) operations.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	sweepInterval = 10 * time.Minute
	// Keys on the public endpoints are client IPs, so the map grows without
	// bound unless idle entries are dropped. An entry idle this long has a
	// full token bucket again, so dropping it changes nothing for the client.
	idleTimeout = 30 * time.Minute
)

// limiterEntry pairs a limiter with its last-use time for the sweep.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int

	// Cleanup
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}

	go krl.cleanup()

	return krl
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking. Use for inbound request protection.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or context is canceled.
// Use for outbound requests where you want to respect rate limits.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// getLimiter returns the limiter for a key, creating one if needed.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now().UnixNano()

	// Fast path: read lock
	krl.mu.RLock()
	entry, exists := krl.limiters[key]
	krl.mu.RUnlock()

	if exists {
		entry.lastSeen.Store(now)
		return entry.limiter
	}

	// Slow path: write lock to create
	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Double-check after acquiring write lock
	if entry, exists = krl.limiters[key]; exists {
		entry.lastSeen.Store(now)
		return entry.limiter
	}

	entry = &limiterEntry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
	entry.lastSeen.Store(now)
	krl.limiters[key] = entry
	return entry.limiter
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

// cleanup periodically sweeps idle limiters until stopped.
func (krl *KeyedRateLimiter) cleanup() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case <-ticker.C:
			krl.sweep(time.Now())
		}
	}
}

// sweep removes entries that haven't been used since the idle cutoff.
func (krl *KeyedRateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-idleTimeout).UnixNano()

	krl.mu.Lock()
	defer krl.mu.Unlock()

	for key, entry := range krl.limiters {
		if entry.lastSeen.Load() < cutoff {
			delete(krl.limiters, key)
		}
	}
}
