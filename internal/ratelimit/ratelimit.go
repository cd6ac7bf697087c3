// Package ratelimit provides a keyed rate limiter using the token bucket
// algorithm. The API layer keys it by user ID to keep one client from
// monopolizing the ranking endpoints.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long an untouched key survives before a sweep drops it.
const idleTTL = 10 * time.Minute

// sweepThreshold is the map size that triggers an idle sweep on the next
// key creation.
const sweepThreshold = 1024

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter hands out an independent token bucket per key. Idle keys
// are swept opportunistically so a long-running server does not accumulate
// a bucket for every user ID it has ever seen.
type KeyedRateLimiter struct {
	mu      sync.RWMutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
}

// New creates a keyed limiter allowing rps requests per second with the
// given burst per key.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// PerMinute creates a limiter expressed as requests per minute, the unit the
// server configuration uses.
func PerMinute(perMinute, burst int) *KeyedRateLimiter {
	return New(float64(perMinute)/60.0, burst)
}

// Allow reports whether a request for the key may proceed right now.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the key is allowed or the context ends.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now()

	krl.mu.RLock()
	e, ok := krl.entries[key]
	krl.mu.RUnlock()
	if ok {
		return krl.touch(e, now)
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Re-check: another goroutine may have created the entry between locks.
	if e, ok = krl.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}

	if len(krl.entries) >= sweepThreshold {
		krl.sweepLocked(now)
	}

	e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst), lastSeen: now}
	krl.entries[key] = e
	return e.limiter
}

// touch refreshes an entry's last-seen time under the write lock.
func (krl *KeyedRateLimiter) touch(e *entry, now time.Time) *rate.Limiter {
	krl.mu.Lock()
	e.lastSeen = now
	krl.mu.Unlock()
	return e.limiter
}

// sweepLocked drops entries idle longer than idleTTL. Caller holds the
// write lock.
func (krl *KeyedRateLimiter) sweepLocked(now time.Time) {
	for key, e := range krl.entries {
		if now.Sub(e.lastSeen) > idleTTL {
			delete(krl.entries, key)
		}
	}
}

// Len returns the number of keys currently tracked.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.RLock()
	defer krl.mu.RUnlock()
	return len(krl.entries)
}
