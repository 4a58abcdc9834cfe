// Package cache provides the in-process, time-boxed key-value store that
// stands in for a server session between independently routed screens.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTouchWindow is the sliding window applied by TouchAll. It is
// deliberately distinct from (and shorter than) the hand-off TTL used at
// Set time: activity keeps a session alive for 10 minutes at a stretch,
// while a fresh hand-off grants 20.
const DefaultTouchWindow = 10 * time.Minute

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is an expiring key-value store with per-key TTLs and a global
// sliding-window touch. The zero value is not usable; construct with New.
//
// Reads of expired keys are indistinguishable from reads of keys that
// were never set. Expiry is lazy: Get checks the deadline on every read,
// so a janitor sweep is an optimization, never a correctness requirement.
type Cache struct {
	mu          sync.Mutex
	entries     map[Key]entry
	touchWindow time.Duration
	now         func() time.Time
}

// New creates a cache whose TouchAll resets live keys to the given
// sliding window. A zero or negative window falls back to
// DefaultTouchWindow.
func New(touchWindow time.Duration) *Cache {
	return NewWithClock(touchWindow, time.Now)
}

// NewWithClock creates a cache with an injected clock. Tests use this to
// step time without sleeping.
func NewWithClock(touchWindow time.Duration, now func() time.Time) *Cache {
	if touchWindow <= 0 {
		touchWindow = DefaultTouchWindow
	}
	return &Cache{
		entries:     make(map[Key]entry),
		touchWindow: touchWindow,
		now:         now,
	}
}

// Set inserts or overwrites the value under key with its own TTL.
// Overwriting resets the TTL for that key only; last write wins in full,
// value and deadline both.
func (c *Cache) Set(key Key, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// Get returns the live value under key. Absent and expired are the same
// outcome and neither is an error.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Delete removes key and returns the number of entries removed (0 or 1).
// Deleting an absent key is a no-op, never a fault.
func (c *Cache) Delete(key Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		delete(c.entries, key)
		if c.now().Before(e.expiresAt) {
			return 1
		}
		return 0
	}
	return 0
}

// TouchAll resets every live key's expiry to now plus the touch window,
// emulating a session kept alive by user activity. Values are untouched;
// already-expired keys are dropped rather than revived.
func (c *Cache) TouchAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	deadline := now.Add(c.touchWindow)
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			continue
		}
		e.expiresAt = deadline
		c.entries[k] = e
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Reset drops every entry. Tests use this to start from a clean session.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]entry)
}

// sweep removes expired entries eagerly.
func (c *Cache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// StartJanitor runs a background goroutine that periodically sweeps
// expired entries until ctx is cancelled. Lazy expiry on Get remains
// authoritative; the sweep only reclaims memory for keys nobody reads.
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Cache janitor started", "interval", interval)
		for {
			select {
			case <-ticker.C:
				if removed := c.sweep(); removed > 0 {
					slog.Debug("Cache janitor swept expired entries", "removed", removed)
				}
			case <-ctx.Done():
				slog.Info("Cache janitor shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

// Value reads key and asserts it to T. A live entry of the wrong type
// reads as absent, the same safe default callers already handle for
// expiry; the mismatch is logged since it indicates a producer bug.
func Value[T any](c *Cache, key Key) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		slog.Warn("Cache value has unexpected type", "key", string(key))
		return zero, false
	}
	return t, true
}
