// Package testutil provides deterministic test doubles shared across the
// test suites.
package testutil

import (
	"sync"
	"time"
)

// WallClock is a controllable time source for record timestamps.
//
// Each call to Now advances the clock by a fixed step, so consecutive
// records get strictly increasing, reproducible timestamps without
// sleeping. Advance jumps the clock explicitly for age-based tests.
//
// Thread-safety: all methods are safe for concurrent use.
type WallClock struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

// NewWallClock creates a clock starting at start, advancing by step per
// Now call.
func NewWallClock(start time.Time, step time.Duration) *WallClock {
	return &WallClock{at: start, step: step}
}

// Now returns the current time and advances the clock by one step.
func (c *WallClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.at
	c.at = c.at.Add(c.step)
	return now
}

// Advance jumps the clock forward by d without producing a tick.
func (c *WallClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

// At returns the time the next Now call will report.
func (c *WallClock) At() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}
