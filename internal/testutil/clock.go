package testutil

import (
	"sync"
	"time"
)

// FixedClock is a thread-safe, manually advanced wall clock for tests.
//
// Now() returns the same instant until Set or Advance is called, so a test
// controls exactly which time each operation observes.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at start.
func NewFixedClock(start time.Time) *FixedClock {
	return &FixedClock{now: start}
}

// Now returns the current frozen instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new instant.
// A negative d moves it backward.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// RefTime is the instant most tests freeze the clock at.
var RefTime = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
