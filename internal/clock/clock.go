// Package clock supplies the current date to the data source and price board.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock returns whatever time it was last set to. The backtesting loop
// advances it once per simulated trading day.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixedClock creates a FixedClock set to now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{mu: sync.RWMutex{}, now: now}
}

// Now implements Clock.
func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
