package testutil

import (
	"sync"
	"time"
)

// FakeClock is a deterministic clock for tests.
// Each call to Now returns the current time and then moves it forward by Step.
type FakeClock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewFakeClock creates a clock starting at start that advances by step per call
func NewFakeClock(start time.Time, step time.Duration) *FakeClock {
	return &FakeClock{now: start, Step: step}
}

// DefaultStart is the start time used by NewDefaultClock
var DefaultStart = time.Date(2024, 3, 22, 10, 0, 0, 0, time.UTC)

// NewDefaultClock creates a clock starting at DefaultStart advancing one minute per call
func NewDefaultClock() *FakeClock {
	return NewFakeClock(DefaultStart, time.Minute)
}

// Now returns the current fake time and advances the clock
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.Step)
	return now
}

// Peek returns the time the next call to Now will return
func (c *FakeClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
