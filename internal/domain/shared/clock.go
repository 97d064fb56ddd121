package shared

import "time"

// Clock supplies the current time. Caches and period helpers take one so
// tests can move time forward without sleeping.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FakeClock is a manually advanced clock for tests.
type FakeClock struct {
	now time.Time
}

// NewFakeClock creates a fake clock starting at t
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

// Now implements Clock
func (c *FakeClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d
func (c *FakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Set moves the clock to t
func (c *FakeClock) Set(t time.Time) { c.now = t }
