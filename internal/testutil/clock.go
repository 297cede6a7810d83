package testutil

import "time"

// FixedClock is a settable wall clock for deterministic tests.
//
// Unlike engine.SystemClock, FixedClock returns a fixed instant until
// advanced, so availability decisions, daily boundaries and bury
// timestamps are reproducible across runs.
type FixedClock struct {
	t time.Time
}

// NewFixedClock creates a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the frozen instant.
func (c *FixedClock) Now() time.Time {
	return c.t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// Set moves the clock to an absolute instant.
func (c *FixedClock) Set(t time.Time) {
	c.t = t
}
