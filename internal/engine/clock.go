package engine

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current wall-clock time. Injectable so that every
// availability decision, quota reconstruction and bury timestamp is
// reproducible in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// StartOfDay returns local midnight at the start of t's day. All daily
// accounting ("done today", bury-until-tomorrow) is anchored to local
// midnight, not a rolling 24-hour window.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfTomorrow returns local midnight at the start of the day after t.
func StartOfTomorrow(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// Generation is a monotonic session stamp counter.
//
// Each new session is stamped with the next generation value; undo
// compares its captured stamp against the current session's stamp by
// equality to reject operations that target a superseded session.
// Stamps are plain integers, not object identities, so the comparison
// survives serialization boundaries.
//
// Thread-safety: safe for concurrent use (atomic), though the engine's
// single-writer discipline means only one goroutine typically calls Next.
type Generation struct {
	seq atomic.Int64
}

// Next returns the next stamp and increments the counter.
func (g *Generation) Next() int64 {
	return g.seq.Add(1)
}

// Current returns the most recently issued stamp without incrementing.
func (g *Generation) Current() int64 {
	return g.seq.Load()
}
