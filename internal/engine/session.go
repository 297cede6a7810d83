package engine

import (
	"math/rand"
	"time"

	"github.com/mnemo-app/mnemo/internal/card"
)

// GradeRecord is the in-session record of one graded item.
type GradeRecord struct {
	Rating card.Rating
	At     time.Time
	Meta   string
}

// Session is one study sitting: an ordered queue of item ids plus its
// bookkeeping. Sessions are created by the queue builder, mutated by
// grading, skip and undo, and destroyed when study mode exits or the
// scope changes.
//
// The Stamp is a generation id, unique across sessions within a
// process; the undo path compares stamps by equality to reject
// operations against a superseded session.
type Session struct {
	Scope    card.Scope
	Queue    []string
	Cursor   int
	Graded   map[string]GradeRecord
	Total    int
	Done     int
	Stamp    int64
	Practice bool

	skips  map[string]int
	orders map[string][]int
	rng    *rand.Rand
}

// CurrentID returns the item id at the cursor, or false when the
// session is exhausted.
func (s *Session) CurrentID() (string, bool) {
	if s == nil || s.Cursor < 0 || s.Cursor >= len(s.Queue) {
		return "", false
	}
	return s.Queue[s.Cursor], true
}

// IsGraded reports whether the item was graded in this session.
func (s *Session) IsGraded(id string) bool {
	_, ok := s.Graded[id]
	return ok
}

// Remaining returns the number of items after the cursor.
func (s *Session) Remaining() int {
	if s.Cursor >= len(s.Queue) {
		return 0
	}
	return len(s.Queue) - s.Cursor - 1
}

// SkipCount returns how many times the item was skipped this session.
func (s *Session) SkipCount(id string) int {
	return s.skips[id]
}

// OrderFor returns a stable per-session permutation of n presentation
// slots for the item (multiple-choice option order, ordering-exercise
// display). The permutation is drawn once from the session rand source
// and cached, so re-presenting the item after a skip shows the same
// arrangement. Purely cosmetic; never persisted.
func (s *Session) OrderFor(id string, n int) []int {
	if perm, ok := s.orders[id]; ok && len(perm) == n {
		return perm
	}
	perm := s.rng.Perm(n)
	s.orders[id] = perm
	return perm
}

// advance moves the cursor past the current item after a grade.
func (s *Session) advance() {
	if s.Cursor < len(s.Queue) {
		s.Cursor++
	}
}
