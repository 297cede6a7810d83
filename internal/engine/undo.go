package engine

import "github.com/mnemo-app/mnemo/internal/card"

// UndoFrame captures everything needed to reverse the most recent
// grading commit. It is a single replaceable slot, not a stack: every
// successful commit overwrites it, so only the latest grade is ever
// undoable. This is a deliberate one-level-only design.
//
// Bury and suspend actions intentionally never populate a frame; they
// are one-way for the remainder of the session.
type UndoFrame struct {
	Stamp  int64 // Session generation at commit time.
	ItemID string
	Kind   card.ItemKind
	Rating card.Rating
	Meta   string

	Cursor   int  // Session cursor before the commit.
	Revealed bool // Answer-revealed flag before the commit.

	MutatedState bool // False for practice commits.
	ReviewLen    int  // Review log length before the commit.
	AnalyticsLen int  // Analytics log length before the commit.

	Prior card.SchedulingState // Deep copy of the pre-commit state.
}
