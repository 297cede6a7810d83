package engine

import (
	"time"

	"github.com/mnemo-app/mnemo/internal/card"
)

// AvailableNow reports whether an item with scheduling state st may
// appear in a queue at time now.
//
// Rules, in order: no state is never available; suspended is never
// available; a future bury is never available; new is always
// available; learning/relearning/review are available when due is
// missing (fail-open on malformed records) or due <= now; any unknown
// stage is available (fail-open) and ordered last by the queue builder.
//
// The fail-open policy is deliberate: a malformed or legacy scheduling
// record must never silently vanish from study.
func AvailableNow(st *card.SchedulingState, now time.Time) bool {
	if st == nil {
		return false
	}
	if st.Stage == card.StageSuspended {
		return false
	}
	if st.Buried(now) {
		return false
	}
	if st.Stage == card.StageNew {
		return true
	}
	if st.Stage.DueBased() {
		if !st.DueKnown() {
			return true
		}
		return !st.Due.After(now)
	}
	// Unknown stage value: fail open.
	return true
}

// stageRank orders the due-like partition: known due-based stages
// first, unknown stages last.
func stageRank(s card.Stage) int {
	if s.DueBased() {
		return 0
	}
	return 1
}
