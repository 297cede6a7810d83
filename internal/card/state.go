package card

import "time"

// SchedulingState is the per-item scheduling record owned by the store.
//
// The engine reads all fields but only writes Stage, Due and
// BuriedUntil directly (bury/suspend actions); everything else is
// computed by the scheduler delegate and written back verbatim.
type SchedulingState struct {
	Stage         Stage      `json:"stage"`
	Due           *time.Time `json:"due,omitempty"`          // nil for new items or malformed records.
	Reps          int        `json:"reps"`                   // Scheduler bookkeeping.
	Lapses        int        `json:"lapses"`                 // Scheduler bookkeeping.
	StepIndex     int        `json:"step_index"`             // Position within learning/relearning steps.
	ScheduledDays int        `json:"scheduled_days"`         // Last scheduled interval, days.
	BuriedUntil   *time.Time `json:"buried_until,omitempty"` // Session-independent postponement.

	// Retention metrics, opaque to the engine.
	Stability  float64 `json:"stability"`
	Difficulty float64 `json:"difficulty"`
	Phase      int     `json:"phase"`
}

// Clone returns a deep copy of the state. Pointer fields are copied by
// value so the undo frame's snapshot cannot alias live store state.
func (st SchedulingState) Clone() SchedulingState {
	out := st
	if st.Due != nil {
		v := *st.Due
		out.Due = &v
	}
	if st.BuriedUntil != nil {
		v := *st.BuriedUntil
		out.BuriedUntil = &v
	}
	return out
}

// Buried reports whether the state carries a bury that is still in the
// future at now.
func (st SchedulingState) Buried(now time.Time) bool {
	return st.BuriedUntil != nil && st.BuriedUntil.After(now)
}

// DueKnown reports whether the state carries a usable due timestamp.
// A nil or zero Due on a due-based stage is a malformed record; the
// availability rules fail open on it.
func (st SchedulingState) DueKnown() bool {
	return st.Due != nil && !st.Due.IsZero()
}
