package card

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Stage is the coarse scheduling phase of an item.
type Stage int

const (
	StageNew        Stage = iota + 1 // Never reviewed; due is meaningless.
	StageLearning                    // In initial learning steps.
	StageRelearning                  // Lapsed, relearning.
	StageReview                      // In the long-term review cycle.
	StageSuspended                   // Manually removed from study.
)

var (
	stageNames = [...]string{
		StageNew:        "new",
		StageLearning:   "learning",
		StageRelearning: "relearning",
		StageReview:     "review",
		StageSuspended:  "suspended",
	}
	stageByName = map[string]Stage{
		"new":        StageNew,
		"learning":   StageLearning,
		"relearning": StageRelearning,
		"review":     StageReview,
		"suspended":  StageSuspended,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Stage(0)
	_ encoding.TextMarshaler   = Stage(0)
	_ encoding.TextUnmarshaler = (*Stage)(nil)
)

// IsValid reports whether s is one of the five known stages.
//
// Unknown stage values can appear in records written by older or newer
// versions of the tool; the engine treats them as available (fail-open)
// rather than hiding the item.
func (s Stage) IsValid() bool {
	return s >= StageNew && s <= StageSuspended
}

// DueBased reports whether eligibility for s is governed by the due
// timestamp (learning, relearning, review).
func (s Stage) DueBased() bool {
	return s == StageLearning || s == StageRelearning || s == StageReview
}

// String returns the lowercase stage name, or "stage(n)" for unknown values.
func (s Stage) String() string {
	if s.IsValid() {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("card: invalid stage: %d", int(s))
	}
	return []byte(stageNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	v, ok := stageByName[string(text)]
	if !ok {
		return fmt.Errorf("card: invalid stage: %q", text)
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. Stage serializes as a JSON string.
func (s Stage) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("card: invalid stage: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}
