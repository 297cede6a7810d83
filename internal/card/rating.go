package card

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Rating is the user's assessment of recall quality for one review.
//
// Manual is a synthetic rating recorded when an item is graded by a
// one-way item action (bury, suspend) rather than by recall quality.
type Rating int

const (
	Manual Rating = iota // Synthetic: bury/suspend, not a recall grade.
	Again                // Complete failure to recall.
	Hard                 // Recalled with significant difficulty.
	Good                 // Recalled with some effort.
	Easy                 // Recalled effortlessly.
)

var (
	ratingNames = [...]string{
		Manual: "manual",
		Again:  "again",
		Hard:   "hard",
		Good:   "good",
		Easy:   "easy",
	}
	ratingByName = map[string]Rating{
		"manual": Manual,
		"again":  Again,
		"hard":   Hard,
		"good":   Good,
		"easy":   Easy,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Rating(0)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// IsRecall reports whether r is a genuine recall grade (Again through
// Easy). Manual is excluded: it never reaches the scheduler delegate.
func (r Rating) IsRecall() bool {
	return r >= Again && r <= Easy
}

func (r Rating) isValid() bool {
	return r >= Manual && r <= Easy
}

// String returns the lowercase rating name, or "rating(n)" for unknown values.
func (r Rating) String() string {
	if r.isValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("rating(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.isValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	v, ok := ratingByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRating, text)
	}
	*r = v
	return nil
}

// MarshalJSON implements json.Marshaler. Rating serializes as a JSON string.
func (r Rating) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRating, data)
	}
	return r.UnmarshalText([]byte(s))
}
