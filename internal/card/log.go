package card

import "time"

// ReviewEntry is one record of the append-only review log.
//
// The log is the only durable record of study history: daily quota
// reconstruction derives "done today" from it, and undo reverses the
// most recent commit by truncating it back to its pre-commit length.
type ReviewEntry struct {
	ID          string     `json:"id"` // UUIDv7, assigned at append time.
	ItemID      string     `json:"item_id"`
	Rating      Rating     `json:"rating"`
	ReviewedAt  time.Time  `json:"reviewed_at"`
	PreviousDue *time.Time `json:"previous_due,omitempty"`
	NextDue     *time.Time `json:"next_due,omitempty"`
	Meta        string     `json:"meta,omitempty"` // Free-form caller metadata.
}

// AnalyticsEntry is one record of the append-only analytics log.
// Practice grades land only here; normal grades land in both logs.
type AnalyticsEntry struct {
	ID         string    `json:"id"` // UUIDv7, assigned at append time.
	ItemID     string    `json:"item_id"`
	Rating     Rating    `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
	Practice   bool      `json:"practice"`
	Meta       string    `json:"meta,omitempty"`
}
