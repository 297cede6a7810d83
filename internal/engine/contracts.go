package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mnemo-app/mnemo/internal/card"
)

// SchedulerResult is the outcome of delegating one rating to the
// scheduler: the full next scheduling state plus the due transition
// recorded in the review log.
type SchedulerResult struct {
	Next        card.SchedulingState
	PreviousDue *time.Time
	NextDue     *time.Time
}

// Scheduler computes the next scheduling state for a rated item.
//
// Implementations must be pure and deterministic for a fixed input:
// the engine relies on Grade having no side effects so that a failed
// grading attempt leaves nothing to roll back.
type Scheduler interface {
	Grade(prior card.SchedulingState, rating card.Rating, now time.Time) (SchedulerResult, error)
}

// Store is the persistence boundary the engine drives.
//
// The review and analytics logs are append-only; undo reverses the
// most recent commit by truncating each log back to its pre-commit
// length. Mutations are visible to reads immediately but become
// durable only after Persist returns nil; a failed Persist discards
// them, reverting the store to the last durable state. The engine does
// not mutate session-visible state until Persist succeeds.
type Store interface {
	// Items returns every item in the collection, containers included.
	Items() []card.Item

	// State returns the scheduling state for an item id.
	State(id string) (card.SchedulingState, bool)
	// PutState writes the scheduling state for an item id.
	PutState(id string, st card.SchedulingState) error

	// Reviews returns the review log in append order.
	Reviews() []card.ReviewEntry
	// ReviewCount returns the current review log length.
	ReviewCount() int
	// AppendReview appends one entry to the review log.
	AppendReview(e card.ReviewEntry) error
	// TruncateReviews discards all review entries at index n and beyond.
	TruncateReviews(n int) error

	// AnalyticsCount returns the current analytics log length.
	AnalyticsCount() int
	// AppendAnalytics appends one entry to the analytics log.
	AppendAnalytics(e card.AnalyticsEntry) error
	// TruncateAnalytics discards all analytics entries at index n and beyond.
	TruncateAnalytics(n int) error

	// Persist durably commits all mutations issued since the last call.
	Persist(ctx context.Context) error
}

// GroupIndex resolves named groups to member item ids. Owned by the
// host application; the engine only filters against it.
type GroupIndex interface {
	// Members returns the item ids belonging to a named group.
	Members(group string) []string
	// Quarantined reports whether an id is quarantined and must be
	// excluded from every resolved scope.
	Quarantined(id string) bool
}

// EntryIDGenerator produces ids for review and analytics log entries.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type EntryIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 entry ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, so log entry
// ids sort by creation time, which keeps the SQLite log tables readable
// when debugging.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined entry ids for testing.
type FixedGenerator struct {
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
// Generate panics once all ids are consumed, to fail fast on test
// misconfiguration.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedGenerator) Generate() string {
	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
