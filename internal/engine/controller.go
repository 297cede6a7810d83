package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mnemo-app/mnemo/internal/card"
)

// NoopReason explains why a session operation did nothing. Most of the
// error taxonomy here is deliberately non-fatal: missing state and
// stale sessions no-op rather than fail, and the caller decides
// whether to surface a data-integrity warning.
type NoopReason int

const (
	NoopNone NoopReason = iota
	// NoopNoSession: no session is active.
	NoopNoSession
	// NoopNoCurrent: the session queue is exhausted.
	NoopNoCurrent
	// NoopAlreadyGraded: the current item was already graded this session.
	NoopAlreadyGraded
	// NoopMissingState: the item has no scheduling state (data integrity).
	NoopMissingState
	// NoopNotSkippable: the item's kind is not revealable.
	NoopNotSkippable
)

// GradeOutcome reports the result of a grade, bury or suspend request.
type GradeOutcome struct {
	Committed bool
	Reason    NoopReason // Set when Committed is false.
	ItemID    string
}

// Controller owns the active session and drives the transactional
// grading, undo, bury/suspend and skip operations over it.
//
// All methods are synchronous; the host serializes calls. The
// controller is the sole mutator of scheduling state and log lengths
// while its session is active.
type Controller struct {
	store   Store
	sched   Scheduler
	builder *Builder
	clock   Clock
	idGen   EntryIDGenerator

	session  *Session
	undo     *UndoFrame
	revealed bool
	items    map[string]card.Item
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithControllerClock overrides the wall clock (deterministic tests).
// The builder's clock is configured separately.
func WithControllerClock(c Clock) ControllerOption {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithEntryIDs overrides the log-entry id generator (deterministic tests).
func WithEntryIDs(g EntryIDGenerator) ControllerOption {
	return func(ctl *Controller) { ctl.idGen = g }
}

// NewController creates a Controller over the given store, scheduler
// delegate and queue builder.
func NewController(st Store, sched Scheduler, b *Builder, opts ...ControllerOption) *Controller {
	ctl := &Controller{
		store:   st,
		sched:   sched,
		builder: b,
		clock:   SystemClock{},
		idGen:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(ctl)
	}
	return ctl
}

// StartSession builds a fresh session for the config and makes it the
// active one. The previous session, if any, is discarded; a pending
// undo frame becomes stale and is rejected by its stamp guard.
func (c *Controller) StartSession(ctx context.Context, cfg BuildConfig) (*Session, error) {
	sess, err := c.builder.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.session = sess
	c.revealed = false
	c.items = make(map[string]card.Item)
	for _, it := range c.store.Items() {
		c.items[it.ID] = it
	}
	return sess, nil
}

// Session returns the active session, or nil.
func (c *Controller) Session() *Session {
	return c.session
}

// Item returns the item record for an id in the active collection.
func (c *Controller) Item(id string) (card.Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Reveal marks the current item's answer as shown.
func (c *Controller) Reveal() {
	c.revealed = true
}

// Revealed reports whether the current item's answer is shown.
func (c *Controller) Revealed() bool {
	return c.revealed
}

// GradeCurrent commits a rating for the current item.
//
// Practice sessions record the grade in the session map and the
// analytics log only; scheduling state is never touched. Normal
// sessions delegate to the scheduler, write the next state, append to
// the review and analytics logs, and persist. The session becomes
// visible as graded only after the persist succeeds.
//
// A scheduler failure discards the just-captured undo frame and
// returns a SchedulerError with no state mutated. A persist failure
// propagates with the session state unchanged.
func (c *Controller) GradeCurrent(ctx context.Context, rating card.Rating, meta string) (GradeOutcome, error) {
	sess := c.session
	if sess == nil {
		return GradeOutcome{Reason: NoopNoSession}, nil
	}
	id, ok := sess.CurrentID()
	if !ok {
		return GradeOutcome{Reason: NoopNoCurrent}, nil
	}
	if sess.IsGraded(id) {
		return GradeOutcome{Reason: NoopAlreadyGraded, ItemID: id}, nil
	}
	now := c.clock.Now()

	if sess.Practice {
		frame := &UndoFrame{
			Stamp:        sess.Stamp,
			ItemID:       id,
			Rating:       rating,
			Meta:         meta,
			Cursor:       sess.Cursor,
			Revealed:     c.revealed,
			MutatedState: false,
			ReviewLen:    c.store.ReviewCount(),
			AnalyticsLen: c.store.AnalyticsCount(),
		}
		if it, ok := c.items[id]; ok {
			frame.Kind = it.Kind
		}
		err := c.store.AppendAnalytics(card.AnalyticsEntry{
			ID:         c.idGen.Generate(),
			ItemID:     id,
			Rating:     rating,
			OccurredAt: now,
			Practice:   true,
			Meta:       meta,
		})
		if err != nil {
			return GradeOutcome{}, fmt.Errorf("append practice entry: %w", err)
		}
		if err := c.store.Persist(ctx); err != nil {
			return GradeOutcome{}, fmt.Errorf("persist practice grade: %w", err)
		}
		c.commitToSession(frame, id, rating, meta, now)
		return GradeOutcome{Committed: true, ItemID: id}, nil
	}

	state, ok := c.store.State(id)
	if !ok {
		slog.Warn("grading item with no scheduling state", "item", id)
		return GradeOutcome{Reason: NoopMissingState, ItemID: id}, nil
	}

	frame := &UndoFrame{
		Stamp:        sess.Stamp,
		ItemID:       id,
		Rating:       rating,
		Meta:         meta,
		Cursor:       sess.Cursor,
		Revealed:     c.revealed,
		MutatedState: true,
		ReviewLen:    c.store.ReviewCount(),
		AnalyticsLen: c.store.AnalyticsCount(),
		Prior:        state.Clone(),
	}
	if it, ok := c.items[id]; ok {
		frame.Kind = it.Kind
	}

	res, err := c.sched.Grade(state, rating, now)
	if err != nil {
		// Frame never installed: nothing to roll back, nothing dangling.
		return GradeOutcome{}, &SchedulerError{ItemID: id, Err: err}
	}

	if err := c.store.PutState(id, res.Next); err != nil {
		return GradeOutcome{}, fmt.Errorf("write next state: %w", err)
	}
	if err := c.store.AppendReview(card.ReviewEntry{
		ID:          c.idGen.Generate(),
		ItemID:      id,
		Rating:      rating,
		ReviewedAt:  now,
		PreviousDue: res.PreviousDue,
		NextDue:     res.NextDue,
		Meta:        meta,
	}); err != nil {
		return GradeOutcome{}, fmt.Errorf("append review entry: %w", err)
	}
	if err := c.store.AppendAnalytics(card.AnalyticsEntry{
		ID:         c.idGen.Generate(),
		ItemID:     id,
		Rating:     rating,
		OccurredAt: now,
		Meta:       meta,
	}); err != nil {
		return GradeOutcome{}, fmt.Errorf("append analytics entry: %w", err)
	}
	if err := c.store.Persist(ctx); err != nil {
		// Session state untouched: the item is not marked graded and
		// the cursor does not advance. The store discards its staged
		// writes on a failed commit, so a retry starts clean.
		return GradeOutcome{}, fmt.Errorf("persist grade: %w", err)
	}

	c.commitToSession(frame, id, rating, meta, now)
	slog.Info("grade committed", "item", id, "rating", rating.String(), "stamp", sess.Stamp)
	return GradeOutcome{Committed: true, ItemID: id}, nil
}

// commitToSession applies the session-visible effects of a successful
// commit: install the undo frame, mark graded, advance, reset reveal.
func (c *Controller) commitToSession(frame *UndoFrame, id string, rating card.Rating, meta string, now time.Time) {
	sess := c.session
	c.undo = frame
	sess.Graded[id] = GradeRecord{Rating: rating, At: now, Meta: meta}
	sess.Done = len(sess.Graded)
	sess.advance()
	c.revealed = false
}

// UndoLastGrade reverses the most recent grading commit.
//
// Returns false (touching nothing durable) unless an undo frame
// exists, its stamp matches the active session, and its item is still
// marked graded. A stale frame is cleared silently. On success the
// prior scheduling state is restored, both logs are truncated back to
// their pre-commit lengths, the item leaves the graded map, progress
// is recomputed, and the cursor and answer-revealed flag return to
// their captured values.
func (c *Controller) UndoLastGrade(ctx context.Context) (bool, error) {
	frame := c.undo
	if frame == nil {
		return false, nil
	}
	sess := c.session
	if sess == nil || frame.Stamp != sess.Stamp || !sess.IsGraded(frame.ItemID) {
		c.undo = nil
		slog.Debug("stale undo frame cleared", "frame_stamp", frame.Stamp)
		return false, nil
	}

	if frame.MutatedState {
		if err := c.store.PutState(frame.ItemID, frame.Prior); err != nil {
			return false, fmt.Errorf("restore prior state: %w", err)
		}
	}
	if err := c.store.TruncateReviews(frame.ReviewLen); err != nil {
		return false, fmt.Errorf("truncate review log: %w", err)
	}
	if err := c.store.TruncateAnalytics(frame.AnalyticsLen); err != nil {
		return false, fmt.Errorf("truncate analytics log: %w", err)
	}
	if err := c.store.Persist(ctx); err != nil {
		return false, fmt.Errorf("persist undo: %w", err)
	}

	delete(sess.Graded, frame.ItemID)
	sess.Done = len(sess.Graded)
	sess.Cursor = frame.Cursor
	c.revealed = frame.Revealed
	c.undo = nil
	slog.Info("grade undone", "item", frame.ItemID, "stamp", frame.Stamp)
	return true, nil
}

// BuryCurrent postpones the current item until tomorrow's local
// midnight and marks it graded with the synthetic manual rating. No
// undo frame is captured; the action is one-way for the session, and
// any pending frame is discarded.
func (c *Controller) BuryCurrent(ctx context.Context) (GradeOutcome, error) {
	return c.manualAction(ctx, "bury", func(st *card.SchedulingState, now time.Time) {
		until := StartOfTomorrow(now)
		st.BuriedUntil = &until
	})
}

// SuspendCurrent suspends the current item indefinitely and marks it
// graded with the synthetic manual rating. One-way, like BuryCurrent.
func (c *Controller) SuspendCurrent(ctx context.Context) (GradeOutcome, error) {
	return c.manualAction(ctx, "suspend", func(st *card.SchedulingState, _ time.Time) {
		st.Stage = card.StageSuspended
	})
}

func (c *Controller) manualAction(ctx context.Context, name string, mutate func(*card.SchedulingState, time.Time)) (GradeOutcome, error) {
	sess := c.session
	if sess == nil {
		return GradeOutcome{Reason: NoopNoSession}, nil
	}
	id, ok := sess.CurrentID()
	if !ok {
		return GradeOutcome{Reason: NoopNoCurrent}, nil
	}
	if sess.IsGraded(id) {
		return GradeOutcome{Reason: NoopAlreadyGraded, ItemID: id}, nil
	}
	state, ok := c.store.State(id)
	if !ok {
		slog.Warn("manual action on item with no scheduling state", "item", id, "action", name)
		return GradeOutcome{Reason: NoopMissingState, ItemID: id}, nil
	}
	now := c.clock.Now()

	mutate(&state, now)
	if err := c.store.PutState(id, state); err != nil {
		return GradeOutcome{}, fmt.Errorf("%s item: %w", name, err)
	}
	if err := c.store.AppendAnalytics(card.AnalyticsEntry{
		ID:         c.idGen.Generate(),
		ItemID:     id,
		Rating:     card.Manual,
		OccurredAt: now,
		Meta:       name,
	}); err != nil {
		return GradeOutcome{}, fmt.Errorf("append %s entry: %w", name, err)
	}
	if err := c.store.Persist(ctx); err != nil {
		return GradeOutcome{}, fmt.Errorf("persist %s: %w", name, err)
	}

	c.undo = nil // One-way: the slot is consumed, not replaced.
	sess.Graded[id] = GradeRecord{Rating: card.Manual, At: now, Meta: name}
	sess.Done = len(sess.Graded)
	sess.advance()
	c.revealed = false
	slog.Info("manual action committed", "item", id, "action", name)
	return GradeOutcome{Committed: true, ItemID: id}, nil
}
