package engine

import (
	"log/slog"
	"math"
)

// Skip delay bounds. The delay is a fifth of the remaining queue,
// clamped to [8, 20] positions; a second skip doubles it up to 40.
const (
	skipDelayMin    = 8
	skipDelayMax    = 20
	skipDelayCap    = 40
	skipPromptAfter = 2 // Skips before the bury-or-ignore prompt.
)

// SkipOutcome reports the result of a skip request.
type SkipOutcome struct {
	Skipped  bool
	Prompt   bool       // Third and later skips: ask bury-or-ignore instead of moving.
	Reason   NoopReason // Set when neither Skipped nor Prompt.
	ItemID   string
	Delay    int // Positions the item was pushed back (when Skipped).
	NewIndex int // Queue index the item landed at (when Skipped).
}

// SkipCurrent postpones the current item later within the session
// queue. Only revealable, not-yet-graded items can be skipped.
//
// The first skip moves the item clamp(round(remaining*0.2), 8, 20)
// positions back; the second doubles that delay, capped at 40; the
// third returns Prompt instead of moving, asking the caller to choose
// between burying the item (BuryCurrent) and ignoring. After an
// ignore the counter keeps incrementing, so the next skip prompts again.
//
// Skipping never mutates scheduling state, the review log or quota
// accounting. It is purely a session-local reordering.
func (c *Controller) SkipCurrent() SkipOutcome {
	sess := c.session
	if sess == nil {
		return SkipOutcome{Reason: NoopNoSession}
	}
	id, ok := sess.CurrentID()
	if !ok {
		return SkipOutcome{Reason: NoopNoCurrent}
	}
	if sess.IsGraded(id) {
		return SkipOutcome{Reason: NoopAlreadyGraded, ItemID: id}
	}
	if it, ok := c.items[id]; ok && !it.Kind.Revealable() {
		return SkipOutcome{Reason: NoopNotSkippable, ItemID: id}
	}

	count := sess.skips[id] + 1
	sess.skips[id] = count
	if count > skipPromptAfter {
		slog.Debug("skip escalated to prompt", "item", id, "skips", count)
		return SkipOutcome{Prompt: true, ItemID: id}
	}

	remaining := sess.Remaining()
	base := clampInt(int(math.Round(float64(remaining)*0.2)), skipDelayMin, skipDelayMax)
	delay := base
	if count == 2 {
		delay = base * 2
		if delay > skipDelayCap {
			delay = skipDelayCap
		}
	}

	newIndex := moveLater(sess.Queue, sess.Cursor, delay)
	c.revealed = false
	slog.Debug("item skipped", "item", id, "delay", delay, "new_index", newIndex)
	return SkipOutcome{Skipped: true, ItemID: id, Delay: delay, NewIndex: newIndex}
}

// moveLater removes the element at index i and reinserts it delay
// positions later, clamped to the end. Returns the new index.
func moveLater(q []string, i, delay int) int {
	item := q[i]
	copy(q[i:], q[i+1:])
	pos := i + delay
	if pos > len(q)-1 {
		pos = len(q) - 1
	}
	// Shift right to open the slot: elements [pos, end-1) move up one.
	copy(q[pos+1:], q[pos:len(q)-1])
	q[pos] = item
	return pos
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
