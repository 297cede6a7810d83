package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mnemo-app/mnemo/internal/card"
)

// load reads the whole collection into the in-memory snapshot.
// Ordering is deterministic: items by ord, logs by pos.
func (s *Store) load() error {
	if err := s.loadItems(); err != nil {
		return err
	}
	if err := s.loadStates(); err != nil {
		return err
	}
	if err := s.loadReviews(); err != nil {
		return err
	}
	if err := s.loadAnalytics(); err != nil {
		return err
	}
	return s.loadGroups()
}

func (s *Store) loadItems() error {
	rows, err := s.db.Query(`SELECT id, kind, parent_id, path FROM items ORDER BY ord ASC`)
	if err != nil {
		return fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it   card.Item
			kind int
		)
		if err := rows.Scan(&it.ID, &kind, &it.ParentID, &it.Path); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		it.Kind = card.ItemKind(kind)
		s.items = append(s.items, it)
	}
	return rows.Err()
}

func (s *Store) loadStates() error {
	rows, err := s.db.Query(`
		SELECT item_id, stage, due, reps, lapses, step_index, scheduled_days,
		       buried_until, stability, difficulty, phase
		FROM scheduling_states`)
	if err != nil {
		return fmt.Errorf("query states: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          string
			stage       string
			due, buried sql.NullInt64
			st          card.SchedulingState
		)
		if err := rows.Scan(&id, &stage, &due, &st.Reps, &st.Lapses, &st.StepIndex,
			&st.ScheduledDays, &buried, &st.Stability, &st.Difficulty, &st.Phase); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		if err := st.Stage.UnmarshalText([]byte(stage)); err != nil {
			return fmt.Errorf("state for %s: %w", id, err)
		}
		st.Due = timeFromMillis(due)
		st.BuriedUntil = timeFromMillis(buried)
		s.states[id] = st
	}
	return rows.Err()
}

func (s *Store) loadReviews() error {
	rows, err := s.db.Query(`
		SELECT id, item_id, rating, reviewed_at, previous_due, next_due, meta
		FROM review_log ORDER BY pos ASC`)
	if err != nil {
		return fmt.Errorf("query review log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e          card.ReviewEntry
			rating     string
			at         int64
			prev, next sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.ItemID, &rating, &at, &prev, &next, &e.Meta); err != nil {
			return fmt.Errorf("scan review entry: %w", err)
		}
		if err := e.Rating.UnmarshalText([]byte(rating)); err != nil {
			return fmt.Errorf("review entry %s: %w", e.ID, err)
		}
		e.ReviewedAt = time.UnixMilli(at)
		e.PreviousDue = timeFromMillis(prev)
		e.NextDue = timeFromMillis(next)
		s.reviews = append(s.reviews, e)
	}
	return rows.Err()
}

func (s *Store) loadAnalytics() error {
	rows, err := s.db.Query(`
		SELECT id, item_id, rating, occurred_at, practice, meta
		FROM analytics_log ORDER BY pos ASC`)
	if err != nil {
		return fmt.Errorf("query analytics log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e      card.AnalyticsEntry
			rating string
			at     int64
		)
		if err := rows.Scan(&e.ID, &e.ItemID, &rating, &at, &e.Practice, &e.Meta); err != nil {
			return fmt.Errorf("scan analytics entry: %w", err)
		}
		if err := e.Rating.UnmarshalText([]byte(rating)); err != nil {
			return fmt.Errorf("analytics entry %s: %w", e.ID, err)
		}
		e.OccurredAt = time.UnixMilli(at)
		s.analytics = append(s.analytics, e)
	}
	return rows.Err()
}

func (s *Store) loadGroups() error {
	rows, err := s.db.Query(`SELECT group_name, item_id FROM group_members ORDER BY group_name, item_id`)
	if err != nil {
		return fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var group, id string
		if err := rows.Scan(&group, &id); err != nil {
			return fmt.Errorf("scan group member: %w", err)
		}
		s.groups[group] = append(s.groups[group], id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	qrows, err := s.db.Query(`SELECT item_id FROM quarantine`)
	if err != nil {
		return fmt.Errorf("query quarantine: %w", err)
	}
	defer qrows.Close()

	for qrows.Next() {
		var id string
		if err := qrows.Scan(&id); err != nil {
			return fmt.Errorf("scan quarantine: %w", err)
		}
		s.quarantine[id] = true
	}
	return qrows.Err()
}

// Items returns every item in insertion order, containers included.
func (s *Store) Items() []card.Item {
	out := make([]card.Item, len(s.items))
	copy(out, s.items)
	return out
}

// State returns the scheduling state for an item id.
func (s *Store) State(id string) (card.SchedulingState, bool) {
	st, ok := s.states[id]
	return st, ok
}

// Reviews returns the review log in append order.
func (s *Store) Reviews() []card.ReviewEntry {
	out := make([]card.ReviewEntry, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// ReviewCount returns the review log length.
func (s *Store) ReviewCount() int {
	return len(s.reviews)
}

// AnalyticsCount returns the analytics log length.
func (s *Store) AnalyticsCount() int {
	return len(s.analytics)
}

// Members returns the item ids of a named group.
func (s *Store) Members(group string) []string {
	return s.groups[group]
}

// Quarantined reports whether an id is quarantined.
func (s *Store) Quarantined(id string) bool {
	return s.quarantine[id]
}

func timeFromMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}

func millisFromTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
