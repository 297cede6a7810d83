package store

import (
	"fmt"

	"github.com/mnemo-app/mnemo/internal/card"
)

// PutState writes the scheduling state for an item id. Durable after
// the next Persist.
func (s *Store) PutState(id string, st card.SchedulingState) error {
	tx, err := s.pending()
	if err != nil {
		return err
	}
	stage, err := st.Stage.MarshalText()
	if err != nil {
		return fmt.Errorf("put state %s: %w", id, err)
	}
	_, err = tx.Exec(`
		INSERT INTO scheduling_states
		(item_id, stage, due, reps, lapses, step_index, scheduled_days,
		 buried_until, stability, difficulty, phase)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
		 stage = excluded.stage, due = excluded.due, reps = excluded.reps,
		 lapses = excluded.lapses, step_index = excluded.step_index,
		 scheduled_days = excluded.scheduled_days,
		 buried_until = excluded.buried_until, stability = excluded.stability,
		 difficulty = excluded.difficulty, phase = excluded.phase
	`, id, string(stage), millisFromTime(st.Due), st.Reps, st.Lapses, st.StepIndex,
		st.ScheduledDays, millisFromTime(st.BuriedUntil), st.Stability, st.Difficulty, st.Phase)
	if err != nil {
		return fmt.Errorf("put state %s: %w", id, err)
	}
	s.states[id] = st
	return nil
}

// AppendReview appends one entry to the review log.
func (s *Store) AppendReview(e card.ReviewEntry) error {
	tx, err := s.pending()
	if err != nil {
		return err
	}
	rating, err := e.Rating.MarshalText()
	if err != nil {
		return fmt.Errorf("append review: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO review_log (pos, id, item_id, rating, reviewed_at, previous_due, next_due, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, len(s.reviews), e.ID, e.ItemID, string(rating), e.ReviewedAt.UnixMilli(),
		millisFromTime(e.PreviousDue), millisFromTime(e.NextDue), e.Meta)
	if err != nil {
		return fmt.Errorf("append review: %w", err)
	}
	s.reviews = append(s.reviews, e)
	return nil
}

// TruncateReviews discards all review entries at index n and beyond.
func (s *Store) TruncateReviews(n int) error {
	if n >= len(s.reviews) {
		return nil
	}
	tx, err := s.pending()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM review_log WHERE pos >= ?`, n); err != nil {
		return fmt.Errorf("truncate review log: %w", err)
	}
	s.reviews = s.reviews[:n]
	return nil
}

// AppendAnalytics appends one entry to the analytics log.
func (s *Store) AppendAnalytics(e card.AnalyticsEntry) error {
	tx, err := s.pending()
	if err != nil {
		return err
	}
	rating, err := e.Rating.MarshalText()
	if err != nil {
		return fmt.Errorf("append analytics: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO analytics_log (pos, id, item_id, rating, occurred_at, practice, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, len(s.analytics), e.ID, e.ItemID, string(rating), e.OccurredAt.UnixMilli(), e.Practice, e.Meta)
	if err != nil {
		return fmt.Errorf("append analytics: %w", err)
	}
	s.analytics = append(s.analytics, e)
	return nil
}

// TruncateAnalytics discards all analytics entries at index n and beyond.
func (s *Store) TruncateAnalytics(n int) error {
	if n >= len(s.analytics) {
		return nil
	}
	tx, err := s.pending()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM analytics_log WHERE pos >= ?`, n); err != nil {
		return fmt.Errorf("truncate analytics log: %w", err)
	}
	s.analytics = s.analytics[:n]
	return nil
}

// AddItem registers an item, optionally with an initial scheduling
// state. Used by the ingestion side and by tests; durable after Persist.
func (s *Store) AddItem(it card.Item, st *card.SchedulingState) error {
	tx, err := s.pending()
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO items (id, kind, parent_id, path, ord) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		 kind = excluded.kind, parent_id = excluded.parent_id, path = excluded.path
	`, it.ID, int(it.Kind), it.ParentID, it.Path, len(s.items))
	if err != nil {
		return fmt.Errorf("add item %s: %w", it.ID, err)
	}
	replaced := false
	for i := range s.items {
		if s.items[i].ID == it.ID {
			s.items[i] = it
			replaced = true
			break
		}
	}
	if !replaced {
		s.items = append(s.items, it)
	}
	if st != nil {
		return s.PutState(it.ID, *st)
	}
	return nil
}

// AddGroupMember records an item as a member of a named group.
func (s *Store) AddGroupMember(group, id string) error {
	tx, err := s.pending()
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO group_members (group_name, item_id) VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`, group, id)
	if err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	s.groups[group] = append(s.groups[group], id)
	return nil
}

// Quarantine marks an id as quarantined, excluding it from resolved
// group scopes.
func (s *Store) Quarantine(id string) error {
	tx, err := s.pending()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO quarantine (item_id) VALUES (?) ON CONFLICT DO NOTHING`, id); err != nil {
		return fmt.Errorf("quarantine %s: %w", id, err)
	}
	s.quarantine[id] = true
	return nil
}
