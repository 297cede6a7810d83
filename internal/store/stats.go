package store

import (
	"fmt"
	"time"
)

// DoneToday is the SQL-side reconstruction of items completed today,
// split the same way the engine's accountant splits them. The stats
// command uses this instead of scanning the full log in Go; the two
// reconstructions are checked against each other in tests.
type DoneToday struct {
	New    int
	Review int
}

// DailyDoneCounts reconstructs DoneToday for the given item ids from
// the review log with one aggregate query: per item, the earliest-ever
// and latest review timestamps; an item counts at all only when its
// latest review is today, and counts as New when its earliest-ever
// review is also today.
func (s *Store) DailyDoneCounts(ids map[string]bool, startOfDay time.Time) (DoneToday, error) {
	rows, err := s.db.Query(`
		SELECT item_id, MIN(reviewed_at), MAX(reviewed_at)
		FROM review_log
		GROUP BY item_id
		HAVING MAX(reviewed_at) >= ?
	`, startOfDay.UnixMilli())
	if err != nil {
		return DoneToday{}, fmt.Errorf("query daily counts: %w", err)
	}
	defer rows.Close()

	boundary := startOfDay.UnixMilli()
	var done DoneToday
	for rows.Next() {
		var (
			id          string
			first, last int64
		)
		if err := rows.Scan(&id, &first, &last); err != nil {
			return DoneToday{}, fmt.Errorf("scan daily count: %w", err)
		}
		if !ids[id] {
			continue
		}
		if first >= boundary {
			done.New++
		} else {
			done.Review++
		}
	}
	if err := rows.Err(); err != nil {
		return DoneToday{}, err
	}
	return done, nil
}
