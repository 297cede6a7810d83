package engine

import (
	"time"

	"github.com/mnemo-app/mnemo/internal/card"
)

// Unlimited is the sentinel for "no daily limit".
const Unlimited = -1

// Limits configures the daily quotas for one scope.
type Limits struct {
	NewPerDay     int // Unlimited for no limit.
	ReviewsPerDay int // Unlimited for no limit.
}

// NoLimits returns Limits with both quotas unbounded.
func NoLimits() Limits {
	return Limits{NewPerDay: Unlimited, ReviewsPerDay: Unlimited}
}

// DailyDone is the reconstructed count of items completed today within
// a scope, split by whether today's review was the item's first ever.
type DailyDone struct {
	New    int // Items whose first-ever review happened today.
	Review int // Items reviewed today that had earlier history.
}

// CountDoneToday reconstructs DailyDone from the review log.
//
// There is no persisted daily counter; this is recomputed from scratch
// on every queue build. For every log entry whose item is in scope it
// tracks the earliest-ever timestamp per id across the whole log and
// whether the id was reviewed at all today. An id reviewed today
// counts as New when its earliest-ever review is also today, otherwise
// as Review. Each id counts at most once regardless of how many times
// it was reviewed today.
func CountDoneToday(inScope map[string]bool, entries []card.ReviewEntry, startOfDay time.Time) DailyDone {
	earliest := make(map[string]time.Time)
	today := make(map[string]bool)
	for _, e := range entries {
		if !inScope[e.ItemID] {
			continue
		}
		if first, ok := earliest[e.ItemID]; !ok || e.ReviewedAt.Before(first) {
			earliest[e.ItemID] = e.ReviewedAt
		}
		if !e.ReviewedAt.Before(startOfDay) {
			today[e.ItemID] = true
		}
	}

	var done DailyDone
	for id := range today {
		if !earliest[id].Before(startOfDay) {
			done.New++
		} else {
			done.Review++
		}
	}
	return done
}

// Remaining returns the quota left today given a configured limit and a
// done count. A limit of Unlimited always yields Unlimited; otherwise
// the result is floored at zero.
func Remaining(limit, done int) int {
	if limit == Unlimited {
		return Unlimited
	}
	if done >= limit {
		return 0
	}
	return limit - done
}

// sliceQuota truncates ids to the remaining quota. Unlimited passes the
// slice through untouched.
func sliceQuota(ids []string, remaining int) []string {
	if remaining == Unlimited || remaining >= len(ids) {
		return ids
	}
	return ids[:remaining]
}
