package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/mnemo-app/mnemo/internal/card"
)

// SiblingPolicy selects how items sharing a parent are arranged in a
// built queue.
type SiblingPolicy int

const (
	// PolicyStandard leaves the queue untouched.
	PolicyStandard SiblingPolicy = iota + 1
	// PolicyDisperse spaces siblings apart within the queue.
	PolicyDisperse
	// PolicyBury keeps one sibling per parent and buries the rest
	// until tomorrow, persisting that mutation.
	PolicyBury
)

// String returns the policy name used in configuration files.
func (p SiblingPolicy) String() string {
	switch p {
	case PolicyStandard:
		return "standard"
	case PolicyDisperse:
		return "disperse"
	case PolicyBury:
		return "bury"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration string to a SiblingPolicy.
func ParsePolicy(s string) (SiblingPolicy, error) {
	switch s {
	case "", "standard":
		return PolicyStandard, nil
	case "disperse":
		return PolicyDisperse, nil
	case "bury":
		return PolicyBury, nil
	default:
		return 0, fmt.Errorf("engine: unknown sibling policy %q", s)
	}
}

// disperse rearranges the due-like partition so that no two items
// sharing a parent sit at adjacent positions, whenever any arrangement
// without such an adjacency exists.
//
// Members within each parent group and the group visitation order are
// shuffled, then slots are filled greedily: each position takes an item
// from the most populous group whose parent differs from the previous
// slot. Largest-group-first can never paint itself into a corner, so
// the guarantee holds even when one parent's siblings heavily
// outnumber everything else; only a genuinely infeasible mix (one
// group holding more than half the slots, rounded up) degrades to the
// minimal number of adjacencies.
func disperse(items []card.Item, rng *rand.Rand) []card.Item {
	groups := make(map[string][]card.Item)
	var keys []string // Parent keys in first-seen order for determinism.
	for _, it := range items {
		key := it.ParentKey()
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], it)
	}

	for _, key := range keys {
		m := groups[key]
		rng.Shuffle(len(m), func(i, j int) { m[i], m[j] = m[j], m[i] })
	}
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	out := make([]card.Item, 0, len(items))
	prev := ""
	for len(out) < len(items) {
		key := pickParent(keys, groups, prev)
		m := groups[key]
		out = append(out, m[0])
		groups[key] = m[1:]
		prev = key
	}
	return out
}

// pickParent selects the parent group to fill the next slot: the one
// with the most members left, excluding the previous slot's parent.
// Ties go to the earliest key in the shuffled order. Falls back to the
// previous parent only when no other group has members left.
func pickParent(keys []string, groups map[string][]card.Item, prev string) string {
	best := ""
	for _, key := range keys {
		if key == prev || len(groups[key]) == 0 {
			continue
		}
		if best == "" || len(groups[key]) > len(groups[best]) {
			best = key
		}
	}
	if best == "" {
		return prev
	}
	return best
}

// applyBury collapses each sibling group to a single eligible member
// and buries the rest until tomorrow, persisting the mutation through
// the store. The due-like partition keeps the most overdue member of
// each group (missing due counts as most overdue, ties broken by id);
// the new partition is collapsed separately to its lowest-id member.
//
// Rebuilding against an already-processed set is idempotent: buried
// members fail the availability check and never reach this function
// again, so the surviving member is re-selected unchanged.
func applyBury(dueLike, fresh []card.Item, st Store, tomorrow time.Time) (keepDue, keepNew []card.Item, buried int, err error) {
	keepDue, n, err := buryAllBut(dueLike, st, tomorrow, func(a, b card.Item) bool {
		return moreOverdue(a, b, st)
	})
	if err != nil {
		return nil, nil, 0, err
	}
	buried += n

	keepNew, n, err = buryAllBut(fresh, st, tomorrow, func(a, b card.Item) bool {
		return a.ID < b.ID
	})
	if err != nil {
		return nil, nil, 0, err
	}
	buried += n

	return keepDue, keepNew, buried, nil
}

// buryAllBut partitions items by parent key, keeps the least item of
// each group under the given ordering, and buries the rest.
func buryAllBut(items []card.Item, st Store, tomorrow time.Time, less func(a, b card.Item) bool) ([]card.Item, int, error) {
	groups := make(map[string][]card.Item)
	var order []string
	for _, it := range items {
		key := it.ParentKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], it)
	}

	var (
		keep   []card.Item
		buried int
	)
	for _, key := range order {
		members := groups[key]
		if len(members) == 1 {
			keep = append(keep, members[0])
			continue
		}
		sort.SliceStable(members, func(i, j int) bool { return less(members[i], members[j]) })
		keep = append(keep, members[0])
		for _, loser := range members[1:] {
			state, ok := st.State(loser.ID)
			if !ok {
				// Missing state: nothing to bury, drop from the queue.
				continue
			}
			until := tomorrow
			state.BuriedUntil = &until
			if err := st.PutState(loser.ID, state); err != nil {
				return nil, 0, fmt.Errorf("bury sibling %s: %w", loser.ID, err)
			}
			buried++
		}
	}
	return keep, buried, nil
}

// moreOverdue orders due-like siblings for bury survivor selection:
// missing due first, then earlier due, then id for determinism.
func moreOverdue(a, b card.Item, st Store) bool {
	sa, _ := st.State(a.ID)
	sb, _ := st.State(b.ID)
	aKnown, bKnown := sa.DueKnown(), sb.DueKnown()
	switch {
	case !aKnown && bKnown:
		return true
	case aKnown && !bKnown:
		return false
	case aKnown && bKnown && !sa.Due.Equal(*sb.Due):
		return sa.Due.Before(*sb.Due)
	}
	return a.ID < b.ID
}
