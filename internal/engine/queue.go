package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/mnemo-app/mnemo/internal/card"
)

// Builder composes scope resolution, availability, daily budget and
// sibling policy into an ordered session queue.
type Builder struct {
	store  Store
	groups GroupIndex
	clock  Clock
	gen    *Generation
	seed   func() int64
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the wall clock (deterministic tests).
func WithClock(c Clock) BuilderOption {
	return func(b *Builder) { b.clock = c }
}

// WithGeneration supplies the session stamp counter. Share one counter
// between the Builder and the Controller so stamps stay unique.
func WithGeneration(g *Generation) BuilderOption {
	return func(b *Builder) { b.gen = g }
}

// WithSeed fixes the rand seed used for disperse shuffling and
// per-session presentation orders (deterministic tests).
func WithSeed(seed int64) BuilderOption {
	return func(b *Builder) { b.seed = func() int64 { return seed } }
}

// NewBuilder creates a Builder over the given store and group index.
func NewBuilder(st Store, groups GroupIndex, opts ...BuilderOption) *Builder {
	b := &Builder{
		store:  st,
		groups: groups,
		clock:  SystemClock{},
		gen:    &Generation{},
		seed:   func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildConfig describes one queue build.
type BuildConfig struct {
	Scope    card.Scope
	Policy   SiblingPolicy
	Limits   Limits
	Practice bool
}

// Build constructs a fresh Session for the configured scope.
//
// The due-like partition (learning/relearning/review plus unknown
// stages) is sorted by due ascending with missing due first and
// unknown stages last, then arranged by the sibling policy and sliced
// by the remaining review quota. The new partition is sorted by id and
// sliced by the remaining new quota. The queue is due-like then new.
//
// Bury mode mutates scheduling state (BuriedUntil on losing siblings)
// and persists before the session is returned.
func (b *Builder) Build(ctx context.Context, cfg BuildConfig) (*Session, error) {
	if err := cfg.Scope.Validate(); err != nil {
		return nil, err
	}
	policy := cfg.Policy
	if policy == 0 {
		policy = PolicyStandard
	}

	now := b.clock.Now()
	startOfDay := StartOfDay(now)
	rng := rand.New(rand.NewSource(b.seed()))

	inScope := ResolveScope(b.store.Items(), cfg.Scope, b.groups)
	scopeIDs := make(map[string]bool, len(inScope))
	for _, it := range inScope {
		scopeIDs[it.ID] = true
	}

	var dueLike, fresh []card.Item
	for _, it := range inScope {
		state, ok := b.store.State(it.ID)
		if !ok {
			continue
		}
		if !AvailableNow(&state, now) {
			continue
		}
		if state.Stage == card.StageNew {
			fresh = append(fresh, it)
		} else {
			dueLike = append(dueLike, it)
		}
	}

	b.sortDueLike(dueLike)
	sort.Slice(fresh, func(i, j int) bool { return fresh[i].ID < fresh[j].ID })

	var buriedCount int
	switch policy {
	case PolicyDisperse:
		dueLike = disperse(dueLike, rng)
	case PolicyBury:
		var err error
		dueLike, fresh, buriedCount, err = applyBury(dueLike, fresh, b.store, StartOfTomorrow(now))
		if err != nil {
			return nil, fmt.Errorf("apply bury policy: %w", err)
		}
		if buriedCount > 0 {
			if err := b.store.Persist(ctx); err != nil {
				return nil, fmt.Errorf("persist buried siblings: %w", err)
			}
		}
	}

	done := CountDoneToday(scopeIDs, b.store.Reviews(), startOfDay)
	dueIDs := sliceQuota(itemIDs(dueLike), Remaining(cfg.Limits.ReviewsPerDay, done.Review))
	newIDs := sliceQuota(itemIDs(fresh), Remaining(cfg.Limits.NewPerDay, done.New))

	queue := make([]string, 0, len(dueIDs)+len(newIDs))
	queue = append(queue, dueIDs...)
	queue = append(queue, newIDs...)

	sess := &Session{
		Scope:    cfg.Scope,
		Queue:    queue,
		Cursor:   0,
		Graded:   make(map[string]GradeRecord),
		Total:    len(queue),
		Done:     0,
		Stamp:    b.gen.Next(),
		Practice: cfg.Practice,
		skips:    make(map[string]int),
		orders:   make(map[string][]int),
		rng:      rng,
	}

	slog.Debug("session built",
		"scope", cfg.Scope.String(),
		"policy", policy.String(),
		"due", len(dueIDs),
		"new", len(newIDs),
		"buried", buriedCount,
		"done_today_new", done.New,
		"done_today_review", done.Review,
		"stamp", sess.Stamp,
	)
	return sess, nil
}

// sortDueLike orders the due-like partition: known due-based stages
// before unknown stages, missing due first (most urgent), then due
// ascending, then id as the deterministic tie-break.
func (b *Builder) sortDueLike(items []card.Item) {
	states := make(map[string]card.SchedulingState, len(items))
	for _, it := range items {
		if st, ok := b.store.State(it.ID); ok {
			states[it.ID] = st
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := states[items[i].ID], states[items[j].ID]
		if ri, rj := stageRank(si.Stage), stageRank(sj.Stage); ri != rj {
			return ri < rj
		}
		iKnown, jKnown := si.DueKnown(), sj.DueKnown()
		switch {
		case !iKnown && jKnown:
			return true
		case iKnown && !jKnown:
			return false
		case iKnown && jKnown && !si.Due.Equal(*sj.Due):
			return si.Due.Before(*sj.Due)
		}
		return items[i].ID < items[j].ID
	})
}

func itemIDs(items []card.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
