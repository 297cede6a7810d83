package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/testutil"
)

var buildNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newBuilder(ms *testutil.MemStore) *Builder {
	return NewBuilder(ms, ms,
		WithClock(testutil.NewFixedClock(buildNow)),
		WithSeed(1),
	)
}

func mustBuild(t *testing.T, b *Builder, cfg BuildConfig) *Session {
	t.Helper()
	sess, err := b.Build(context.Background(), cfg)
	require.NoError(t, err)
	return sess
}

func TestBuild_RejectsInvalidScope(t *testing.T) {
	b := newBuilder(testutil.NewMemStore())

	_, err := b.Build(context.Background(), BuildConfig{Scope: card.Scope{}})

	assert.ErrorIs(t, err, card.ErrInvalidScope)
}

// TestBuild_EligibilityScenario: a due review (X) and a learning item
// with a lost due timestamp (Y) are queued, the not-yet-due review (Z)
// is not. Y's missing due both fails open and sorts most urgent.
func TestBuild_EligibilityScenario(t *testing.T) {
	ms := testutil.NewMemStore()
	past := buildNow.Add(-time.Hour)
	future := buildNow.Add(time.Hour)
	ms.Add(leaf("X", "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &past})
	ms.Add(leaf("Y", "d.md"), &card.SchedulingState{Stage: card.StageLearning})
	ms.Add(leaf("Z", "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &future})

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Limits: NoLimits(),
	})

	assert.Equal(t, []string{"Y", "X"}, sess.Queue)
}

func TestBuild_OrderingDueThenNew(t *testing.T) {
	ms := testutil.NewMemStore()
	earlier := buildNow.Add(-3 * time.Hour)
	later := buildNow.Add(-time.Hour)
	ms.Add(leaf("rev-late", "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &later})
	ms.Add(leaf("rev-early", "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &earlier})
	ms.Add(leaf("new-b", "d.md"), &card.SchedulingState{Stage: card.StageNew})
	ms.Add(leaf("new-a", "d.md"), &card.SchedulingState{Stage: card.StageNew})
	ms.Add(leaf("learn", "d.md"), &card.SchedulingState{Stage: card.StageLearning, Due: &later})

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Limits: NoLimits(),
	})

	// Due-likes by due ascending (id breaks the tie), then new by id.
	assert.Equal(t, []string{"rev-early", "learn", "rev-late", "new-a", "new-b"}, sess.Queue)
}

func TestBuild_DueTieBrokenByID(t *testing.T) {
	ms := testutil.NewMemStore()
	due := buildNow.Add(-time.Hour)
	ms.Add(leaf("b", "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &due})
	ms.Add(leaf("a", "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &due})

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Limits: NoLimits(),
	})

	assert.Equal(t, []string{"a", "b"}, sess.Queue)
}

// TestBuild_UnknownStageRankedLast: an unrecognized stage stays in the
// queue but after every recognized due-based item.
func TestBuild_UnknownStageRankedLast(t *testing.T) {
	ms := testutil.NewMemStore()
	due := buildNow.Add(-time.Hour)
	ms.Add(leaf("weird", "d.md"), &card.SchedulingState{Stage: card.Stage(42)})
	ms.Add(leaf("rev", "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &due})

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Limits: NoLimits(),
	})

	assert.Equal(t, []string{"rev", "weird"}, sess.Queue)
}

func TestBuild_ExcludesMissingState(t *testing.T) {
	ms := testutil.NewMemStore()
	ms.ItemList = append(ms.ItemList, leaf("ghost", "d.md"))

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Limits: NoLimits(),
	})

	assert.Empty(t, sess.Queue)
}

// TestBuild_NewQuotaReconstruction: two first-ever reviews already in
// today's log against a new-per-day limit of three admits exactly one
// more new item.
func TestBuild_NewQuotaReconstruction(t *testing.T) {
	ms := testutil.NewMemStore()
	for _, id := range []string{"n1", "n2", "n3", "n4"} {
		ms.Add(leaf(id, "d.md"), &card.SchedulingState{Stage: card.StageNew})
	}
	morning := StartOfDay(buildNow).Add(9 * time.Hour)
	ms.ReviewLog = []card.ReviewEntry{
		rev("done1", morning),
		rev("done2", morning.Add(time.Minute)),
	}
	ms.Add(leaf("done1", "d.md"), &card.SchedulingState{Stage: card.StageLearning, Due: tp(buildNow.Add(time.Hour))})
	ms.Add(leaf("done2", "d.md"), &card.SchedulingState{Stage: card.StageLearning, Due: tp(buildNow.Add(time.Hour))})

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Limits: Limits{NewPerDay: 3, ReviewsPerDay: Unlimited},
	})

	assert.Equal(t, []string{"n1"}, sess.Queue)
}

func TestBuild_ReviewQuota(t *testing.T) {
	ms := testutil.NewMemStore()
	for i, id := range []string{"r1", "r2", "r3"} {
		due := buildNow.Add(-time.Duration(3-i) * time.Hour)
		ms.Add(leaf(id, "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &due})
	}

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Limits: Limits{NewPerDay: Unlimited, ReviewsPerDay: 2},
	})

	assert.Equal(t, []string{"r1", "r2"}, sess.Queue)
}

// TestBuild_QuotaCountsOnlyScope: history from outside the scope must
// not consume the scope's budget.
func TestBuild_QuotaCountsOnlyScope(t *testing.T) {
	ms := testutil.NewMemStore()
	ms.Add(leaf("in", "math/a.md"), &card.SchedulingState{Stage: card.StageNew})
	ms.ReviewLog = []card.ReviewEntry{rev("elsewhere", buildNow.Add(-time.Hour))}

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.FolderScope("math"),
		Limits: Limits{NewPerDay: 1, ReviewsPerDay: Unlimited},
	})

	assert.Equal(t, []string{"in"}, sess.Queue)
}

func TestBuild_BuryPolicyPersists(t *testing.T) {
	ms := testutil.NewMemStore()
	due := buildNow.Add(-time.Hour)
	ms.Add(child("c1", "p"), &card.SchedulingState{Stage: card.StageReview, Due: &due})
	ms.Add(child("c2", "p"), &card.SchedulingState{Stage: card.StageReview, Due: &due})

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Policy: PolicyBury,
		Limits: NoLimits(),
	})

	assert.Equal(t, []string{"c1"}, sess.Queue)
	assert.Equal(t, 1, ms.PersistCalls, "bury mutations must be persisted at build time")

	st, _ := ms.State("c2")
	require.NotNil(t, st.BuriedUntil)
	assert.True(t, st.BuriedUntil.Equal(StartOfTomorrow(buildNow)))
}

func TestBuild_BuryPolicyNoSiblingsSkipsPersist(t *testing.T) {
	ms := testutil.NewMemStore()
	due := buildNow.Add(-time.Hour)
	ms.Add(leaf("solo", "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &due})

	mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Policy: PolicyBury,
		Limits: NoLimits(),
	})

	assert.Zero(t, ms.PersistCalls)
}

func TestBuild_DispersePolicy(t *testing.T) {
	ms := testutil.NewMemStore()
	due := buildNow.Add(-time.Hour)
	for _, id := range []string{"c1", "c2", "c3"} {
		ms.Add(child(id, "p"), &card.SchedulingState{Stage: card.StageReview, Due: &due})
	}
	for _, id := range []string{"o1", "o2", "o3", "o4"} {
		ms.Add(leaf(id, "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &due})
	}

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.WholeCollection(),
		Policy: PolicyDisperse,
		Limits: NoLimits(),
	})

	require.Len(t, sess.Queue, 7)
	parents := map[string]string{"c1": "p", "c2": "p", "c3": "p"}
	for i := 1; i < len(sess.Queue); i++ {
		a, b := parents[sess.Queue[i-1]], parents[sess.Queue[i]]
		assert.False(t, a != "" && a == b, "siblings adjacent at %d: %v", i, sess.Queue)
	}
}

func TestBuild_StampsAreUnique(t *testing.T) {
	ms := testutil.NewMemStore()
	b := newBuilder(ms)

	first := mustBuild(t, b, BuildConfig{Scope: card.WholeCollection(), Limits: NoLimits()})
	second := mustBuild(t, b, BuildConfig{Scope: card.WholeCollection(), Limits: NoLimits()})

	assert.NotEqual(t, first.Stamp, second.Stamp)
	assert.Greater(t, second.Stamp, first.Stamp)
}

func TestBuild_PracticeFlagCarried(t *testing.T) {
	ms := testutil.NewMemStore()

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:    card.WholeCollection(),
		Limits:   NoLimits(),
		Practice: true,
	})

	assert.True(t, sess.Practice)
}

// TestBuild_Golden pins the full queue layout for a mixed collection.
func TestBuild_Golden(t *testing.T) {
	ms := testutil.NewMemStore()
	ms.Add(leaf("rev-b", "math/a.md"), &card.SchedulingState{Stage: card.StageReview, Due: tp(buildNow.Add(-2 * time.Hour))})
	ms.Add(leaf("rev-a", "math/a.md"), &card.SchedulingState{Stage: card.StageReview, Due: tp(buildNow.Add(-2 * time.Hour))})
	ms.Add(leaf("lost", "math/a.md"), &card.SchedulingState{Stage: card.StageLearning})
	ms.Add(leaf("new-b", "math/b.md"), &card.SchedulingState{Stage: card.StageNew})
	ms.Add(leaf("new-a", "math/b.md"), &card.SchedulingState{Stage: card.StageNew})
	ms.Add(leaf("outside", "history/c.md"), &card.SchedulingState{Stage: card.StageNew})

	sess := mustBuild(t, newBuilder(ms), BuildConfig{
		Scope:  card.FolderScope("math"),
		Limits: NoLimits(),
	})

	var sb strings.Builder
	sb.WriteString("scope: " + sess.Scope.String() + "\n")
	for _, id := range sess.Queue {
		sb.WriteString(id + "\n")
	}

	g := goldie.New(t)
	g.Assert(t, "queue_build", []byte(sb.String()))
}
