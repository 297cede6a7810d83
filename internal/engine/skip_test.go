package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/testutil"
)

// skipFixture builds a controller with n due items "i000".."i<n-1>".
func skipFixture(t *testing.T, n int) (*Controller, *Session, *testutil.MemStore) {
	t.Helper()
	ms := testutil.NewMemStore()
	due := buildNow.Add(-time.Hour)
	for i := 0; i < n; i++ {
		ms.Add(leaf(fmt.Sprintf("i%03d", i), "d.md"), &card.SchedulingState{Stage: card.StageReview, Due: &due})
	}
	ctl := newTestController(ms, &stubScheduler{})
	sess := startSession(t, ctl, false)
	require.Len(t, sess.Queue, n)
	return ctl, sess, ms
}

func TestSkipCurrent_DelayProportional(t *testing.T) {
	// 51 items: 50 remain after the cursor, a fifth of that is 10.
	ctl, sess, _ := skipFixture(t, 51)

	out := ctl.SkipCurrent()

	require.True(t, out.Skipped)
	assert.Equal(t, "i000", out.ItemID)
	assert.Equal(t, 10, out.Delay)
	assert.Equal(t, 10, out.NewIndex)
	assert.Equal(t, "i000", sess.Queue[10])
	assert.Equal(t, "i001", sess.Queue[0], "next item takes the cursor slot")
}

func TestSkipCurrent_DelayClampedLow(t *testing.T) {
	// 6 items: a fifth of 5 rounds to 1, clamped up to 8, which lands
	// past the end and settles on the last slot.
	ctl, sess, _ := skipFixture(t, 6)

	out := ctl.SkipCurrent()

	require.True(t, out.Skipped)
	assert.Equal(t, 8, out.Delay)
	assert.Equal(t, len(sess.Queue)-1, out.NewIndex)
	assert.Equal(t, "i000", sess.Queue[len(sess.Queue)-1])
}

func TestSkipCurrent_DelayClampedHigh(t *testing.T) {
	// 151 items: a fifth of 150 is 30, clamped down to 20.
	ctl, _, _ := skipFixture(t, 151)

	out := ctl.SkipCurrent()

	require.True(t, out.Skipped)
	assert.Equal(t, 20, out.Delay)
}

func TestSkipCurrent_SecondSkipDoubles(t *testing.T) {
	ctl, sess, _ := skipFixture(t, 151)

	first := ctl.SkipCurrent()
	require.True(t, first.Skipped)

	// Bring the skipped item back under the cursor.
	sess.Cursor = first.NewIndex

	second := ctl.SkipCurrent()
	require.True(t, second.Skipped)
	assert.Equal(t, first.ItemID, second.ItemID)
	assert.Equal(t, 40, second.Delay, "base 20 doubled and capped")
}

func TestSkipCurrent_SecondSkipCapRespected(t *testing.T) {
	ctl, sess, _ := skipFixture(t, 51)

	first := ctl.SkipCurrent()
	require.Equal(t, 10, first.Delay)
	sess.Cursor = first.NewIndex

	second := ctl.SkipCurrent()
	require.True(t, second.Skipped)

	// Base recomputed from the new remaining count, then doubled.
	remaining := len(sess.Queue) - first.NewIndex - 1
	base := clampInt(remaining/5, skipDelayMin, skipDelayMax)
	assert.Equal(t, base*2, second.Delay)
	assert.LessOrEqual(t, second.Delay, skipDelayCap)
}

func TestSkipCurrent_ThirdSkipPrompts(t *testing.T) {
	ctl, sess, _ := skipFixture(t, 51)

	first := ctl.SkipCurrent()
	sess.Cursor = first.NewIndex
	second := ctl.SkipCurrent()
	sess.Cursor = second.NewIndex

	third := ctl.SkipCurrent()
	assert.False(t, third.Skipped)
	assert.True(t, third.Prompt)
	assert.Equal(t, first.ItemID, third.ItemID)

	// Ignoring the prompt does not reset the counter; the next skip
	// prompts again.
	fourth := ctl.SkipCurrent()
	assert.True(t, fourth.Prompt)
}

func TestSkipCurrent_NotRevealableKinds(t *testing.T) {
	ms := testutil.NewMemStore()
	due := buildNow.Add(-time.Hour)
	ms.Add(card.Item{ID: "mc", Kind: card.KindChoice, Path: "d.md"},
		&card.SchedulingState{Stage: card.StageReview, Due: &due})
	ctl := newTestController(ms, &stubScheduler{})
	startSession(t, ctl, false)

	out := ctl.SkipCurrent()

	assert.False(t, out.Skipped)
	assert.Equal(t, NoopNotSkippable, out.Reason)
	assert.Equal(t, "mc", out.ItemID)
}

func TestSkipCurrent_Noops(t *testing.T) {
	ctl := newTestController(testutil.NewMemStore(), &stubScheduler{})

	assert.Equal(t, NoopNoSession, ctl.SkipCurrent().Reason)

	ctl, sess, _ := skipFixture(t, 2)
	sess.Cursor = len(sess.Queue)
	assert.Equal(t, NoopNoCurrent, ctl.SkipCurrent().Reason)

	sess.Cursor = 0
	_, err := ctl.GradeCurrent(context.Background(), card.Good, "")
	require.NoError(t, err)
	sess.Cursor = 0
	assert.Equal(t, NoopAlreadyGraded, ctl.SkipCurrent().Reason)
}

// TestSkipCurrent_NeverTouchesStore: skipping is session-local; no
// scheduling state, log or persist activity may result.
func TestSkipCurrent_NeverTouchesStore(t *testing.T) {
	ctl, sess, ms := skipFixture(t, 20)
	before := make(map[string]card.SchedulingState, len(ms.States))
	for id, st := range ms.States {
		before[id] = st
	}

	first := ctl.SkipCurrent()
	require.True(t, first.Skipped)
	sess.Cursor = first.NewIndex
	ctl.SkipCurrent()

	assert.Equal(t, before, ms.States)
	assert.Empty(t, ms.ReviewLog)
	assert.Empty(t, ms.AnalyticsLog)
	assert.Zero(t, ms.PersistCalls)
}

func TestSkipCurrent_ResetsReveal(t *testing.T) {
	ctl, _, _ := skipFixture(t, 10)

	ctl.Reveal()
	require.True(t, ctl.Revealed())
	out := ctl.SkipCurrent()

	require.True(t, out.Skipped)
	assert.False(t, ctl.Revealed())
}

func TestMoveLater(t *testing.T) {
	q := []string{"a", "b", "c", "d", "e"}

	pos := moveLater(q, 0, 2)

	assert.Equal(t, 2, pos)
	assert.Equal(t, []string{"b", "c", "a", "d", "e"}, q)
}

func TestMoveLater_ClampsToEnd(t *testing.T) {
	q := []string{"a", "b", "c"}

	pos := moveLater(q, 0, 10)

	assert.Equal(t, 2, pos)
	assert.Equal(t, []string{"b", "c", "a"}, q)
}

func TestMoveLater_FromMiddle(t *testing.T) {
	q := []string{"a", "b", "c", "d", "e"}

	pos := moveLater(q, 1, 2)

	assert.Equal(t, 3, pos)
	assert.Equal(t, []string{"a", "c", "d", "b", "e"}, q)
}
