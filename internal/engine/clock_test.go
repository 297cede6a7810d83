package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	at := time.Date(2026, 3, 14, 23, 59, 59, 0, loc)
	sod := StartOfDay(at)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), sod)
	assert.Equal(t, loc, sod.Location(), "accounting is anchored to local midnight")
}

func TestStartOfTomorrow(t *testing.T) {
	at := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), StartOfTomorrow(at))
}

// TestStartOfTomorrow_DSTSpringForward: AddDate lands on the next
// calendar day even when the day is 23 hours long.
func TestStartOfTomorrow_DSTSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// 2026-03-08 is the US spring-forward date.
	at := time.Date(2026, 3, 8, 12, 0, 0, 0, loc)

	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), StartOfTomorrow(at))
}

func TestGeneration(t *testing.T) {
	var g Generation

	assert.Equal(t, int64(0), g.Current())
	assert.Equal(t, int64(1), g.Next())
	assert.Equal(t, int64(2), g.Next())
	assert.Equal(t, int64(2), g.Current())
}
