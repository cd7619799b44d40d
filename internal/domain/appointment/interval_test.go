package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: 600, End: 660} // 10:00-11:00

	assert.True(t, base.Overlaps(Interval{Start: 630, End: 690}))
	assert.True(t, base.Overlaps(Interval{Start: 540, End: 630}))
	assert.True(t, base.Overlaps(Interval{Start: 610, End: 650}))

	// Half-open: touching endpoints do not overlap.
	assert.False(t, base.Overlaps(Interval{Start: 660, End: 720}))
	assert.False(t, base.Overlaps(Interval{Start: 540, End: 600}))
}

func TestIntervalSubtract(t *testing.T) {
	open := Interval{Start: 540, End: 720} // 09:00-12:00

	t.Run("middle split yields two remnants", func(t *testing.T) {
		out := open.Subtract(Interval{Start: 600, End: 660})
		require.Len(t, out, 2)
		assert.Equal(t, Interval{Start: 540, End: 600}, out[0])
		assert.Equal(t, Interval{Start: 660, End: 720}, out[1])
	})

	t.Run("covering busy removes everything", func(t *testing.T) {
		out := open.Subtract(Interval{Start: 500, End: 800})
		assert.Empty(t, out)
	})

	t.Run("disjoint busy keeps the interval", func(t *testing.T) {
		out := open.Subtract(Interval{Start: 720, End: 780})
		require.Len(t, out, 1)
		assert.Equal(t, open, out[0])
	})
}

func TestSubtractAll(t *testing.T) {
	open := []Interval{{Start: 540, End: 720}, {Start: 780, End: 1080}}
	busy := []Interval{
		{Start: 600, End: 660},
		{Start: 780, End: 840},
	}

	out := SubtractAll(open, busy)
	assert.Equal(t, []Interval{
		{Start: 540, End: 600},
		{Start: 660, End: 720},
		{Start: 840, End: 1080},
	}, out)
}

func TestClipToDay(t *testing.T) {
	loc := time.UTC
	dayStart := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)

	t.Run("inside the day", func(t *testing.T) {
		iv, ok := ClipToDay(
			dayStart.Add(10*time.Hour),
			dayStart.Add(11*time.Hour),
			dayStart,
		)
		require.True(t, ok)
		assert.Equal(t, Interval{Start: 600, End: 660}, iv)
	})

	t.Run("spanning midnight clips to day bounds", func(t *testing.T) {
		iv, ok := ClipToDay(
			dayStart.Add(-1*time.Hour),
			dayStart.Add(1*time.Hour),
			dayStart,
		)
		require.True(t, ok)
		assert.Equal(t, Interval{Start: 0, End: 60}, iv)
	})

	t.Run("different day is rejected", func(t *testing.T) {
		_, ok := ClipToDay(
			dayStart.AddDate(0, 0, 1),
			dayStart.AddDate(0, 0, 1).Add(time.Hour),
			dayStart,
		)
		assert.False(t, ok)
	})
}
