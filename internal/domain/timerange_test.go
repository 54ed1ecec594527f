package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeRange_Overlaps_Symmetric(t *testing.T) {
	a := TimeRange{Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(12, 0)}
	b := TimeRange{Start: NewTimeOfDay(11, 0), End: NewTimeOfDay(13, 0)}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
}

func TestTimeRange_Overlaps_TouchingEndpoints(t *testing.T) {
	a := TimeRange{Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(12, 0)}
	b := TimeRange{Start: NewTimeOfDay(12, 0), End: NewTimeOfDay(13, 0)}

	// Half-open intervals: a shared endpoint is not a conflict.
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}

func TestTimeRange_Overlaps_Contained(t *testing.T) {
	outer := TimeRange{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(18, 0)}
	inner := TimeRange{Start: NewTimeOfDay(12, 0), End: NewTimeOfDay(13, 0)}

	assert.True(t, outer.Overlaps(inner))
	assert.True(t, inner.Overlaps(outer))
}

func TestTimeRange_DurationHours(t *testing.T) {
	cases := []struct {
		name  string
		rng   TimeRange
		hours int
	}{
		{"whole hours", TimeRange{NewTimeOfDay(10, 0), NewTimeOfDay(12, 0)}, 2},
		{"partial hour rounds up", TimeRange{NewTimeOfDay(10, 0), NewTimeOfDay(11, 30)}, 2},
		{"single minute rounds up", TimeRange{NewTimeOfDay(10, 0), NewTimeOfDay(10, 1)}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hours, err := tc.rng.DurationHours()
			assert.NoError(t, err)
			assert.Equal(t, tc.hours, hours)
		})
	}
}

func TestTimeRange_DurationHours_Invalid(t *testing.T) {
	_, err := TimeRange{NewTimeOfDay(12, 0), NewTimeOfDay(12, 0)}.DurationHours()
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = TimeRange{NewTimeOfDay(12, 0), NewTimeOfDay(10, 0)}.DurationHours()
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseTimeOfDay(t *testing.T) {
	v, err := ParseTimeOfDay("14:30")
	assert.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(14, 30), v)
	assert.Equal(t, "14:30", v.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}
