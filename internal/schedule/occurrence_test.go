package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2025-01-15 is a Wednesday.
func refWednesday() time.Time {
	return time.Date(2025, time.January, 15, 10, 0, 0, 0, Dhaka)
}

func TestNextOccurrenceStrictlyForward(t *testing.T) {
	ref := refWednesday()
	for target := time.Sunday; target <= time.Saturday; target++ {
		got := NextOccurrence(ref, target)
		assert.Equal(t, target, got.Weekday())
		assert.True(t, got.After(ref), "occurrence of %s must be after the reference", target)

		days := int(got.Sub(ref).Hours() / 24)
		assert.GreaterOrEqual(t, days, 1)
		assert.LessOrEqual(t, days, 7)
	}
}

func TestNextOccurrenceSameWeekdayIsNextWeek(t *testing.T) {
	got := NextOccurrence(refWednesday(), time.Wednesday)
	assert.Equal(t, time.Date(2025, time.January, 22, 10, 0, 0, 0, Dhaka), got)
}

func TestAtPinsClockTimeInDhaka(t *testing.T) {
	got := At(refWednesday(), ClockTime{Hour: 8, Minute: 30})

	assert.Equal(t, 8, got.Hour())
	assert.Equal(t, 30, got.Minute())
	_, offset := got.Zone()
	assert.Equal(t, 6*60*60, offset)
}

func TestOccurrence(t *testing.T) {
	e := Entry{Day: time.Sunday, Start: ClockTime{Hour: 8}, End: ClockTime{Hour: 9, Minute: 20}}
	start, end := Occurrence(refWednesday(), e)

	assert.Equal(t, time.Date(2025, time.January, 19, 8, 0, 0, 0, Dhaka), start)
	assert.Equal(t, time.Date(2025, time.January, 19, 9, 20, 0, 0, Dhaka), end)
}
