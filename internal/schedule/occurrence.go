package schedule

import "time"

// Dhaka is the institution's zone: a fixed UTC+6 offset with no DST. A fixed
// zone avoids depending on the host's tz database; nothing in the export
// pipeline uses any other zone.
var Dhaka = time.FixedZone("Asia/Dhaka", 6*60*60)

// NextOccurrence returns the next calendar date after ref that falls on
// target. "Next" is strictly forward: when ref itself falls on target the
// result is one full week ahead, so a class scheduled for today's weekday is
// never exported as starting today.
func NextOccurrence(ref time.Time, target time.Weekday) time.Time {
	delta := (int(target) - int(ref.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return ref.AddDate(0, 0, delta)
}

// At pins a clock time onto the given date in the institution zone.
func At(date time.Time, c ClockTime) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, Dhaka)
}

// Occurrence projects a parsed entry onto its next concrete class session
// after ref, returning the start and end instants.
func Occurrence(ref time.Time, e Entry) (start, end time.Time) {
	day := NextOccurrence(ref, e.Day)
	return At(day, e.Start), At(day, e.End)
}
