package attendance

import (
	"fmt"
	"math"
	"time"
)

// TimeOfDay is a wall-clock time with no date attached. Policy times
// (expected start, cutoff) are stored this way and anchored to a concrete
// calendar date before any duration arithmetic, which keeps subtraction safe
// from midnight wrap.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// At anchors the wall-clock time to the given date, in the date's location.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// WorkdayPolicy carries the two configured business-hour boundaries the
// derivation rules depend on.
type WorkdayPolicy struct {
	ExpectedStart TimeOfDay // lateness threshold
	Cutoff        TimeOfDay // worked hours are not counted past this time
}

// DefaultPolicy matches the standard office day: start 08:00, cutoff 18:00.
var DefaultPolicy = WorkdayPolicy{
	ExpectedStart: TimeOfDay{Hour: 8},
	Cutoff:        TimeOfDay{Hour: 18},
}

// ComputeLateness derives the late flag and the delay in whole minutes from a
// clock-in time. A clock-in strictly later than the expected start is late;
// at or before it is not. Total function, no error cases.
func ComputeLateness(date time.Time, clockIn time.Time, expected TimeOfDay) (isLate bool, delayMinutes int) {
	expectedAt := expected.At(date)
	clockInAt := time.Date(date.Year(), date.Month(), date.Day(),
		clockIn.Hour(), clockIn.Minute(), clockIn.Second(), 0, date.Location())

	if !clockInAt.After(expectedAt) {
		return false, 0
	}
	return true, int(clockInAt.Sub(expectedAt).Minutes())
}

// ComputeWorkedHours derives worked hours from the two punches of a day. The
// effective end is clipped at the cutoff, and an end preceding the start
// yields 0 rather than a negative duration (guards against clock skew).
// Result is rounded to two decimals.
func ComputeWorkedHours(date time.Time, clockIn, clockOut time.Time, cutoff TimeOfDay) float64 {
	start := time.Date(date.Year(), date.Month(), date.Day(),
		clockIn.Hour(), clockIn.Minute(), clockIn.Second(), 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(),
		clockOut.Hour(), clockOut.Minute(), clockOut.Second(), 0, date.Location())

	limit := cutoff.At(date)
	if end.After(limit) {
		end = limit
	}

	if end.Before(start) {
		return 0
	}

	hours := end.Sub(start).Hours()
	return math.Round(hours*100) / 100
}
