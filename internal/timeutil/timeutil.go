// Package timeutil holds the calendar arithmetic shared by the selection core,
// the grid provider and the host widget. All helpers keep the location of
// their input.
package timeutil

import "time"

// StartOfDay returns t truncated to midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's month.
func EndOfMonth(t time.Time) time.Time {
	return EndOfDay(StartOfMonth(t).AddDate(0, 1, -1))
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// AddMonths adds n months to t. Unlike time.AddDate the day is clamped to the
// end of the target month, so Jan 31 + 1 month is Feb 28/29 rather than Mar 2.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := DaysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// SameDay reports whether t and u fall on the same calendar day. Time of day is
// ignored.
func SameDay(t, u time.Time) bool {
	ty, tm, td := t.Date()
	uy, um, ud := u.Date()
	return ty == uy && tm == um && td == ud
}

// InRange reports whether d lies between min and max at day granularity. Both
// bounds are widened to whole days, so every instant of min's and max's
// calendar days is inside the range.
func InRange(d, min, max time.Time) bool {
	return !d.Before(StartOfDay(min)) && !d.After(EndOfDay(max))
}

// SetHour replaces the hour of t, keeping its date and minute. Seconds are
// dropped since the pickers work at minute granularity.
func SetHour(t time.Time, hour int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, t.Minute(), 0, 0, t.Location())
}

// SetMinute replaces the minute of t, keeping its date and hour.
func SetMinute(t time.Time, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), minute, 0, 0, t.Location())
}

// CountMonths counts the number of months between times t and u.
func CountMonths(t, u time.Time) int {
	months := 0
	for a, b := StartOfMonth(t), StartOfMonth(u); a.Before(b); a = a.AddDate(0, 1, 0) {
		months++
	}
	return months
}
