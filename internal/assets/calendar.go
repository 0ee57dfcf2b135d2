package assets

import "time"

// Calendar helpers. All schedule dates are normalized to UTC midnight.

// DateOnly truncates a timestamp to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// StartOfNextMonth returns the first day of the month after t.
func StartOfNextMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0)
}

// AddMonths shifts t by n months. Callers pass first-of-month dates, so the
// result never spills into a shorter month.
func AddMonths(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, n, 0)
}

// DaysBetween counts calendar days from start to end, both inclusive.
func DaysBetween(start, end time.Time) int {
	s := DateOnly(start)
	e := DateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// MonthsTouched counts the distinct calendar months the window overlaps.
func MonthsTouched(start, end time.Time) int {
	s := DateOnly(start)
	e := DateOnly(end)
	if e.Before(s) {
		return 0
	}
	return (e.Year()-s.Year())*12 + int(e.Month()) - int(s.Month()) + 1
}

// MonthsBetween counts whole calendar months from a to b. Both arguments
// are first-of-month dates everywhere the schedule uses this.
func MonthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months < 0 {
		return 0
	}
	return months
}

// isEndOfMonth reports whether t is the last day of its month.
func isEndOfMonth(t time.Time) bool {
	return DateOnly(t).Equal(EndOfMonth(t))
}

// scheduleDays counts the days a period window contributes to the schedule.
// Whole-month windows use the fixed 30-day-per-month convention so that a
// full lifetime sums to MethodNumber*MethodPeriod*30 exactly; partial cutoff
// windows count exact calendar days, capped at the fixed convention.
func scheduleDays(start, end time.Time) int {
	s := DateOnly(start)
	e := DateOnly(end)
	if e.Before(s) {
		return 0
	}
	months := MonthsTouched(s, e)
	if s.Day() == 1 && isEndOfMonth(e) {
		return months * daysPerMonth
	}
	days := DaysBetween(s, e)
	if limit := months * daysPerMonth; days > limit {
		days = limit
	}
	return days
}
