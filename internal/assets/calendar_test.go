package assets

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStartEndOfMonth(t *testing.T) {
	cases := []struct {
		in    time.Time
		start time.Time
		end   time.Time
	}{
		{date(2024, time.February, 15), date(2024, time.February, 1), date(2024, time.February, 29)},
		{date(2023, time.February, 1), date(2023, time.February, 1), date(2023, time.February, 28)},
		{date(2024, time.December, 31), date(2024, time.December, 1), date(2024, time.December, 31)},
	}
	for _, tc := range cases {
		if got := StartOfMonth(tc.in); !got.Equal(tc.start) {
			t.Errorf("StartOfMonth(%v) = %v, want %v", tc.in, got, tc.start)
		}
		if got := EndOfMonth(tc.in); !got.Equal(tc.end) {
			t.Errorf("EndOfMonth(%v) = %v, want %v", tc.in, got, tc.end)
		}
	}
}

func TestDaysBetweenInclusive(t *testing.T) {
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{date(2024, time.January, 1), date(2024, time.January, 31), 31},
		{date(2024, time.January, 1), date(2024, time.January, 1), 1},
		{date(2024, time.February, 1), date(2024, time.February, 29), 29},
		{date(2024, time.January, 31), date(2024, time.January, 1), 0},
	}
	for _, tc := range cases {
		if got := DaysBetween(tc.start, tc.end); got != tc.want {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestScheduleDaysConvention(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"whole January counts 30", date(2024, time.January, 1), date(2024, time.January, 31), 30},
		{"whole February counts 30", date(2024, time.February, 1), date(2024, time.February, 29), 30},
		{"whole quarter counts 90", date(2024, time.January, 1), date(2024, time.March, 31), 90},
		{"mid-month cutoff counts exact days", date(2024, time.April, 1), date(2024, time.April, 15), 15},
		{"partial window capped at convention", date(2024, time.January, 1), date(2024, time.January, 30), 30},
		{"inverted window counts zero", date(2024, time.March, 1), date(2024, time.February, 1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scheduleDays(tc.start, tc.end); got != tc.want {
				t.Errorf("scheduleDays(%v, %v) = %d, want %d", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	if got := MonthsBetween(date(2024, time.January, 1), date(2024, time.July, 1)); got != 6 {
		t.Errorf("MonthsBetween = %d, want 6", got)
	}
	if got := MonthsBetween(date(2024, time.July, 1), date(2024, time.January, 1)); got != 0 {
		t.Errorf("MonthsBetween backwards = %d, want 0", got)
	}
}
