package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a midnight UTC time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// TruncateDay returns midnight of t in UTC, keeping t's calendar date.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last calendar day of the given month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

const secondsPerDay = 24 * 60 * 60

// WorkingDays counts Monday to Friday dates in [from, to], both inclusive.
// Holidays are not considered. An inverted range has zero working days.
func WorkingDays(from, to time.Time) int {
	from, to = TruncateDay(from), TruncateDay(to)
	if to.Before(from) {
		return 0
	}
	// Unix seconds rather than Duration, which saturates near 292 years.
	days := int((to.Unix()-from.Unix())/secondsPerDay) + 1
	count := (days / 7) * 5
	wd := from.Weekday()
	for i := 0; i < days%7; i++ {
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
		wd = (wd + 1) % 7
	}
	return count
}
