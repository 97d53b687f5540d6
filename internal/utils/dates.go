package utils

import "time"

// DateLayout is the calendar-day format used throughout the diary:
// submissions are keyed by it and streaks are computed over it.
const DateLayout = "2006-01-02"

// Today returns the current calendar date in loc as YYYY-MM-DD.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(DateLayout)
}

// Yesterday returns the calendar date one day before Today in loc.
func Yesterday(loc *time.Location) string {
	return time.Now().In(loc).AddDate(0, 0, -1).Format(DateLayout)
}

// FormatDay renders t as a calendar-day string in loc.
func FormatDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// DaysBetween returns to - from in whole calendar days. Both arguments must be
// YYYY-MM-DD strings; a submission at 23:59 followed by one at 00:01 the next
// day is exactly one day apart regardless of elapsed wall-clock time.
func DaysBetween(from, to string) (int, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, err
	}

	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, err
	}

	return int(end.Sub(start).Hours() / 24), nil
}
