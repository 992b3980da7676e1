package domain

import "time"

// DateLayout is the wire format for calendar dates: YYYY-MM-DD, no time zone suffix.
const DateLayout = "2006-01-02"

// DateOnly floors a timestamp to UTC midnight. All completion and streak math
// operates on these normalized calendar dates.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a timestamp as its calendar-date string.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
