// Package biztime centralizes time handling for quota periods and deadline
// math. All storage and transport use UTC; date arithmetic works on UTC
// calendar days, never on elapsed durations.
package biztime

import (
	"fmt"
	"time"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// TodayUTC returns the current UTC calendar date at midnight.
func TodayUTC() time.Time {
	return DateOf(NowUTC())
}

// DateOf truncates a time to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b in UTC.
// Negative when b is before a. This is a date difference, not a rounded
// duration: a deadline tomorrow at 00:01 is one day away even at 23:59.
func DaysBetween(a, b time.Time) int {
	da := DateOf(a)
	db := DateOf(b)
	return int(db.Sub(da).Hours() / 24)
}

// ParseDateUTC parses a YYYY-MM-DD date string as a UTC date.
func ParseDateUTC(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a time as a YYYY-MM-DD UTC date string.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatRFC3339 formats a UTC time for metadata and API payloads.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
