package types

import (
	"fmt"
	"time"
)

// Expiration dates are calendar dates with no time component. They are
// normalized to UTC midnight on entry so that comparisons and day arithmetic
// never depend on wall-clock time or timezone.

const (
	// DateLayoutCanonical is the storage and API form (yyyy-mm-dd).
	DateLayoutCanonical = "2006-01-02"

	// DateLayoutImport is the bulk-upload input form (dd-mm-yyyy).
	DateLayoutImport = "02-01-2006"
)

// DateOnly truncates t to UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseImportDate parses a dd-mm-yyyy date from a CSV row.
func ParseImportDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayoutImport, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOnly(t), nil
}

// ParseCanonicalDate parses a yyyy-mm-dd date.
func ParseCanonicalDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayoutCanonical, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOnly(t), nil
}

// FormatDate renders a date in canonical yyyy-mm-dd form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayoutCanonical)
}

// DaysBetween returns the whole-day difference to - from.
// Negative when to precedes from. Both arguments are reduced to their
// calendar day first, so partial days never round in either direction.
func DaysBetween(from, to time.Time) int {
	f := DateOnly(from)
	t := DateOnly(to)
	return int(t.Sub(f).Hours() / 24)
}
