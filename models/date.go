package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date layout used for every stored and compared date.
const DateLayout = "2006-01-02"

// Date is a calendar date in canonical ISO form (YYYY-MM-DD). Build it with ParseDate or DateOf;
// two Dates describe the same day only if their strings are equal.
type Date string

// layouts accepted at the input boundary, tried in order.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// ParseDate normalizes a user or storage supplied date string into its canonical form.
// Timestamps keep only their calendar date in the zone they were written in.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// DateOf returns the calendar date of t.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Valid reports whether d is already in canonical form.
func (d Date) Valid() bool {
	t, err := time.Parse(DateLayout, string(d))
	return err == nil && t.Format(DateLayout) == string(d)
}

func (d Date) String() string { return string(d) }

// Before reports whether d is strictly earlier than o. Both must be canonical.
func (d Date) Before(o Date) bool { return d < o }

// After reports whether d is strictly later than o. Both must be canonical.
func (d Date) After(o Date) bool { return d > o }
