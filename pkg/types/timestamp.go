package types

import (
	"fmt"
	"time"
)

// TimestampLayout is the text form of time_created. It sorts
// lexicographically in chronological order for UTC values.
const TimestampLayout = "2006-01-02 15:04:05.000000-07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored time_created value and returns it in UTC. RFC 3339 text is
// accepted for rows written by other tools.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrInvalidValue, s)
	}
	return t.UTC(), nil
}
