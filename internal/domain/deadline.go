package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDeadline is returned by ParseDeadline for unrecognised input.
var ErrInvalidDeadline = errors.New("invalid deadline")

// ParseDeadline parses a user-supplied deadline.
//
// Accepted forms, tried in order:
//   - RFC 3339 ("2026-05-01T17:00:00+02:00")
//   - date and minute in local time ("2026-05-01T17:00")
//   - bare date, interpreted as UTC midnight ("2026-05-01")
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDeadline)
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDeadline, s)
}
