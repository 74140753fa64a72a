package model

import (
	"errors"
	"strings"
	"time"
)

var ErrBadDate = errors.New("date must be RFC3339 or YYYY-MM-DD")

// ParseDate accepts RFC3339 timestamps and bare YYYY-MM-DD dates (UTC midnight).
// Empty input yields the zero time and no error.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrBadDate
}
