package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxTitleLength = 100

var (
	ErrValidation      = errors.New("validation error")
	ErrEmptyTitle      = fmt.Errorf("%w: title is required", ErrValidation)
	ErrTitleTooLong    = fmt.Errorf("%w: title must be at most %d characters", ErrValidation, MaxTitleLength)
	ErrInvalidDate     = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrInvalidPriority = fmt.Errorf("%w: priority must be low, medium or high", ErrValidation)
)

// ValidateTitle trims the title and checks it is non-empty and at most
// MaxTitleLength characters. The store does not call this; input surfaces do.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

// CleanTags trims every tag and drops the empty ones. Order and duplicates are kept.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// NormalizeDate drops the time of day, leaving local midnight of the same local date.
func NormalizeDate(t time.Time) time.Time {
	local := t.In(time.Local)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// ParseDate reads a YYYY-MM-DD date as local midnight. time.Parse would read it as UTC,
// which shifts the calendar day for zones west of Greenwich.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
