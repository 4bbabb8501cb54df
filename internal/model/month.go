package model

import (
	"fmt"
	"time"

	"github.com/Tiliavir/rileva/internal/timecalc"
)

// MonthKey is the canonical "YYYY-MM" key every aggregation is scoped to.
type MonthKey string

// MonthKeyOf returns the key of the month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey(t.Format("2006-01"))
}

// MonthKeyFor builds a key from a year and month.
func MonthKeyFor(year int, month time.Month) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// ParseMonthKey validates s and returns it as a MonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return MonthKeyOf(t), nil
}

// Valid reports whether k is a well-formed key.
func (k MonthKey) Valid() bool {
	_, err := ParseMonthKey(string(k))
	return err == nil
}

// First returns the first day of the month.
func (k MonthKey) First() time.Time {
	t, err := time.Parse("2006-01", string(k))
	if err != nil {
		return time.Time{}
	}
	return timecalc.Day(t.Year(), t.Month(), 1)
}

// Year returns the key's year.
func (k MonthKey) Year() int { return k.First().Year() }

// Month returns the key's month.
func (k MonthKey) Month() time.Month { return k.First().Month() }

// Contains reports whether t falls within the month.
func (k MonthKey) Contains(t time.Time) bool {
	return MonthKeyOf(t) == k
}

func (k MonthKey) String() string { return string(k) }
