package timecalc

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// ISOLayout is the calendar-date layout used for every persisted date.
const ISOLayout = "2006-01-02"

// ReportZone is the zone whose calendar day a full timestamp is reduced to.
// The reports are Italian and the stored timestamps were written there, so
// the day does not depend on the host's time zone.
var ReportZone = mustLoadZone("Europe/Rome")

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

var italianMonths = [...]string{
	"GENNAIO", "FEBBRAIO", "MARZO", "APRILE", "MAGGIO", "GIUGNO",
	"LUGLIO", "AGOSTO", "SETTEMBRE", "OTTOBRE", "NOVEMBRE", "DICEMBRE",
}

// Day returns the calendar date y-m-d at midnight UTC. All day-granularity
// values in rileva are normalised this way so equality is by calendar day.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfDay truncates t to its calendar day, normalised to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ISODate formats t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(ISOLayout)
}

// ParseDay parses a persisted date. Plain YYYY-MM-DD is preferred; full
// RFC 3339 timestamps written by older versions are accepted and reduced to
// their calendar day in ReportZone, so 2025-11-02T23:00:00Z is November 3.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(ISOLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return StartOfDay(t.In(ReportZone)), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// IsWeekend reports whether t is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDays returns every calendar date of the month in ascending order.
func MonthDays(year int, month time.Month) []time.Time {
	n := DaysInMonth(year, month)
	days := make([]time.Time, 0, n)
	for d := 1; d <= n; d++ {
		days = append(days, Day(year, month, d))
	}
	return days
}

// ItalianMonthYear returns a label like "NOVEMBRE 2025".
func ItalianMonthYear(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", italianMonths[month-1], year)
}

// FormatExcelDate formats t as DD/MM/YYYY for the report detail rows.
func FormatExcelDate(t time.Time) string {
	return t.Format("02/01/2006")
}
