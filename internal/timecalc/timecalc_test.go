package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/rileva/internal/timecalc"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2025, time.April, 30},
		{2025, time.November, 30},
		{2025, time.December, 31},
	}
	for _, tt := range tests {
		got := timecalc.DaysInMonth(tt.year, tt.month)
		if got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestMonthDays(t *testing.T) {
	days := timecalc.MonthDays(2025, time.November)
	if len(days) != 30 {
		t.Fatalf("MonthDays len = %d, want 30", len(days))
	}
	if timecalc.ISODate(days[0]) != "2025-11-01" {
		t.Errorf("first day = %s, want 2025-11-01", timecalc.ISODate(days[0]))
	}
	if timecalc.ISODate(days[29]) != "2025-11-30" {
		t.Errorf("last day = %s, want 2025-11-30", timecalc.ISODate(days[29]))
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-11-01", true},  // Saturday
		{"2025-11-02", true},  // Sunday
		{"2025-11-03", false}, // Monday
		{"2025-11-07", false}, // Friday
	}
	for _, tt := range tests {
		d, err := timecalc.ParseDay(tt.date)
		if err != nil {
			t.Fatalf("ParseDay(%q): %v", tt.date, err)
		}
		if got := timecalc.IsWeekend(d); got != tt.want {
			t.Errorf("IsWeekend(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestParseDay(t *testing.T) {
	d, err := timecalc.ParseDay("2025-11-03")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if !d.Equal(timecalc.Day(2025, time.November, 3)) {
		t.Errorf("ParseDay = %v, want 2025-11-03 UTC", d)
	}

	// Legacy timestamps are reduced to a calendar day.
	legacy, err := timecalc.ParseDay("2025-11-03T12:00:00.000Z")
	if err != nil {
		t.Fatalf("ParseDay legacy: %v", err)
	}
	if legacy.Hour() != 0 || legacy.Minute() != 0 {
		t.Errorf("ParseDay legacy not truncated: %v", legacy)
	}

	if _, err := timecalc.ParseDay("03/11/2025"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestParseDayIgnoresHostZone(t *testing.T) {
	saved := time.Local
	t.Cleanup(func() { time.Local = saved })

	tests := []struct {
		input string
		want  string
	}{
		{"2025-11-02T23:00:00Z", "2025-11-03"},     // midnight CET
		{"2025-10-31T23:00:00.000Z", "2025-11-01"}, // first of the month as sent by a browser in Rome
		{"2025-06-30T22:00:00Z", "2025-07-01"},     // midnight CEST
		{"2025-11-02T22:59:59Z", "2025-11-02"},
		{"2025-11-03T08:00:00+01:00", "2025-11-03"},
	}
	for _, zone := range []*time.Location{time.UTC, time.FixedZone("UTC-8", -8*3600)} {
		time.Local = zone
		for _, tt := range tests {
			d, err := timecalc.ParseDay(tt.input)
			if err != nil {
				t.Fatalf("ParseDay(%q): %v", tt.input, err)
			}
			if got := timecalc.ISODate(d); got != tt.want {
				t.Errorf("local=%s ParseDay(%q) = %s, want %s", zone, tt.input, got, tt.want)
			}
			if d.Location() != time.UTC || d.Hour() != 0 {
				t.Errorf("ParseDay(%q) = %v, want UTC midnight", tt.input, d)
			}
		}
	}
}

func TestItalianMonthYear(t *testing.T) {
	if got := timecalc.ItalianMonthYear(2025, time.November); got != "NOVEMBRE 2025" {
		t.Errorf("ItalianMonthYear = %q, want %q", got, "NOVEMBRE 2025")
	}
	if got := timecalc.ItalianMonthYear(2026, time.January); got != "GENNAIO 2026" {
		t.Errorf("ItalianMonthYear = %q, want %q", got, "GENNAIO 2026")
	}
}

func TestFormatExcelDate(t *testing.T) {
	got := timecalc.FormatExcelDate(timecalc.Day(2025, time.March, 7))
	if got != "07/03/2025" {
		t.Errorf("FormatExcelDate = %q, want %q", got, "07/03/2025")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}
