package aggregate

import (
	"fmt"
	"strings"

	"github.com/Tiliavir/rileva/internal/timecalc"
)

// ValidationError blocks an export. It carries everything a caller needs to
// tell the user which entries to fix.
type ValidationError struct {
	Validation        Validation
	MonthFullyFilled  bool
	TotalWorkDays     int
	TotalDeclaredDays int
	// Holidays counts the weekdays of the month that are not workdays.
	Holidays int
}

func (e *ValidationError) Error() string {
	var parts []string
	if n := len(e.Validation.InvalidDays); n > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid days", n))
	}
	if n := len(e.Validation.ExceededDays); n > 0 {
		parts = append(parts, fmt.Sprintf("%d days over %g hours", n, DailyLimit))
	}
	if !e.MonthFullyFilled {
		parts = append(parts, fmt.Sprintf("month not fully filled (%d workdays, %d declared)", e.TotalWorkDays, e.TotalDeclaredDays))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ExportReady returns a *ValidationError when the month cannot be exported.
func (s Summary) ExportReady() error {
	if s.Validation.IsValid && !s.HasExceededDailyLimit && s.IsMonthFullyFilled {
		return nil
	}
	return &ValidationError{
		Validation:        s.Validation,
		MonthFullyFilled:  s.IsMonthFullyFilled,
		TotalWorkDays:     s.TotalWorkDays,
		TotalDeclaredDays: s.TotalDeclaredDays,
		Holidays:          weekdayHolidays(s),
	}
}

func weekdayHolidays(s Summary) int {
	if !s.Month.Valid() {
		return 0
	}
	weekdays := 0
	for _, d := range timecalc.MonthDays(s.Month.Year(), s.Month.Month()) {
		if !timecalc.IsWeekend(d) {
			weekdays++
		}
	}
	if n := weekdays - s.TotalWorkDays; n > 0 {
		return n
	}
	return 0
}
