package aggregate_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/catalog"
	"github.com/Tiliavir/rileva/internal/holiday"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/timecalc"
)

func seededCalendar(t *testing.T, year int) *holiday.Calendar {
	t.Helper()
	cal, err := holiday.New(nil)
	require.NoError(t, err)
	_, err = cal.Seed(year, year)
	require.NoError(t, err)
	return cal
}

func day(s string) time.Time {
	d, err := timecalc.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func entry(date string, tasks ...model.Task) model.DayEntry {
	e := model.DayEntry{Date: day(date)}
	e.SetTasks(tasks)
	return e
}

// fullMonth returns one 8h "D" entry for every weekday of the month.
func fullMonth(year int, month time.Month) []model.DayEntry {
	var entries []model.DayEntry
	for _, d := range timecalc.MonthDays(year, month) {
		if timecalc.IsWeekend(d) {
			continue
		}
		entries = append(entries, entry(timecalc.ISODate(d), model.Task{Code: "D", Hours: 8}))
	}
	return entries
}

func input(t *testing.T, month model.MonthKey, entries []model.DayEntry) aggregate.Input {
	cat := catalog.Default()
	return aggregate.Input{
		Month:        month,
		Entries:      entries,
		Activities:   cat.Activities,
		Extracts:     cat.Extracts,
		Calendar:     seededCalendar(t, month.Year()),
		OvertimeCode: cat.OvertimeCode,
	}
}

func TestNovember2025FullMonth(t *testing.T) {
	entries := fullMonth(2025, time.November)
	require.Len(t, entries, 20)

	s := aggregate.Compute(input(t, "2025-11", entries))

	assert.Equal(t, 20, s.TotalWorkDays, "Ognissanti falls on a Saturday")
	assert.Equal(t, 20, s.TotalDeclaredDays)
	assert.Equal(t, 160.0, s.TotalDeclaredHours)
	assert.Equal(t, 0, s.Quadrature)
	assert.Equal(t, aggregate.QuadratureBalanced, s.QuadratureStatus())
	assert.True(t, s.IsMonthFullyFilled)
	assert.Equal(t, 20.0, s.ActivityTotals["D"])
	assert.Equal(t, 0.0, s.ActivityTotals["F"])
	assert.True(t, s.Validation.IsValid)
	assert.NoError(t, s.ExportReady())
}

func TestTotalWorkDaysExcludesHolidays(t *testing.T) {
	s := aggregate.Compute(input(t, "2025-12", nil))
	// 23 weekdays in December 2025 minus 08, 25 and 26.
	assert.Equal(t, 20, s.TotalWorkDays)
	assert.Equal(t, 20, s.Quadrature)
	assert.Equal(t, aggregate.QuadraturePositive, s.QuadratureStatus())
	assert.False(t, s.IsMonthFullyFilled)

	var verr *aggregate.ValidationError
	require.ErrorAs(t, s.ExportReady(), &verr)
	assert.Equal(t, 3, verr.Holidays)
	assert.Equal(t, 0, s.TotalDeclaredDays)
}

func TestTotalWorkDaysMatchesCalendar(t *testing.T) {
	cal := seededCalendar(t, 2026)
	for m := time.January; m <= time.December; m++ {
		key := model.MonthKeyFor(2026, m)
		want := 0
		for _, d := range timecalc.MonthDays(2026, m) {
			if !timecalc.IsWeekend(d) && !cal.IsHoliday(timecalc.ISODate(d)) {
				want++
			}
		}
		s := aggregate.Compute(aggregate.Input{Month: key, Calendar: cal})
		assert.Equal(t, want, s.TotalWorkDays, "month %s", key)
	}
}

func TestTotalDeclaredDaysCountsDistinctDates(t *testing.T) {
	entries := []model.DayEntry{
		entry("2025-11-03", model.Task{Code: "D", Hours: 4}, model.Task{Code: "AA", Hours: 4}),
		entry("2025-11-03", model.Task{Code: "F", Hours: 0}),
		entry("2025-11-04", model.Task{Code: "D", Hours: 8}),
	}
	s := aggregate.Compute(input(t, "2025-11", entries))
	assert.Equal(t, 2, s.TotalDeclaredDays)
	assert.Equal(t, 18, s.Quadrature)
}

func TestExceededDay(t *testing.T) {
	entries := []model.DayEntry{
		entry("2025-11-03", model.Task{Code: "D", Hours: 4}, model.Task{Code: "ST", Hours: 5}),
	}
	s := aggregate.Compute(input(t, "2025-11", entries))

	assert.Equal(t, 9.0, s.DailyHours["2025-11-03"])
	assert.True(t, s.HasExceededDailyLimit)
	assert.False(t, s.Validation.IsValid)
	require.Len(t, s.Validation.ExceededDays, 1)
	assert.Equal(t, aggregate.ExceededDay{Date: "2025-11-03", Hours: 9}, s.Validation.ExceededDays[0])
	assert.Empty(t, s.Validation.InvalidDays, "each task on its own is valid")
	assert.Equal(t, 5.0, s.Overtime)
}

func TestValidationRules(t *testing.T) {
	tests := []struct {
		name  string
		entry model.DayEntry
		valid bool
	}{
		{"ok", entry("2025-11-03", model.Task{Code: "D", Hours: 8}), true},
		{"zero hours is allowed", entry("2025-11-03", model.Task{Code: "D", Hours: 0}), true},
		{"blank code", entry("2025-11-03", model.Task{Code: "  ", Hours: 8}), false},
		{"negative hours", entry("2025-11-03", model.Task{Code: "D", Hours: -1}), false},
		{"above eight", entry("2025-11-03", model.Task{Code: "D", Hours: 8.5}), false},
		{"nan hours", entry("2025-11-03", model.Task{Code: "D", Hours: math.NaN()}), false},
		{"legacy entry", model.DayEntry{Date: day("2025-11-03"), Code: "D", Hours: 8}, true},
		{"legacy without code", model.DayEntry{Date: day("2025-11-03"), Hours: 8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []model.DayEntry{tt.entry}
			v := aggregate.Validate(entries, aggregate.DailyHours(entries))
			assert.Equal(t, tt.valid, len(v.InvalidDays) == 0)
		})
	}
}

func TestInvalidDayDetails(t *testing.T) {
	entries := []model.DayEntry{
		entry("2025-11-03", model.Task{Code: "D", Hours: 4}, model.Task{Code: "", Activity: "review", Hours: 4}),
	}
	v := aggregate.Validate(entries, aggregate.DailyHours(entries))
	require.Len(t, v.InvalidDays, 1)
	assert.Equal(t, "2025-11-03", v.InvalidDays[0].Date)
	assert.Equal(t, 0, v.InvalidDays[0].Index)
	assert.Equal(t, []aggregate.InvalidTask{{Code: "", Activity: "review", Hours: 4}}, v.InvalidDays[0].Tasks)
}

func TestIsMonthFullyFilledRequiresExactlyEight(t *testing.T) {
	for _, hours := range []float64{7.5, 8.5, 0} {
		entries := fullMonth(2025, time.November)
		entries[3].SetTasks([]model.Task{{Code: "D", Hours: hours}})
		s := aggregate.Compute(input(t, "2025-11", entries))
		assert.False(t, s.IsMonthFullyFilled, "hours=%v", hours)
		assert.Error(t, s.ExportReady())
	}
}

func TestIsMonthFullyFilledSplitTasks(t *testing.T) {
	entries := fullMonth(2025, time.November)
	entries[0].SetTasks([]model.Task{{Code: "D", Hours: 5.5}, {Code: "AA", Hours: 2.5}})
	s := aggregate.Compute(input(t, "2025-11", entries))
	assert.True(t, s.IsMonthFullyFilled)
	assert.Equal(t, 19.6875, s.ActivityTotals["D"])
	assert.Equal(t, 0.3125, s.ActivityTotals["AA"])
}

func TestLegacyEntryWithEmptyTasksIsCounted(t *testing.T) {
	entries := []model.DayEntry{
		{Date: day("2025-11-03"), Code: "F", Hours: 8, Extract: "ESA3582021", Tasks: []model.Task{}},
	}
	s := aggregate.Compute(input(t, "2025-11", entries))
	assert.Equal(t, 8.0, s.DailyHours["2025-11-03"])
	assert.Equal(t, 8.0, s.TotalDeclaredHours)
	assert.Equal(t, 1.0, s.ActivityTotals["F"])
	assert.Equal(t, 8.0, s.ExtractTotals["ESA3582021"])
}

func TestPrefilledEntriesCount(t *testing.T) {
	e := entry("2025-11-03", model.Task{Code: "D", Hours: 8})
	e.Prefilled = true
	s := aggregate.Compute(input(t, "2025-11", []model.DayEntry{e}))
	assert.Equal(t, 8.0, s.TotalDeclaredHours)
	assert.Equal(t, 1, s.TotalDeclaredDays)
}

func TestExtractTotalsAcrossTasks(t *testing.T) {
	entries := []model.DayEntry{
		entry("2025-11-03",
			model.Task{Code: "D", Extract: "ESA3582021", Hours: 3},
			model.Task{Code: "D", Extract: "BD0002022S", Hours: 5},
		),
		entry("2025-11-04", model.Task{Code: "D", Extract: "ESA3582021", Hours: 8}),
		entry("2025-11-05", model.Task{Code: "D", Extract: "UNKNOWN", Hours: 8}),
	}
	s := aggregate.Compute(input(t, "2025-11", entries))
	assert.Equal(t, 11.0, s.ExtractTotals["ESA3582021"], "derived legacy extract is not double counted")
	assert.Equal(t, 5.0, s.ExtractTotals["BD0002022S"])
	assert.Equal(t, 0.0, s.ExtractTotals["ESA9992024S"])
	_, known := s.ExtractTotals["UNKNOWN"]
	assert.False(t, known, "only catalog extracts are reported")
}

func TestFractionalHoursAreNotTruncated(t *testing.T) {
	entries := []model.DayEntry{
		entry("2025-11-03", model.Task{Code: "D", Hours: 0.125}),
		entry("2025-11-04", model.Task{Code: "D", Hours: 7.333}),
	}
	s := aggregate.Compute(input(t, "2025-11", entries))
	assert.InDelta(t, 7.458, s.TotalDeclaredHours, 1e-9)
	assert.InDelta(t, 7.458/8, s.ActivityTotals["D"], 1e-9)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	entries := fullMonth(2025, time.November)
	before := model.CloneEntries(entries)
	aggregate.Compute(input(t, "2025-11", entries))
	assert.True(t, model.EntriesEqual(before, entries))
}

func TestValidationErrorMessage(t *testing.T) {
	entries := []model.DayEntry{
		entry("2025-11-03", model.Task{Code: "D", Hours: 4}, model.Task{Code: "ST", Hours: 5}),
	}
	err := aggregate.Compute(input(t, "2025-11", entries)).ExportReady()

	var verr *aggregate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, verr.MonthFullyFilled)
	assert.Equal(t, 20, verr.TotalWorkDays)
	assert.Equal(t, 0, verr.Holidays, "Ognissanti 2025 is a Saturday")
	assert.Contains(t, err.Error(), "1 days over 8 hours")
	assert.Contains(t, err.Error(), "month not fully filled")
}
