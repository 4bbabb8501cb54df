package aggregate_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/model"
)

func TestMemoReusesSummaryForSameInput(t *testing.T) {
	memo, err := aggregate.NewMemo(4)
	require.NoError(t, err)

	in := input(t, "2025-11", fullMonth(2025, time.November))
	first := memo.Compute(in)
	second := memo.Compute(in)

	assert.Equal(t, 1, memo.Len())
	assert.Equal(t, first, second)
}

func TestMemoMissesAfterEntryChange(t *testing.T) {
	memo, err := aggregate.NewMemo(4)
	require.NoError(t, err)

	entries := fullMonth(2025, time.November)
	in := input(t, "2025-11", entries)
	before := memo.Compute(in)
	require.True(t, before.IsMonthFullyFilled)

	changed := model.CloneEntries(entries)
	changed[0].SetTasks([]model.Task{{Code: "D", Hours: 7}})
	in.Entries = changed
	after := memo.Compute(in)

	assert.Equal(t, 2, memo.Len())
	assert.False(t, after.IsMonthFullyFilled)
}

func TestMemoMissesAfterHolidayChange(t *testing.T) {
	memo, err := aggregate.NewMemo(4)
	require.NoError(t, err)

	in := input(t, "2025-11", nil)
	cal := seededCalendar(t, 2025)
	in.Calendar = cal
	assert.Equal(t, 20, memo.Compute(in).TotalWorkDays)

	_, err = cal.AddHoliday("2025-11-03", "chiusura")
	require.NoError(t, err)
	assert.Equal(t, 19, memo.Compute(in).TotalWorkDays)
}

func TestMemoReturnsIndependentCopies(t *testing.T) {
	memo, err := aggregate.NewMemo(4)
	require.NoError(t, err)

	in := input(t, "2025-11", fullMonth(2025, time.November))
	s := memo.Compute(in)
	s.ActivityTotals["D"] = -1
	s.WorkDates[0] = "tampered"

	again := memo.Compute(in)
	assert.Equal(t, 20.0, again.ActivityTotals["D"])
	assert.Equal(t, "2025-11-03", again.WorkDates[0])
}

func TestMemoCopiesInvalidTasks(t *testing.T) {
	memo, err := aggregate.NewMemo(4)
	require.NoError(t, err)

	in := input(t, "2025-11", []model.DayEntry{entry("2025-11-03", model.Task{Code: "", Hours: 4})})
	first := memo.Compute(in)
	second := memo.Compute(in)
	require.Len(t, second.Validation.InvalidDays, 1)
	second.Validation.InvalidDays[0].Tasks[0].Code = "EDITED"

	third := memo.Compute(in)
	assert.Equal(t, "", third.Validation.InvalidDays[0].Tasks[0].Code, "cached summary is unchanged")
	assert.Equal(t, "", first.Validation.InvalidDays[0].Tasks[0].Code, "earlier results are unchanged")
}

func TestMemoDisabled(t *testing.T) {
	memo, err := aggregate.NewMemo(0)
	require.NoError(t, err)

	s := memo.Compute(input(t, "2025-11", fullMonth(2025, time.November)))
	assert.Equal(t, 20, s.TotalDeclaredDays)
	assert.Equal(t, 0, memo.Len())

	var nilMemo *aggregate.Memo
	assert.Equal(t, 20, nilMemo.Compute(input(t, "2025-11", nil)).TotalWorkDays)
}

func TestInputHashStable(t *testing.T) {
	in := input(t, "2025-11", fullMonth(2025, time.November))
	a := aggregate.InputHash(in)
	assert.Equal(t, a, aggregate.InputHash(in))

	in.Month = "2025-12"
	assert.NotEqual(t, a, aggregate.InputHash(in))
}

func TestInputHashSeparatesFields(t *testing.T) {
	a := input(t, "2025-11", []model.DayEntry{entry("2025-11-03", model.Task{Code: "D", Activity: "AA", Hours: 8})})
	b := input(t, "2025-11", []model.DayEntry{entry("2025-11-03", model.Task{Code: "DA", Activity: "A", Hours: 8})})
	assert.NotEqual(t, aggregate.InputHash(a), aggregate.InputHash(b))
}

func TestMemoCachesNonFiniteHours(t *testing.T) {
	memo, err := aggregate.NewMemo(4)
	require.NoError(t, err)

	in := input(t, "2025-11", []model.DayEntry{entry("2025-11-03", model.Task{Code: "D", Hours: math.NaN()})})
	first := memo.Compute(in)
	assert.Equal(t, 1, memo.Len(), "NaN hours still produce a cache key")
	assert.False(t, first.Validation.IsValid)

	again := memo.Compute(in)
	assert.Equal(t, 1, memo.Len())
	assert.Equal(t, aggregate.InputHash(in), aggregate.InputHash(in))
	assert.False(t, again.Validation.IsValid)
}
