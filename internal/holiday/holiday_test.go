package holiday_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/rileva/internal/holiday"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/timecalc"
)

type memStore struct {
	state map[model.MonthKey][]model.Holiday
	saves int
	err   error
}

func (m *memStore) LoadHolidays() (map[model.MonthKey][]model.Holiday, error) {
	return m.state, nil
}

func (m *memStore) SaveHolidays(s map[model.MonthKey][]model.Holiday) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.state = s
	return nil
}

func TestEaster(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2019, "2019-04-21"},
		{2020, "2020-04-12"},
		{2024, "2024-03-31"},
		{2025, "2025-04-20"},
		{2026, "2026-04-05"},
		{2038, "2038-04-25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, timecalc.ISODate(holiday.Easter(tt.year)), "Easter(%d)", tt.year)
	}
	assert.Equal(t, "2025-04-21", timecalc.ISODate(holiday.EasterMonday(2025)))
}

func TestSeedIsIdempotent(t *testing.T) {
	store := &memStore{}
	cal, err := holiday.New(store)
	require.NoError(t, err)

	added, err := cal.Seed(2025, 2025)
	require.NoError(t, err)
	assert.Positive(t, added)
	assert.Equal(t, 1, store.saves)

	again, err := cal.Seed(2025, 2025)
	require.NoError(t, err)
	assert.Zero(t, again)
	assert.Equal(t, 1, store.saves, "nothing new means no write")

	// 2025-11-01 (Ognissanti) is a Saturday and must not be stored.
	assert.Empty(t, cal.HolidaysForMonth(2025, time.November))
	dec := cal.HolidaysForMonth(2025, time.December)
	require.Len(t, dec, 3)
	assert.Equal(t, "2025-12-08", dec[0].Date)
	assert.Equal(t, "2025-12-25", dec[1].Date)
	assert.Equal(t, "2025-12-26", dec[2].Date)

	apr := cal.HolidaysForMonth(2025, time.April)
	dates := []string{}
	for _, h := range apr {
		dates = append(dates, h.Date)
	}
	assert.Equal(t, []string{"2025-04-21", "2025-04-25"}, dates)
}

func TestSeedKeepsUserHoliday(t *testing.T) {
	store := &memStore{state: map[model.MonthKey][]model.Holiday{
		"2025-12": {{ID: "mine", Date: "2025-12-08", Reason: "custom"}},
	}}
	cal, err := holiday.New(store)
	require.NoError(t, err)

	_, err = cal.Seed(2025, 2025)
	require.NoError(t, err)

	dec := cal.HolidaysForMonth(2025, time.December)
	require.Len(t, dec, 3)
	assert.Equal(t, "mine", dec[0].ID)
}

func TestIsWorkday(t *testing.T) {
	cal, err := holiday.New(nil)
	require.NoError(t, err)
	_, err = cal.Seed(2025, 2025)
	require.NoError(t, err)

	assert.True(t, cal.IsWorkday(timecalc.Day(2025, time.December, 9)))
	assert.False(t, cal.IsWorkday(timecalc.Day(2025, time.December, 8)), "Immacolata")
	assert.False(t, cal.IsWorkday(timecalc.Day(2025, time.December, 6)), "Saturday")
	assert.False(t, cal.IsWorkday(timecalc.Day(2025, time.December, 7)), "Sunday")
}

func TestAddHoliday(t *testing.T) {
	store := &memStore{}
	cal, err := holiday.New(store)
	require.NoError(t, err)

	res, err := cal.AddHoliday("2025-11-08", "sabato")
	require.NoError(t, err)
	assert.Equal(t, holiday.StatusIgnoredWeekend, res.Status)
	assert.Empty(t, cal.HolidaysForMonth(2025, time.November))

	res, err = cal.AddHoliday("", "empty")
	require.NoError(t, err)
	assert.Equal(t, holiday.StatusIgnoredWeekend, res.Status)

	res, err = cal.AddHoliday("2025-11-10", "patrono")
	require.NoError(t, err)
	assert.Equal(t, holiday.StatusSaved, res.Status)
	assert.Equal(t, "2025-11-10", res.Holiday.Date)
	assert.Contains(t, res.Holiday.ID, "h-2025-11-10-")

	res, err = cal.AddHoliday("2025-11-10", "again")
	require.NoError(t, err)
	assert.Equal(t, holiday.StatusExists, res.Status)
	assert.Len(t, cal.HolidaysForMonth(2025, time.November), 1)
	assert.Equal(t, 1, store.saves)
	assert.False(t, cal.IsWorkday(timecalc.Day(2025, time.November, 10)))
}

func TestAddHolidayPersistFailure(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	cal, err := holiday.New(store)
	require.NoError(t, err)

	_, err = cal.AddHoliday("2025-11-10", "")
	assert.ErrorContains(t, err, "disk full")
}

func TestRemoveHolidayByDate(t *testing.T) {
	cal, err := holiday.New(nil)
	require.NoError(t, err)
	_, err = cal.AddHoliday("2025-11-10", "")
	require.NoError(t, err)

	removed, err := cal.RemoveHolidayByDate("2025-11-10")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = cal.RemoveHolidayByDate("2025-11-10")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.True(t, cal.IsWorkday(timecalc.Day(2025, time.November, 10)))
}

func TestCompanyClosures(t *testing.T) {
	cal, err := holiday.New(nil)
	require.NoError(t, err)
	_, err = cal.Seed(2025, 2025)
	require.NoError(t, err)

	results, err := cal.CompanyClosures(2025)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, holiday.StatusExists, results[0].Status, "Ferragosto already seeded")
	assert.Equal(t, holiday.StatusIgnoredWeekend, results[1].Status, "2025-08-16 is a Saturday")
	assert.Equal(t, holiday.StatusSaved, results[2].Status)
}

func TestIsItalianHoliday(t *testing.T) {
	assert.True(t, holiday.IsItalianHoliday("2025-12-25"))
	assert.True(t, holiday.IsItalianHoliday("2025-04-21"))
	assert.False(t, holiday.IsItalianHoliday("2025-04-22"))
	assert.False(t, holiday.IsItalianHoliday("garbage"))
}
