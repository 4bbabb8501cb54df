// Package holiday owns the set of non-working dates and answers whether a
// date is a workday.
package holiday

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/timecalc"
)

// Status is the outcome of AddHoliday. Rejections are not errors.
type Status string

const (
	StatusSaved          Status = "saved"
	StatusIgnoredWeekend Status = "ignored-weekend"
	StatusExists         Status = "exists"
)

// AddResult reports what AddHoliday did. Holiday is set only when saved.
type AddResult struct {
	Status  Status
	Holiday model.Holiday
}

// Store persists the holiday set, keyed by month.
type Store interface {
	LoadHolidays() (map[model.MonthKey][]model.Holiday, error)
	SaveHolidays(map[model.MonthKey][]model.Holiday) error
}

type fixedHoliday struct {
	monthDay string
	reason   string
}

var italianHolidays = []fixedHoliday{
	{"01-01", "Capodanno"},
	{"01-06", "Epifania"},
	{"04-25", "Festa della Liberazione"},
	{"05-01", "Festa del Lavoro"},
	{"06-02", "Festa della Repubblica"},
	{"08-15", "Ferragosto"},
	{"11-01", "Ognissanti"},
	{"12-08", "Immacolata Concezione"},
	{"12-25", "Natale"},
	{"12-26", "Santo Stefano"},
}

const easterMondayReason = "Lunedì dell'Angelo (Pasquetta)"

// DefaultCompanyReason labels holidays added without a reason by the CLI.
const DefaultCompanyReason = "Festività aziendale"

// Calendar is the holiday authority. It is safe for concurrent use.
type Calendar struct {
	mu    sync.RWMutex
	store Store
	state map[model.MonthKey][]model.Holiday
}

// New loads the holiday set from store. A nil store keeps holidays in memory.
func New(store Store) (*Calendar, error) {
	c := &Calendar{store: store, state: map[model.MonthKey][]model.Holiday{}}
	if store == nil {
		return c, nil
	}
	state, err := store.LoadHolidays()
	if err != nil {
		return nil, fmt.Errorf("loading holidays: %w", err)
	}
	if state != nil {
		c.state = state
	}
	return c, nil
}

// Seed adds the fixed Italian public holidays and Easter Monday for every
// year in [fromYear, toYear]. Dates already present and weekend dates are
// skipped, so seeding twice changes nothing. It returns how many were added.
func (c *Calendar) Seed(fromYear, toYear int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for year := fromYear; year <= toYear; year++ {
		for _, fh := range italianHolidays {
			dateISO := fmt.Sprintf("%04d-%s", year, fh.monthDay)
			if c.insertLocked(model.Holiday{ID: newID(dateISO), Date: dateISO, Reason: fh.reason}) {
				added++
			}
		}
		em := timecalc.ISODate(EasterMonday(year))
		if c.insertLocked(model.Holiday{ID: fmt.Sprintf("easter-monday-%d", year), Date: em, Reason: easterMondayReason}) {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, c.persistLocked()
}

// insertLocked adds h unless it falls on a weekend or its date exists.
func (c *Calendar) insertLocked(h model.Holiday) bool {
	day, err := timecalc.ParseDay(h.Date)
	if err != nil || timecalc.IsWeekend(day) {
		return false
	}
	key := model.MonthKeyOf(day)
	for _, existing := range c.state[key] {
		if existing.Date == h.Date {
			return false
		}
	}
	c.state[key] = append(c.state[key], h)
	return true
}

// IsWorkday reports whether t is neither a weekend day nor a recorded holiday.
func (c *Calendar) IsWorkday(t time.Time) bool {
	if timecalc.IsWeekend(t) {
		return false
	}
	return !c.IsHoliday(timecalc.ISODate(t))
}

// IsHoliday reports whether a holiday is recorded for dateISO.
func (c *Calendar) IsHoliday(dateISO string) bool {
	day, err := timecalc.ParseDay(dateISO)
	if err != nil {
		return false
	}
	dateISO = timecalc.ISODate(day)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.state[model.MonthKeyOf(day)] {
		if h.Date == dateISO {
			return true
		}
	}
	return false
}

// HolidaysForMonth returns the month's holidays sorted by date.
func (c *Calendar) HolidaysForMonth(year int, month time.Month) []model.Holiday {
	c.mu.RLock()
	list := append([]model.Holiday(nil), c.state[model.MonthKeyFor(year, month)]...)
	c.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	return list
}

// AddHoliday records a holiday. Empty, malformed and weekend dates are
// reported as StatusIgnoredWeekend, duplicates as StatusExists. The error is
// non-nil only when persisting fails.
func (c *Calendar) AddHoliday(dateISO, reason string) (AddResult, error) {
	if dateISO == "" {
		return AddResult{Status: StatusIgnoredWeekend}, nil
	}
	day, err := timecalc.ParseDay(dateISO)
	if err != nil || timecalc.IsWeekend(day) {
		return AddResult{Status: StatusIgnoredWeekend}, nil
	}
	dateISO = timecalc.ISODate(day)

	c.mu.Lock()
	defer c.mu.Unlock()

	h := model.Holiday{ID: newID(dateISO), Date: dateISO, Reason: reason}
	if !c.insertLocked(h) {
		return AddResult{Status: StatusExists}, nil
	}
	if err := c.persistLocked(); err != nil {
		return AddResult{}, err
	}
	return AddResult{Status: StatusSaved, Holiday: h}, nil
}

// RemoveHolidayByDate deletes the holiday on dateISO. It reports whether a
// record was removed.
func (c *Calendar) RemoveHolidayByDate(dateISO string) (bool, error) {
	day, err := timecalc.ParseDay(dateISO)
	if err != nil {
		return false, nil
	}
	dateISO = timecalc.ISODate(day)
	key := model.MonthKeyOf(day)

	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.state[key]
	next := make([]model.Holiday, 0, len(list))
	for _, h := range list {
		if h.Date != dateISO {
			next = append(next, h)
		}
	}
	if len(next) == len(list) {
		return false, nil
	}
	c.state[key] = next
	return true, c.persistLocked()
}

// CompanyClosures records the usual company closure days of year.
func (c *Calendar) CompanyClosures(year int) ([]AddResult, error) {
	closures := []fixedHoliday{
		{"08-15", "Chiusura azienda - Ferragosto"},
		{"08-16", "Chiusura azienda"},
		{"12-24", "Chiusura azienda (mezza giornata)"},
	}
	results := make([]AddResult, 0, len(closures))
	for _, cl := range closures {
		res, err := c.AddHoliday(fmt.Sprintf("%04d-%s", year, cl.monthDay), cl.reason)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// IsItalianHoliday reports whether dateISO is a national public holiday,
// regardless of what is recorded in the calendar.
func IsItalianHoliday(dateISO string) bool {
	day, err := timecalc.ParseDay(dateISO)
	if err != nil {
		return false
	}
	monthDay := day.Format("01-02")
	for _, fh := range italianHolidays {
		if fh.monthDay == monthDay {
			return true
		}
	}
	return timecalc.SameDay(day, EasterMonday(day.Year()))
}

func (c *Calendar) persistLocked() error {
	if c.store == nil {
		return nil
	}
	snapshot := make(map[model.MonthKey][]model.Holiday, len(c.state))
	for k, v := range c.state {
		snapshot[k] = append([]model.Holiday(nil), v...)
	}
	if err := c.store.SaveHolidays(snapshot); err != nil {
		return fmt.Errorf("saving holidays: %w", err)
	}
	return nil
}

func newID(dateISO string) string {
	return fmt.Sprintf("h-%s-%s", dateISO, uuid.NewString()[:8])
}
