// Package report is the application layer: it loads a month, edits its
// entries and extracts, computes the summary and runs the export.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/catalog"
	"github.com/Tiliavir/rileva/internal/holiday"
	"github.com/Tiliavir/rileva/internal/log"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/storage"
	"github.com/Tiliavir/rileva/internal/timecalc"
	"github.com/Tiliavir/rileva/internal/workbook"
)

var (
	// ErrIndexOutOfRange is returned for an entry index the month does not have.
	ErrIndexOutOfRange = errors.New("entry index out of range")
	// ErrDateOutsideMonth is returned when an entry's date is not in its month.
	ErrDateOutsideMonth = errors.New("date outside the selected month")
	// ErrInvalidExtract is returned when an extract lacks an id or a code.
	ErrInvalidExtract = errors.New("extract id and code are required")
	// ErrMultiTask is returned when a single-task edit targets a split entry.
	ErrMultiTask = errors.New("entry has several tasks")
	// ErrUnknownField is returned by UpdateEntry for an unsupported field.
	ErrUnknownField = errors.New("unknown entry field")
	// ErrNotFound is returned when a history record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidMonth is returned for a malformed month key.
	ErrInvalidMonth = errors.New("invalid month (want YYYY-MM)")
	// ErrInvalidValue is returned when an edited field does not parse.
	ErrInvalidValue = errors.New("invalid value")
)

// Gateway is the persistence the service depends on.
type Gateway interface {
	MonthlyData(model.MonthKey) ([]model.DayEntry, error)
	SaveMonthlyData(model.MonthKey, []model.DayEntry) (bool, error)
	ClearMonthlyData(model.MonthKey) error
	Extracts() ([]model.Extract, error)
	SaveExtracts([]model.Extract) error
	EmployeeName() (string, error)
	SaveEmployeeName(string) error
	AdminEmail() (string, error)
	SaveAdminEmail(string) error
	CurrentMonthKey() (model.MonthKey, error)
	SaveCurrentMonthKey(model.MonthKey) error
	SaveExportHistory(model.ExportRecord) error
	ExportHistory() ([]model.ExportRecord, error)
}

// Exporter turns a snapshot into a workbook.
type Exporter interface {
	Export(ctx context.Context, s workbook.Snapshot) (workbook.Result, error)
}

type subscriber interface {
	Subscribe(func(storage.Change)) func()
}

// Options configures a Service. Zero values select the defaults.
type Options struct {
	Catalog      *catalog.Catalog
	Memo         *aggregate.Memo
	Logger       log.Logger
	DefaultName  string
	DefaultAdmin string
	Now          func() time.Time
}

// Service is safe for concurrent use. Exports are serialized.
type Service struct {
	store    Gateway
	cal      *holiday.Calendar
	exporter Exporter
	cat      catalog.Catalog
	memo     *aggregate.Memo
	logger   log.Logger

	defaultName  string
	defaultAdmin string
	now          func() time.Time

	exportMu    sync.Mutex
	unsubscribe func()
}

// New wires a service. exporter may be nil when exports are not needed.
func New(store Gateway, cal *holiday.Calendar, exporter Exporter, opts Options) *Service {
	s := &Service{
		store:        store,
		cal:          cal,
		exporter:     exporter,
		memo:         opts.Memo,
		logger:       opts.Logger,
		defaultName:  opts.DefaultName,
		defaultAdmin: opts.DefaultAdmin,
		now:          opts.Now,
	}
	if opts.Catalog != nil {
		s.cat = *opts.Catalog
	} else {
		s.cat = catalog.Default()
	}
	if s.logger == nil {
		s.logger = log.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if sub, ok := store.(subscriber); ok {
		s.unsubscribe = sub.Subscribe(s.onChange)
	}
	return s
}

// Close detaches the service from store notifications.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Service) onChange(c storage.Change) {
	if c.Month != "" {
		s.logger.Debugf(context.Background(), "storage change: %s %s", c.Kind, c.Month)
		return
	}
	s.logger.Debugf(context.Background(), "storage change: %s", c.Kind)
}

// Calendar returns the holiday authority.
func (s *Service) Calendar() *holiday.Calendar { return s.cal }

// Catalog returns the activity catalog in use.
func (s *Service) Catalog() catalog.Catalog { return s.cat }

// CurrentMonth returns the selected month, defaulting to the current one.
func (s *Service) CurrentMonth() (model.MonthKey, error) {
	m, err := s.store.CurrentMonthKey()
	if err != nil {
		return "", err
	}
	if m.Valid() {
		return m, nil
	}
	return model.MonthKeyOf(s.now()), nil
}

// SelectMonth records m as the selected month.
func (s *Service) SelectMonth(m model.MonthKey) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMonth, m)
	}
	return s.store.SaveCurrentMonthKey(m)
}

// Load returns the month's entries in their normalized task shape.
func (s *Service) Load(m model.MonthKey) ([]model.DayEntry, error) {
	entries, err := s.store.MonthlyData(m)
	if err != nil {
		return nil, err
	}
	return model.Normalize(entries), nil
}

// Extracts returns the saved extract catalog, or the built-in one.
func (s *Service) Extracts() ([]model.Extract, error) {
	list, err := s.store.Extracts()
	if err != nil {
		return nil, err
	}
	if list == nil {
		return append([]model.Extract(nil), s.cat.Extracts...), nil
	}
	return list, nil
}

// Summary computes the month's derived values.
func (s *Service) Summary(m model.MonthKey) (aggregate.Summary, []model.DayEntry, error) {
	entries, err := s.Load(m)
	if err != nil {
		return aggregate.Summary{}, nil, err
	}
	extracts, err := s.Extracts()
	if err != nil {
		return aggregate.Summary{}, nil, err
	}
	in := aggregate.Input{
		Month:        m,
		Entries:      entries,
		Activities:   s.cat.Activities,
		Extracts:     extracts,
		Calendar:     s.cal,
		OvertimeCode: s.cat.OvertimeCode,
	}
	return s.memo.Compute(in), entries, nil
}

// Prefill replaces the month's entries with one prefilled 8-hour "D" entry
// per workday.
func (s *Service) Prefill(m model.MonthKey) ([]model.DayEntry, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonth, m)
	}
	var entries []model.DayEntry
	for _, d := range timecalc.MonthDays(m.Year(), m.Month()) {
		if !s.isWorkday(d) {
			continue
		}
		e := model.DayEntry{Date: d, Prefilled: true}
		e.SetTasks([]model.Task{{Code: "D", Hours: aggregate.DailyLimit}})
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []model.DayEntry{}
	}
	if _, err := s.store.SaveMonthlyData(m, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) isWorkday(d time.Time) bool {
	if s.cal == nil {
		return !timecalc.IsWeekend(d)
	}
	return s.cal.IsWorkday(d)
}

func sortByDate(entries []model.DayEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}
