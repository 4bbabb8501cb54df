// Package aggregate derives every monthly total from the raw day entries.
// Compute is a pure function of its Input; Memo adds an optional cache on top.
package aggregate

import (
	"maps"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/timecalc"
)

// DailyLimit is the maximum number of hours declarable on one date.
const DailyLimit = 8.0

// Workdays answers whether a date is a working day.
type Workdays interface {
	IsWorkday(t time.Time) bool
}

// Input is everything a monthly summary depends on.
type Input struct {
	Month        model.MonthKey
	Entries      []model.DayEntry
	Activities   []model.ActivityCode
	Extracts     []model.Extract
	Calendar     Workdays
	OvertimeCode string
}

// QuadratureStatus classifies the sign of the quadrature.
type QuadratureStatus string

const (
	QuadraturePositive QuadratureStatus = "positive"
	QuadratureNegative QuadratureStatus = "negative"
	QuadratureBalanced QuadratureStatus = "balanced"
)

// InvalidTask is a task that failed the code/hours rules.
type InvalidTask struct {
	Code     string
	Activity string
	Hours    float64
}

// InvalidDay lists the offending tasks of one entry.
type InvalidDay struct {
	Index int
	Date  string
	Tasks []InvalidTask
}

// ExceededDay is a date whose summed hours are above DailyLimit.
type ExceededDay struct {
	Date  string
	Hours float64
}

// Validation is the structured result of the per-day rules.
type Validation struct {
	IsValid      bool
	InvalidDays  []InvalidDay
	ExceededDays []ExceededDay
}

// Summary holds the derived values of one month.
type Summary struct {
	Month                 model.MonthKey
	DailyHours            map[string]float64
	HasExceededDailyLimit bool
	TotalWorkDays         int
	TotalDeclaredDays     int
	TotalDeclaredHours    float64
	Quadrature            int
	Overtime              float64
	ActivityTotals        map[string]float64
	ExtractTotals         map[string]float64
	IsMonthFullyFilled    bool
	Validation            Validation
	WorkDates             []string
}

// Compute derives the monthly summary from in.
func Compute(in Input) Summary {
	s := Summary{Month: in.Month}

	s.DailyHours = DailyHours(in.Entries)
	s.HasExceededDailyLimit = hasExceeded(s.DailyHours)
	s.WorkDates = WorkDates(in.Month, in.Calendar)
	s.TotalWorkDays = len(s.WorkDates)
	s.TotalDeclaredDays = len(s.DailyHours)
	s.TotalDeclaredHours = TotalHours(in.Entries)
	s.Quadrature = s.TotalWorkDays - s.TotalDeclaredDays
	s.Overtime = Overtime(in.Entries, in.OvertimeCode)
	s.ActivityTotals = ActivityTotals(in.Entries, in.Activities)
	s.ExtractTotals = ExtractTotals(in.Entries, in.Extracts)
	s.IsMonthFullyFilled = fullyFilled(s.WorkDates, s.DailyHours)
	s.Validation = Validate(in.Entries, s.DailyHours)
	return s
}

// QuadratureStatus returns whether the month is under-, over- or exactly declared.
func (s Summary) QuadratureStatus() QuadratureStatus {
	switch {
	case s.Quadrature < 0:
		return QuadratureNegative
	case s.Quadrature > 0:
		return QuadraturePositive
	default:
		return QuadratureBalanced
	}
}

func (s Summary) clone() Summary {
	c := s
	c.DailyHours = maps.Clone(s.DailyHours)
	c.ActivityTotals = maps.Clone(s.ActivityTotals)
	c.ExtractTotals = maps.Clone(s.ExtractTotals)
	c.WorkDates = slices.Clone(s.WorkDates)
	c.Validation.InvalidDays = slices.Clone(s.Validation.InvalidDays)
	for i := range c.Validation.InvalidDays {
		c.Validation.InvalidDays[i].Tasks = slices.Clone(c.Validation.InvalidDays[i].Tasks)
	}
	c.Validation.ExceededDays = slices.Clone(s.Validation.ExceededDays)
	return c
}

// DailyHours sums the hours of every distinct calendar date.
func DailyHours(entries []model.DayEntry) map[string]float64 {
	daily := make(map[string]float64, len(entries))
	for _, e := range entries {
		daily[e.Key()] += e.TotalHours()
	}
	return daily
}

// TotalHours sums all hours at task level.
func TotalHours(entries []model.DayEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.TotalHours()
	}
	return sum
}

// WorkDates lists the month's workdays as ISO dates.
func WorkDates(month model.MonthKey, cal Workdays) []string {
	if !month.Valid() {
		return nil
	}
	var dates []string
	for _, d := range timecalc.MonthDays(month.Year(), month.Month()) {
		if cal != nil {
			if !cal.IsWorkday(d) {
				continue
			}
		} else if timecalc.IsWeekend(d) {
			continue
		}
		dates = append(dates, timecalc.ISODate(d))
	}
	return dates
}

// Overtime sums the hours booked on the overtime code.
func Overtime(entries []model.DayEntry, code string) float64 {
	if code == "" {
		return 0
	}
	var sum float64
	for _, e := range entries {
		for _, t := range e.EffectiveTasks() {
			if t.Code == code {
				sum += t.Hours
			}
		}
	}
	return sum
}

// ActivityTotals returns, per catalog code, the booked hours as day-equivalents.
func ActivityTotals(entries []model.DayEntry, activities []model.ActivityCode) map[string]float64 {
	hours := make(map[string]float64, len(activities))
	for _, e := range entries {
		for _, t := range e.EffectiveTasks() {
			hours[t.Code] += t.Hours
		}
	}
	totals := make(map[string]float64, len(activities))
	for _, a := range activities {
		totals[a.Code] = hours[a.Code] / DailyLimit
	}
	return totals
}

// ExtractTotals returns the hours allocated to each catalog extract. Entries
// without tasks contribute through their legacy extract field.
func ExtractTotals(entries []model.DayEntry, extracts []model.Extract) map[string]float64 {
	hours := map[string]float64{}
	for _, e := range entries {
		for _, t := range e.EffectiveTasks() {
			if t.Extract == "" {
				continue
			}
			hours[t.Extract] += t.Hours
		}
	}
	totals := make(map[string]float64, len(extracts))
	for _, ex := range extracts {
		totals[ex.ID] = hours[ex.ID]
	}
	return totals
}

// Validate applies the per-task rules: a trimmed non-empty code and hours
// within [0, DailyLimit]. Dates above the daily limit are reported separately.
func Validate(entries []model.DayEntry, daily map[string]float64) Validation {
	var v Validation
	for i, e := range entries {
		var bad []InvalidTask
		for _, t := range e.EffectiveTasks() {
			if !validTask(t) {
				bad = append(bad, InvalidTask{Code: t.Code, Activity: t.Activity, Hours: t.Hours})
			}
		}
		if len(bad) > 0 {
			v.InvalidDays = append(v.InvalidDays, InvalidDay{Index: i, Date: e.Key(), Tasks: bad})
		}
	}
	for date, h := range daily {
		if h > DailyLimit {
			v.ExceededDays = append(v.ExceededDays, ExceededDay{Date: date, Hours: h})
		}
	}
	sort.Slice(v.ExceededDays, func(i, j int) bool { return v.ExceededDays[i].Date < v.ExceededDays[j].Date })
	v.IsValid = len(v.InvalidDays) == 0 && len(v.ExceededDays) == 0
	return v
}

func validTask(t model.Task) bool {
	if strings.TrimSpace(t.Code) == "" {
		return false
	}
	if math.IsNaN(t.Hours) {
		return false
	}
	return t.Hours >= 0 && t.Hours <= DailyLimit
}

func hasExceeded(daily map[string]float64) bool {
	for _, h := range daily {
		if h > DailyLimit {
			return true
		}
	}
	return false
}

func fullyFilled(workDates []string, daily map[string]float64) bool {
	for _, d := range workDates {
		if daily[d] != DailyLimit {
			return false
		}
	}
	return true
}
