package workbook

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/timecalc"
)

// Snapshot is everything written into one report. Totals are taken as given;
// the engine does not recompute them.
type Snapshot struct {
	Month              model.MonthKey       `json:"month"`
	EmployeeName       string               `json:"employeeName"`
	AdminContact       string               `json:"adminContact,omitempty"`
	Days               []model.DayEntry     `json:"days"`
	Activities         []model.ActivityCode `json:"activityCodes"`
	Extracts           []model.Extract      `json:"extracts"`
	ActivityTotals     map[string]float64   `json:"activityTotals"`
	ExtractTotals      map[string]float64   `json:"extractTotals"`
	TotalWorkDays      int                  `json:"totalWorkDays"`
	TotalDeclaredDays  float64              `json:"totalDeclaredDays"`
	TotalDeclaredHours float64              `json:"totalDeclaredHours"`
	Quadrature         int                  `json:"quadrature"`
	Overtime           float64              `json:"overtime"`
}

type snapshotJSON struct {
	Month      string `json:"month"`
	AdminEmail string `json:"adminEmail"`
	snapshotAlias
}

type snapshotAlias Snapshot

// UnmarshalJSON also takes the browser payload: month as a serialized Date
// and the contact under adminEmail. A month that is neither a key nor a date
// is kept verbatim so callers can reject it.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Snapshot(raw.snapshotAlias)
	s.Month = parseMonth(raw.Month)
	if s.AdminContact == "" {
		s.AdminContact = raw.AdminEmail
	}
	return nil
}

func parseMonth(v string) model.MonthKey {
	if k, err := model.ParseMonthKey(v); err == nil {
		return k
	}
	if day, err := timecalc.ParseDay(v); err == nil {
		return model.MonthKeyOf(day)
	}
	return model.MonthKey(v)
}

// FromSummary assembles a snapshot from a computed month.
func FromSummary(s aggregate.Summary, name, admin string, days []model.DayEntry, activities []model.ActivityCode, extracts []model.Extract) Snapshot {
	return Snapshot{
		Month:              s.Month,
		EmployeeName:       name,
		AdminContact:       admin,
		Days:               days,
		Activities:         activities,
		Extracts:           extracts,
		ActivityTotals:     s.ActivityTotals,
		ExtractTotals:      s.ExtractTotals,
		TotalWorkDays:      s.TotalWorkDays,
		TotalDeclaredDays:  float64(s.TotalDeclaredDays),
		TotalDeclaredHours: s.TotalDeclaredHours,
		Quadrature:         s.Quadrature,
		Overtime:           s.Overtime,
	}.Clone()
}

// Clone returns a deep copy so later edits cannot leak into an export in flight.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Days = model.CloneEntries(s.Days)
	c.Activities = slices.Clone(s.Activities)
	c.Extracts = make([]model.Extract, len(s.Extracts))
	for i, ex := range s.Extracts {
		if ex.ExpectedDays != nil {
			v := *ex.ExpectedDays
			ex.ExpectedDays = &v
		}
		c.Extracts[i] = ex
	}
	if s.Extracts == nil {
		c.Extracts = nil
	}
	c.ActivityTotals = maps.Clone(s.ActivityTotals)
	c.ExtractTotals = maps.Clone(s.ExtractTotals)
	return c
}
