package workbook

import (
	"fmt"

	"github.com/Tiliavir/rileva/internal/catalog"
	"github.com/Tiliavir/rileva/internal/timecalc"
	"github.com/Tiliavir/rileva/internal/units"
)

// DefaultClearScanLimit is how many detail rows are blanked before writing.
const DefaultClearScanLimit = 500

// Cell is one value to write. Value is a string, an int or a float64.
type Cell struct {
	Ref   string
	Value any
}

// ClearRange is a block of cells blanked before the detail rows are written.
// Rows and columns are 1-based and inclusive.
type ClearRange struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

// Empty reports whether the range covers no cells.
func (r ClearRange) Empty() bool {
	return r.LastRow < r.FirstRow || r.LastCol < r.FirstCol
}

// Layout fixes where every value lands in the report sheet.
type Layout struct {
	MonthLabel     string
	EmployeeName   string
	AdminContact   string
	WorkDays       string
	DeclaredDays   string
	Quadrature     string
	Overtime       string
	GrandTotal     string
	TotalsColumn   string
	ActivityRows   map[string]int
	ExtractRows    map[string]int
	DetailStartRow int
	ClearScanLimit int
}

// Detail columns, B through H.
const (
	detailFirstCol = 2
	detailLastCol  = 8
)

// DefaultLayout returns the cell map of the report template, with the
// activity and extract rows taken from cat.
func DefaultLayout(cat catalog.Catalog) Layout {
	return Layout{
		MonthLabel:     "B7",
		EmployeeName:   "B8",
		AdminContact:   "B9",
		WorkDays:       "E21",
		DeclaredDays:   "E22",
		Quadrature:     "E23",
		Overtime:       "E24",
		GrandTotal:     "G36",
		TotalsColumn:   "G",
		ActivityRows:   cat.ActivityRows,
		ExtractRows:    cat.ExtractRows,
		DetailStartRow: 47,
		ClearScanLimit: DefaultClearScanLimit,
	}
}

// ClearRange returns the detail block blanked before writing.
func (l Layout) ClearRange() ClearRange {
	limit := l.ClearScanLimit
	if limit <= 0 {
		limit = DefaultClearScanLimit
	}
	return ClearRange{
		FirstRow: l.DetailStartRow,
		LastRow:  l.DetailStartRow + limit - 1,
		FirstCol: detailFirstCol,
		LastCol:  detailLastCol,
	}
}

// Plan computes the full list of cells for s. It is built once per export and
// shared by every writer attempt.
func (l Layout) Plan(s Snapshot, norm units.Normalizer) []Cell {
	cells := []Cell{
		{Ref: l.MonthLabel, Value: "MESE DI " + timecalc.ItalianMonthYear(s.Month.Year(), s.Month.Month())},
		{Ref: l.EmployeeName, Value: s.EmployeeName},
	}
	if s.AdminContact != "" {
		cells = append(cells, Cell{Ref: l.AdminContact, Value: s.AdminContact})
	}

	declared := s.TotalDeclaredDays
	if declared == 0 {
		declared = s.TotalDeclaredHours
	}
	declared = norm.Total(declared)

	cells = append(cells,
		Cell{Ref: l.WorkDays, Value: s.TotalWorkDays},
		Cell{Ref: l.DeclaredDays, Value: declared},
		Cell{Ref: l.Quadrature, Value: s.Quadrature},
		Cell{Ref: l.Overtime, Value: units.RoundTo2(s.Overtime)},
		Cell{Ref: l.GrandTotal, Value: declared},
	)

	for _, a := range s.Activities {
		row, ok := l.ActivityRows[a.Code]
		if !ok {
			continue
		}
		cells = append(cells, Cell{Ref: l.totalsRef(row), Value: norm.Total(s.ActivityTotals[a.Code])})
	}
	for _, ex := range s.Extracts {
		row, ok := l.ExtractRows[ex.ID]
		if !ok {
			continue
		}
		cells = append(cells, Cell{Ref: l.totalsRef(row), Value: norm.Total(s.ExtractTotals[ex.ID])})
	}

	descriptions := make(map[string]string, len(s.Activities))
	for _, a := range s.Activities {
		descriptions[a.Code] = a.Description
	}
	clients := make(map[string]string, len(s.Extracts))
	for _, ex := range s.Extracts {
		clients[ex.ID] = ex.Client
	}

	for i, d := range s.Days {
		row := l.DetailStartRow + i
		client := d.Client
		if client == "" {
			client = clients[d.Extract]
		}
		cells = append(cells,
			Cell{Ref: fmt.Sprintf("B%d", row), Value: timecalc.FormatExcelDate(d.Date)},
			Cell{Ref: fmt.Sprintf("C%d", row), Value: d.Code},
			Cell{Ref: fmt.Sprintf("D%d", row), Value: descriptions[d.Code]},
			Cell{Ref: fmt.Sprintf("E%d", row), Value: d.Extract},
			Cell{Ref: fmt.Sprintf("F%d", row), Value: client},
			Cell{Ref: fmt.Sprintf("G%d", row), Value: units.HoursToDays(d.TotalHours())},
			Cell{Ref: fmt.Sprintf("H%d", row), Value: d.Notes},
		)
	}
	return cells
}

func (l Layout) totalsRef(row int) string {
	return fmt.Sprintf("%s%d", l.TotalsColumn, row)
}
