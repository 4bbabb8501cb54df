package cmd

import (
	"strings"
	"testing"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/catalog"
)

func TestRenderSummary(t *testing.T) {
	cat := catalog.Default()
	s := aggregate.Summary{
		Month:              "2025-11",
		TotalWorkDays:      20,
		TotalDeclaredDays:  20,
		TotalDeclaredHours: 160,
		ActivityTotals:     map[string]float64{"D": 19.6875, "AA": 0.3125},
		ExtractTotals:      map[string]float64{"ESA3582021": 12, "BD0002022S": 0},
		IsMonthFullyFilled: true,
		Validation:         aggregate.Validation{IsValid: true},
	}

	out := renderSummary(s, cat.Activities, cat.Extracts)
	for _, want := range []string{
		"NOVEMBRE 2025",
		"Work days",
		"balanced",
		"19.69  Giorni Lavorativi Designer",
		"0.31  Altre attività",
		"ESA3582021",
		"12h  MPS",
		"Ready to export.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "BD0002022S") {
		t.Error("extracts without hours should be omitted")
	}
	if strings.Contains(out, "Ferie") {
		t.Error("activities without days should be omitted")
	}
}

func TestRenderSummaryNotReady(t *testing.T) {
	s := aggregate.Summary{
		Month:         "2025-12",
		TotalWorkDays: 20,
		Quadrature:    20,
		Validation:    aggregate.Validation{IsValid: true},
	}
	out := renderSummary(s, nil, nil)
	if !strings.Contains(out, "20 days to declare") {
		t.Errorf("quadrature not shown:\n%s", out)
	}
	if !strings.Contains(out, "cannot be exported yet") {
		t.Errorf("readiness problem not shown:\n%s", out)
	}
}
