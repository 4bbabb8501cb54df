package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/report"
	"github.com/Tiliavir/rileva/internal/timecalc"
	"github.com/Tiliavir/rileva/internal/units"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the month's totals and export readiness",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func runSummary(cmd *cobra.Command, args []string) error {
	a := mustApp(context.Background())
	m := a.month()
	s, _, err := a.svc.Summary(m)
	if err != nil {
		fail(err)
	}
	extracts, err := a.svc.Extracts()
	if err != nil {
		fail(err)
	}
	fmt.Println(renderSummary(s, a.svc.Catalog().Activities, extracts))
	return nil
}

func renderSummary(s aggregate.Summary, activities []model.ActivityCode, extracts []model.Extract) string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label)), value)
	}

	b.WriteString(titleStyle.Render(timecalc.ItalianMonthYear(s.Month.Year(), s.Month.Month())))
	b.WriteString("\n\n")
	row("Work days", fmt.Sprint(s.TotalWorkDays))
	row("Declared days", fmt.Sprint(s.TotalDeclaredDays))
	row("Declared hours", formatHours(units.RoundTo2(s.TotalDeclaredHours)))
	row("Quadrature", quadratureLabel(s))
	row("Overtime", formatHours(units.RoundTo2(s.Overtime)))

	b.WriteString("\n" + titleStyle.Render("Activities (days)") + "\n")
	for _, ac := range activities {
		v := s.ActivityTotals[ac.Code]
		if v == 0 {
			continue
		}
		row(ac.Code, fmt.Sprintf("%s  %s", formatDays(units.RoundTo2(v)), ac.Description))
	}

	ids := make([]string, 0, len(s.ExtractTotals))
	for id, h := range s.ExtractTotals {
		if h != 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		sort.Strings(ids)
		clients := map[string]string{}
		for _, ex := range extracts {
			clients[ex.ID] = ex.Client
		}
		b.WriteString("\n" + titleStyle.Render("Extracts (hours)") + "\n")
		for _, id := range ids {
			row(id, fmt.Sprintf("%s  %s", formatHours(units.RoundTo2(s.ExtractTotals[id])), clients[id]))
		}
	}

	b.WriteString("\n")
	if err := s.ExportReady(); err != nil {
		b.WriteString(warnStyle.Render(report.Explain(err)))
	} else {
		b.WriteString(okStyle.Render("Ready to export."))
	}
	return boxStyle.Render(b.String())
}
