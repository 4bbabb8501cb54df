package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/report"
)

// formatHours prints hours without trailing zeros: "8h", "7.5h".
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// formatDays prints a day-equivalent with at most two decimals.
func formatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

func quadratureLabel(s aggregate.Summary) string {
	switch s.QuadratureStatus() {
	case aggregate.QuadraturePositive:
		return fmt.Sprintf("%d days to declare", s.Quadrature)
	case aggregate.QuadratureNegative:
		return fmt.Sprintf("%d days over", -s.Quadrature)
	default:
		return "balanced"
	}
}

// parseIndex converts a 1-based entry number into a slice index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not an entry number", report.ErrIndexOutOfRange, s)
	}
	return n - 1, nil
}

// parseHours accepts "7.5" and "7,5".
func parseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: hours %q", report.ErrInvalidValue, s)
	}
	return h, nil
}

// parseTask reads CODE:HOURS[:EXTRACT[:CLIENT]].
func parseTask(s string) (model.Task, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return model.Task{}, fmt.Errorf("%w: task %q (want CODE:HOURS[:EXTRACT[:CLIENT]])", report.ErrInvalidValue, s)
	}
	code := strings.TrimSpace(parts[0])
	if code == "" {
		return model.Task{}, fmt.Errorf("%w: task %q has no code", report.ErrInvalidValue, s)
	}
	hours, err := parseHours(parts[1])
	if err != nil {
		return model.Task{}, err
	}
	t := model.Task{Code: code, Hours: hours}
	if len(parts) > 2 {
		t.Extract = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		t.Client = strings.TrimSpace(parts[3])
	}
	return t, nil
}

func formatTask(t model.Task) string {
	s := t.Code + " " + formatHours(t.Hours)
	if t.Extract != "" {
		s += " " + t.Extract
	}
	if t.Client != "" {
		s += " (" + t.Client + ")"
	}
	return s
}

// printEntries prints one numbered line per entry.
func printEntries(m model.MonthKey, entries []model.DayEntry) {
	if len(entries) == 0 {
		fmt.Printf("No entries for %s.\n", m)
		return
	}
	fmt.Println(m)
	for i, e := range entries {
		tasks := e.EffectiveTasks()
		parts := make([]string, len(tasks))
		for j, t := range tasks {
			parts[j] = formatTask(t)
		}
		marker := ""
		if e.Prefilled {
			marker = "  [prefilled]"
		}
		notes := ""
		if e.Notes != "" {
			notes = "  " + e.Notes
		}
		fmt.Printf("%3d  %s  %-6s %s%s%s\n", i+1, e.Key(), formatHours(e.TotalHours()), strings.Join(parts, " + "), notes, marker)
	}
}

func printEntriesCSV(entries []model.DayEntry) {
	fmt.Println("date,code,activity,extract,client,hours,notes")
	for _, e := range entries {
		for _, t := range e.EffectiveTasks() {
			notes := t.Notes
			if notes == "" {
				notes = e.Notes
			}
			fmt.Printf("%s,%s,%s,%s,%s,%s,%s\n",
				e.Key(),
				csvEscape(t.Code),
				csvEscape(t.Activity),
				csvEscape(t.Extract),
				csvEscape(t.Client),
				strconv.FormatFloat(t.Hours, 'f', -1, 64),
				csvEscape(notes),
			)
		}
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
