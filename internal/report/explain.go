package report

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/asset"
	"github.com/Tiliavir/rileva/internal/workbook"
)

// Explain turns an export or edit failure into a message the user can act on.
func Explain(err error) string {
	if err == nil {
		return ""
	}

	var verr *aggregate.ValidationError
	if errors.As(err, &verr) {
		return explainValidation(verr)
	}

	var xerr *workbook.ExportError
	if errors.As(err, &xerr) {
		switch xerr.Reason {
		case workbook.ReasonTemplateUnavailable:
			return fmt.Sprintf("The report template could not be loaded and no blank workbook could be written: %v\nCheck template.path or template.url in ~/.rileva/config.yaml.", xerr.Err)
		default:
			return fmt.Sprintf("The workbook could not be written: %v\nThe template may be damaged; try a fresh copy.", xerr.Err)
		}
	}

	switch {
	case errors.Is(err, asset.ErrTemplateUnavailable):
		return fmt.Sprintf("The report template is unavailable: %v", err)
	case errors.Is(err, workbook.ErrNoWriter):
		return "No spreadsheet writer is available in this build."
	case errors.Is(err, ErrIndexOutOfRange):
		return fmt.Sprintf("%v. Run `rileva month` to see the entry numbers.", err)
	case errors.Is(err, ErrDateOutsideMonth):
		return fmt.Sprintf("%v. Select that month first with `rileva month YYYY-MM`.", err)
	case errors.Is(err, ErrMultiTask):
		return fmt.Sprintf("%v. Use `rileva entry tasks` to edit split entries.", err)
	case errors.Is(err, ErrInvalidExtract):
		return "An extract needs both an id and an activity code."
	}

	var perr *fs.PathError
	if errors.As(err, &perr) {
		return fmt.Sprintf("Could not access %s: %v", perr.Path, perr.Err)
	}
	return err.Error()
}

func explainValidation(verr *aggregate.ValidationError) string {
	var lines []string
	lines = append(lines, "The month cannot be exported yet:")
	for _, d := range verr.Validation.InvalidDays {
		for _, t := range d.Tasks {
			code := t.Code
			if strings.TrimSpace(code) == "" {
				code = "(no code)"
			}
			lines = append(lines, fmt.Sprintf("  %s: task %s with %g hours is invalid (code required, 0-8 hours)", d.Date, code, t.Hours))
		}
	}
	for _, d := range verr.Validation.ExceededDays {
		lines = append(lines, fmt.Sprintf("  %s: %g hours declared, the limit is %g", d.Date, d.Hours, aggregate.DailyLimit))
	}
	if !verr.MonthFullyFilled {
		lines = append(lines, fmt.Sprintf("  every workday needs exactly %g hours (%d workdays, %d holidays, %d declared)",
			aggregate.DailyLimit, verr.TotalWorkDays, verr.Holidays, verr.TotalDeclaredDays))
	}
	return strings.Join(lines, "\n")
}

// IsUsageError reports whether err is something the user can fix by changing
// input, as opposed to a storage or I/O failure.
func IsUsageError(err error) bool {
	var verr *aggregate.ValidationError
	if errors.As(err, &verr) {
		return true
	}
	for _, target := range []error{
		ErrIndexOutOfRange, ErrDateOutsideMonth, ErrInvalidExtract,
		ErrMultiTask, ErrUnknownField, ErrNotFound,
		ErrInvalidMonth, ErrInvalidValue,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
