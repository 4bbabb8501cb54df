// Package catalog holds the fixed activity-code catalog, the default extract
// list and the report row layout. Every value here is data: an optional YAML
// file can override any of it without code changes.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/rileva/internal/model"
)

// OvertimeCode is the activity code whose hours are reported as overtime.
const OvertimeCode = "ST"

// Catalog bundles the reference data aggregation and export depend on.
type Catalog struct {
	Activities   []model.ActivityCode `yaml:"activities"`
	Extracts     []model.Extract      `yaml:"extracts"`
	OvertimeCode string               `yaml:"overtime_code"`

	// ExpectedDays is the per-extract default used when an extract carries no
	// ExpectedDays of its own. DefaultExpectedDays applies to ids not listed.
	ExpectedDays        map[string]float64 `yaml:"expected_days"`
	DefaultExpectedDays float64            `yaml:"default_expected_days"`

	// ActivityRows and ExtractRows map codes and extract ids to the row of
	// column G they are written to in the report template.
	ActivityRows map[string]int `yaml:"activity_rows"`
	ExtractRows  map[string]int `yaml:"extract_rows"`
}

// Default returns the built-in catalog matching the report template.
func Default() Catalog {
	return Catalog{
		Activities: []model.ActivityCode{
			{Code: "D", Description: "Giorni Lavorativi Designer"},
			{Code: "AA", Description: "Altre attività"},
			{Code: "ST", Description: "Straordinari"},
			{Code: "F", Description: "Ferie"},
			{Code: "PE", Description: "Permessi/ex Festività"},
			{Code: "MA", Description: "Malattia"},
			{Code: "L104", Description: "Permessi retribuiti L.104"},
		},
		Extracts: []model.Extract{
			{ID: "ESA3582021", Code: "D", Description: "MONTE DEI PASCHI", Client: "MPS"},
			{ID: "BD0002022S", Code: "D", Description: "BANCO DI DESIO", Client: "BdD"},
			{ID: "ESA9992024S", Code: "D", Description: "BCC", Client: "BCC"},
			{ID: "ESAPAM2024S", Code: "D", Description: "PAM", Client: "PAM"},
			{ID: "ESA9982024S", Code: "D", Description: "FormIO", Client: "MEDIOLANUM"},
		},
		OvertimeCode: OvertimeCode,
		ExpectedDays: map[string]float64{
			"ESA3582021": 20,
		},
		DefaultExpectedDays: 0,
		ActivityRows: map[string]int{
			"D": 28, "AA": 29, "ST": 30, "F": 31, "PE": 32, "MA": 33, "L104": 34,
		},
		ExtractRows: map[string]int{
			"ESA3582021":  39,
			"BD0002022S":  40,
			"ESA9992024S": 41,
			"ESAPAM2024S": 42,
			"ESA9982024S": 43,
		},
	}
}

// Load reads a YAML override file on top of the defaults. A missing file
// yields the defaults; sections absent from the file keep their defaults.
func Load(path string) (Catalog, error) {
	cat := Default()
	if path == "" {
		return cat, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cat, nil
	}
	if err != nil {
		return cat, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cat, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if len(override.Activities) > 0 {
		cat.Activities = override.Activities
	}
	if len(override.Extracts) > 0 {
		cat.Extracts = override.Extracts
	}
	if override.OvertimeCode != "" {
		cat.OvertimeCode = override.OvertimeCode
	}
	if override.ExpectedDays != nil {
		cat.ExpectedDays = override.ExpectedDays
	}
	if override.DefaultExpectedDays != 0 {
		cat.DefaultExpectedDays = override.DefaultExpectedDays
	}
	if override.ActivityRows != nil {
		cat.ActivityRows = override.ActivityRows
	}
	if override.ExtractRows != nil {
		cat.ExtractRows = override.ExtractRows
	}
	return cat, nil
}

// Write serialises the catalog so users can start from the built-in values.
func Write(path string, cat Catalog) error {
	data, err := yaml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing catalog %s: %w", path, err)
	}
	return nil
}

// ExpectedDaysFor returns the expected days of an extract, falling back to
// the per-id table and then to DefaultExpectedDays.
func (c Catalog) ExpectedDaysFor(ex model.Extract) float64 {
	if ex.ExpectedDays != nil {
		return *ex.ExpectedDays
	}
	if v, ok := c.ExpectedDays[ex.ID]; ok {
		return v
	}
	return c.DefaultExpectedDays
}

// ActivityDescription returns the description of code, or "" if unknown.
func (c Catalog) ActivityDescription(code string) string {
	for _, a := range c.Activities {
		if a.Code == code {
			return a.Description
		}
	}
	return ""
}
