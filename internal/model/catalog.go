package model

// ActivityCode labels a family of hours, e.g. "D" for designer workdays.
type ActivityCode struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
}

// Extract is a billing/client account hours can be allocated to.
type Extract struct {
	ID           string   `json:"id" yaml:"id"`
	Code         string   `json:"code" yaml:"code"`
	Description  string   `json:"description" yaml:"description"`
	Client       string   `json:"client" yaml:"client"`
	ExpectedDays *float64 `json:"expectedDays,omitempty" yaml:"expected_days,omitempty"`
}

// Holiday is a non-working date recorded for a month.
type Holiday struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}

// ExportRecord is one entry of the export history. DataURL holds the full
// workbook so it can be downloaded again later.
type ExportRecord struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Date     string `json:"date"`
	Month    string `json:"month,omitempty"`
	DataURL  string `json:"dataUrl"`
}
