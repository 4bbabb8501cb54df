package workbook

import (
	"bytes"
	"fmt"

	"github.com/tealeg/xlsx/v3"
	"github.com/xuri/excelize/v2"
)

// Writer fills a template workbook with a cell plan.
type Writer interface {
	Name() string
	// Available reports whether the writer can run in this process.
	Available() error
	// Populate empties the blank range, writes cells to the first sheet of template and
	// returns the serialized workbook. A written cell never keeps a formula.
	Populate(template []byte, cells []Cell, blank ClearRange) ([]byte, error)
}

// PreservingWriter edits the template in place with excelize, so styles,
// merged cells and untouched formulas survive.
type PreservingWriter struct{}

func (PreservingWriter) Name() string { return "excelize" }

func (PreservingWriter) Available() error {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.WriteToBuffer(); err != nil {
		return fmt.Errorf("excelize unavailable: %w", err)
	}
	return nil
}

func (PreservingWriter) Populate(template []byte, cells []Cell, blank ClearRange) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("template has no sheets")
	}

	if !blank.Empty() {
		for row := blank.FirstRow; row <= blank.LastRow; row++ {
			for col := blank.FirstCol; col <= blank.LastCol; col++ {
				ref, err := excelize.CoordinatesToCellName(col, row)
				if err != nil {
					return nil, err
				}
				if err := blankExcelize(f, sheet, ref); err != nil {
					return nil, fmt.Errorf("clearing %s: %w", ref, err)
				}
			}
		}
	}

	for _, c := range cells {
		if err := clearFormulaExcelize(f, sheet, c.Ref); err != nil {
			return nil, fmt.Errorf("clearing formula %s: %w", c.Ref, err)
		}
		if err := f.SetCellValue(sheet, c.Ref, c.Value); err != nil {
			return nil, fmt.Errorf("writing %s: %w", c.Ref, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func clearFormulaExcelize(f *excelize.File, sheet, ref string) error {
	formula, err := f.GetCellFormula(sheet, ref)
	if err != nil || formula == "" {
		return err
	}
	return f.SetCellFormula(sheet, ref, "")
}

func blankExcelize(f *excelize.File, sheet, ref string) error {
	value, err := f.GetCellValue(sheet, ref)
	if err != nil {
		return err
	}
	formula, err := f.GetCellFormula(sheet, ref)
	if err != nil {
		return err
	}
	if value == "" && formula == "" {
		return nil
	}
	if formula != "" {
		if err := f.SetCellFormula(sheet, ref, ""); err != nil {
			return err
		}
	}
	return f.SetCellDefault(sheet, ref, "")
}

// GenericWriter rewrites the first sheet through tealeg/xlsx. It does not
// keep every template feature, so it only runs when the preserving writer
// fails or when there is no template at all.
type GenericWriter struct{}

func (GenericWriter) Name() string { return "xlsx" }

func (GenericWriter) Available() error {
	f := xlsx.NewFile()
	if _, err := f.AddSheet("probe"); err != nil {
		return fmt.Errorf("xlsx unavailable: %w", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("xlsx unavailable: %w", err)
	}
	return nil
}

func (GenericWriter) Populate(template []byte, cells []Cell, blank ClearRange) ([]byte, error) {
	f, err := xlsx.OpenBinary(template)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("template has no sheets")
	}
	sh := f.Sheets[0]

	if !blank.Empty() {
		last := min(blank.LastRow, sh.MaxRow)
		for row := blank.FirstRow; row <= last; row++ {
			for col := blank.FirstCol; col <= blank.LastCol; col++ {
				cell, err := sh.Cell(row-1, col-1)
				if err != nil {
					return nil, fmt.Errorf("clearing row %d: %w", row, err)
				}
				if cell.Formula() != "" {
					cell.SetFormula("")
				}
				if cell.Value != "" {
					cell.SetString("")
				}
			}
		}
	}

	for _, c := range cells {
		col, row, err := xlsx.GetCoordsFromCellIDString(c.Ref)
		if err != nil {
			return nil, fmt.Errorf("bad cell reference %q: %w", c.Ref, err)
		}
		cell, err := sh.Cell(row, col)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", c.Ref, err)
		}
		if cell.Formula() != "" {
			cell.SetFormula("")
		}
		if err := setXLSX(cell, c.Value); err != nil {
			return nil, fmt.Errorf("writing %s: %w", c.Ref, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setXLSX(cell *xlsx.Cell, v any) error {
	switch val := v.(type) {
	case string:
		cell.SetString(val)
	case int:
		cell.SetInt(val)
	case float64:
		cell.SetFloat(val)
	case nil:
		cell.SetString("")
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

// BlankWorkbook returns an empty single-sheet workbook used when the template
// cannot be fetched.
func BlankWorkbook() ([]byte, error) {
	f := xlsx.NewFile()
	if _, err := f.AddSheet("Rilevazione"); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing blank workbook: %w", err)
	}
	return buf.Bytes(), nil
}
