package xlsxio

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
	"github.com/royalbit/mouvify-forge-sub002/internal/sheet"
)

// Encode writes the sheets to w as an .xlsx workbook, one worksheet per
// sheet in order.
func Encode(w io.Writer, sheets []sheet.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", s.Name, err)
		}
		if err := encodeSheet(f, &s); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func encodeSheet(f *excelize.File, s *sheet.Sheet) error {
	for ci, name := range s.Header {
		axis, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(s.Name, axis, name); err != nil {
			return err
		}
	}
	for ri, row := range s.Rows {
		for ci, c := range row {
			axis, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			if err := encodeCell(f, s.Name, axis, c); err != nil {
				return fmt.Errorf("sheet %s cell %s: %w", s.Name, axis, err)
			}
		}
	}
	return nil
}

func encodeCell(f *excelize.File, sheetName, axis string, c sheet.Cell) error {
	switch c.Kind {
	case sheet.CellEmpty:
		return nil
	case sheet.CellNumber:
		return f.SetCellValue(sheetName, axis, c.Number)
	case sheet.CellText:
		return f.SetCellValue(sheetName, axis, c.Text)
	case sheet.CellBool:
		return f.SetCellBool(sheetName, axis, c.Bool)
	case sheet.CellDate:
		// dates are written as their canonical text form so a later read
		// does not depend on workbook number styles
		return f.SetCellValue(sheetName, axis, c.Date.Format(model.DateLayout))
	case sheet.CellFormula:
		return f.SetCellFormula(sheetName, axis, c.Formula)
	}
	return fmt.Errorf("unknown cell kind %d", c.Kind)
}

// Decode reads an .xlsx workbook into sheets. Row 1 of every worksheet is
// taken as the header; formula cells are kept as formulas, everything else
// is typed by content.
func Decode(r io.Reader) ([]sheet.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var out []sheet.Sheet
	for _, name := range f.GetSheetList() {
		s, err := decodeSheet(f, name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeSheet(f *excelize.File, name string) (sheet.Sheet, error) {
	s := sheet.Sheet{Name: name}
	rows, err := f.GetRows(name)
	if err != nil {
		return s, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return s, nil
	}
	s.Header = rows[0]

	for ri := 1; ri < len(rows); ri++ {
		decoded := make([]sheet.Cell, len(s.Header))
		for ci := range s.Header {
			axis, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				return s, err
			}
			c, err := decodeCell(f, name, axis, cellText(rows[ri], ci))
			if err != nil {
				return s, fmt.Errorf("sheet %s cell %s: %w", name, axis, err)
			}
			decoded[ci] = c
		}
		s.Rows = append(s.Rows, decoded)
	}
	return s, nil
}

func cellText(row []string, ci int) string {
	if ci >= len(row) {
		return ""
	}
	return row[ci]
}

func decodeCell(f *excelize.File, sheetName, axis, text string) (sheet.Cell, error) {
	body, err := f.GetCellFormula(sheetName, axis)
	if err != nil {
		return sheet.Cell{}, err
	}
	if body != "" {
		return sheet.FormulaCell(strings.TrimPrefix(body, "=")), nil
	}
	if text == "" {
		return sheet.Cell{}, nil
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return sheet.NumberCell(n), nil
	}
	switch text {
	case "TRUE":
		return sheet.BoolCell(true), nil
	case "FALSE":
		return sheet.BoolCell(false), nil
	}
	if ts, err := time.Parse(model.DateLayout, text); err == nil {
		return sheet.DateCell(ts), nil
	}
	return sheet.TextCell(text), nil
}
