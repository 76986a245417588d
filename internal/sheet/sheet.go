// Package sheet defines the types exchanged with a spreadsheet container
// codec: decoded sheets of typed cells, with formula cells kept distinct
// from value cells. The engine's translators operate on these types and
// stay independent of any binary layout.
package sheet

import (
	"time"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// CellKind classifies one decoded cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellBool
	CellDate
	CellFormula
)

// Cell is one decoded cell: a typed value or a formula string (without the
// leading "="; codecs store formula bodies).
type Cell struct {
	Kind    CellKind
	Number  float64
	Text    string
	Bool    bool
	Date    time.Time
	Formula string
}

// NumberCell, TextCell, BoolCell, DateCell and FormulaCell build typed cells.
func NumberCell(f float64) Cell     { return Cell{Kind: CellNumber, Number: f} }
func TextCell(s string) Cell        { return Cell{Kind: CellText, Text: s} }
func BoolCell(b bool) Cell          { return Cell{Kind: CellBool, Bool: b} }
func DateCell(t time.Time) Cell     { return Cell{Kind: CellDate, Date: t} }
func FormulaCell(body string) Cell  { return Cell{Kind: CellFormula, Formula: body} }

// FromValue converts a model value to a cell.
func FromValue(v model.Value) Cell {
	switch v.Kind() {
	case model.KindNumber:
		return NumberCell(v.Num())
	case model.KindText:
		return TextCell(v.Str())
	case model.KindBool:
		return BoolCell(v.IsTrue())
	case model.KindDate:
		return DateCell(v.Time())
	}
	return Cell{}
}

// Value converts a non-formula cell back to a model value. Empty cells
// become empty text.
func (c Cell) Value() model.Value {
	switch c.Kind {
	case CellNumber:
		return model.Number(c.Number)
	case CellText:
		return model.Text(c.Text)
	case CellBool:
		return model.Bool(c.Bool)
	case CellDate:
		return model.Date(c.Date)
	}
	return model.Text("")
}

// Sheet is one decoded worksheet: a name, a header row and data rows. Data
// row r, column c corresponds to spreadsheet row r+2 (the header occupies
// row 1).
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]Cell
}

// ScalarsSheetName is the dedicated sheet scalars are exported to, one per
// row: name in column A, value or formula in column B.
const ScalarsSheetName = "Scalars"
