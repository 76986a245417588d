package translate

import (
	"context"
	"fmt"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/formula"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
	"github.com/royalbit/mouvify-forge-sub002/internal/sheet"
)

// Error reports a model construct that cannot be expressed in spreadsheet
// cell-formula syntax.
type Error struct {
	Ident string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("translation error on %q: %s", e.Ident, e.Msg)
}

// layout holds the deterministic coordinate scheme of one export: column
// identifiers map to spreadsheet columns by declaration order, scalars to
// rows of the Scalars sheet.
type layout struct {
	m         *model.Model
	columnOf  map[string]int // "table.column" → 1-based sheet column
	rowsOf    map[string]int // table → data row count
	scalarRow map[string]int // scalar → 1-based sheet row
}

func newLayout(m *model.Model) (*layout, error) {
	l := &layout{
		m:         m,
		columnOf:  make(map[string]int),
		rowsOf:    make(map[string]int),
		scalarRow: make(map[string]int),
	}
	for _, t := range m.Tables {
		if t.Name == sheet.ScalarsSheetName {
			return nil, &Error{Ident: t.Name,
				Msg: "table name collides with the reserved scalars sheet"}
		}
		rows, err := t.RowCount()
		if err != nil {
			return nil, err
		}
		l.rowsOf[t.Name] = rows
		for i, c := range t.Columns {
			l.columnOf[t.Name+"."+c.Name] = i + 1
		}
	}
	for i, s := range m.Scalars {
		l.scalarRow[s.Name] = i + headerRows + 1
	}
	return l, nil
}

// Export translates a model into decoded sheets: one per table plus the
// Scalars sheet. Formulas are instantiated per row with row-relative
// coordinates; aggregations become whole-range functions; cross-table
// references are sheet-qualified. Cross-file references have no home in a
// single workbook and are rejected.
func Export(ctx context.Context, m *model.Model) ([]sheet.Sheet, error) {
	logger := ctxlog.FromContext(ctx)
	l, err := newLayout(m)
	if err != nil {
		return nil, err
	}

	var sheets []sheet.Sheet
	for _, t := range m.Tables {
		s, err := l.exportTable(t)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	if len(m.Scalars) > 0 {
		s, err := l.exportScalars()
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	logger.Debug("model exported", "sheets", len(sheets))
	return sheets, nil
}

func (l *layout) exportTable(t *model.Table) (sheet.Sheet, error) {
	rows := l.rowsOf[t.Name]
	s := sheet.Sheet{Name: t.Name}
	for _, c := range t.Columns {
		s.Header = append(s.Header, c.Name)
	}

	for r := 0; r < rows; r++ {
		row := make([]sheet.Cell, len(t.Columns))
		for i, c := range t.Columns {
			if c.IsDerived() {
				body, err := l.renderFormula(c.Formula, t, r)
				if err != nil {
					return sheet.Sheet{}, err
				}
				row[i] = sheet.FormulaCell(body)
				continue
			}
			row[i] = sheet.FromValue(c.Values[r])
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

func (l *layout) exportScalars() (sheet.Sheet, error) {
	s := sheet.Sheet{Name: sheet.ScalarsSheetName, Header: []string{"name", "value"}}
	for _, sc := range l.m.Scalars {
		var cell sheet.Cell
		if sc.IsDerived() {
			body, err := l.renderFormula(sc.Formula, nil, -1)
			if err != nil {
				return sheet.Sheet{}, err
			}
			cell = sheet.FormulaCell(body)
		} else {
			cell = sheet.FromValue(sc.Value)
		}
		s.Rows = append(s.Rows, []sheet.Cell{sheet.TextCell(sc.Name), cell})
	}
	return s, nil
}

// renderFormula rewrites one model formula into a cell formula body. In row
// context (table non-nil) bare column references become that row's cell;
// in scalar context the current sheet is the Scalars sheet.
func (l *layout) renderFormula(src string, t *model.Table, row int) (string, error) {
	ast, err := formula.Parse(src)
	if err != nil {
		return "", err
	}
	currentSheet := sheet.ScalarsSheetName
	if t != nil {
		currentSheet = t.Name
	}
	return l.render(ast, src, currentSheet, t, row)
}

func (l *layout) render(n formula.Node, src, currentSheet string, t *model.Table, row int) (string, error) {
	switch x := n.(type) {
	case *formula.NumberLit, *formula.StringLit, *formula.BoolLit:
		return n.String(), nil
	case *formula.Paren:
		inner, err := l.render(x.X, src, currentSheet, t, row)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	case *formula.Unary:
		inner, err := l.render(x.X, src, currentSheet, t, row)
		if err != nil {
			return "", err
		}
		if x.Postfix {
			return inner + x.Op, nil
		}
		return x.Op + inner, nil
	case *formula.Binary:
		left, err := l.render(x.L, src, currentSheet, t, row)
		if err != nil {
			return "", err
		}
		right, err := l.render(x.R, src, currentSheet, t, row)
		if err != nil {
			return "", err
		}
		return left + " " + x.Op + " " + right, nil
	case *formula.Call:
		out := x.Name + "("
		for i, a := range x.Args {
			arg, err := l.render(a, src, currentSheet, t, row)
			if err != nil {
				return "", err
			}
			if i > 0 {
				out += ", "
			}
			out += arg
		}
		return out + ")", nil
	case *formula.Ref:
		return l.renderRef(x, src, currentSheet, t, row)
	}
	return "", &Error{Ident: src, Msg: "unsupported expression node"}
}

// renderRef maps one identifier onto cell or range coordinates.
func (l *layout) renderRef(ref *formula.Ref, src, currentSheet string, t *model.Table, row int) (string, error) {
	tableName, colName, scalarName, err := l.classify(ref, t, src)
	if err != nil {
		return "", err
	}

	if scalarName != "" {
		r, ok := l.scalarRow[scalarName]
		if !ok {
			return "", &Error{Ident: ref.Key(), Msg: "scalar not laid out"}
		}
		cell, err := cellName(2, r)
		if err != nil {
			return "", err
		}
		return qualify(sheet.ScalarsSheetName, currentSheet, cell), nil
	}

	col := l.columnOf[tableName+"."+colName]
	if ref.Index >= 0 {
		cell, err := absCellName(col, ref.Index+headerRows+1)
		if err != nil {
			return "", err
		}
		return qualify(tableName, currentSheet, cell), nil
	}

	// Bare same-table reference in row context: that row's cell.
	if t != nil && len(ref.Parts) == 1 {
		cell, err := cellName(col, row+headerRows+1)
		if err != nil {
			return "", err
		}
		return cell, nil
	}

	// Whole column: the full data extent as a range.
	rows := l.rowsOf[tableName]
	if rows == 0 {
		return "", &Error{Ident: ref.Key(), Msg: "cannot reference an empty table's column"}
	}
	first, err := cellName(col, headerRows+1)
	if err != nil {
		return "", err
	}
	last, err := cellName(col, rows+headerRows)
	if err != nil {
		return "", err
	}
	return qualify(tableName, currentSheet, first+":"+last), nil
}

// classify resolves a reference to its table.column or scalar target,
// rejecting cross-file references.
func (l *layout) classify(ref *formula.Ref, t *model.Table, src string) (tableName, colName, scalarName string, err error) {
	switch len(ref.Parts) {
	case 1:
		name := ref.Parts[0]
		if t != nil && t.Column(name) != nil {
			return t.Name, name, "", nil
		}
		if l.m.Scalar(name) != nil {
			return "", "", name, nil
		}
	case 2:
		if tb := l.m.Table(ref.Parts[0]); tb != nil && tb.Column(ref.Parts[1]) != nil {
			return ref.Parts[0], ref.Parts[1], "", nil
		}
		if l.m.Include(ref.Parts[0]) != nil {
			return "", "", "", &Error{Ident: ref.Key(),
				Msg: "cross-file reference is not expressible in a single workbook"}
		}
	case 3:
		if l.m.Include(ref.Parts[0]) != nil {
			return "", "", "", &Error{Ident: ref.Key(),
				Msg: "cross-file reference is not expressible in a single workbook"}
		}
	}
	return "", "", "", &model.UnknownReferenceError{Ref: ref.Key(), Formula: src}
}

// qualify prefixes a reference with its sheet when it points off the
// current sheet.
func qualify(target, current, ref string) string {
	if target == current {
		return ref
	}
	return target + "!" + ref
}
