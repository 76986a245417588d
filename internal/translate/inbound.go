package translate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/efp"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/formula"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
	"github.com/royalbit/mouvify-forge-sub002/internal/sheet"
)

// reverse is the inbound counterpart of layout: it maps cell coordinates
// back to symbolic identifiers using the header rows and the Scalars sheet.
type reverse struct {
	headers map[string][]string // sheet → column names
	rows    map[string]int      // sheet → data row count
	scalars []string            // Scalars sheet names by data row
}

// Import reconstructs a model from decoded sheets: table boundaries come
// from header rows, every formula's cell and range references are rewritten
// back to identifiers, and the identical-shape formulas found down a column
// collapse into that column's single row-wise formula.
func Import(ctx context.Context, sheets []sheet.Sheet) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)

	rv := &reverse{headers: make(map[string][]string), rows: make(map[string]int)}
	var scalarSheet *sheet.Sheet
	for i := range sheets {
		s := &sheets[i]
		if s.Name == sheet.ScalarsSheetName {
			scalarSheet = s
			for _, row := range s.Rows {
				if len(row) < 1 || row[0].Kind != sheet.CellText {
					return nil, &Error{Ident: sheet.ScalarsSheetName,
						Msg: "scalar rows need a text name in column A"}
				}
				rv.scalars = append(rv.scalars, row[0].Text)
			}
			continue
		}
		rv.headers[s.Name] = s.Header
		rv.rows[s.Name] = len(s.Rows)
	}

	m := model.New("")
	for i := range sheets {
		s := &sheets[i]
		if s.Name == sheet.ScalarsSheetName {
			continue
		}
		t, err := rv.importTable(s)
		if err != nil {
			return nil, err
		}
		if err := m.AddTable(t); err != nil {
			return nil, err
		}
	}
	if scalarSheet != nil {
		if err := rv.importScalars(scalarSheet, m); err != nil {
			return nil, err
		}
	}

	logger.Debug("sheets imported", "tables", len(m.Tables), "scalars", len(m.Scalars))
	return m, nil
}

func (rv *reverse) importTable(s *sheet.Sheet) (*model.Table, error) {
	t := model.NewTable(s.Name)
	for ci, name := range s.Header {
		col, err := rv.importColumn(s, ci, name)
		if err != nil {
			return nil, err
		}
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// importColumn reconstructs one column from its cells: all-formula columns
// yield one symbolic formula, all-value columns a literal list. A column
// mixing the two, or whose rows rewrite to different formulas, cannot have
// come from one row-wise formula and is rejected.
func (rv *reverse) importColumn(s *sheet.Sheet, ci int, name string) (*model.Column, error) {
	ident := s.Name + "." + name
	formulas, values := 0, 0
	for _, row := range s.Rows {
		if ci >= len(row) {
			return nil, &Error{Ident: ident, Msg: "ragged row"}
		}
		if row[ci].Kind == sheet.CellFormula {
			formulas++
		} else {
			values++
		}
	}

	col := &model.Column{Name: name}
	if formulas == 0 {
		for _, row := range s.Rows {
			col.Values = append(col.Values, row[ci].Value())
		}
		if len(col.Values) > 0 {
			if _, err := col.ElemKind(); err != nil {
				return nil, err
			}
		}
		return col, nil
	}
	if values > 0 {
		return nil, &Error{Ident: ident, Msg: "column mixes formulas and literal values"}
	}

	var canonical string
	for ri, row := range s.Rows {
		rewritten, err := rv.rewrite(row[ci].Formula, s.Name, ri+headerRows+1)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", ident, ri, err)
		}
		if ri == 0 {
			canonical = rewritten
			continue
		}
		if rewritten != canonical {
			return nil, &Error{Ident: ident, Msg: fmt.Sprintf(
				"rows disagree: row 0 is %q, row %d is %q", canonical, ri, rewritten)}
		}
	}
	col.Formula = canonical
	return col, nil
}

func (rv *reverse) importScalars(s *sheet.Sheet, m *model.Model) error {
	for ri, row := range s.Rows {
		if len(row) < 2 {
			return &Error{Ident: sheet.ScalarsSheetName, Msg: "scalar rows need two columns"}
		}
		sc := &model.Scalar{Name: row[0].Text}
		if row[1].Kind == sheet.CellFormula {
			rewritten, err := rv.rewrite(row[1].Formula, sheet.ScalarsSheetName, ri+headerRows+1)
			if err != nil {
				return fmt.Errorf("scalar %q: %w", sc.Name, err)
			}
			sc.Formula = rewritten
		} else {
			sc.Value = row[1].Value()
			sc.Resolved = true
		}
		if err := m.AddScalar(sc); err != nil {
			return err
		}
	}
	return nil
}

// rewrite tokenizes one cell formula and maps every cell or range operand
// back to a symbolic identifier, then re-parses the result so the output is
// canonical model formula text.
func (rv *reverse) rewrite(body, currentSheet string, currentRow int) (string, error) {
	ps := efp.ExcelParser()
	tokens := ps.Parse(body)
	if tokens == nil {
		return "", &Error{Ident: currentSheet, Msg: "cannot tokenize formula " + body}
	}

	var sb strings.Builder
	for _, tk := range tokens {
		switch tk.TType {
		case efp.TokenTypeOperand:
			switch tk.TSubType {
			case efp.TokenSubTypeRange:
				ident, err := rv.identFor(tk.TValue, currentSheet, currentRow)
				if err != nil {
					return "", err
				}
				sb.WriteString(ident)
			case efp.TokenSubTypeText:
				sb.WriteString(`"` + strings.ReplaceAll(tk.TValue, `"`, `""`) + `"`)
			default:
				sb.WriteString(tk.TValue)
			}
		case efp.TokenTypeFunction:
			if tk.TSubType == efp.TokenSubTypeStart {
				sb.WriteString(strings.ToUpper(tk.TValue) + "(")
			} else {
				sb.WriteString(")")
			}
		case efp.TokenTypeSubexpression:
			if tk.TSubType == efp.TokenSubTypeStart {
				sb.WriteString("(")
			} else {
				sb.WriteString(")")
			}
		case efp.TokenTypeArgument:
			sb.WriteString(", ")
		case efp.TokenTypeOperatorInfix:
			sb.WriteString(" " + tk.TValue + " ")
		case efp.TokenTypeOperatorPrefix, efp.TokenTypeOperatorPostfix:
			sb.WriteString(tk.TValue)
		case efp.TokenTypeWhitespace:
			// canonical spacing is reconstructed around operators
		default:
			return "", &Error{Ident: currentSheet,
				Msg: fmt.Sprintf("unsupported token %q (%s) in formula %s", tk.TValue, tk.TType, body)}
		}
	}

	ast, err := formula.ParseExpr(sb.String(), "="+sb.String())
	if err != nil {
		return "", err
	}
	return "=" + ast.String(), nil
}

// identFor maps one A1 cell or range reference to its identifier. An
// anchored cell ($A$2) always means a fixed row, so it becomes an indexed
// reference even when it happens to sit on the formula's own row.
func (rv *reverse) identFor(ref, currentSheet string, currentRow int) (string, error) {
	target, cellPart := splitRef(ref)
	anchored := strings.Contains(ref, "$")
	if target == "" {
		target = currentSheet
	}

	if strings.Contains(cellPart, ":") {
		c1, r1, c2, r2, err := parseRange(cellPart)
		if err != nil {
			return "", err
		}
		header, ok := rv.headers[target]
		if !ok {
			return "", &Error{Ident: ref, Msg: "range references unknown sheet " + target}
		}
		if c1 != c2 || r1 != headerRows+1 || r2 != rv.rows[target]+headerRows {
			return "", &Error{Ident: ref, Msg: "only whole-column ranges are supported"}
		}
		if c1 < 1 || c1 > len(header) {
			return "", &Error{Ident: ref, Msg: "range column beyond header"}
		}
		return target + "." + header[c1-1], nil
	}

	col, row, err := parseCell(cellPart)
	if err != nil {
		return "", err
	}

	if target == sheet.ScalarsSheetName {
		idx := row - headerRows - 1
		if col != 2 || idx < 0 || idx >= len(rv.scalars) {
			return "", &Error{Ident: ref, Msg: "cell does not address a scalar value"}
		}
		return rv.scalars[idx], nil
	}

	header, ok := rv.headers[target]
	if !ok {
		return "", &Error{Ident: ref, Msg: "cell references unknown sheet " + target}
	}
	if col < 1 || col > len(header) {
		return "", &Error{Ident: ref, Msg: "cell column beyond header"}
	}
	name := header[col-1]

	if target == currentSheet && row == currentRow && !anchored {
		return name, nil // same row, same table: a row-relative reference
	}
	idx := row - headerRows - 1
	if idx < 0 || idx >= rv.rows[target] {
		return "", &Error{Ident: ref, Msg: "cell row outside data extent"}
	}
	if target == currentSheet {
		return name + "[" + strconv.Itoa(idx) + "]", nil
	}
	return target + "." + name + "[" + strconv.Itoa(idx) + "]", nil
}
