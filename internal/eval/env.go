package eval

import (
	"fmt"

	"github.com/royalbit/mouvify-forge-sub002/internal/formula"
	"github.com/royalbit/mouvify-forge-sub002/internal/functions"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// env is the evaluation context for one formula. Table and Row are set in
// row-wise context; in scalar context Table is nil.
type env struct {
	model    *model.Model
	table    *model.Table
	row      int
	resolver *resolver
	src      string // formula text for error reporting
}

// resolveRef turns an identifier reference into an operand. In row-wise
// context a bare same-table column yields its current row's element; inside
// an aggregation function column references stay whole columns. Cross-table
// and cross-file columns are always whole columns unless indexed.
func (e *env) resolveRef(ref *formula.Ref, inAggregate bool) (functions.Arg, error) {
	switch len(ref.Parts) {
	case 1:
		name := ref.Parts[0]
		if e.table != nil {
			if col := e.table.Column(name); col != nil {
				return e.columnOperand(col, ref, inAggregate, true)
			}
		}
		if e.model.Scalar(name) != nil {
			v, err := e.resolver.resolve(name, e.src)
			if err != nil {
				return functions.Arg{}, err
			}
			return functions.ScalarArg(v), nil
		}
		return functions.Arg{}, &model.UnknownReferenceError{Ref: name, Formula: e.src}

	case 2:
		first, second := ref.Parts[0], ref.Parts[1]
		if t := e.model.Table(first); t != nil {
			col := t.Column(second)
			if col == nil {
				return functions.Arg{}, &model.UnknownReferenceError{Ref: ref.Key(), Formula: e.src,
					Detail: fmt.Sprintf("table %q has no column %q", first, second)}
			}
			return e.columnOperand(col, ref, inAggregate, false)
		}
		if inc := e.model.Include(first); inc != nil {
			if inc.Model.Scalar(second) != nil {
				s := inc.Model.Scalar(second)
				if !s.Resolved {
					return functions.Arg{}, &model.UnknownReferenceError{Ref: ref.Key(), Formula: e.src,
						Detail: "included scalar not yet resolved"}
				}
				return functions.ScalarArg(s.Value), nil
			}
			return functions.Arg{}, &model.UnknownReferenceError{Ref: ref.Key(), Formula: e.src,
				Detail: fmt.Sprintf("include %q has no scalar %q", first, second)}
		}
		return functions.Arg{}, &model.UnknownReferenceError{Ref: ref.Key(), Formula: e.src}

	case 3:
		alias, tableName, colName := ref.Parts[0], ref.Parts[1], ref.Parts[2]
		inc := e.model.Include(alias)
		if inc == nil {
			return functions.Arg{}, &model.UnknownReferenceError{Ref: ref.Key(), Formula: e.src,
				Detail: fmt.Sprintf("no include aliased %q", alias)}
		}
		t := inc.Model.Table(tableName)
		if t == nil {
			return functions.Arg{}, &model.UnknownReferenceError{Ref: ref.Key(), Formula: e.src,
				Detail: fmt.Sprintf("include %q has no table %q", alias, tableName)}
		}
		col := t.Column(colName)
		if col == nil {
			return functions.Arg{}, &model.UnknownReferenceError{Ref: ref.Key(), Formula: e.src,
				Detail: fmt.Sprintf("table %q has no column %q", tableName, colName)}
		}
		return e.columnOperand(col, ref, inAggregate, false)
	}
	return functions.Arg{}, &model.UnknownReferenceError{Ref: ref.Key(), Formula: e.src}
}

// columnOperand applies indexing and broadcast rules to a column reference.
// sameTable marks a bare reference in row-wise context, which yields the
// current row's element outside aggregation functions.
func (e *env) columnOperand(col *model.Column, ref *formula.Ref, inAggregate, sameTable bool) (functions.Arg, error) {
	if col.IsDerived() && col.Values == nil {
		return functions.Arg{}, &model.UnknownReferenceError{Ref: ref.Key(), Formula: e.src,
			Detail: "column not yet computed"}
	}
	if ref.Index >= 0 {
		if ref.Index >= len(col.Values) {
			return functions.Arg{}, &model.MathDomainError{Op: "index",
				Detail: fmt.Sprintf("%s[%d] out of range (%d rows)", ref.Key(), ref.Index, len(col.Values))}
		}
		return functions.ScalarArg(col.Values[ref.Index]), nil
	}
	if inAggregate || !sameTable || e.table == nil {
		return functions.ColumnArg(col.Values), nil
	}
	if e.row >= len(col.Values) {
		return functions.Arg{}, &model.MathDomainError{Op: "row",
			Detail: fmt.Sprintf("row %d out of range for column %s", e.row, ref.Key())}
	}
	return functions.ScalarArg(col.Values[e.row]), nil
}
