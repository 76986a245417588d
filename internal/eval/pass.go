package eval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/formula"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Calculate runs one full calculation pass over the model and every
// included model, in include-topological order. Structural errors (parse,
// cycle, unknown reference) are detected for all files before any value is
// written, so a failed pass leaves the model untouched. Per-row numeric
// errors are collected across the whole pass and returned together as
// RowErrors after all computable values have been written.
func Calculate(ctx context.Context, m *model.Model) error {
	logger := ctxlog.FromContext(ctx)

	ordered := includeOrder(m)
	logger.Debug("calculation pass starting", "files", len(ordered))

	// Plan every file first: no mutation may happen before the whole pass
	// is known to be structurally sound.
	plans := make([]*Plan, len(ordered))
	for i, sub := range ordered {
		resetDerived(sub)
		plan, err := PlanModel(sub)
		if err != nil {
			return err
		}
		plans[i] = plan
	}

	var rowErrs model.RowErrors
	for i, sub := range ordered {
		errs, err := execute(ctx, sub, plans[i])
		if err != nil {
			return err
		}
		rowErrs = append(rowErrs, errs...)
	}

	logger.Debug("calculation pass complete", "row_errors", len(rowErrs))
	if len(rowErrs) > 0 {
		return rowErrs
	}
	return nil
}

// includeOrder returns the model and all transitively included models,
// producers first. Include cycles are rejected at load time, so plain
// post-order traversal terminates.
func includeOrder(m *model.Model) []*model.Model {
	var out []*model.Model
	seen := make(map[*model.Model]bool)
	var visit func(*model.Model)
	visit = func(cur *model.Model) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		for _, inc := range cur.Includes {
			visit(inc.Model)
		}
		out = append(out, cur)
	}
	visit(m)
	return out
}

// resetDerived clears every derived value so a pass always recomputes from
// source and repeated passes are idempotent.
func resetDerived(m *model.Model) {
	for _, t := range m.Tables {
		for _, c := range t.Columns {
			if c.IsDerived() {
				c.Values = nil
			}
		}
	}
	for _, s := range m.Scalars {
		if s.IsDerived() {
			s.Resolved = false
		}
	}
}

// execute evaluates one model's plan in order, writing computed columns and
// scalars back in place.
func execute(ctx context.Context, m *model.Model, plan *Plan) (model.RowErrors, error) {
	res := newResolver(m, plan.ASTs)
	var rowErrs model.RowErrors

	for _, key := range plan.Order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if IsColumnKey(key) {
			errs, err := evalColumn(m, res, plan, key)
			if err != nil {
				return nil, err
			}
			rowErrs = append(rowErrs, errs...)
			continue
		}
		if _, err := res.resolve(key, plan.Formulas[key]); err != nil {
			return nil, err
		}
	}
	return rowErrs, nil
}

// evalColumn applies one row-wise formula across the table, substituting
// each referenced column with its row element and broadcasting scalars.
// Division by zero and other per-row failures are collected, with NaN
// standing in for the failed rows, so one bad row does not hide the rest.
func evalColumn(m *model.Model, res *resolver, plan *Plan, key string) (model.RowErrors, error) {
	tableName, colName, _ := strings.Cut(key, ".")
	t := m.Table(tableName)
	if t == nil {
		return nil, fmt.Errorf("internal: plan key %q names no table", key)
	}
	col := t.Column(colName)
	rows, err := t.RowCount()
	if err != nil {
		return nil, err
	}

	ast := plan.ASTs[key]
	values := make([]model.Value, rows)
	var rowErrs model.RowErrors
	for i := 0; i < rows; i++ {
		e := &env{model: m, table: t, row: i, resolver: res, src: plan.Formulas[key]}
		v, err := e.evalScalar(ast, false)
		if err != nil {
			if structural(err) {
				return nil, err
			}
			rowErrs = append(rowErrs, &model.RowError{Ident: key, Row: i, Err: err})
			values[i] = model.Number(math.NaN())
			continue
		}
		values[i] = v
	}
	col.Values = values
	sort.SliceStable(rowErrs, func(a, b int) bool { return rowErrs[a].Row < rowErrs[b].Row })
	return rowErrs, nil
}

// structural reports errors that must abort the pass rather than be
// collected per row.
func structural(err error) bool {
	switch err.(type) {
	case *model.ParseError, *model.UnknownReferenceError, *model.CycleError:
		return true
	}
	return false
}

// parseIdentifier accepts exactly one (optionally indexed) reference.
func parseIdentifier(id string) (*formula.Ref, error) {
	node, err := formula.ParseExpr(id, id)
	if err != nil {
		return nil, err
	}
	ref, ok := node.(*formula.Ref)
	if !ok {
		return nil, &model.ParseError{Formula: id, Msg: "expected a plain identifier"}
	}
	return ref, nil
}

// ResolveIdentifier reads one identifier's value from a calculated model:
// a scalar name, table.column[index], or the alias-qualified forms. It is
// how the solver and command layer extract outputs.
func ResolveIdentifier(m *model.Model, id string) (model.Value, error) {
	ast, err := parseIdentifier(id)
	if err != nil {
		return model.Value{}, err
	}
	res := newResolver(m, nil)
	e := &env{model: m, resolver: res, src: id}
	return e.evalScalar(ast, false)
}
