package commands

import (
	"context"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/eval"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Mismatch is one recorded value that no longer matches its recomputed
// formula result. Row is -1 for scalars.
type Mismatch struct {
	Ident string
	Row   int
	Want  model.Value
	Got   model.Value
}

// Report is the outcome of validating one model tree.
type Report struct {
	// Structural holds a parse, reference or cycle error that prevented
	// the pass from running at all.
	Structural error
	// RowIssues holds per-row numeric failures from the check pass.
	RowIssues model.RowErrors
	// Mismatches lists recorded snapshot values that disagree with their
	// recomputed results.
	Mismatches []Mismatch
}

// OK reports whether the model validated cleanly.
func (r *Report) OK() bool {
	return r.Structural == nil && len(r.RowIssues) == 0 && len(r.Mismatches) == 0
}

// Validate checks the model without touching it: every formula must parse,
// every reference must resolve, the dependency graph must be acyclic, and
// any values recorded alongside a formula must match what the formula
// recomputes. Documents record such snapshots by declaring both values and
// formula on a column (or value and formula on a scalar).
func Validate(ctx context.Context, m *model.Model) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{}

	out := m.Clone()
	colSnaps := make(map[string][]model.Value)
	scalarSnaps := make(map[string]model.Value)
	for _, t := range out.Tables {
		for _, c := range t.Columns {
			if c.IsDerived() && len(c.Values) > 0 {
				colSnaps[t.Name+"."+c.Name] = append([]model.Value(nil), c.Values...)
			}
		}
	}
	var zero model.Value
	for _, s := range out.Scalars {
		if s.IsDerived() && !s.Value.Equal(zero) {
			scalarSnaps[s.Name] = s.Value
		}
	}

	if err := eval.Calculate(ctx, out); err != nil {
		if rowErrs, ok := err.(model.RowErrors); ok {
			report.RowIssues = rowErrs
		} else {
			report.Structural = err
			return report, nil
		}
	}

	for key, want := range colSnaps {
		got, err := columnValues(out, key)
		if err != nil {
			return nil, err
		}
		if len(got) != len(want) {
			report.Mismatches = append(report.Mismatches, Mismatch{Ident: key, Row: -1})
			continue
		}
		for i := range want {
			if !want[i].Equal(got[i]) {
				report.Mismatches = append(report.Mismatches,
					Mismatch{Ident: key, Row: i, Want: want[i], Got: got[i]})
			}
		}
	}
	for name, want := range scalarSnaps {
		got := out.Scalar(name).Value
		if !want.Equal(got) {
			report.Mismatches = append(report.Mismatches,
				Mismatch{Ident: name, Row: -1, Want: want, Got: got})
		}
	}
	sortMismatches(report.Mismatches)

	logger.Debug("validation complete",
		"row_issues", len(report.RowIssues), "mismatches", len(report.Mismatches))
	return report, nil
}
