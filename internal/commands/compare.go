package commands

import (
	"context"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Comparison tabulates every derived scalar across the base model and a
// set of scenarios. Columns[0] is always "base".
type Comparison struct {
	Columns []string
	Rows    []ComparisonRow
}

// ComparisonRow is one derived scalar's value under each column.
type ComparisonRow struct {
	Name   string
	Values []model.Value
}

// Compare calculates the base model and each named scenario on independent
// copies and tabulates the derived scalars side by side. The base model is
// never mutated; a scenario that is not declared is an error before any
// calculation runs.
func Compare(ctx context.Context, m *model.Model, scenarios []string) (*Comparison, error) {
	logger := ctxlog.FromContext(ctx)

	for _, name := range scenarios {
		if m.Scenario(name) == nil {
			return nil, &model.UnknownReferenceError{Ref: name, Detail: "scenario not defined"}
		}
	}

	cmp := &Comparison{Columns: append([]string{"base"}, scenarios...)}
	runs := make([]*model.Model, 0, len(scenarios)+1)

	base, err := Calculate(ctx, m, "")
	if err != nil {
		return nil, err
	}
	runs = append(runs, base)
	for _, name := range scenarios {
		out, err := Calculate(ctx, m, name)
		if err != nil {
			return nil, err
		}
		runs = append(runs, out)
	}

	for _, s := range m.Scalars {
		if !s.IsDerived() {
			continue
		}
		row := ComparisonRow{Name: s.Name}
		for _, run := range runs {
			row.Values = append(row.Values, run.Scalar(s.Name).Value)
		}
		cmp.Rows = append(cmp.Rows, row)
	}

	logger.Debug("comparison complete", "columns", len(cmp.Columns), "rows", len(cmp.Rows))
	return cmp, nil
}
