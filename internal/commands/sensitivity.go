package commands

import (
	"context"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/eval"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
	"github.com/royalbit/mouvify-forge-sub002/internal/solver"
)

// Axis is one sensitivity dimension: the scalar to sweep and its range.
type Axis struct {
	Scalar string
	Range  solver.Range
}

// SensitivityRequest describes a one- or two-dimensional sweep of a target
// identifier. Y is nil for a one-dimensional sweep.
type SensitivityRequest struct {
	Target string
	X      Axis
	Y      *Axis
}

// SensitivityGrid holds the sweep results. Values is indexed [y][x]; a
// one-dimensional sweep has a single row and no YPoints.
type SensitivityGrid struct {
	Target  string
	XPoints []float64
	YPoints []float64
	Values  [][]float64
}

// Sensitivity recalculates the model once per input combination and reads
// the target after each pass. Every trial runs on its own copy, so the
// input model is untouched and trials are order-independent.
func Sensitivity(ctx context.Context, m *model.Model, req SensitivityRequest) (*SensitivityGrid, error) {
	logger := ctxlog.FromContext(ctx)

	xs, err := req.X.Range.Points()
	if err != nil {
		return nil, err
	}
	grid := &SensitivityGrid{Target: req.Target, XPoints: xs}

	ys := []float64{0}
	if req.Y != nil {
		if ys, err = req.Y.Range.Points(); err != nil {
			return nil, err
		}
		grid.YPoints = ys
	}

	for _, y := range ys {
		row := make([]float64, 0, len(xs))
		for _, x := range xs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			v, err := trial(ctx, m, req, x, y)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		grid.Values = append(grid.Values, row)
	}

	logger.Debug("sensitivity sweep complete",
		"target", req.Target, "cells", len(xs)*len(ys))
	return grid, nil
}

func trial(ctx context.Context, m *model.Model, req SensitivityRequest, x, y float64) (float64, error) {
	out := m.Clone()
	if err := out.SetScalar(req.X.Scalar, model.Number(x)); err != nil {
		return 0, err
	}
	if req.Y != nil {
		if err := out.SetScalar(req.Y.Scalar, model.Number(y)); err != nil {
			return 0, err
		}
	}
	if err := eval.Calculate(ctx, out); err != nil {
		if _, partial := err.(model.RowErrors); !partial {
			return 0, err
		}
	}
	v, err := eval.ResolveIdentifier(out, req.Target)
	if err != nil {
		return 0, err
	}
	return v.AsNumber()
}
