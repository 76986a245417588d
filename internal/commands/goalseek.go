package commands

import (
	"context"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/eval"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
	"github.com/royalbit/mouvify-forge-sub002/internal/solver"
)

// GoalSeekRequest asks for the input value that makes Target equal Goal.
// The search is bounded by [Lo, Hi]; Tolerance and MaxIter fall back to the
// solver defaults when zero.
type GoalSeekRequest struct {
	Target    string
	Goal      float64
	By        string
	Lo        float64
	Hi        float64
	Tolerance float64
	MaxIter   int
}

// GoalSeekResult is a successful search: the input found and the target
// value it produces.
type GoalSeekResult struct {
	Input  float64
	Target float64
}

// GoalSeek bisects By over [Lo, Hi] until Target reaches Goal. Every trial
// calculates a fresh copy of the model, so the input model is untouched and
// the objective is exactly what a manual recalculation would produce.
func GoalSeek(ctx context.Context, m *model.Model, req GoalSeekRequest) (*GoalSeekResult, error) {
	logger := ctxlog.FromContext(ctx)

	objective := func(x float64) (float64, error) {
		out := m.Clone()
		if err := out.SetScalar(req.By, model.Number(x)); err != nil {
			return 0, err
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
		n, err := v.AsNumber()
		if err != nil {
			return 0, err
		}
		return n - req.Goal, nil
	}

	input, err := solver.Bisect(ctx, objective, req.Lo, req.Hi, req.Tolerance, req.MaxIter)
	if err != nil {
		return nil, err
	}
	residual, err := objective(input)
	if err != nil {
		return nil, err
	}

	logger.Debug("goal seek converged", "by", req.By, "input", input)
	return &GoalSeekResult{Input: input, Target: residual + req.Goal}, nil
}

// BreakEven finds the input that drives Target to zero. It is GoalSeek
// with a fixed goal, kept as its own entry point because break-even is the
// question models most often ask.
func BreakEven(ctx context.Context, m *model.Model, target, by string, lo, hi float64) (*GoalSeekResult, error) {
	return GoalSeek(ctx, m, GoalSeekRequest{Target: target, By: by, Lo: lo, Hi: hi})
}
