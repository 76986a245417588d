package commands

import (
	"context"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/eval"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Calculate runs a full calculation pass and returns the computed model.
// The input model is never mutated; a non-empty scenario name applies that
// scenario's overrides before the pass. A model.RowErrors result carries
// the per-row failures alongside the otherwise computed copy.
func Calculate(ctx context.Context, m *model.Model, scenario string) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)

	out := m.Clone()
	if scenario != "" {
		if err := out.ApplyScenario(scenario); err != nil {
			return nil, err
		}
		logger.Debug("scenario applied", "scenario", scenario)
	}
	if err := eval.Calculate(ctx, out); err != nil {
		if _, partial := err.(model.RowErrors); partial {
			return out, err
		}
		return nil, err
	}
	return out, nil
}
