package commands

import (
	"context"
	"math"

	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// VarianceLine is one scalar's budget-versus-actual comparison. Favorable
// follows the scalar's declared favor direction: an increase is favorable
// for favor "up" quantities, a decrease for favor "down" ones.
type VarianceLine struct {
	Name        string
	Budget      float64
	Actual      float64
	Delta       float64
	Pct         float64 // Delta relative to |Budget|; NaN when Budget is 0
	Favorable   bool
	Significant bool
}

// VarianceReport lists variances for every numeric scalar the two models
// share, in the budget model's declaration order.
type VarianceReport struct {
	Threshold float64
	Lines     []VarianceLine
}

// Variance calculates both models and compares every numeric scalar they
// share. Lines whose relative variance reaches the threshold are flagged
// significant; a zero threshold flags everything.
func Variance(ctx context.Context, budget, actual *model.Model, threshold float64) (*VarianceReport, error) {
	logger := ctxlog.FromContext(ctx)

	b, err := Calculate(ctx, budget, "")
	if err != nil {
		return nil, err
	}
	a, err := Calculate(ctx, actual, "")
	if err != nil {
		return nil, err
	}

	report := &VarianceReport{Threshold: threshold}
	for _, s := range b.Scalars {
		if a.Scalar(s.Name) == nil {
			continue
		}
		bv, err := numericScalar(b, s.Name)
		if err != nil {
			continue // non-numeric scalars have no variance
		}
		av, err := numericScalar(a, s.Name)
		if err != nil {
			continue
		}

		line := VarianceLine{Name: s.Name, Budget: bv, Actual: av, Delta: av - bv}
		if bv != 0 {
			line.Pct = line.Delta / math.Abs(bv)
		} else {
			line.Pct = math.NaN()
		}
		up := line.Delta >= 0
		line.Favorable = up == (s.Favor == model.FavorUp)
		line.Significant = threshold == 0 ||
			(!math.IsNaN(line.Pct) && math.Abs(line.Pct) >= threshold) ||
			(math.IsNaN(line.Pct) && line.Delta != 0)
		report.Lines = append(report.Lines, line)
	}

	logger.Debug("variance complete", "lines", len(report.Lines))
	return report, nil
}
