package solver

import (
	"context"
	"errors"
	"math"
)

// ErrNonConvergence reports a Newton-Raphson run that failed to settle
// within its budget. It is distinct from a mathematically undefined
// problem, which callers detect up front (e.g. cash flows with no sign
// change have no internal rate of return).
var ErrNonConvergence = errors.New("newton-raphson did not converge")

// Newton runs Newton-Raphson from guess with a central-difference numeric
// derivative. It returns ErrNonConvergence when the budget runs out or the
// derivative vanishes.
func Newton(ctx context.Context, f Objective, guess, tol float64, maxIter int) (float64, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if maxIter <= 0 {
		maxIter = NewtonDefaultIter
	}

	x := guess
	for i := 0; i < maxIter; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fx, err := f(x)
		if err != nil {
			return 0, err
		}
		if math.Abs(fx) <= tol {
			return x, nil
		}

		h := 1e-6 * math.Max(math.Abs(x), 1)
		fplus, err := f(x + h)
		if err != nil {
			return 0, err
		}
		fminus, err := f(x - h)
		if err != nil {
			return 0, err
		}
		deriv := (fplus - fminus) / (2 * h)
		if deriv == 0 || math.IsNaN(deriv) || math.IsInf(deriv, 0) {
			return 0, ErrNonConvergence
		}

		next := x - fx/deriv
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, ErrNonConvergence
		}
		x = next
	}
	return 0, ErrNonConvergence
}
