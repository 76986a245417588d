package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Default numerical parameters, shared by goal-seek and break-even.
const (
	DefaultTolerance  = 1e-7
	DefaultMaxIter    = 100
	NewtonDefaultIter = 50
)

// ErrNoSignChange reports that the objective has the same sign at both
// bounds, so bisection cannot bracket a root.
var ErrNoSignChange = errors.New("no sign change within bounds")

// BudgetExceededError reports that the iteration budget ran out before the
// tolerance was met. Best carries the closest input found.
type BudgetExceededError struct {
	Iterations int
	Best       float64
	Residual   float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("exceeded iteration budget (%d iterations, best input %g, residual %g)",
		e.Iterations, e.Best, e.Residual)
}

// Objective evaluates the target function at one input. An error aborts the
// whole solve; trials are never retried or defaulted.
type Objective func(x float64) (float64, error)

// Bisect finds x in [lo, hi] with |f(x)| <= tol by interval halving. The
// objective must change sign across the bounds. The context is checked each
// iteration so long solves can be cancelled.
func Bisect(ctx context.Context, f Objective, lo, hi, tol float64, maxIter int) (float64, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	flo, err := f(lo)
	if err != nil {
		return 0, err
	}
	if math.Abs(flo) <= tol {
		return lo, nil
	}
	fhi, err := f(hi)
	if err != nil {
		return 0, err
	}
	if math.Abs(fhi) <= tol {
		return hi, nil
	}
	if (flo < 0) == (fhi < 0) {
		return 0, ErrNoSignChange
	}

	mid, fmid := lo, flo
	for i := 0; i < maxIter; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		mid = (lo + hi) / 2
		fmid, err = f(mid)
		if err != nil {
			return 0, err
		}
		if math.Abs(fmid) <= tol {
			return mid, nil
		}
		if (fmid < 0) == (flo < 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return 0, &BudgetExceededError{Iterations: maxIter, Best: mid, Residual: fmid}
}
