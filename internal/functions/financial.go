package functions

import (
	"context"
	"errors"
	"math"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
	"github.com/royalbit/mouvify-forge-sub002/internal/solver"
)

var financialDefs = []Def{
	{Name: "NPV", MinArgs: 2, MaxArgs: -1, Aggregate: true, Fn: fnNPV},
	{Name: "IRR", MinArgs: 1, MaxArgs: 2, Aggregate: true, Fn: fnIRR},
	{Name: "PMT", MinArgs: 3, MaxArgs: 5, Fn: fnPMT},
	{Name: "PV", MinArgs: 3, MaxArgs: 5, Fn: fnPV},
	{Name: "FV", MinArgs: 3, MaxArgs: 5, Fn: fnFV},
	{Name: "NPER", MinArgs: 3, MaxArgs: 5, Fn: fnNPER},
	{Name: "RATE", MinArgs: 3, MaxArgs: 6, Fn: fnRATE},
}

// npv discounts flows at rate, first flow one period out.
func npv(rate float64, flows []float64) (float64, error) {
	if rate <= -1 {
		return 0, &model.MathDomainError{Op: "NPV", Detail: "rate must exceed -100%"}
	}
	total := 0.0
	for i, cf := range flows {
		total += cf / math.Pow(1+rate, float64(i+1))
	}
	return total, nil
}

func fnNPV(args []Arg) (model.Value, error) {
	rate, err := scalarNumber(args[0])
	if err != nil {
		return model.Value{}, err
	}
	flows, err := flatten(args[1:])
	if err != nil {
		return model.Value{}, err
	}
	out, err := npv(rate, flows)
	if err != nil {
		return model.Value{}, err
	}
	return model.Number(out), nil
}

// fnIRR solves NPV(rate, flows) = 0 with Newton-Raphson. Cash flows without
// a sign change have no internal rate of return, which is reported as a
// domain error distinct from non-convergence.
func fnIRR(args []Arg) (model.Value, error) {
	flows, err := args[0].Numbers()
	if err != nil {
		return model.Value{}, err
	}
	guess := 0.1
	if len(args) == 2 {
		guess, err = scalarNumber(args[1])
		if err != nil {
			return model.Value{}, err
		}
	}

	hasPos, hasNeg := false, false
	for _, cf := range flows {
		hasPos = hasPos || cf > 0
		hasNeg = hasNeg || cf < 0
	}
	if !hasPos || !hasNeg {
		return model.Value{}, &model.MathDomainError{Op: "IRR",
			Detail: "cash flows have no sign change: rate is undefined"}
	}

	rate, err := solver.Newton(context.Background(), func(r float64) (float64, error) {
		return npv(r, flows)
	}, guess, solver.DefaultTolerance, solver.NewtonDefaultIter)
	if err != nil {
		if errors.Is(err, solver.ErrNonConvergence) {
			return model.Value{}, err
		}
		return model.Value{}, err
	}
	return model.Number(rate), nil
}

// annuityArgs unpacks (rate, nper, pmt/pv, [fv], [type]).
func annuityArgs(args []Arg) (vals [5]float64, err error) {
	for i := range args {
		vals[i], err = scalarNumber(args[i])
		if err != nil {
			return vals, err
		}
	}
	return vals, nil
}

// fnPMT computes the periodic payment of an annuity: PMT(rate, nper, pv,
// [fv], [type]) with type 1 meaning payments due at period start.
func fnPMT(args []Arg) (model.Value, error) {
	v, err := annuityArgs(args)
	if err != nil {
		return model.Value{}, err
	}
	rate, nper, pv, fv, due := v[0], v[1], v[2], v[3], v[4]
	if nper == 0 {
		return model.Value{}, model.DivisionByZero()
	}
	if rate == 0 {
		return model.Number(-(pv + fv) / nper), nil
	}
	factor := math.Pow(1+rate, nper)
	pmt := -(pv*factor + fv) * rate / (factor - 1)
	if due != 0 {
		pmt /= 1 + rate
	}
	return model.Number(pmt), nil
}

func fnPV(args []Arg) (model.Value, error) {
	v, err := annuityArgs(args)
	if err != nil {
		return model.Value{}, err
	}
	rate, nper, pmt, fv, due := v[0], v[1], v[2], v[3], v[4]
	if rate == 0 {
		return model.Number(-(fv + pmt*nper)), nil
	}
	factor := math.Pow(1+rate, nper)
	annuity := pmt * (factor - 1) / rate
	if due != 0 {
		annuity *= 1 + rate
	}
	return model.Number(-(fv + annuity) / factor), nil
}

func fnFV(args []Arg) (model.Value, error) {
	v, err := annuityArgs(args)
	if err != nil {
		return model.Value{}, err
	}
	rate, nper, pmt, pv, due := v[0], v[1], v[2], v[3], v[4]
	if rate == 0 {
		return model.Number(-(pv + pmt*nper)), nil
	}
	factor := math.Pow(1+rate, nper)
	annuity := pmt * (factor - 1) / rate
	if due != 0 {
		annuity *= 1 + rate
	}
	return model.Number(-(pv*factor + annuity)), nil
}

func fnNPER(args []Arg) (model.Value, error) {
	v, err := annuityArgs(args)
	if err != nil {
		return model.Value{}, err
	}
	rate, pmt, pv, fv, due := v[0], v[1], v[2], v[3], v[4]
	if rate == 0 {
		if pmt == 0 {
			return model.Value{}, model.DivisionByZero()
		}
		return model.Number(-(pv + fv) / pmt), nil
	}
	adj := pmt
	if due != 0 {
		adj *= 1 + rate
	}
	num := adj - fv*rate
	den := adj + pv*rate
	if den == 0 || num/den <= 0 {
		return model.Value{}, &model.MathDomainError{Op: "NPER", Detail: "no solution for these terms"}
	}
	return model.Number(math.Log(num/den) / math.Log(1+rate)), nil
}

// fnRATE solves the annuity equation for the periodic rate:
// RATE(nper, pmt, pv, [fv], [type], [guess]).
func fnRATE(args []Arg) (model.Value, error) {
	var v [6]float64
	for i := range args {
		f, err := scalarNumber(args[i])
		if err != nil {
			return model.Value{}, err
		}
		v[i] = f
	}
	nper, pmt, pv, fv, due := v[0], v[1], v[2], v[3], v[4]
	guess := 0.1
	if len(args) == 6 {
		guess = v[5]
	}

	rate, err := solver.Newton(context.Background(), func(r float64) (float64, error) {
		if r <= -1 {
			return math.Inf(1), nil
		}
		if r == 0 {
			return pv + pmt*nper + fv, nil
		}
		factor := math.Pow(1+r, nper)
		annuity := pmt * (factor - 1) / r
		if due != 0 {
			annuity *= 1 + r
		}
		return pv*factor + annuity + fv, nil
	}, guess, solver.DefaultTolerance, solver.NewtonDefaultIter)
	if err != nil {
		return model.Value{}, err
	}
	return model.Number(rate), nil
}
