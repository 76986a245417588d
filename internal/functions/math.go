package functions

import (
	"math"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

var mathDefs = []Def{
	{Name: "ABS", MinArgs: 1, MaxArgs: 1, Fn: numeric1("ABS", math.Abs)},
	{Name: "SQRT", MinArgs: 1, MaxArgs: 1, Fn: fnSqrt},
	{Name: "POWER", MinArgs: 2, MaxArgs: 2, Fn: fnPower},
	{Name: "MOD", MinArgs: 2, MaxArgs: 2, Fn: fnMod},
	{Name: "ROUND", MinArgs: 1, MaxArgs: 2, Fn: roundWith(math.Round)},
	{Name: "ROUNDUP", MinArgs: 1, MaxArgs: 2, Fn: roundWith(awayFromZero)},
	{Name: "ROUNDDOWN", MinArgs: 1, MaxArgs: 2, Fn: roundWith(math.Trunc)},
}

func scalarNumber(a Arg) (float64, error) {
	v, err := a.Scalar()
	if err != nil {
		return 0, err
	}
	return v.AsNumber()
}

func numeric1(name string, f func(float64) float64) func([]Arg) (model.Value, error) {
	return func(args []Arg) (model.Value, error) {
		x, err := scalarNumber(args[0])
		if err != nil {
			return model.Value{}, err
		}
		return model.Number(f(x)), nil
	}
}

func fnSqrt(args []Arg) (model.Value, error) {
	x, err := scalarNumber(args[0])
	if err != nil {
		return model.Value{}, err
	}
	if x < 0 {
		return model.Value{}, &model.MathDomainError{Op: "SQRT", Detail: "negative argument"}
	}
	return model.Number(math.Sqrt(x)), nil
}

func fnPower(args []Arg) (model.Value, error) {
	base, err := scalarNumber(args[0])
	if err != nil {
		return model.Value{}, err
	}
	exp, err := scalarNumber(args[1])
	if err != nil {
		return model.Value{}, err
	}
	out := math.Pow(base, exp)
	if math.IsNaN(out) {
		return model.Value{}, &model.MathDomainError{Op: "POWER", Detail: "result undefined"}
	}
	return model.Number(out), nil
}

func fnMod(args []Arg) (model.Value, error) {
	x, err := scalarNumber(args[0])
	if err != nil {
		return model.Value{}, err
	}
	y, err := scalarNumber(args[1])
	if err != nil {
		return model.Value{}, err
	}
	if y == 0 {
		return model.Value{}, model.DivisionByZero()
	}
	// spreadsheet MOD follows the divisor's sign
	out := math.Mod(x, y)
	if out != 0 && (out < 0) != (y < 0) {
		out += y
	}
	return model.Number(out), nil
}

func awayFromZero(x float64) float64 {
	if x < 0 {
		return math.Floor(x)
	}
	return math.Ceil(x)
}

func roundWith(f func(float64) float64) func([]Arg) (model.Value, error) {
	return func(args []Arg) (model.Value, error) {
		x, err := scalarNumber(args[0])
		if err != nil {
			return model.Value{}, err
		}
		digits := 0.0
		if len(args) == 2 {
			digits, err = scalarNumber(args[1])
			if err != nil {
				return model.Value{}, err
			}
		}
		scale := math.Pow(10, math.Trunc(digits))
		return model.Number(f(x*scale) / scale), nil
	}
}
