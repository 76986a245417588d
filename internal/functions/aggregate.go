package functions

import (
	"math"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

var aggregateDefs = []Def{
	{Name: "SUM", MinArgs: 1, MaxArgs: -1, Aggregate: true, Fn: fnSum},
	{Name: "AVERAGE", MinArgs: 1, MaxArgs: -1, Aggregate: true, Fn: fnAverage},
	{Name: "MIN", MinArgs: 1, MaxArgs: -1, Aggregate: true, Fn: fnMin},
	{Name: "MAX", MinArgs: 1, MaxArgs: -1, Aggregate: true, Fn: fnMax},
	{Name: "COUNT", MinArgs: 1, MaxArgs: -1, Aggregate: true, Fn: fnCount},
	{Name: "SUMIF", MinArgs: 2, MaxArgs: 3, Aggregate: true, Fn: fnSumIf},
	{Name: "AVERAGEIF", MinArgs: 2, MaxArgs: 3, Aggregate: true, Fn: fnAverageIf},
	{Name: "COUNTIF", MinArgs: 2, MaxArgs: 2, Aggregate: true, Fn: fnCountIf},
}

func flatten(args []Arg) ([]float64, error) {
	var out []float64
	for _, a := range args {
		ns, err := a.Numbers()
		if err != nil {
			return nil, err
		}
		out = append(out, ns...)
	}
	return out, nil
}

func fnSum(args []Arg) (model.Value, error) {
	ns, err := flatten(args)
	if err != nil {
		return model.Value{}, err
	}
	total := 0.0
	for _, n := range ns {
		total += n
	}
	return model.Number(total), nil
}

func fnAverage(args []Arg) (model.Value, error) {
	ns, err := flatten(args)
	if err != nil {
		return model.Value{}, err
	}
	if len(ns) == 0 {
		return model.Value{}, &model.MathDomainError{Op: "AVERAGE", Detail: "no values"}
	}
	total := 0.0
	for _, n := range ns {
		total += n
	}
	return model.Number(total / float64(len(ns))), nil
}

func fnMin(args []Arg) (model.Value, error) {
	ns, err := flatten(args)
	if err != nil {
		return model.Value{}, err
	}
	if len(ns) == 0 {
		return model.Value{}, &model.MathDomainError{Op: "MIN", Detail: "no values"}
	}
	out := math.Inf(1)
	for _, n := range ns {
		out = math.Min(out, n)
	}
	return model.Number(out), nil
}

func fnMax(args []Arg) (model.Value, error) {
	ns, err := flatten(args)
	if err != nil {
		return model.Value{}, err
	}
	if len(ns) == 0 {
		return model.Value{}, &model.MathDomainError{Op: "MAX", Detail: "no values"}
	}
	out := math.Inf(-1)
	for _, n := range ns {
		out = math.Max(out, n)
	}
	return model.Number(out), nil
}

func fnCount(args []Arg) (model.Value, error) {
	count := 0
	for _, a := range args {
		for _, v := range a.Column() {
			if v.Kind() == model.KindNumber {
				count++
			}
		}
	}
	return model.Number(float64(count)), nil
}

// maskOf evaluates a criteria argument against a column, yielding the
// boolean mask conditional aggregations reduce under.
func maskOf(criteriaCol Arg, criteria Arg) ([]bool, []model.Value, error) {
	crit, err := criteria.Scalar()
	if err != nil {
		return nil, nil, err
	}
	pred, err := ParseCriteria(crit)
	if err != nil {
		return nil, nil, err
	}
	vs := criteriaCol.Column()
	mask := make([]bool, len(vs))
	for i, v := range vs {
		mask[i] = pred(v)
	}
	return mask, vs, nil
}

func fnSumIf(args []Arg) (model.Value, error) {
	mask, critVals, err := maskOf(args[0], args[1])
	if err != nil {
		return model.Value{}, err
	}
	sumVals := critVals
	if len(args) == 3 {
		sumVals = args[2].Column()
	}
	if len(sumVals) != len(mask) {
		return model.Value{}, &model.TypeError{Want: model.KindNumber, Got: model.KindNumber,
			Detail: "SUMIF ranges have different lengths"}
	}
	total := 0.0
	for i, keep := range mask {
		if !keep {
			continue
		}
		f, err := sumVals[i].AsNumber()
		if err != nil {
			return model.Value{}, err
		}
		total += f
	}
	return model.Number(total), nil
}

func fnAverageIf(args []Arg) (model.Value, error) {
	mask, critVals, err := maskOf(args[0], args[1])
	if err != nil {
		return model.Value{}, err
	}
	avgVals := critVals
	if len(args) == 3 {
		avgVals = args[2].Column()
	}
	if len(avgVals) != len(mask) {
		return model.Value{}, &model.TypeError{Want: model.KindNumber, Got: model.KindNumber,
			Detail: "AVERAGEIF ranges have different lengths"}
	}
	total, count := 0.0, 0
	for i, keep := range mask {
		if !keep {
			continue
		}
		f, err := avgVals[i].AsNumber()
		if err != nil {
			return model.Value{}, err
		}
		total += f
		count++
	}
	if count == 0 {
		return model.Value{}, &model.MathDomainError{Op: "AVERAGEIF", Detail: "no values match criteria"}
	}
	return model.Number(total / float64(count)), nil
}

func fnCountIf(args []Arg) (model.Value, error) {
	mask, _, err := maskOf(args[0], args[1])
	if err != nil {
		return model.Value{}, err
	}
	count := 0
	for _, keep := range mask {
		if keep {
			count++
		}
	}
	return model.Number(float64(count)), nil
}
