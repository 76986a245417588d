package functions

import (
	"time"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

var dateDefs = []Def{
	{Name: "DATE", MinArgs: 3, MaxArgs: 3, Fn: fnDate},
	{Name: "YEAR", MinArgs: 1, MaxArgs: 1, Fn: datePart(func(t time.Time) int { return t.Year() })},
	{Name: "MONTH", MinArgs: 1, MaxArgs: 1, Fn: datePart(func(t time.Time) int { return int(t.Month()) })},
	{Name: "DAY", MinArgs: 1, MaxArgs: 1, Fn: datePart(func(t time.Time) int { return t.Day() })},
	{Name: "EDATE", MinArgs: 2, MaxArgs: 2, Fn: fnEDate},
	{Name: "EOMONTH", MinArgs: 2, MaxArgs: 2, Fn: fnEOMonth},
}

func scalarDate(a Arg) (time.Time, error) {
	v, err := a.Scalar()
	if err != nil {
		return time.Time{}, err
	}
	switch v.Kind() {
	case model.KindDate:
		return v.Time(), nil
	case model.KindText:
		t, err := time.Parse(model.DateLayout, v.Str())
		if err != nil {
			return time.Time{}, &model.TypeError{Want: model.KindDate, Got: model.KindText,
				Detail: "cannot parse " + v.Str()}
		}
		return t, nil
	default:
		return time.Time{}, &model.TypeError{Want: model.KindDate, Got: v.Kind()}
	}
}

func fnDate(args []Arg) (model.Value, error) {
	y, err := scalarNumber(args[0])
	if err != nil {
		return model.Value{}, err
	}
	m, err := scalarNumber(args[1])
	if err != nil {
		return model.Value{}, err
	}
	d, err := scalarNumber(args[2])
	if err != nil {
		return model.Value{}, err
	}
	return model.Date(time.Date(int(y), time.Month(int(m)), int(d), 0, 0, 0, 0, time.UTC)), nil
}

func datePart(f func(time.Time) int) func([]Arg) (model.Value, error) {
	return func(args []Arg) (model.Value, error) {
		t, err := scalarDate(args[0])
		if err != nil {
			return model.Value{}, err
		}
		return model.Number(float64(f(t))), nil
	}
}

func fnEDate(args []Arg) (model.Value, error) {
	t, err := scalarDate(args[0])
	if err != nil {
		return model.Value{}, err
	}
	months, err := scalarNumber(args[1])
	if err != nil {
		return model.Value{}, err
	}
	return model.Date(t.AddDate(0, int(months), 0)), nil
}

func fnEOMonth(args []Arg) (model.Value, error) {
	t, err := scalarDate(args[0])
	if err != nil {
		return model.Value{}, err
	}
	months, err := scalarNumber(args[1])
	if err != nil {
		return model.Value{}, err
	}
	shifted := t.AddDate(0, int(months), 0)
	firstOfNext := time.Date(shifted.Year(), shifted.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return model.Date(firstOfNext.AddDate(0, 0, -1)), nil
}
