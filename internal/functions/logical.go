package functions

import (
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

var logicalDefs = []Def{
	{Name: "IF", MinArgs: 2, MaxArgs: 3, Fn: fnIf},
	{Name: "AND", MinArgs: 1, MaxArgs: -1, Fn: fnAnd},
	{Name: "OR", MinArgs: 1, MaxArgs: -1, Fn: fnOr},
	{Name: "NOT", MinArgs: 1, MaxArgs: 1, Fn: fnNot},
}

func fnIf(args []Arg) (model.Value, error) {
	cond, err := args[0].Scalar()
	if err != nil {
		return model.Value{}, err
	}
	b, err := cond.AsBool()
	if err != nil {
		return model.Value{}, err
	}
	if b {
		return args[1].Scalar()
	}
	if len(args) == 3 {
		return args[2].Scalar()
	}
	return model.Bool(false), nil
}

func fnAnd(args []Arg) (model.Value, error) {
	for _, a := range args {
		for _, v := range a.Column() {
			b, err := v.AsBool()
			if err != nil {
				return model.Value{}, err
			}
			if !b {
				return model.Bool(false), nil
			}
		}
	}
	return model.Bool(true), nil
}

func fnOr(args []Arg) (model.Value, error) {
	for _, a := range args {
		for _, v := range a.Column() {
			b, err := v.AsBool()
			if err != nil {
				return model.Value{}, err
			}
			if b {
				return model.Bool(true), nil
			}
		}
	}
	return model.Bool(false), nil
}

func fnNot(args []Arg) (model.Value, error) {
	v, err := args[0].Scalar()
	if err != nil {
		return model.Value{}, err
	}
	b, err := v.AsBool()
	if err != nil {
		return model.Value{}, err
	}
	return model.Bool(!b), nil
}
