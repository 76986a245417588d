package functions

import (
	"fmt"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Arg is one evaluated argument: either a single value or a whole column.
type Arg struct {
	scalar model.Value
	column []model.Value
	isCol  bool
}

// ScalarArg wraps a single value.
func ScalarArg(v model.Value) Arg { return Arg{scalar: v} }

// ColumnArg wraps a whole column.
func ColumnArg(vs []model.Value) Arg { return Arg{column: vs, isCol: true} }

// IsColumn reports whether the argument is a column.
func (a Arg) IsColumn() bool { return a.isCol }

// Scalar returns the argument as a single value; a column argument is a
// TypeError.
func (a Arg) Scalar() (model.Value, error) {
	if a.isCol {
		return model.Value{}, &model.TypeError{Want: model.KindNumber, Got: model.KindNumber,
			Detail: "column used where a single value is required"}
	}
	return a.scalar, nil
}

// Column returns the argument's elements, treating a scalar as a
// one-element column so SUM(5) and SUM(col) share one code path.
func (a Arg) Column() []model.Value {
	if a.isCol {
		return a.column
	}
	return []model.Value{a.scalar}
}

// Numbers flattens the argument to float64s, coercing booleans and dates
// per Value.AsNumber.
func (a Arg) Numbers() ([]float64, error) {
	vs := a.Column()
	out := make([]float64, len(vs))
	for i, v := range vs {
		f, err := v.AsNumber()
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// Def describes one library function. MaxArgs of -1 means unlimited.
type Def struct {
	Name    string
	MinArgs int
	MaxArgs int
	// Aggregate marks reducing functions: inside their arguments a column
	// reference stays a whole column even in row-wise context.
	Aggregate bool
	Fn        func(args []Arg) (model.Value, error)
}

var table = buildTable()

func buildTable() map[string]Def {
	m := make(map[string]Def)
	for _, group := range [][]Def{
		aggregateDefs, logicalDefs, mathDefs, textDefs, dateDefs, lookupDefs, financialDefs,
	} {
		for _, d := range group {
			if _, dup := m[d.Name]; dup {
				panic("functions: duplicate definition " + d.Name)
			}
			m[d.Name] = d
		}
	}
	return m
}

// Lookup returns the definition for an upper-case function name.
func Lookup(name string) (Def, bool) {
	d, ok := table[name]
	return d, ok
}

// Call dispatches one invocation, enforcing arity before running the
// implementation.
func Call(name string, args []Arg) (model.Value, error) {
	d, ok := table[name]
	if !ok {
		return model.Value{}, &model.UnknownReferenceError{Ref: name, Detail: "no such function"}
	}
	if len(args) < d.MinArgs {
		return model.Value{}, fmt.Errorf("%s expects at least %d argument(s), got %d", name, d.MinArgs, len(args))
	}
	if d.MaxArgs >= 0 && len(args) > d.MaxArgs {
		return model.Value{}, fmt.Errorf("%s expects at most %d argument(s), got %d", name, d.MaxArgs, len(args))
	}
	return d.Fn(args)
}
