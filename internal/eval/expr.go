package eval

import (
	"math"

	"github.com/royalbit/mouvify-forge-sub002/internal/formula"
	"github.com/royalbit/mouvify-forge-sub002/internal/functions"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// evalNode evaluates one expression node to an operand. inAggregate is true
// inside the arguments of a reducing function, where column references stay
// whole columns.
func (e *env) evalNode(n formula.Node, inAggregate bool) (functions.Arg, error) {
	switch x := n.(type) {
	case *formula.NumberLit:
		return functions.ScalarArg(model.Number(x.Value)), nil
	case *formula.StringLit:
		return functions.ScalarArg(model.Text(x.Value)), nil
	case *formula.BoolLit:
		return functions.ScalarArg(model.Bool(x.Value)), nil
	case *formula.Ref:
		return e.resolveRef(x, inAggregate)
	case *formula.Paren:
		return e.evalNode(x.X, inAggregate)
	case *formula.Unary:
		return e.evalUnary(x, inAggregate)
	case *formula.Binary:
		return e.evalBinary(x, inAggregate)
	case *formula.Call:
		return e.evalCall(x)
	}
	return functions.Arg{}, &model.ParseError{Formula: e.src, Msg: "unsupported expression node"}
}

// evalScalar evaluates a node and requires a single value.
func (e *env) evalScalar(n formula.Node, inAggregate bool) (model.Value, error) {
	a, err := e.evalNode(n, inAggregate)
	if err != nil {
		return model.Value{}, err
	}
	return a.Scalar()
}

func (e *env) evalUnary(x *formula.Unary, inAggregate bool) (functions.Arg, error) {
	v, err := e.evalScalar(x.X, inAggregate)
	if err != nil {
		return functions.Arg{}, err
	}
	f, err := v.AsNumber()
	if err != nil {
		return functions.Arg{}, err
	}
	switch x.Op {
	case "-":
		return functions.ScalarArg(model.Number(-f)), nil
	case "+":
		return functions.ScalarArg(model.Number(f)), nil
	case "%":
		return functions.ScalarArg(model.Number(f / 100)), nil
	}
	return functions.Arg{}, &model.ParseError{Formula: e.src, Msg: "unknown unary operator " + x.Op}
}

func (e *env) evalBinary(x *formula.Binary, inAggregate bool) (functions.Arg, error) {
	l, err := e.evalScalar(x.L, inAggregate)
	if err != nil {
		return functions.Arg{}, err
	}
	r, err := e.evalScalar(x.R, inAggregate)
	if err != nil {
		return functions.Arg{}, err
	}

	switch x.Op {
	case "&":
		return functions.ScalarArg(model.Text(l.String() + r.String())), nil
	case "=", "<>", "<", "<=", ">", ">=":
		return compare(x.Op, l, r)
	}

	lf, err := l.AsNumber()
	if err != nil {
		return functions.Arg{}, err
	}
	rf, err := r.AsNumber()
	if err != nil {
		return functions.Arg{}, err
	}

	var out float64
	switch x.Op {
	case "+":
		out = lf + rf
	case "-":
		out = lf - rf
	case "*":
		out = lf * rf
	case "/":
		if rf == 0 {
			return functions.Arg{}, model.DivisionByZero()
		}
		out = lf / rf
	case "^":
		out = math.Pow(lf, rf)
		if math.IsNaN(out) {
			return functions.Arg{}, &model.MathDomainError{Op: "^", Detail: "result undefined"}
		}
	default:
		return functions.Arg{}, &model.ParseError{Formula: e.src, Msg: "unknown operator " + x.Op}
	}
	return functions.ScalarArg(model.Number(out)), nil
}

// compare orders two values: numerically when both coerce to numbers, else
// as text. Equality across kinds follows Value.Equal.
func compare(op string, l, r model.Value) (functions.Arg, error) {
	if op == "=" {
		return functions.ScalarArg(model.Bool(l.Equal(r))), nil
	}
	if op == "<>" {
		return functions.ScalarArg(model.Bool(!l.Equal(r))), nil
	}

	var cmp int
	lf, lerr := l.AsNumber()
	rf, rerr := r.AsNumber()
	switch {
	case lerr == nil && rerr == nil:
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	case l.Kind() == model.KindText && r.Kind() == model.KindText:
		switch {
		case l.Str() < r.Str():
			cmp = -1
		case l.Str() > r.Str():
			cmp = 1
		}
	default:
		return functions.Arg{}, &model.TypeError{Want: l.Kind(), Got: r.Kind(),
			Detail: "cannot order values of different kinds"}
	}

	var b bool
	switch op {
	case "<":
		b = cmp < 0
	case "<=":
		b = cmp <= 0
	case ">":
		b = cmp > 0
	case ">=":
		b = cmp >= 0
	}
	return functions.ScalarArg(model.Bool(b)), nil
}

func (e *env) evalCall(x *formula.Call) (functions.Arg, error) {
	def, ok := functions.Lookup(x.Name)
	if !ok {
		return functions.Arg{}, &model.UnknownReferenceError{Ref: x.Name, Formula: e.src,
			Detail: "no such function"}
	}
	args := make([]functions.Arg, len(x.Args))
	for i, argNode := range x.Args {
		a, err := e.evalNode(argNode, def.Aggregate)
		if err != nil {
			return functions.Arg{}, err
		}
		args[i] = a
	}
	v, err := functions.Call(x.Name, args)
	if err != nil {
		return functions.Arg{}, err
	}
	return functions.ScalarArg(v), nil
}
