package eval

import (
	"github.com/royalbit/mouvify-forge-sub002/internal/formula"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// resolver resolves scalar identifiers by trying, in fixed order: a
// same-file literal or already-resolved scalar, then the scalar's own
// formula (recursively, so same-file cross-table aggregation results
// resolve on demand), then nothing. Cross-file scalars are reached only
// through their declared alias, which resolveRef handles before calling
// here. Results are memoized once per pass, which both avoids re-derivation
// and makes cycle detection exact.
type resolver struct {
	m        *model.Model
	asts     map[string]formula.Node
	memo     map[string]model.Value
	visiting map[string]bool
}

func newResolver(m *model.Model, asts map[string]formula.Node) *resolver {
	return &resolver{
		m:        m,
		asts:     asts,
		memo:     make(map[string]model.Value),
		visiting: make(map[string]bool),
	}
}

func (r *resolver) resolve(name, fromFormula string) (model.Value, error) {
	if v, ok := r.memo[name]; ok {
		return v, nil
	}
	s := r.m.Scalar(name)
	if s == nil {
		return model.Value{}, &model.UnknownReferenceError{Ref: name, Formula: fromFormula}
	}
	if s.Resolved {
		r.memo[name] = s.Value
		return s.Value, nil
	}
	if !s.IsDerived() {
		return model.Value{}, &model.UnknownReferenceError{Ref: name, Formula: fromFormula,
			Detail: "scalar has no value"}
	}
	if r.visiting[name] {
		members := make([]string, 0, len(r.visiting))
		for id := range r.visiting {
			members = append(members, id)
		}
		return model.Value{}, &model.CycleError{Members: members}
	}

	r.visiting[name] = true
	defer delete(r.visiting, name)

	ast := r.asts[name]
	if ast == nil {
		parsed, err := formula.Parse(s.Formula)
		if err != nil {
			return model.Value{}, err
		}
		ast = parsed
	}
	e := &env{model: r.m, resolver: r, src: s.Formula}
	v, err := e.evalScalar(ast, false)
	if err != nil {
		return model.Value{}, err
	}
	s.Value = v
	s.Resolved = true
	r.memo[name] = v
	return v, nil
}
