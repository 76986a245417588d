package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/royalbit/mouvify-forge-sub002/internal/eval"
	"github.com/royalbit/mouvify-forge-sub002/internal/formula"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Trace is one identifier's place in the calculation: its formula (empty
// for literals), its computed values (a single element for scalars), and
// the traces of everything the formula reads.
type Trace struct {
	Ident   string
	Formula string
	Values  []model.Value
	Inputs  []*Trace
}

// Audit computes the model and returns the full producer chain behind one
// identifier: which formulas fed it, all the way down to literal inputs.
func Audit(ctx context.Context, m *model.Model, ident string) (*Trace, error) {
	out := m.Clone()
	if err := eval.Calculate(ctx, out); err != nil {
		if _, partial := err.(model.RowErrors); !partial {
			return nil, err
		}
	}
	plan, err := eval.PlanModel(out)
	if err != nil {
		return nil, err
	}

	a := &auditor{m: out, plan: plan, memo: make(map[string]*Trace)}
	key, err := a.normalize(ident)
	if err != nil {
		return nil, err
	}
	return a.trace(key)
}

type auditor struct {
	m    *model.Model
	plan *eval.Plan
	memo map[string]*Trace
}

// normalize maps user spellings onto plan keys: a bare scalar name or a
// table.column pair.
func (a *auditor) normalize(ident string) (string, error) {
	parts := strings.Split(ident, ".")
	switch len(parts) {
	case 1:
		if a.m.Scalar(parts[0]) != nil {
			return parts[0], nil
		}
	case 2:
		if t := a.m.Table(parts[0]); t != nil && t.Column(parts[1]) != nil {
			return ident, nil
		}
	}
	return "", &model.UnknownReferenceError{Ref: ident,
		Detail: "audit targets are scalar names or table.column pairs"}
}

func (a *auditor) trace(key string) (*Trace, error) {
	if t, ok := a.memo[key]; ok {
		return t, nil
	}
	tr := &Trace{Ident: key}
	a.memo[key] = tr

	values, err := a.valuesOf(key)
	if err != nil {
		return nil, err
	}
	tr.Values = values

	src, derived := a.plan.Formulas[key]
	if !derived {
		return tr, nil
	}
	tr.Formula = src

	var table *model.Table
	if eval.IsColumnKey(key) {
		tableName, _, _ := strings.Cut(key, ".")
		table = a.m.Table(tableName)
	}
	seen := make(map[string]bool)
	for _, ref := range formula.Refs(a.plan.ASTs[key]) {
		childKey := a.refKey(ref, table)
		if childKey == "" || childKey == key || seen[childKey] {
			continue
		}
		seen[childKey] = true
		child, err := a.trace(childKey)
		if err != nil {
			return nil, err
		}
		tr.Inputs = append(tr.Inputs, child)
	}
	return tr, nil
}

// refKey maps a formula reference onto a traceable key, including literal
// producers and alias-qualified cross-file identifiers. Unresolvable refs
// yield "" (criteria strings and the like were already validated by the
// plan).
func (a *auditor) refKey(ref *formula.Ref, table *model.Table) string {
	switch len(ref.Parts) {
	case 1:
		name := ref.Parts[0]
		if table != nil && table.Column(name) != nil {
			return table.Name + "." + name
		}
		if a.m.Scalar(name) != nil {
			return name
		}
	case 2, 3:
		return strings.Join(ref.Parts, ".")
	}
	return ""
}

// valuesOf reads the computed values behind a key, reaching through include
// aliases for cross-file identifiers.
func (a *auditor) valuesOf(key string) ([]model.Value, error) {
	parts := strings.Split(key, ".")
	switch len(parts) {
	case 1:
		s := a.m.Scalar(parts[0])
		if s == nil {
			return nil, &model.UnknownReferenceError{Ref: key, Detail: "scalar not defined"}
		}
		return []model.Value{s.Value}, nil
	case 2:
		if a.m.Table(parts[0]) != nil {
			return columnValues(a.m, key)
		}
		if inc := a.m.Include(parts[0]); inc != nil {
			s := inc.Model.Scalar(parts[1])
			if s == nil {
				return nil, &model.UnknownReferenceError{Ref: key,
					Detail: fmt.Sprintf("include %q has no scalar %q", parts[0], parts[1])}
			}
			return []model.Value{s.Value}, nil
		}
	case 3:
		if inc := a.m.Include(parts[0]); inc != nil {
			return columnValues(inc.Model, parts[1]+"."+parts[2])
		}
	}
	return nil, &model.UnknownReferenceError{Ref: key}
}
