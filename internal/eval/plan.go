package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/royalbit/mouvify-forge-sub002/internal/formula"
	"github.com/royalbit/mouvify-forge-sub002/internal/graph"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Plan is the validated evaluation order of one model: every
// formula-bearing identifier as a flat key ("table.column" for derived
// columns, the bare name for derived scalars), producers before consumers.
type Plan struct {
	Order    []string
	Formulas map[string]string       // key → formula text
	ASTs     map[string]formula.Node // key → parsed tree
	Deps     map[string][]string     // key → producer keys
}

// PlanModel parses every formula in the model, builds the dependency graph
// and sorts it. Structural problems (parse errors, unknown references,
// self-references and longer cycles) surface here, before anything is
// mutated.
func PlanModel(m *model.Model) (*Plan, error) {
	p := &Plan{
		Formulas: make(map[string]string),
		ASTs:     make(map[string]formula.Node),
		Deps:     make(map[string][]string),
	}
	g := graph.New()

	type pending struct {
		key   string
		table *model.Table
	}
	var nodes []pending

	for _, t := range m.Tables {
		for _, c := range t.Columns {
			if !c.IsDerived() {
				continue
			}
			key := t.Name + "." + c.Name
			ast, err := formula.Parse(c.Formula)
			if err != nil {
				return nil, err
			}
			p.Formulas[key] = c.Formula
			p.ASTs[key] = ast
			g.AddNode(key)
			nodes = append(nodes, pending{key: key, table: t})
		}
	}
	for _, s := range m.Scalars {
		if !s.IsDerived() {
			continue
		}
		ast, err := formula.Parse(s.Formula)
		if err != nil {
			return nil, err
		}
		p.Formulas[s.Name] = s.Formula
		p.ASTs[s.Name] = ast
		g.AddNode(s.Name)
		nodes = append(nodes, pending{key: s.Name})
	}

	for _, n := range nodes {
		for _, ref := range formula.Refs(p.ASTs[n.key]) {
			producer, err := producerKey(m, n.table, ref, p.Formulas[n.key])
			if err != nil {
				return nil, err
			}
			if producer == "" || !g.Has(producer) {
				continue // literal, cross-file, or not formula-bearing
			}
			if err := g.AddEdge(producer, n.key); err != nil {
				var self *graph.ErrSelfEdge
				if errors.As(err, &self) {
					return nil, &model.CycleError{Members: []string{self.ID}}
				}
				return nil, err
			}
			p.Deps[n.key] = appendUnique(p.Deps[n.key], producer)
		}
	}

	order, cycle := g.TopoSort()
	if cycle != nil {
		return nil, &model.CycleError{Members: cycle}
	}
	p.Order = order
	return p, nil
}

// producerKey normalizes a reference to the flat key of its producer within
// the same model, validating that the reference can resolve at all. An
// empty key with nil error means the reference needs no edge (literal
// value, or a cross-file identifier produced by an earlier pass).
func producerKey(m *model.Model, table *model.Table, ref *formula.Ref, src string) (string, error) {
	switch len(ref.Parts) {
	case 1:
		name := ref.Parts[0]
		if table != nil {
			if col := table.Column(name); col != nil {
				if col.IsDerived() {
					return table.Name + "." + name, nil
				}
				return "", nil
			}
		}
		if s := m.Scalar(name); s != nil {
			if s.IsDerived() {
				return name, nil
			}
			return "", nil
		}
		// In scalar context a bare name may still be a function argument
		// criteria string; anything unresolvable is a structural error.
		return "", &model.UnknownReferenceError{Ref: name, Formula: src}
	case 2:
		first, second := ref.Parts[0], ref.Parts[1]
		if t := m.Table(first); t != nil {
			col := t.Column(second)
			if col == nil {
				return "", &model.UnknownReferenceError{Ref: ref.Key(), Formula: src,
					Detail: fmt.Sprintf("table %q has no column %q", first, second)}
			}
			if col.IsDerived() {
				return first + "." + second, nil
			}
			return "", nil
		}
		if inc := m.Include(first); inc != nil {
			if inc.Model.Scalar(second) == nil {
				return "", &model.UnknownReferenceError{Ref: ref.Key(), Formula: src,
					Detail: fmt.Sprintf("include %q has no scalar %q", first, second)}
			}
			return "", nil // produced by the included model's own pass
		}
		return "", &model.UnknownReferenceError{Ref: ref.Key(), Formula: src}
	case 3:
		alias, tableName, colName := ref.Parts[0], ref.Parts[1], ref.Parts[2]
		inc := m.Include(alias)
		if inc == nil {
			return "", &model.UnknownReferenceError{Ref: ref.Key(), Formula: src,
				Detail: fmt.Sprintf("no include aliased %q", alias)}
		}
		t := inc.Model.Table(tableName)
		if t == nil || t.Column(colName) == nil {
			return "", &model.UnknownReferenceError{Ref: ref.Key(), Formula: src,
				Detail: fmt.Sprintf("no column %s.%s in include %q", tableName, colName, alias)}
		}
		return "", nil
	}
	return "", &model.UnknownReferenceError{Ref: ref.Key(), Formula: src}
}

// IsColumnKey reports whether a plan key names a derived column rather
// than a scalar.
func IsColumnKey(key string) bool { return strings.Contains(key, ".") }

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
