package model

import "fmt"

// Direction declares which way a variance is considered favorable for an
// identifier: up for revenue-like quantities, down for cost-like ones.
type Direction int

const (
	FavorUp Direction = iota
	FavorDown
)

// ParseDirection maps the document spelling of a favor attribute onto a
// Direction. The empty string defaults to FavorUp.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "up":
		return FavorUp, nil
	case "down":
		return FavorDown, nil
	default:
		return FavorUp, fmt.Errorf("invalid favor direction %q: must be \"up\" or \"down\"", s)
	}
}

// Column is a named, ordered, homogeneous sequence of values. A column is
// either literal (Values set at load) or derived (Formula set; Values are
// written by a calculation pass and always span the table's row count).
type Column struct {
	Name    string
	Values  []Value
	Formula string
	Favor   Direction
}

// IsDerived reports whether the column is produced by a formula.
func (c *Column) IsDerived() bool { return c.Formula != "" }

// ElemKind returns the kind of the column's elements, or an error for an
// empty or heterogeneous column. Loaders call this once so evaluators can
// rely on homogeneity.
func (c *Column) ElemKind() (Kind, error) {
	if len(c.Values) == 0 {
		return KindNumber, fmt.Errorf("column %q has no values", c.Name)
	}
	k := c.Values[0].Kind()
	for i, v := range c.Values[1:] {
		if v.Kind() != k {
			return k, &TypeError{Ident: c.Name, Want: k, Got: v.Kind(),
				Detail: fmt.Sprintf("heterogeneous column: element %d", i+1)}
		}
	}
	return k, nil
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := *c
	out.Values = append([]Value(nil), c.Values...)
	return &out
}
