package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is one vertex of a parsed expression tree. String renders the node
// back to canonical formula text (without the leading "=").
type Node interface {
	String() string
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
	Pos   int
}

func (n *NumberLit) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// StringLit is a quoted text literal.
type StringLit struct {
	Value string
	Pos   int
}

func (n *StringLit) String() string {
	return `"` + strings.ReplaceAll(n.Value, `"`, `""`) + `"`
}

// BoolLit is a TRUE/FALSE literal.
type BoolLit struct {
	Value bool
	Pos   int
}

func (n *BoolLit) String() string {
	if n.Value {
		return "TRUE"
	}
	return "FALSE"
}

// Ref is an identifier reference: bare (column or scalar), table.column,
// alias.scalar, or alias.table.column, optionally with a 0-based index.
type Ref struct {
	Parts []string
	Index int // -1 when absent
	Pos   int
}

// Key returns the dotted identifier without any index suffix.
func (n *Ref) Key() string { return strings.Join(n.Parts, ".") }

func (n *Ref) String() string {
	s := n.Key()
	if n.Index >= 0 {
		s += "[" + strconv.Itoa(n.Index) + "]"
	}
	return s
}

// Unary is prefix minus/plus or the postfix percent operator.
type Unary struct {
	Op      string // "-", "+", "%"
	Postfix bool
	X       Node
	Pos     int
}

func (n *Unary) String() string {
	if n.Postfix {
		return n.X.String() + n.Op
	}
	return n.Op + n.X.String()
}

// Binary is an infix operator application.
type Binary struct {
	Op   string
	L, R Node
	Pos  int
}

func (n *Binary) String() string {
	return fmt.Sprintf("%s %s %s", n.L.String(), n.Op, n.R.String())
}

// Paren preserves explicit grouping so round-tripped formulas keep their
// written precedence.
type Paren struct {
	X   Node
	Pos int
}

func (n *Paren) String() string { return "(" + n.X.String() + ")" }

// Call is an upper-case function application.
type Call struct {
	Name string
	Args []Node
	Pos  int
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// Refs returns every identifier referenced anywhere under the node, in
// source order. This is the input to dependency-graph construction.
func Refs(n Node) []*Ref {
	var out []*Ref
	walk(n, func(r *Ref) { out = append(out, r) })
	return out
}

func walk(n Node, visit func(*Ref)) {
	switch x := n.(type) {
	case *Ref:
		visit(x)
	case *Unary:
		walk(x.X, visit)
	case *Paren:
		walk(x.X, visit)
	case *Binary:
		walk(x.L, visit)
		walk(x.R, visit)
	case *Call:
		for _, a := range x.Args {
			walk(a, visit)
		}
	}
}
