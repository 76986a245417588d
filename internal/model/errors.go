package model

import (
	"fmt"
	"sort"
	"strings"
)

// ParseError reports a malformed formula or document. Pos is a byte offset
// into the formula text.
type ParseError struct {
	Formula string
	Pos     int
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %q at offset %d: %s", e.Formula, e.Pos, e.Msg)
}

// UnknownReferenceError reports an identifier no resolution strategy could
// satisfy. Formula carries the originating formula text when one exists.
type UnknownReferenceError struct {
	Ref     string
	Formula string
	Detail  string
}

func (e *UnknownReferenceError) Error() string {
	msg := fmt.Sprintf("unknown reference %q", e.Ref)
	if e.Formula != "" {
		msg += fmt.Sprintf(" in formula %q", e.Formula)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// CycleError reports a reference cycle. Members holds every identifier on
// the cycle, sorted for stable messages.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	members := append([]string(nil), e.Members...)
	sort.Strings(members)
	return "reference cycle between: " + strings.Join(members, ", ")
}

// IncludeCycleError reports a cycle in the include graph, a configuration
// error distinct from a formula cycle. Chain lists the file paths in
// traversal order.
type IncludeCycleError struct {
	Chain []string
}

func (e *IncludeCycleError) Error() string {
	return "include cycle: " + strings.Join(e.Chain, " -> ")
}

// TypeError reports a heterogeneous column or a value of the wrong kind
// handed to an operator or function.
type TypeError struct {
	Ident  string
	Want   Kind
	Got    Kind
	Detail string
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("type error: want %s, got %s", e.Want, e.Got)
	if e.Ident != "" {
		msg = fmt.Sprintf("type error on %q: want %s, got %s", e.Ident, e.Want, e.Got)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// MathDomainError reports an operation outside its numeric domain, such as
// division by zero or the square root of a negative number.
type MathDomainError struct {
	Op     string
	Detail string
}

func (e *MathDomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	return e.Op
}

// DivisionByZero constructs the division MathDomainError.
func DivisionByZero() *MathDomainError {
	return &MathDomainError{Op: "division by zero"}
}

// RowError wraps a per-row evaluation failure of one derived column.
type RowError struct {
	Ident string
	Row   int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Ident, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// RowErrors aggregates every per-row failure of a calculation pass, so a
// whole column's problems are reported together rather than one at a time.
type RowErrors []*RowError

func (e RowErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	parts := make([]string, len(e))
	for i, re := range e {
		parts[i] = re.Error()
	}
	return fmt.Sprintf("%d row errors: %s", len(e), strings.Join(parts, "; "))
}
