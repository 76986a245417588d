package model

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind enumerates the closed set of element types a value can hold. It is
// validated once at load time so downstream evaluators can assume
// homogeneity instead of re-checking.
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindDate
	KindBool
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DateLayout is the wire format for date values in model documents and
// exported sheets.
const DateLayout = "2006-01-02"

// Value is a single typed value: exactly one of the payload fields is
// meaningful, selected by the kind.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	t    time.Time
}

// Number returns a Value holding a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a Value holding a string.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Date returns a Value holding a calendar date. The time-of-day portion is
// truncated so equal dates compare equal.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Bool returns a Value holding a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// Num returns the numeric payload. Only meaningful for KindNumber.
func (v Value) Num() float64 { return v.num }

// Str returns the text payload. Only meaningful for KindText.
func (v Value) Str() string { return v.str }

// Time returns the date payload. Only meaningful for KindDate.
func (v Value) Time() time.Time { return v.t }

// IsTrue reports the boolean payload. Only meaningful for KindBool.
func (v Value) IsTrue() bool { return v.b }

// AsNumber coerces the value to a float64. Numbers pass through, booleans
// become 0/1 and dates their serial day count; text is a TypeError.
func (v Value) AsNumber() (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindDate:
		return float64(v.t.Unix()) / 86400, nil
	default:
		return 0, &TypeError{Want: KindNumber, Got: v.kind, Detail: fmt.Sprintf("%q is not numeric", v.str)}
	}
}

// AsBool coerces the value to a boolean. Numbers are true when non-zero;
// text and dates are a TypeError.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindNumber:
		return v.num != 0, nil
	default:
		return false, &TypeError{Want: KindBool, Got: v.kind}
	}
}

// Equal reports deep equality of kind and payload. NaN equals NaN so
// idempotence checks hold for error placeholders.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) && math.IsNaN(o.num) {
			return true
		}
		return v.num == o.num
	case KindText:
		return v.str == o.str
	case KindDate:
		return v.t.Equal(o.t)
	case KindBool:
		return v.b == o.b
	}
	return false
}

// String renders the value the way model documents spell it.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.str
	case KindDate:
		return v.t.Format(DateLayout)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	}
	return ""
}
