package functions

import (
	"strconv"
	"strings"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Predicate filters column elements for the conditional aggregations.
type Predicate func(model.Value) bool

// ParseCriteria turns a criteria value such as "> 1000", "<>closed" or a
// bare number into a predicate. A bare value means equality. Text
// comparison is exact and case-sensitive.
func ParseCriteria(v model.Value) (Predicate, error) {
	if v.Kind() != model.KindText {
		// a non-text criterion is an equality test against that value
		want := v
		return func(got model.Value) bool { return got.Equal(want) }, nil
	}

	s := strings.TrimSpace(v.Str())
	op := "="
	for _, candidate := range []string{">=", "<=", "<>", ">", "<", "="} {
		if strings.HasPrefix(s, candidate) {
			op = candidate
			s = strings.TrimSpace(s[len(candidate):])
			break
		}
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return numericPredicate(op, n), nil
	}
	if op != "=" && op != "<>" {
		return nil, &model.TypeError{Want: model.KindNumber, Got: model.KindText,
			Detail: "ordered criteria require a numeric bound: " + v.Str()}
	}
	want := s
	if op == "=" {
		return func(got model.Value) bool {
			return got.Kind() == model.KindText && got.Str() == want
		}, nil
	}
	return func(got model.Value) bool {
		return got.Kind() != model.KindText || got.Str() != want
	}, nil
}

func numericPredicate(op string, bound float64) Predicate {
	return func(got model.Value) bool {
		f, err := got.AsNumber()
		if err != nil {
			return false
		}
		switch op {
		case "=":
			return f == bound
		case "<>":
			return f != bound
		case ">":
			return f > bound
		case ">=":
			return f >= bound
		case "<":
			return f < bound
		case "<=":
			return f <= bound
		}
		return false
	}
}
