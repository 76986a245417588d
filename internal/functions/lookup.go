package functions

import (
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Lookup semantics: exact match returns the first satisfying position.
// Approximate match requires the lookup column sorted ascending and returns
// the last position whose value does not exceed the key; an unsorted column
// is reported as a MathDomainError rather than silently mimicking any
// spreadsheet application's behavior.
var lookupDefs = []Def{
	{Name: "MATCH", MinArgs: 2, MaxArgs: 3, Aggregate: true, Fn: fnMatch},
	{Name: "INDEX", MinArgs: 2, MaxArgs: 2, Aggregate: true, Fn: fnIndex},
	{Name: "VLOOKUP", MinArgs: 3, MaxArgs: 4, Aggregate: true, Fn: fnVLookup},
}

// matchPosition returns the 0-based position of key in col, or -1.
func matchPosition(name string, key model.Value, col []model.Value, approximate bool) (int, error) {
	if !approximate {
		for i, v := range col {
			if v.Equal(key) {
				return i, nil
			}
		}
		return -1, nil
	}

	k, err := key.AsNumber()
	if err != nil {
		return -1, err
	}
	best := -1
	prev := 0.0
	for i, v := range col {
		f, err := v.AsNumber()
		if err != nil {
			return -1, err
		}
		if i > 0 && f < prev {
			return -1, &model.MathDomainError{Op: name,
				Detail: "approximate match requires ascending-sorted input"}
		}
		prev = f
		if f <= k {
			best = i
		}
	}
	return best, nil
}

func fnMatch(args []Arg) (model.Value, error) {
	key, err := args[0].Scalar()
	if err != nil {
		return model.Value{}, err
	}
	col := args[1].Column()
	approximate := false
	if len(args) == 3 {
		mode, err := scalarNumber(args[2])
		if err != nil {
			return model.Value{}, err
		}
		approximate = mode != 0
	}
	pos, err := matchPosition("MATCH", key, col, approximate)
	if err != nil {
		return model.Value{}, err
	}
	if pos < 0 {
		return model.Value{}, &model.MathDomainError{Op: "MATCH",
			Detail: "no match for " + key.String()}
	}
	return model.Number(float64(pos)), nil
}

func fnIndex(args []Arg) (model.Value, error) {
	col := args[0].Column()
	n, err := scalarNumber(args[1])
	if err != nil {
		return model.Value{}, err
	}
	i := int(n)
	if i < 0 || i >= len(col) {
		return model.Value{}, &model.MathDomainError{Op: "INDEX",
			Detail: "position out of range"}
	}
	return col[i], nil
}

func fnVLookup(args []Arg) (model.Value, error) {
	key, err := args[0].Scalar()
	if err != nil {
		return model.Value{}, err
	}
	lookupCol := args[1].Column()
	resultCol := args[2].Column()
	if len(lookupCol) != len(resultCol) {
		return model.Value{}, &model.TypeError{Want: model.KindNumber, Got: model.KindNumber,
			Detail: "VLOOKUP columns have different lengths"}
	}
	approximate := false
	if len(args) == 4 {
		mode, err := scalarNumber(args[3])
		if err != nil {
			return model.Value{}, err
		}
		approximate = mode != 0
	}
	pos, err := matchPosition("VLOOKUP", key, lookupCol, approximate)
	if err != nil {
		return model.Value{}, err
	}
	if pos < 0 {
		return model.Value{}, &model.MathDomainError{Op: "VLOOKUP",
			Detail: "no match for " + key.String()}
	}
	return resultCol[pos], nil
}
