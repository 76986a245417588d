package loader

import (
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// valueFromCty converts one decoded HCL value into a model value. Strings
// spelled like dates become dates; everything else keeps its HCL type.
func valueFromCty(v cty.Value) (model.Value, error) {
	if v.IsNull() {
		return model.Value{}, fmt.Errorf("null value")
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return model.Number(f), nil
	case cty.Bool:
		return model.Bool(v.True()), nil
	case cty.String:
		s := v.AsString()
		if t, err := time.Parse(model.DateLayout, s); err == nil {
			return model.Date(t), nil
		}
		return model.Text(s), nil
	default:
		return model.Value{}, fmt.Errorf("unsupported value type %s", v.Type().FriendlyName())
	}
}

// columnFromCty converts a values list into a homogeneous column slice.
func columnFromCty(name string, v cty.Value) ([]model.Value, error) {
	if !v.CanIterateElements() {
		return nil, fmt.Errorf("column %q: values must be a list", name)
	}
	var out []model.Value
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		mv, err := valueFromCty(ev)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out = append(out, mv)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("column %q: values list is empty", name)
	}
	kind := out[0].Kind()
	for i, mv := range out[1:] {
		if mv.Kind() != kind {
			return nil, &model.TypeError{Ident: name, Want: kind, Got: mv.Kind(),
				Detail: fmt.Sprintf("heterogeneous column: element %d", i+1)}
		}
	}
	return out, nil
}

// setFromCty converts a scenario's set object into scalar overrides.
func setFromCty(scenario string, v cty.Value) (map[string]model.Value, error) {
	if v.IsNull() || !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("scenario %q: set must be an object of scalar overrides", scenario)
	}
	out := make(map[string]model.Value)
	for name, ev := range v.AsValueMap() {
		mv, err := valueFromCty(ev)
		if err != nil {
			return nil, fmt.Errorf("scenario %q override %q: %w", scenario, name, err)
		}
		out[name] = mv
	}
	return out, nil
}
