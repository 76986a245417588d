package loader

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// Write renders the model as HCL document source in the same shape Load
// reads. Derived columns and scalars are written as formulas only; computed
// values are a pass artifact, not document content.
func Write(m *model.Model) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for _, inc := range m.Includes {
		b := body.AppendNewBlock("include", []string{inc.Alias}).Body()
		b.SetAttributeValue("path", cty.StringVal(inc.Path))
		body.AppendNewline()
	}

	for _, t := range m.Tables {
		tb := body.AppendNewBlock("table", []string{t.Name}).Body()
		for i, c := range t.Columns {
			if i > 0 {
				tb.AppendNewline()
			}
			cb := tb.AppendNewBlock("column", []string{c.Name}).Body()
			if c.IsDerived() {
				cb.SetAttributeValue("formula", cty.StringVal(c.Formula))
			} else {
				vals, err := ctyTuple(c.Values)
				if err != nil {
					return nil, fmt.Errorf("table %q column %q: %w", t.Name, c.Name, err)
				}
				cb.SetAttributeValue("values", vals)
			}
			if c.Favor == model.FavorDown {
				cb.SetAttributeValue("favor", cty.StringVal("down"))
			}
		}
		body.AppendNewline()
	}

	for _, s := range m.Scalars {
		sb := body.AppendNewBlock("scalar", []string{s.Name}).Body()
		if s.IsDerived() {
			sb.SetAttributeValue("formula", cty.StringVal(s.Formula))
		} else {
			v, err := ctyValue(s.Value)
			if err != nil {
				return nil, fmt.Errorf("scalar %q: %w", s.Name, err)
			}
			sb.SetAttributeValue("value", v)
		}
		if s.Favor == model.FavorDown {
			sb.SetAttributeValue("favor", cty.StringVal("down"))
		}
		body.AppendNewline()
	}

	for _, sc := range m.Scenarios {
		names := make([]string, 0, len(sc.Set))
		for name := range sc.Set {
			names = append(names, name)
		}
		sort.Strings(names)
		set := make(map[string]cty.Value, len(names))
		for _, name := range names {
			v, err := ctyValue(sc.Set[name])
			if err != nil {
				return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			set[name] = v
		}
		b := body.AppendNewBlock("scenario", []string{sc.Name}).Body()
		b.SetAttributeValue("set", cty.ObjectVal(set))
		body.AppendNewline()
	}

	return f.Bytes(), nil
}

func ctyValue(v model.Value) (cty.Value, error) {
	switch v.Kind() {
	case model.KindNumber:
		return cty.NumberFloatVal(v.Num()), nil
	case model.KindText:
		return cty.StringVal(v.Str()), nil
	case model.KindDate:
		return cty.StringVal(v.Time().Format(model.DateLayout)), nil
	case model.KindBool:
		return cty.BoolVal(v.IsTrue()), nil
	}
	return cty.NilVal, fmt.Errorf("cannot serialize value of kind %s", v.Kind())
}

func ctyTuple(values []model.Value) (cty.Value, error) {
	if len(values) == 0 {
		return cty.EmptyTupleVal, nil
	}
	out := make([]cty.Value, len(values))
	for i, v := range values {
		cv, err := ctyValue(v)
		if err != nil {
			return cty.NilVal, err
		}
		out[i] = cv
	}
	return cty.TupleVal(out), nil
}
