package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// columnValues resolves a "table.column" plan key to its computed values.
func columnValues(m *model.Model, key string) ([]model.Value, error) {
	tableName, colName, ok := strings.Cut(key, ".")
	if !ok {
		return nil, fmt.Errorf("internal: %q is not a column key", key)
	}
	t := m.Table(tableName)
	if t == nil {
		return nil, &model.UnknownReferenceError{Ref: key, Detail: "table not defined"}
	}
	c := t.Column(colName)
	if c == nil {
		return nil, &model.UnknownReferenceError{Ref: key,
			Detail: fmt.Sprintf("table %q has no column %q", tableName, colName)}
	}
	return c.Values, nil
}

func sortMismatches(ms []Mismatch) {
	sort.Slice(ms, func(a, b int) bool {
		if ms[a].Ident != ms[b].Ident {
			return ms[a].Ident < ms[b].Ident
		}
		return ms[a].Row < ms[b].Row
	})
}

// numericScalar reads one scalar's computed numeric value.
func numericScalar(m *model.Model, name string) (float64, error) {
	s := m.Scalar(name)
	if s == nil {
		return 0, &model.UnknownReferenceError{Ref: name, Detail: "scalar not defined"}
	}
	return s.Value.AsNumber()
}
