package loader

import (
	"github.com/zclconf/go-cty/cty"
)

// documentSchema is the top-level structure of a model file.
type documentSchema struct {
	Includes  []*includeBlock  `hcl:"include,block"`
	Tables    []*tableBlock    `hcl:"table,block"`
	Scalars   []*scalarBlock   `hcl:"scalar,block"`
	Scenarios []*scenarioBlock `hcl:"scenario,block"`
}

// includeBlock declares a cross-file reference alias:
//
//	include "base" { path = "assumptions.hcl" }
type includeBlock struct {
	Alias string `hcl:"alias,label"`
	Path  string `hcl:"path"`
}

// tableBlock declares a table; column order is declaration order.
type tableBlock struct {
	Name    string         `hcl:"name,label"`
	Columns []*columnBlock `hcl:"column,block"`
}

// columnBlock declares one column: literal values, a formula, or both
// (values then act as a recorded snapshot for validate).
type columnBlock struct {
	Name    string     `hcl:"name,label"`
	Values  *cty.Value `hcl:"values,optional"`
	Formula string     `hcl:"formula,optional"`
	Favor   string     `hcl:"favor,optional"`
}

// scalarBlock declares one named scalar.
type scalarBlock struct {
	Name    string     `hcl:"name,label"`
	Value   *cty.Value `hcl:"value,optional"`
	Formula string     `hcl:"formula,optional"`
	Favor   string     `hcl:"favor,optional"`
}

// scenarioBlock declares a named set of scalar overrides.
type scenarioBlock struct {
	Name string    `hcl:"name,label"`
	Set  cty.Value `hcl:"set"`
}
