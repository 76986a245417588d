// Package model defines the format-agnostic representation of a tabular
// model: typed values, homogeneous columns, tables, named scalars, includes
// and scenarios, together with the error kinds shared across the engine.
package model
