// Package translate converts between model formula syntax and spreadsheet
// cell-formula syntax, in both directions. Outbound, each table becomes a
// sheet with a header row and per-row instantiated formulas; scalars land
// on a dedicated sheet. Inbound is the exact inverse: cell and range
// references are rewritten back to symbolic identifiers and the
// identical-shape per-row formulas of a column collapse to one column
// formula. The round trip preserves structure and formula semantics; only
// cosmetic spreadsheet features (formatting, charts) are out of reach.
package translate
