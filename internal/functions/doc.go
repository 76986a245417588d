// Package functions holds the engine's pure function library as one closed
// dispatch table: name → arity bounds + implementation. Adding a function is
// a local, checked change to this package, never a dynamic lookup anywhere
// else. Implementations receive already-evaluated arguments (scalars or
// whole columns) and know nothing about formulas or models beyond the value
// types.
package functions
