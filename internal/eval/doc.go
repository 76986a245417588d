// Package eval runs calculation passes: it extracts references from every
// formula, normalizes them to flat keys, builds the dependency graph,
// orders it topologically and then evaluates row-wise columns and
// aggregation scalars so producers always precede consumers. A pass is
// synchronous and single-threaded; it owns the model it is given for its
// whole duration and holds no state across invocations.
package eval
