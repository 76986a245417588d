// Package graph implements the dependency graph the calculation pass is
// ordered by: an explicit node arena keyed by normalized identifier, edges
// as adjacency maps, Kahn's algorithm for topological order, and cycle
// extraction that names every member of a cycle rather than just the first
// node encountered.
package graph
