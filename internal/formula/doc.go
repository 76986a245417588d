// Package formula lexes and parses model formula syntax into an expression
// tree. The package is pure syntax: evaluation lives in internal/eval and
// translation in internal/translate, both of which walk the tree produced
// here. Every node renders itself back to canonical formula text, which is
// what makes the outbound/inbound translators exact inverses.
package formula
