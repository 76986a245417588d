package graph

import (
	"fmt"
	"sort"
)

// node is one vertex in the arena. deps are producers this node consumes;
// dependents are consumers waiting on it.
type node struct {
	id         string
	deps       map[string]*node
	dependents map[string]*node
}

// Graph is a directed dependency graph over normalized identifiers. It is
// built once per calculation pass and never mutated while sorting, so it
// needs no locking.
type Graph struct {
	nodes map[string]*node
}

// New creates an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode adds a node with the given ID. Adding an existing ID is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// Has reports whether the graph contains the given node.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// AddEdge records that consumerID depends on producerID. Both nodes must
// already exist. A self-edge is reported as ErrSelfEdge so the caller can
// surface it as a one-member cycle.
func (g *Graph) AddEdge(producerID, consumerID string) error {
	if producerID == consumerID {
		return &ErrSelfEdge{ID: producerID}
	}
	producer, ok := g.nodes[producerID]
	if !ok {
		return fmt.Errorf("producer node not found: %s", producerID)
	}
	consumer, ok := g.nodes[consumerID]
	if !ok {
		return fmt.Errorf("consumer node not found: %s", consumerID)
	}
	consumer.deps[producerID] = producer
	producer.dependents[consumerID] = consumer
	return nil
}

// ErrSelfEdge reports a node that references itself.
type ErrSelfEdge struct {
	ID string
}

func (e *ErrSelfEdge) Error() string {
	return fmt.Sprintf("self-referential edge: %s", e.ID)
}

// Dependencies returns the sorted producer IDs of one node.
func (g *Graph) Dependencies(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	deps := make([]string, 0, len(n.deps))
	for depID := range n.deps {
		deps = append(deps, depID)
	}
	sort.Strings(deps)
	return deps, nil
}

// TopoSort returns every node in an order where producers precede
// consumers, using Kahn's algorithm. Ties are broken lexicographically so
// the order is deterministic across runs. When the graph contains a cycle
// the remaining members are returned as the second value and the order is
// nil.
func (g *Graph) TopoSort() (order []string, cycle []string) {
	indegree := make(map[string]int, len(g.nodes))
	var ready []string
	for id, n := range g.nodes {
		indegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		next := make([]string, 0, len(g.nodes[id].dependents))
		for depID := range g.nodes[id].dependents {
			indegree[depID]--
			if indegree[depID] == 0 {
				next = append(next, depID)
			}
		}
		sort.Strings(next)
		ready = mergeSorted(ready, next)
	}

	if len(order) == len(g.nodes) {
		return order, nil
	}
	return nil, g.cycleMembers(indegree)
}

// cycleMembers trims the leftover subgraph from both ends: nodes that are
// merely downstream of a cycle have no remaining dependents pointing back
// and fall away, leaving exactly the nodes that lie on a cycle.
func (g *Graph) cycleMembers(indegree map[string]int) []string {
	remaining := make(map[string]bool)
	for id, d := range indegree {
		if d > 0 {
			remaining[id] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for id := range remaining {
			live := 0
			for depID := range g.nodes[id].dependents {
				if remaining[depID] {
					live++
				}
			}
			if live == 0 {
				delete(remaining, id)
				changed = true
			}
		}
	}
	members := make([]string, 0, len(remaining))
	for id := range remaining {
		members = append(members, id)
	}
	sort.Strings(members)
	return members
}

func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
