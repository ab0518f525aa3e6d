// Package search implements the per-RHS lattice traversal engine: random-
// restart hill-climbing over the attribute-set lattice (ascend /
// trickle-down / escape) driven by a launchpad priority queue, maintaining
// minimal-valid and maximal-invalid frontiers for pruning.
package search

import (
	"math"

	"github.com/dependomine/dependomine/bitset"
)

// Node is one lattice vertex under exploration for a fixed RHS: an LHS
// attribute set with its estimated/validated error state. Error is
// +Inf until the node has been estimated at least once.
type Node struct {
	Lhs       bitset.Set
	Level     int
	Estimated bool
	Validated bool
	Error     float64
}

func newNode(lhs bitset.Set) *Node {
	return &Node{Lhs: lhs, Level: lhs.PopCount(), Error: math.Inf(1)}
}

// getOrCreateNode returns the cached node for lhs, creating it if absent.
// The node cache is a flat map for the lifetime of one RHS exploration;
// only the nodes actually visited by hill-climbing are ever created, so no
// demotion tier is needed.
func (s *Space) getOrCreateNode(lhs bitset.Set) *Node {
	if n, ok := s.nodes[lhs]; ok {
		return n
	}
	n := newNode(lhs)
	s.nodes[lhs] = n
	return n
}
