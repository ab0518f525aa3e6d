package search

import (
	"container/heap"

	"github.com/dependomine/dependomine/bitset"
)

// trickleDown descends from peak toward smaller LHS sets, emitting every
// minimal valid LHS it finds into minValidFD.
//
// The queue is peeked, not popped, on every iteration: a node found valid
// is left in place so that once all of its parents have been explored
// without invalidating it, its second appearance at the head (recognised
// via visited) triggers emission.
func (s *Space) trickleDown(peak *Node) {
	visited := make(map[bitset.Set]bool)
	pq := &tdHeap{peak}
	heap.Init(pq)

	for pq.Len() > 0 {
		c := (*pq)[0]

		if c.Lhs == bitset.Empty {
			heap.Pop(pq)
			continue
		}

		sorted := c.Lhs.ToSortedList()

		if visited[c.Lhs] {
			heap.Pop(pq)
			if !s.minValidFD.ContainsSubsetOf(sorted) {
				s.logger.Debugf("search: rhs=%d trickle-down emit lhs=%v error=%v", s.rhs, sorted, c.Error)
				s.minValidFD.Set(sorted, c.Error)
			}
			continue
		}
		visited[c.Lhs] = true

		switch {
		case s.minValidFD.ContainsSubsetOf(sorted):
			heap.Pop(pq)
			s.enqueueParents(pq, c, visited)
		case s.maxNonFD.ContainsSupersetOf(sorted):
			heap.Pop(pq)
		default:
			s.validateNode(c)
			if !s.isValid(c) {
				heap.Pop(pq)
				continue
			}
			s.enqueueParents(pq, c, visited)
		}
	}
}

// enqueueParents pushes c's not-yet-visited lattice parents (one column
// removed) onto pq, estimating each so the (level, error) ordering is
// meaningful.
func (s *Space) enqueueParents(pq *tdHeap, c *Node, visited map[bitset.Set]bool) {
	for _, p := range c.Lhs.Parents() {
		if visited[p] {
			continue
		}
		node := s.getOrCreateNode(p)
		s.estimateNode(node)
		heap.Push(pq, node)
	}
}
