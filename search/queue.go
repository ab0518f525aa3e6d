package search

import "container/heap"

// lpHeap is the launchpad priority queue, ordered by ascending estimated
// error, so the most promising restart point is always explored next.
type lpHeap []*Node

func (h lpHeap) Len() int            { return len(h) }
func (h lpHeap) Less(i, j int) bool  { return h[i].Error < h[j].Error }
func (h lpHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *lpHeap) Push(x interface{}) { *h = append(*h, x.(*Node)) }
func (h *lpHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// pushLaunchpad enqueues n unless its LHS has already been launched this
// exploration. The dedupe is what bounds the main loop: escape can re-derive
// a launchpad it has produced before (the hitting-set transversal may be a
// subset of the launchpad it extends), and without this check such a node
// would re-enter the queue forever.
func (s *Space) pushLaunchpad(n *Node) {
	if s.launched[n.Lhs] {
		return
	}
	s.launched[n.Lhs] = true
	heap.Push(&s.launchpads, n)
}

// tdHeap is trickle-down's candidate-parent queue, ordered by (level
// ascending, error ascending): fewer attributes first, then smaller error,
// so minimal FDs surface early and prune aggressively.
type tdHeap []*Node

func (h tdHeap) Len() int { return len(h) }
func (h tdHeap) Less(i, j int) bool {
	if h[i].Level != h[j].Level {
		return h[i].Level < h[j].Level
	}
	return h[i].Error < h[j].Error
}
func (h tdHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *tdHeap) Push(x interface{}) { *h = append(*h, x.(*Node)) }
func (h *tdHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
