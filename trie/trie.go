// Package trie implements a prefix tree over sorted-ascending integer keys
// (attribute-set bit positions). It backs the minimal-valid / maximal-invalid
// frontiers in package search and the minimality check in package hitting,
// so its two containment queries, ContainsSubsetOf and ContainsSupersetOf,
// are the hot path that makes per-RHS pruning cheap: both must early-terminate
// the moment a witness is found rather than walk the whole tree.
package trie

import "sort"

// node is one level of the trie; label is the integer consumed to reach it
// from its parent. The root has no label.
type node struct {
	children map[int]*node
	value    any
	terminal bool
}

func newNode() *node {
	return &node{children: make(map[int]*node)}
}

// Trie maps sorted-int-key sequences (attribute sets) to arbitrary values.
type Trie struct {
	root *node
	size int
}

// New returns an empty Trie.
func New() *Trie {
	return &Trie{root: newNode()}
}

// Len reports how many keys are currently stored.
func (t *Trie) Len() int { return t.size }

// Set stores value under key (key must be sorted ascending; duplicates within
// key are harmless but wasteful; callers pass Set.ToSortedList()).
func (t *Trie) Set(key []int, value any) {
	n := t.root
	for _, k := range key {
		child, ok := n.children[k]
		if !ok {
			child = newNode()
			n.children[k] = child
		}
		n = child
	}
	if !n.terminal {
		t.size++
	}
	n.terminal = true
	n.value = value
}

// Get returns the value stored under key and whether it was present.
func (t *Trie) Get(key []int) (any, bool) {
	n := t.root
	for _, k := range key {
		child, ok := n.children[k]
		if !ok {
			return nil, false
		}
		n = child
	}
	if !n.terminal {
		return nil, false
	}
	return n.value, true
}

// Delete removes key if present; it does not prune now-empty branches, which
// is fine given this trie's lifetime is one discovery run.
func (t *Trie) Delete(key []int) {
	n := t.root
	for _, k := range key {
		child, ok := n.children[k]
		if !ok {
			return
		}
		n = child
	}
	if n.terminal {
		n.terminal = false
		n.value = nil
		t.size--
	}
}

// ContainsSubsetOf reports whether some stored key is a subset of target
// (target sorted ascending). The DFS at each node may either skip the
// current target element (advance ti without descending) or descend via the
// child labelled exactly target[ti] (consuming that element); reaching a
// terminal node at any point is a match, so the search returns as soon as one
// is found.
func (t *Trie) ContainsSubsetOf(target []int) bool {
	return subsetDFS(t.root, target, 0)
}

func subsetDFS(n *node, target []int, ti int) bool {
	if n.terminal {
		return true
	}
	if ti >= len(target) {
		return false
	}
	// Option 1: skip target[ti]: stay at n, advance ti.
	if subsetDFS(n, target, ti+1) {
		return true
	}
	// Option 2: descend through the child labelled target[ti], consuming it.
	if child, ok := n.children[target[ti]]; ok {
		if subsetDFS(child, target, ti+1) {
			return true
		}
	}
	return false
}

// ContainsSupersetOf reports whether some stored key is a superset of target
// (target sorted ascending). At each node, target elements are matched in
// order: descend either through a child labelled less than the current
// target element (consumes no target element; that label is "extra" in the
// stored key) or labelled equal to it (consumes one target element). Any
// completed match (all of target consumed, reaching or passing through a
// terminal node at or below) counts as success.
func (t *Trie) ContainsSupersetOf(target []int) bool {
	return supersetDFS(t.root, target, 0)
}

func supersetDFS(n *node, target []int, ti int) bool {
	if ti >= len(target) {
		// All target elements matched; any key extending from here (including
		// n itself, if terminal) is a superset.
		return n.terminal || hasAnyTerminal(n)
	}
	for label, child := range n.children {
		if label < target[ti] {
			// Extra element in the stored key relative to target: descend
			// without consuming target[ti].
			if supersetDFS(child, target, ti) {
				return true
			}
		} else if label == target[ti] {
			if supersetDFS(child, target, ti+1) {
				return true
			}
		}
		// label > target[ti]: this branch can never reach target[ti] (keys
		// are built from sorted-ascending sequences), skip it.
	}
	return false
}

// SubsetsOf returns every stored key that is a subset of target (target
// sorted ascending), unlike ContainsSubsetOf this does not early-terminate
// since callers (cache's greedy cover) need the whole candidate set.
func (t *Trie) SubsetsOf(target []int) [][]int {
	var out [][]int
	record := func(prefix []int) {
		key := make([]int, len(prefix))
		copy(key, prefix)
		out = append(out, key)
	}
	// visit is called exactly once per node reached; it records the node's
	// own terminal status, then exploreSkips walks the remaining target
	// suffix (without re-visiting n) to find further descents.
	var visit func(n *node, ti int, prefix []int)
	var exploreSkips func(n *node, ti int, prefix []int)
	visit = func(n *node, ti int, prefix []int) {
		if n.terminal {
			record(prefix)
		}
		exploreSkips(n, ti, prefix)
	}
	exploreSkips = func(n *node, ti int, prefix []int) {
		if ti >= len(target) {
			return
		}
		// Skip target[ti]: stay at n, consider the next target element.
		exploreSkips(n, ti+1, prefix)
		// Descend via the child labelled target[ti], consuming it.
		if child, ok := n.children[target[ti]]; ok {
			visit(child, ti+1, append(prefix, target[ti]))
		}
	}
	visit(t.root, 0, nil)
	return out
}

// hasAnyTerminal reports whether n or any of its descendants is terminal;
// used once all target elements are consumed, since any completion is a
// valid superset witness.
func hasAnyTerminal(n *node) bool {
	if n.terminal {
		return true
	}
	for _, child := range n.children {
		if hasAnyTerminal(child) {
			return true
		}
	}
	return false
}

// Enumerate returns every stored key, in ascending lexicographic order.
func (t *Trie) Enumerate() [][]int {
	var out [][]int
	var walk func(n *node, prefix []int)
	walk = func(n *node, prefix []int) {
		if n.terminal {
			key := make([]int, len(prefix))
			copy(key, prefix)
			out = append(out, key)
		}
		labels := make([]int, 0, len(n.children))
		for l := range n.children {
			labels = append(labels, l)
		}
		sort.Ints(labels)
		for _, l := range labels {
			walk(n.children[l], append(prefix, l))
		}
	}
	walk(t.root, nil)
	return out
}
