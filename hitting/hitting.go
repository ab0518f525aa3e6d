// Package hitting computes minimal transversals of a family of attribute
// sets: the "escape" step of package search needs, for its known peaks, the
// minimal sets holding at least one column missing from every peak (the
// transversals of the peaks' complements) so it can jump the search to a
// fresh region of the lattice.
package hitting

import (
	"sort"

	"github.com/dependomine/dependomine/bitset"
	"github.com/dependomine/dependomine/trie"
)

// Compute returns every minimal transversal of family: an A-set that
// intersects every member of family, with no proper subset also a
// transversal. k bounds the column universe (needed for complement_within).
//
// Incremental algorithm: sort family ascending by
// cardinality; seed the result with singletons of the first set; for each
// subsequent set S, evict from the result every h that is a subset of S's
// complement (h therefore misses S), then repair each evicted h by unioning
// in one column of S at a time, keeping only unions that remain minimal
// against the rest of the result.
func Compute(family []bitset.Set, k int) []bitset.Set {
	if len(family) == 0 {
		return nil
	}

	sorted := make([]bitset.Set, len(family))
	copy(sorted, family)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PopCount() < sorted[j].PopCount()
	})

	h := trie.New()
	first := sorted[0]
	for _, i := range first.ToSortedList() {
		singleton := bitset.FromColumns(i)
		h.Set(singleton.ToSortedList(), singleton)
	}

	for _, s := range sorted[1:] {
		sComp := s.ComplementWithin(k)

		var removed []bitset.Set
		for _, key := range h.Enumerate() {
			hSet := bitset.FromColumns(key...)
			if hSet.IsSubset(sComp) {
				removed = append(removed, hSet)
			}
		}
		for _, r := range removed {
			h.Delete(r.ToSortedList())
		}

		for _, hSet := range removed {
			for _, i := range s.ToSortedList() {
				candidate := hSet.SetBit(i)
				if h.ContainsSubsetOf(candidate.ToSortedList()) {
					continue
				}
				h.Set(candidate.ToSortedList(), candidate)
			}
		}
	}

	keys := h.Enumerate()
	out := make([]bitset.Set, 0, len(keys))
	for _, key := range keys {
		out = append(out, bitset.FromColumns(key...))
	}
	return out
}
