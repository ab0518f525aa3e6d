package search

import (
	"github.com/dependomine/dependomine/bitset"
	"github.com/dependomine/dependomine/hitting"
)

// escape produces new launchpads above launchpad that reach regions not yet
// dominated by any known peak: each new launchpad differs from every peak
// on at least one column.
func (s *Space) escape(launchpad *Node) {
	if len(s.peaks) == 0 {
		return
	}

	rhsBit := bitset.FromColumns(s.rhs)
	family := make([]bitset.Set, 0, len(s.peaks))
	for _, p := range s.peaks {
		family = append(family, p.Union(rhsBit).ComplementWithin(s.colCount))
	}

	transversals := hitting.Compute(family, s.colCount)
	for _, tr := range transversals {
		newLhs := launchpad.Lhs.Union(tr)
		node := s.getOrCreateNode(newLhs)
		s.estimateNode(node)
		s.logger.Debugf("search: rhs=%d escape new launchpad lhs=%v", s.rhs, newLhs.ToSortedList())
		s.pushLaunchpad(node)
	}
}
