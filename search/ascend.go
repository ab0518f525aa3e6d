package search

import "github.com/dependomine/dependomine/bitset"

// ascend climbs the lattice from nonValid by validated invalid nodes,
// locking the first validated valid peak it encounters. It returns the
// updated (peak, maxNonFDCandidate) pair.
func (s *Space) ascend(peak *Node, nonValid *Node) (*Node, *Node) {
	s.logger.Debugf("search: rhs=%d ascend nonValid=%v hasPeak=%v", s.rhs, nonValid.Lhs.ToSortedList(), peak != nil)
	if peak == nil {
		children := s.ascendChildren(nonValid)
		if len(children) == 0 {
			return nil, nonValid
		}
		minChild, maxChild := extremesByError(children)

		if s.validateAndCheck(minChild) {
			newPeak := minChild
			if s.validateAndCheck(maxChild) {
				return newPeak, nonValid
			}
			return s.ascend(newPeak, maxChild)
		}
		return s.ascend(nil, minChild)
	}

	children := s.ascendChildren(nonValid)
	if len(children) == 0 {
		return peak, nonValid
	}
	_, maxChild := extremesByError(children)
	if s.validateAndCheck(maxChild) {
		return peak, nonValid
	}
	return s.ascend(peak, maxChild)
}

// ascendChildren enumerates nonValid's lattice children (one column added,
// never the RHS column), skipping any already known invalid via maxNonFD
// (no point re-estimating a guaranteed-invalid branch); a child already
// known valid via minValidFD is returned pre-marked valid so it can win the
// minChild/maxChild comparison without an exact error call.
func (s *Space) ascendChildren(nonValid *Node) []*Node {
	kids := nonValid.Lhs.Children(s.colCount, bitset.FromColumns(s.rhs))
	out := make([]*Node, 0, len(kids))
	for _, k := range kids {
		sorted := k.ToSortedList()
		if s.maxNonFD.ContainsSupersetOf(sorted) {
			continue
		}
		node := s.getOrCreateNode(k)
		if s.minValidFD.ContainsSubsetOf(sorted) {
			node.Validated = true
			node.Estimated = true
			node.Error = s.epsilon
		} else {
			s.estimateNode(node)
		}
		out = append(out, node)
	}
	return out
}

// validateAndCheck validates n (if not already) and reports whether it is
// within epsilon.
func (s *Space) validateAndCheck(n *Node) bool {
	if !n.Validated {
		s.validateNode(n)
	}
	return s.isValid(n)
}

// extremesByError returns the smallest- and largest-error nodes in
// candidates (non-empty).
func extremesByError(candidates []*Node) (min, max *Node) {
	min, max = candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		if c.Error < min.Error {
			min = c
		}
		if c.Error > max.Error {
			max = c
		}
	}
	return min, max
}
