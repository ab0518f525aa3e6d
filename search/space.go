package search

import (
	"container/heap"

	"github.com/dependomine/dependomine/bitset"
	"github.com/dependomine/dependomine/cache"
	"github.com/dependomine/dependomine/measure"
	"github.com/dependomine/dependomine/pli"
	"github.com/dependomine/dependomine/table"
	"github.com/dependomine/dependomine/trie"
)

// SamplerFactory builds the sampling strategy to use for a given LHS within
// one RHS exploration. A nil factory means the exact measure is used for
// every estimate (no sampling).
type SamplerFactory func(lhs bitset.Set) measure.Sampler

// Logger is the trace sink a Space writes debug-level messages to: launchpad
// pops, ascend steps, trickle-down emissions, and escape's new launchpads.
// Defined locally (rather than importing the root package) so root can
// depend on search without a cycle; any logger with a Debugf method,
// including dependomine.Logger, satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Space is the per-RHS search state: frontiers, peaks, node cache, and the
// launchpad queue.
type Space struct {
	t       *table.Table
	c       *cache.PLICache
	rhs     int
	epsilon float64
	kind    measure.Kind
	sampler SamplerFactory
	logger  Logger

	colCount int

	minValidFD *trie.Trie // key -> float64 error
	maxNonFD   *trie.Trie // key -> struct{}{} (membership only)
	peaks      []bitset.Set

	nodes      map[bitset.Set]*Node
	launchpads lpHeap
	launched   map[bitset.Set]bool

	validations int
}

// New builds a fresh Space for one RHS column. A nil logger discards trace
// output.
func New(t *table.Table, c *cache.PLICache, rhs int, epsilon float64, kind measure.Kind, sampler SamplerFactory, logger Logger) *Space {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Space{
		t:          t,
		c:          c,
		rhs:        rhs,
		epsilon:    epsilon,
		kind:       kind,
		sampler:    sampler,
		logger:     logger,
		colCount:   t.ColCount(),
		minValidFD: trie.New(),
		maxNonFD:   trie.New(),
		nodes:      make(map[bitset.Set]*Node),
		launched:   make(map[bitset.Set]bool),
	}
}

// Result is a minimal valid LHS found for this RHS, with its validated
// error.
type Result struct {
	Lhs   bitset.Set
	Error float64
}

// Validations reports the number of exact-error computations performed
// during Explore.
func (s *Space) Validations() int { return s.validations }

// MinValidFDs returns every key currently stored in the minimal-valid
// frontier, as sorted column lists. Exposed for testing the antichain
// invariant.
func (s *Space) MinValidFDs() [][]int { return s.minValidFD.Enumerate() }

// MaxNonFDs returns every key currently stored in the maximal-invalid
// frontier, as sorted column lists. Exposed for testing the antichain
// invariant.
func (s *Space) MaxNonFDs() [][]int { return s.maxNonFD.Enumerate() }

// Explore runs the full per-RHS search and returns the minimal valid LHS
// sets discovered, each with its validated error.
func (s *Space) Explore() []Result {
	heap.Init(&s.launchpads)

	for i := 0; i < s.colCount; i++ {
		if i == s.rhs {
			continue
		}
		lhs := bitset.FromColumns(i)
		n := s.getOrCreateNode(lhs)
		s.estimateNode(n)
		s.pushLaunchpad(n)
	}

	for s.launchpads.Len() > 0 {
		l := heap.Pop(&s.launchpads).(*Node)
		s.logger.Debugf("search: rhs=%d launchpad pop lhs=%v error=%v", s.rhs, l.Lhs.ToSortedList(), l.Error)
		s.processLaunchpad(l)
	}

	keys := s.minValidFD.Enumerate()
	out := make([]Result, len(keys))
	for i, k := range keys {
		v, _ := s.minValidFD.Get(k)
		out[i] = Result{Lhs: bitset.FromColumns(k...), Error: v.(float64)}
	}
	return out
}

func (s *Space) processLaunchpad(l *Node) {
	sorted := l.Lhs.ToSortedList()
	if s.maxNonFD.ContainsSupersetOf(sorted) {
		s.escape(l)
		return
	}

	var peak *Node
	if s.minValidFD.ContainsSubsetOf(sorted) {
		// error(Y) <= error(X) whenever X subset Y (more attributes only
		// refine the partition), so a known-valid subset guarantees l is
		// valid too without spending an exact calculate_error call.
		l.Validated = true
		l.Estimated = true
		l.Error = s.epsilon
		peak = l
	} else {
		s.validateNode(l)
		if s.isValid(l) {
			peak = l
		} else {
			p, maxCandidate := s.ascend(nil, l)
			if maxCandidate != nil {
				s.addMaxNonFD(maxCandidate.Lhs)
			}
			peak = p
		}
	}

	if peak != nil {
		s.peaks = append(s.peaks, peak.Lhs)
		s.trickleDown(peak)
	}
	s.escape(l)
}

func (s *Space) estimateNode(n *Node) {
	if n.Estimated {
		return
	}
	n.Error = s.computeError(n.Lhs)
	n.Estimated = true
}

func (s *Space) validateNode(n *Node) {
	if n.Validated {
		return
	}
	n.Error = s.exactError(n.Lhs)
	n.Estimated = true
	n.Validated = true
	s.validations++
}

func (s *Space) isValid(n *Node) bool { return n.Error <= s.epsilon }

// addMaxNonFD records lhs as a known-invalid set while keeping the frontier
// an antichain: a stored superset already subsumes lhs, and any stored
// subsets become redundant once lhs is in.
func (s *Space) addMaxNonFD(lhs bitset.Set) {
	sorted := lhs.ToSortedList()
	if s.maxNonFD.ContainsSupersetOf(sorted) {
		return
	}
	for _, sub := range s.maxNonFD.SubsetsOf(sorted) {
		s.maxNonFD.Delete(sub)
	}
	s.maxNonFD.Set(sorted, struct{}{})
}

func (s *Space) computeError(lhs bitset.Set) float64 {
	// The empty LHS (trickle-down's root sentinel) has no columns to
	// stratify or sample by; its exact error is a single pass over the RHS
	// PLI, so it never goes through the estimator.
	if s.sampler != nil && lhs != bitset.Empty {
		strat := s.sampler(lhs)
		return measure.SampledG3(s.c, s.t, lhs, s.rhs, strat)
	}
	return s.exactError(lhs)
}

func (s *Space) exactError(lhs bitset.Set) float64 {
	lhsPLI := s.pliFor(lhs)
	rhsPLI := s.pliFor(bitset.FromColumns(s.rhs))
	return measure.Calculate(s.kind, lhsPLI, rhsPLI, s.t)
}

func (s *Space) pliFor(key bitset.Set) *pli.PLI {
	p, err := s.c.GetOrCompute(key)
	if err != nil {
		return pli.Root(s.t.RowCount())
	}
	return p
}
