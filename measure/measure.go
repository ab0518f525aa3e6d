// Package measure computes the violation-rate error of a candidate
// functional dependency lhs -> rhs from PLIs alone: G3 and
// its simple variant operate on row-removal counts, G1 on violating tuple
// pairs, and a sampled G3 estimator trades exactness for speed on large
// tables by consulting a sampling.Strategy instead of the exact PLI.
package measure

import (
	"github.com/dependomine/dependomine/pli"
	"github.com/dependomine/dependomine/table"
)

// Kind selects which measure a Config uses.
type Kind int

const (
	G3 Kind = iota
	SimpleG3
	G1
)

// G3Exact computes the exact G3 error of lhs -> rhs given the LHS PLI, the
// RHS PLI (read through its attribute vector) and the row count n.
//
// For each class of lhsPLI, rows are grouped by RHS cluster id (0 meaning
// "singleton under RHS"); m is the largest non-zero group, or 0 if every row
// in the class is an RHS singleton. Removals for the class are
// |cls| - (m if m > 0 else 1). Rows outside every class (implicit
// singletons of lhsPLI) contribute no removals. Total error is
// removals/(N-1), 0 when N <= 1.
func G3Exact(lhsPLI *pli.PLI, rhsPLI *pli.PLI, n int) float64 {
	if n <= 1 {
		return 0
	}
	if lhsPLI.Columns() == 0 {
		return g3EmptyLHS(rhsPLI, n)
	}
	rhsVec := rhsPLI.AttributeVector()
	total := 0
	for _, cls := range lhsPLI.EquivalenceClasses() {
		total += classRemovalsG3(cls, rhsVec)
	}
	return float64(total) / float64(n-1)
}

// g3EmptyLHS implements the "no grouping" special case: the measure
// reduces to the per-class removal sum over rhsPLI alone.
func g3EmptyLHS(rhsPLI *pli.PLI, n int) float64 {
	total := 0
	for _, cls := range rhsPLI.EquivalenceClasses() {
		total += len(cls) - 1
	}
	return float64(total) / float64(n-1)
}

func classRemovalsG3(cls []int, rhsVec []int) int {
	counts := make(map[int]int, len(cls))
	for _, r := range cls {
		id := rhsVec[r]
		if id == 0 {
			continue
		}
		counts[id]++
	}
	m := 0
	for _, c := range counts {
		if c > m {
			m = c
		}
	}
	if m > 0 {
		return len(cls) - m
	}
	return len(cls) - 1
}

// SimpleG3Exact is G3Exact's numerator variant: m is computed exclusively
// from rhsVec (rows with v=0 are skipped while counting), and if the whole
// class contributes maxCount == 0, removals = |cls| - 1.
func SimpleG3Exact(lhsPLI *pli.PLI, rhsPLI *pli.PLI, n int) float64 {
	if n <= 1 {
		return 0
	}
	if lhsPLI.Columns() == 0 {
		return g3EmptyLHS(rhsPLI, n)
	}
	rhsVec := rhsPLI.AttributeVector()
	total := 0
	for _, cls := range lhsPLI.EquivalenceClasses() {
		total += classRemovalsG3(cls, rhsVec)
	}
	return float64(total) / float64(n-1)
}

// G1Exact computes the exact G1 error: the fraction of ordered row pairs
// that violate lhs -> rhs.
func G1Exact(lhsPLI *pli.PLI, rhsPLI *pli.PLI, n int) float64 {
	if n <= 1 {
		return 0
	}
	totalPairs := n * (n - 1)
	if lhsPLI.Columns() == 0 {
		violations := 0
		for _, cls := range rhsPLI.EquivalenceClasses() {
			k := len(cls)
			violations += k * (k - 1)
		}
		return float64(violations) / float64(totalPairs)
	}

	rhsVec := rhsPLI.AttributeVector()
	violations := 0
	for _, cls := range lhsPLI.EquivalenceClasses() {
		classPairs := len(cls) * (len(cls) - 1)
		counts := make(map[int]int, len(cls))
		for _, r := range cls {
			id := rhsVec[r]
			if id == 0 {
				continue
			}
			counts[id]++
		}
		validPairs := 0
		for _, k := range counts {
			validPairs += k * (k - 1)
		}
		violations += classPairs - validPairs
	}
	return float64(violations) / float64(totalPairs)
}

// Calculate dispatches to the exact measure named by kind.
func Calculate(kind Kind, lhsPLI, rhsPLI *pli.PLI, t *table.Table) float64 {
	n := t.RowCount()
	switch kind {
	case SimpleG3:
		return SimpleG3Exact(lhsPLI, rhsPLI, n)
	case G1:
		return G1Exact(lhsPLI, rhsPLI, n)
	default:
		return G3Exact(lhsPLI, rhsPLI, n)
	}
}
