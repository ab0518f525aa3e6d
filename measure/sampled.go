package measure

import (
	"strconv"
	"strings"

	"github.com/dependomine/dependomine/bitset"
	"github.com/dependomine/dependomine/cache"
	"github.com/dependomine/dependomine/table"
)

// Sampler is the subset of sampling.Strategy the sampled estimator needs.
// Defined locally (rather than importing package sampling) so sampling can
// in turn depend on measure-free primitives without an import cycle.
type Sampler interface {
	Indices() []int
	TheoreticalSize() int
}

// SampledG3 estimates G3 error for lhs -> rhs using strat's sample rows
// instead of the exact LHS PLI: sample rows are grouped by their
// per-column LHS cluster ids, per-group removals are counted the same way
// G3Exact counts them, and the total is scaled up by the sample rate.
func SampledG3(c *cache.PLICache, t *table.Table, lhs bitset.Set, rhs int, strat Sampler) float64 {
	n := t.RowCount()
	if n <= 1 {
		return 0
	}
	theoreticalSize := strat.TheoreticalSize()
	if theoreticalSize == 0 {
		return 0
	}
	sampleRate := float64(theoreticalSize) / float64(n)

	lhsCols := lhs.ToSortedList()
	lhsVecs := make([][]int, len(lhsCols))
	for i, col := range lhsCols {
		p, err := c.GetOrCompute(bitset.FromColumns(col))
		if err != nil {
			return 0
		}
		lhsVecs[i] = p.AttributeVector()
	}
	rhsPLI, err := c.GetOrCompute(bitset.FromColumns(rhs))
	if err != nil {
		return 0
	}
	rhsVec := rhsPLI.AttributeVector()

	indices := strat.Indices()
	if len(indices) == 0 {
		return 0
	}

	groups := make(map[string][]int, len(indices))
	for _, r := range indices {
		var key strings.Builder
		skip := false
		for _, v := range lhsVecs {
			if v[r] == 0 {
				skip = true
				break
			}
			key.WriteString(strconv.Itoa(v[r]))
			key.WriteByte(0)
		}
		if skip {
			continue
		}
		k := key.String()
		groups[k] = append(groups[k], r)
	}

	sampleViolations := 0
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		sampleViolations += classRemovalsG3(group, rhsVec)
	}
	if sampleViolations == 0 {
		return 0
	}

	estimatedTotal := float64(sampleViolations) / sampleRate
	return estimatedTotal / float64(n-1)
}
