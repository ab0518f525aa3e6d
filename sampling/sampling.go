// Package sampling implements the three row-sampling strategies the
// sampled-G3 estimator draws from: Random, Focused (stratified by a
// reference single-column PLI), and Neyman (two-stage stratified with
// pilot-variance pre-caching).
package sampling

import (
	"math"
	"math/rand/v2"
	"sort"
	"strconv"

	"github.com/dependomine/dependomine/bitset"
	"github.com/dependomine/dependomine/cache"
	"github.com/dependomine/dependomine/table"
)

// Strategy is what package measure's sampled estimator consumes.
type Strategy interface {
	Indices() []int
	TheoreticalSize() int
}

// resolveTarget interprets sampleParam as a ratio (< 1) or an absolute
// target size, capped at n.
func resolveTarget(sampleParam float64, n int) int {
	var target int
	if sampleParam < 1 {
		target = int(math.Round(sampleParam * float64(n)))
	} else {
		target = int(sampleParam)
	}
	if target > n {
		target = n
	}
	if target < 0 {
		target = 0
	}
	return target
}

// --- Random -----------------------------------------------------------

// Random uniformly samples distinct rows until the target size is reached.
type Random struct {
	indices []int
	target  int
}

// NewRandom builds a Random strategy over n rows, seeded by rng.
func NewRandom(n int, sampleParam float64, rng *rand.Rand) *Random {
	target := resolveTarget(sampleParam, n)
	r := &Random{target: target}
	if target == 0 || n == 0 {
		return r
	}
	seen := make(map[int]bool, target)
	for len(r.indices) < target {
		i := rng.IntN(n)
		if seen[i] {
			continue
		}
		seen[i] = true
		r.indices = append(r.indices, i)
	}
	return r
}

func (r *Random) Indices() []int       { return r.indices }
func (r *Random) TheoreticalSize() int { return r.target }

// --- reference PLI / strata shared by Focused and Neyman ---------------

// ReferenceColumn is the column Focused and Neyman stratify by: the
// smallest-index column in lhs, whose single-column PLI is always pinned
// and needs no cache subset-cover search. Returns -1 for an empty lhs,
// which has nothing to stratify by.
func ReferenceColumn(lhs bitset.Set) int {
	cols := lhs.ToSortedList()
	if len(cols) == 0 {
		return -1
	}
	return cols[0]
}

// stratify partitions 0..n-1 by the reference PLI's non-singleton classes;
// rows not in any class form an implicit residual stratum, which Focused
// and Neyman both ignore (they only allocate across the PLI's own classes).
func stratify(n int, c *cache.PLICache, lhs bitset.Set) [][]int {
	ref := ReferenceColumn(lhs)
	if ref < 0 {
		return nil
	}
	refPLI, err := c.GetOrCompute(bitset.FromColumns(ref))
	if err != nil {
		return nil
	}
	return refPLI.EquivalenceClasses()
}

// --- Focused ------------------------------------------------------------

// Focused stratifies rows by a reference PLI and allocates the target
// proportionally to stratum size.
type Focused struct {
	indices []int
	target  int
}

// NewFocused builds a Focused strategy for lhs -> rhs over table t, using
// cache c to obtain the reference PLI.
func NewFocused(t *table.Table, c *cache.PLICache, lhs bitset.Set, sampleParam float64, rng *rand.Rand) *Focused {
	n := t.RowCount()
	target := resolveTarget(sampleParam, n)
	f := &Focused{target: target}
	if target == 0 {
		return f
	}
	strata := stratify(n, c, lhs)

	total := 0
	for _, s := range strata {
		total += len(s)
	}
	if total <= target {
		for _, s := range strata {
			f.indices = append(f.indices, s...)
		}
		return f
	}

	for _, s := range strata {
		alloc := int(math.Round(float64(len(s)) / float64(total) * float64(target)))
		if alloc < 1 {
			alloc = 1
		}
		if alloc >= len(s) {
			f.indices = append(f.indices, s...)
			continue
		}
		f.indices = append(f.indices, sampleWithoutReplacement(s, alloc, rng)...)
	}
	return f
}

func (f *Focused) Indices() []int       { return f.indices }
func (f *Focused) TheoreticalSize() int { return f.target }

func sampleWithoutReplacement(pool []int, k int, rng *rand.Rand) []int {
	cp := make([]int, len(pool))
	copy(cp, pool)
	rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	if k > len(cp) {
		k = len(cp)
	}
	out := make([]int, k)
	copy(out, cp[:k])
	sort.Ints(out)
	return out
}

// --- Variance pre-cache (C10) -------------------------------------------

// VarianceCache precomputes stage-1 pilot variances for every stratum of a
// reference column's PLI, so Neyman never needs to re-pilot-sample per
// call.
type VarianceCache struct {
	variances []float64 // indexed by stratum position in the reference PLI
}

// BuildVarianceCache computes pilot variances for every stratum of the
// reference column's PLI, ahead of any Neyman allocation calls.
func BuildVarianceCache(t *table.Table, c *cache.PLICache, lhs bitset.Set, rhs int, rng *rand.Rand) *VarianceCache {
	strata := stratify(t.RowCount(), c, lhs)
	rhsPLI, err := c.GetOrCompute(bitset.FromColumns(rhs))
	vc := &VarianceCache{variances: make([]float64, len(strata))}
	if err != nil {
		return vc
	}
	rhsVec := rhsPLI.AttributeVector()
	for i, stratum := range strata {
		vc.variances[i] = pilotVariance(stratum, rhsVec, rng)
	}
	return vc
}

// pilotVariance samples min(floor(sqrt(n)), 20) rows of the stratum and
// computes the indicator variance against the stratum-majority RHS value.
func pilotVariance(stratum []int, rhsVec []int, rng *rand.Rand) float64 {
	pilotSize := int(math.Floor(math.Sqrt(float64(len(stratum)))))
	if pilotSize > 20 {
		pilotSize = 20
	}
	if pilotSize <= 0 {
		return 0
	}
	pilot := sampleWithoutReplacement(stratum, pilotSize, rng)

	counts := make(map[string]int, len(pilot))
	for _, r := range pilot {
		counts[majorityKey(r, rhsVec)]++
	}
	majority, majorityCount := "", -1
	for k, cnt := range counts {
		if cnt > majorityCount {
			majority, majorityCount = k, cnt
		}
	}

	n := len(pilot)
	if n <= 1 {
		return 0
	}
	mean := 0.0
	indicators := make([]float64, n)
	for i, r := range pilot {
		x := 0.0
		if majorityKey(r, rhsVec) != majority {
			x = 1.0
		}
		indicators[i] = x
		mean += x
	}
	mean /= float64(n)
	sumSq := 0.0
	for _, x := range indicators {
		d := x - mean
		sumSq += d * d
	}
	return sumSq / float64(n-1)
}

// majorityKey is a row's RHS identity for indicator comparison: its cluster
// id if non-singleton, else a synthetic unique-ish marker (the per-row
// index), since two singleton RHS rows are never considered "the same
// value" for this majority vote.
func majorityKey(r int, rhsVec []int) string {
	if rhsVec[r] != 0 {
		return "c" + strconv.Itoa(rhsVec[r])
	}
	return "s" + strconv.Itoa(r)
}

// --- Neyman ---------------------------------------------------------------

// Neyman is the two-stage stratified strategy: strata weights come from a
// VarianceCache, rows are then drawn without replacement per stratum
// according to the Neyman allocation.
type Neyman struct {
	indices []int
	target  int
}

// NewNeyman builds a Neyman strategy for lhs -> rhs, using a precomputed
// VarianceCache to skip per-call pilot sampling.
func NewNeyman(t *table.Table, c *cache.PLICache, lhs bitset.Set, vc *VarianceCache, sampleParam float64, rng *rand.Rand) *Neyman {
	n := t.RowCount()
	target := resolveTarget(sampleParam, n)
	ny := &Neyman{target: target}
	if target == 0 {
		return ny
	}
	strata := stratify(n, c, lhs)
	if len(strata) == 0 {
		return ny
	}

	weights := make([]float64, len(strata))
	totalWeight := 0.0
	for i, s := range strata {
		v := 0.0
		if i < len(vc.variances) {
			v = vc.variances[i]
		}
		weights[i] = float64(len(s)) * math.Sqrt(v)
		totalWeight += weights[i]
	}

	allocs := make([]int, len(strata))
	if totalWeight == 0 {
		// Even distribution fallback, capped at stratum size.
		per := target / len(strata)
		for i, s := range strata {
			a := per
			if a > len(s) {
				a = len(s)
			}
			allocs[i] = a
		}
	} else {
		// Ideal allocations, integer parts distributed, remainder given to
		// the largest fractional parts, THEN capped by stratum size; any
		// slots lost to capping are reissued to strata still under their
		// cap.
		type frac struct {
			idx int
			f   float64
		}
		fracs := make([]frac, len(strata))
		distributed := 0
		for i, s := range strata {
			ideal := float64(target) * weights[i] / totalWeight
			intPart := int(math.Floor(ideal))
			allocs[i] = intPart
			distributed += intPart
			fracs[i] = frac{i, ideal - math.Floor(ideal)}
			_ = s
		}
		sort.Slice(fracs, func(a, b int) bool { return fracs[a].f > fracs[b].f })
		remainder := target - distributed
		for _, fr := range fracs {
			if remainder <= 0 {
				break
			}
			allocs[fr.idx]++
			remainder--
		}

		deficit := 0
		for i, s := range strata {
			if allocs[i] > len(s) {
				deficit += allocs[i] - len(s)
				allocs[i] = len(s)
			}
		}
		for deficit > 0 {
			progressed := false
			for _, fr := range fracs {
				if deficit <= 0 {
					break
				}
				if allocs[fr.idx] < len(strata[fr.idx]) {
					allocs[fr.idx]++
					deficit--
					progressed = true
				}
			}
			if !progressed {
				break
			}
		}
	}

	for i, s := range strata {
		a := allocs[i]
		if a <= 0 {
			continue
		}
		if a >= len(s) {
			ny.indices = append(ny.indices, s...)
			continue
		}
		ny.indices = append(ny.indices, sampleWithoutReplacement(s, a, rng)...)
	}
	return ny
}

func (ny *Neyman) Indices() []int       { return ny.indices }
func (ny *Neyman) TheoreticalSize() int { return ny.target }
