package search_test

import (
	"math/rand/v2"
	"testing"

	"github.com/dependomine/dependomine/bitset"
	"github.com/dependomine/dependomine/cache"
	"github.com/dependomine/dependomine/measure"
	"github.com/dependomine/dependomine/sampling"
	"github.com/dependomine/dependomine/search"
	"github.com/dependomine/dependomine/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lhsList(results []search.Result) [][]int {
	out := make([][]int, len(results))
	for i, r := range results {
		out[i] = r.Lhs.ToSortedList()
	}
	return out
}

// TestExplore_PerfectSingleAttributeKey:
// A,B with rows (1,x),(2,y),(3,z) -> {A}->B and {B}->A both hold at
// max_error=0.
func TestExplore_PerfectSingleAttributeKey(t *testing.T) {
	tb, err := table.New([]string{"A", "B"}, [][]string{
		{"1", "x"}, {"2", "y"}, {"3", "z"},
	})
	require.NoError(t, err)
	c := cache.New(tb)

	spaceForB := search.New(tb, c, 1, 0, measure.G3, nil, nil)
	resB := spaceForB.Explore()
	assert.ElementsMatch(t, [][]int{{0}}, lhsList(resB))

	spaceForA := search.New(tb, c, 0, 0, measure.G3, nil, nil)
	resA := spaceForA.Explore()
	assert.ElementsMatch(t, [][]int{{1}}, lhsList(resA))
}

// TestExplore_OneViolation: A,B with rows
// (1,x),(1,y),(2,z). At max_error=0, only {B}->A holds; at max_error=0.5,
// {A}->B also holds.
func TestExplore_OneViolation(t *testing.T) {
	tb, err := table.New([]string{"A", "B"}, [][]string{
		{"1", "x"}, {"1", "y"}, {"2", "z"},
	})
	require.NoError(t, err)
	c := cache.New(tb)

	strictForB := search.New(tb, c, 1, 0, measure.G3, nil, nil)
	assert.Empty(t, strictForB.Explore())

	strictForA := search.New(tb, c, 0, 0, measure.G3, nil, nil)
	assert.ElementsMatch(t, [][]int{{1}}, lhsList(strictForA.Explore()))

	lenientForB := search.New(tb, c, 1, 0.5, measure.G3, nil, nil)
	assert.ElementsMatch(t, [][]int{{0}}, lhsList(lenientForB.Explore()))
}

// TestExplore_CompositeLHS: A,B,C with rows
// (1,a,x),(1,a,y),(2,b,z). {A}->C and {B}->C both hold at max_error=1/3
// (G1), so {A,B}->C is not minimal and must not appear.
func TestExplore_CompositeLHS(t *testing.T) {
	tb, err := table.New([]string{"A", "B", "C"}, [][]string{
		{"1", "a", "x"}, {"1", "a", "y"}, {"2", "b", "z"},
	})
	require.NoError(t, err)
	c := cache.New(tb)

	space := search.New(tb, c, 2, 1.0/3.0, measure.G1, nil, nil)
	results := space.Explore()
	for _, got := range lhsList(results) {
		assert.NotEqual(t, []int{0, 1}, got, "{A,B}->C should not be minimal")
	}
	assert.NotEmpty(t, results)
}

// TestExplore_Minimality checks that no emitted LHS is a proper superset of
// another emitted LHS for the same RHS.
func TestExplore_Minimality(t *testing.T) {
	tb, err := table.New([]string{"A", "B", "C", "D"}, [][]string{
		{"1", "a", "p", "x"},
		{"1", "a", "p", "y"},
		{"2", "b", "q", "x"},
		{"2", "b", "q", "y"},
		{"3", "c", "r", "z"},
	})
	require.NoError(t, err)
	c := cache.New(tb)
	space := search.New(tb, c, 3, 0, measure.G3, nil, nil)
	results := space.Explore()

	for i, a := range results {
		for j, b := range results {
			if i == j {
				continue
			}
			assert.False(t, a.Lhs.IsSubset(b.Lhs) && a.Lhs != b.Lhs,
				"result %v is a proper subset of %v, violates minimality", a.Lhs.ToSortedList(), b.Lhs.ToSortedList())
		}
	}
}

// TestExplore_Soundness checks that every emitted FD's validated error is
// within the configured bound.
func TestExplore_Soundness(t *testing.T) {
	tb, err := table.New([]string{"A", "B", "C"}, [][]string{
		{"1", "a", "x"},
		{"1", "a", "y"},
		{"2", "b", "z"},
		{"3", "c", "z"},
	})
	require.NoError(t, err)
	c := cache.New(tb)
	const eps = 0.2
	space := search.New(tb, c, 2, eps, measure.G3, nil, nil)
	for _, r := range space.Explore() {
		assert.LessOrEqual(t, r.Error, eps)
	}
}

// bruteForceMinimalFDs enumerates every non-empty LHS subset of tb's columns
// (excluding rhs), computes its exact error under kind, and reduces the
// subsets whose error is within eps to their ⊆-minimal members: the
// TANE-style level-wise reference answer the search engine must reproduce.
func bruteForceMinimalFDs(t *testing.T, tb *table.Table, c *cache.PLICache, rhs int, eps float64, kind measure.Kind) [][]int {
	t.Helper()
	colCount := tb.ColCount()
	rhsPLI, err := c.GetOrCompute(bitset.FromColumns(rhs))
	require.NoError(t, err)

	var valid []bitset.Set
	for mask := 1; mask < (1 << colCount); mask++ {
		if mask&(1<<uint(rhs)) != 0 {
			continue
		}
		var cols []int
		for i := 0; i < colCount; i++ {
			if mask&(1<<uint(i)) != 0 {
				cols = append(cols, i)
			}
		}
		lhs := bitset.FromColumns(cols...)
		lhsPLI, err := c.GetOrCompute(lhs)
		require.NoError(t, err)
		if measure.Calculate(kind, lhsPLI, rhsPLI, tb) <= eps {
			valid = append(valid, lhs)
		}
	}

	var minimal [][]int
	for _, v := range valid {
		isMinimal := true
		for _, other := range valid {
			if other != v && other.IsSubset(v) {
				isMinimal = false
				break
			}
		}
		if isMinimal {
			minimal = append(minimal, v.ToSortedList())
		}
	}
	return minimal
}

// TestExplore_CompletenessAgainstBruteForce checks that, with sampling off
// and an exact measure, Explore's output for every RHS equals the set of
// ⊆-minimal LHS sets found by brute-force enumeration of the whole lattice.
func TestExplore_CompletenessAgainstBruteForce(t *testing.T) {
	tb, err := table.New([]string{"A", "B", "C", "D"}, [][]string{
		{"1", "a", "p", "x"},
		{"1", "a", "p", "y"},
		{"2", "b", "q", "x"},
		{"2", "b", "q", "y"},
		{"3", "c", "r", "z"},
	})
	require.NoError(t, err)
	c := cache.New(tb)
	const eps = 0.25

	for rhs := 0; rhs < tb.ColCount(); rhs++ {
		space := search.New(tb, c, rhs, eps, measure.G3, nil, nil)
		got := lhsList(space.Explore())
		want := bruteForceMinimalFDs(t, tb, c, rhs, eps, measure.G3)
		assert.ElementsMatch(t, want, got, "rhs=%d (%s)", rhs, tb.ColumnName(rhs))
	}
}

// assertAntichain fails t if any key in keys is a proper subset of another.
func assertAntichain(t *testing.T, keys [][]int, label string) {
	t.Helper()
	for i, a := range keys {
		as := bitset.FromColumns(a...)
		for j, b := range keys {
			if i == j {
				continue
			}
			bs := bitset.FromColumns(b...)
			assert.False(t, as.IsSubset(bs) && as != bs,
				"%s: %v is a proper subset of %v, frontier is not an antichain", label, a, b)
		}
	}
}

// TestExplore_FrontierAntichains checks that minValidFD and maxNonFD each
// remain antichains (no stored key is a proper subset of another) once
// exploration for a RHS completes.
func TestExplore_FrontierAntichains(t *testing.T) {
	tb, err := table.New([]string{"A", "B", "C", "D", "E"}, [][]string{
		{"1", "a", "p", "x", "m"},
		{"1", "a", "p", "y", "n"},
		{"2", "b", "q", "x", "m"},
		{"2", "b", "q", "y", "n"},
		{"3", "c", "r", "z", "o"},
		{"4", "d", "r", "z", "o"},
	})
	require.NoError(t, err)
	c := cache.New(tb)

	for rhs := 0; rhs < tb.ColCount(); rhs++ {
		space := search.New(tb, c, rhs, 0.2, measure.G3, nil, nil)
		space.Explore()
		assertAntichain(t, space.MinValidFDs(), "minValidFD")
		assertAntichain(t, space.MaxNonFDs(), "maxNonFD")
	}
}

// TestExplore_WithFocusedSampling drives estimation through a sampling
// strategy end to end. Estimates only order exploration; emitted FDs are
// exact-validated, so soundness must hold regardless of what the sampler
// returned, including for trickle-down's empty-LHS root, which never goes
// through the estimator at all.
func TestExplore_WithFocusedSampling(t *testing.T) {
	tb, err := table.New([]string{"A", "B", "C"}, [][]string{
		{"1", "a", "x"},
		{"1", "a", "y"},
		{"2", "b", "z"},
		{"2", "b", "z"},
		{"3", "c", "z"},
	})
	require.NoError(t, err)
	c := cache.New(tb)
	rng := rand.New(rand.NewPCG(3, 5))
	factory := func(lhs bitset.Set) measure.Sampler {
		return sampling.NewFocused(tb, c, lhs, 0.5, rng)
	}

	const eps = 0.3
	space := search.New(tb, c, 2, eps, measure.G3, factory, nil)
	results := space.Explore()
	rhsPLI, err := c.GetOrCompute(bitset.FromColumns(2))
	require.NoError(t, err)
	for _, r := range results {
		lhsPLI, err := c.GetOrCompute(r.Lhs)
		require.NoError(t, err)
		exact := measure.G3Exact(lhsPLI, rhsPLI, tb.RowCount())
		assert.LessOrEqual(t, exact, eps, "lhs=%v", r.Lhs.ToSortedList())
		assert.Equal(t, exact, r.Error)
	}
}

func TestValidations_CountsExactCalls(t *testing.T) {
	tb, err := table.New([]string{"A", "B"}, [][]string{
		{"1", "x"}, {"2", "y"}, {"3", "z"},
	})
	require.NoError(t, err)
	c := cache.New(tb)
	space := search.New(tb, c, 1, 0, measure.G3, nil, nil)
	space.Explore()
	assert.Greater(t, space.Validations(), 0)
}
