package pli_test

import (
	"testing"

	"github.com/dependomine/dependomine/pli"
	"github.com/dependomine/dependomine/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSingleColumn(t *testing.T) {
	tb, err := table.New([]string{"A"}, [][]string{{"1"}, {"1"}, {"2"}, {"3"}, {"3"}})
	require.NoError(t, err)
	p := pli.BuildSingleColumn(tb, 0)
	assert.Equal(t, 2, p.NumClasses()) // {0,1} and {3,4}; "2" is a singleton
	assert.Equal(t, 4, p.CoveredRows())

	v := p.AttributeVector()
	assert.Equal(t, 0, v[2]) // singleton row has cluster id 0
	assert.NotEqual(t, 0, v[0])
	assert.Equal(t, v[0], v[1])
}

// TestIntersect_IntersectionLaw:
// A on (1,1,2,2,3), B on (x,y,x,y,x) intersect to all singletons.
func TestIntersect_IntersectionLaw(t *testing.T) {
	tb, err := table.New([]string{"A", "B"}, [][]string{
		{"1", "x"},
		{"1", "y"},
		{"2", "x"},
		{"2", "y"},
		{"3", "x"},
	})
	require.NoError(t, err)
	pa := pli.BuildSingleColumn(tb, 0)
	pb := pli.BuildSingleColumn(tb, 1)

	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, pa.EquivalenceClasses())
	assert.Equal(t, [][]int{{0, 2, 4}, {1, 3}}, pb.EquivalenceClasses())

	merged := pa.Intersect(pb)
	assert.Equal(t, 0, merged.NumClasses())
}

func TestIntersect_CompositeColumns(t *testing.T) {
	tb, err := table.New([]string{"A", "B", "C"}, [][]string{
		{"1", "a", "x"},
		{"1", "a", "y"},
		{"2", "b", "z"},
	})
	require.NoError(t, err)
	pa := pli.BuildSingleColumn(tb, 0)
	pb := pli.BuildSingleColumn(tb, 1)

	merged := pa.Intersect(pb)
	assert.Equal(t, 1, merged.NumClasses())
	assert.Equal(t, [][]int{{0, 1}}, merged.EquivalenceClasses())
}

func TestRoot(t *testing.T) {
	r := pli.Root(5)
	assert.Equal(t, 1, r.NumClasses())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, r.EquivalenceClasses()[0])

	empty := pli.Root(1)
	assert.Equal(t, 0, empty.NumClasses())
}

// TestPLIInvariant checks every class has >=2 rows and the attribute
// vector agrees with class membership.
func TestPLIInvariant(t *testing.T) {
	tb, err := table.New([]string{"A"}, [][]string{{"x"}, {"x"}, {"y"}, {"z"}, {"z"}, {"z"}})
	require.NoError(t, err)
	p := pli.BuildSingleColumn(tb, 0)

	covered := 0
	for _, c := range p.EquivalenceClasses() {
		assert.GreaterOrEqual(t, len(c), 2)
		covered += len(c)
	}
	singletons := p.RowCount() - covered
	assert.Equal(t, p.RowCount(), covered+singletons)

	v := p.AttributeVector()
	for id, class := range p.EquivalenceClasses() {
		for _, r := range class {
			assert.Equal(t, id+1, v[r])
		}
	}
}
