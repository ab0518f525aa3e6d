package bitset_test

import (
	"testing"

	"github.com/dependomine/dependomine/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_PopCountAndBits(t *testing.T) {
	s := bitset.FromColumns(1, 3, 4)
	assert.Equal(t, 3, s.PopCount())
	assert.True(t, s.TestBit(1))
	assert.False(t, s.TestBit(2))

	s2 := s.SetBit(2)
	assert.Equal(t, 4, s2.PopCount())
	assert.True(t, s2.TestBit(2))

	s3 := s2.ClearBit(1)
	assert.False(t, s3.TestBit(1))
	assert.Equal(t, 3, s3.PopCount())
}

func TestSet_Subset(t *testing.T) {
	a := bitset.FromColumns(1, 2)
	b := bitset.FromColumns(1, 2, 3)
	assert.True(t, a.IsSubset(b))
	assert.False(t, b.IsSubset(a))
	assert.True(t, a.IsSubset(a))
}

func TestSet_UnionIntersect(t *testing.T) {
	a := bitset.FromColumns(0, 1)
	b := bitset.FromColumns(1, 2)
	assert.Equal(t, bitset.FromColumns(0, 1, 2), a.Union(b))
	assert.Equal(t, bitset.FromColumns(1), a.Intersect(b))
}

func TestSet_ComplementWithin(t *testing.T) {
	a := bitset.FromColumns(0, 2)
	c := a.ComplementWithin(4)
	require.True(t, c.TestBit(1))
	require.True(t, c.TestBit(3))
	assert.False(t, c.TestBit(0))
	assert.False(t, c.TestBit(2))
}

func TestSet_ToSortedList(t *testing.T) {
	s := bitset.FromColumns(5, 1, 3)
	assert.Equal(t, []int{1, 3, 5}, s.ToSortedList())
}

func TestSet_ParentsAndChildren(t *testing.T) {
	s := bitset.FromColumns(0, 1)
	parents := s.Parents()
	assert.Len(t, parents, 2)
	assert.Contains(t, parents, bitset.FromColumns(1))
	assert.Contains(t, parents, bitset.FromColumns(0))

	children := s.Children(4, bitset.Empty)
	assert.Len(t, children, 2) // columns 2,3 available
	assert.Contains(t, children, bitset.FromColumns(0, 1, 2))
	assert.Contains(t, children, bitset.FromColumns(0, 1, 3))
}

func TestSet_ChildrenExcludesRHS(t *testing.T) {
	s := bitset.FromColumns(0)
	children := s.Children(4, bitset.FromColumns(3))
	for _, c := range children {
		assert.False(t, c.TestBit(3))
	}
}

func TestSet_NextSetBit(t *testing.T) {
	s := bitset.FromColumns(2, 5)
	assert.Equal(t, 2, s.NextSetBit(0))
	assert.Equal(t, 5, s.NextSetBit(3))
	assert.Equal(t, -1, s.NextSetBit(6))
}
