// Package pli implements the position-list-index partition: for an
// attribute set C, the collection of equivalence classes of rows that
// agree on every column in C, with singleton classes omitted by
// convention. PLIs are the only thing the error measures
// (package measure) and the sampling strategies (package sampling) ever
// look at; cell values themselves are only touched when building a
// single-column PLI.
package pli

import (
	"sort"

	"github.com/dependomine/dependomine/bitset"
	"github.com/dependomine/dependomine/table"
)

// PLI is an equivalence-class partition of rows for a fixed attribute set.
// Classes with fewer than 2 rows are never stored (singleton convention).
type PLI struct {
	cols    bitset.Set
	classes [][]int // each class: ascending row indices, len >= 2
	n       int     // total row count of the table this PLI was built over

	attrVec []int // lazily computed, memoised; see AttributeVector
}

// Columns returns the attribute set this PLI partitions rows by.
func (p *PLI) Columns() bitset.Set { return p.cols }

// EquivalenceClasses returns the non-singleton classes (read-only; callers
// must not mutate the returned slices).
func (p *PLI) EquivalenceClasses() [][]int { return p.classes }

// NumClasses returns the number of non-singleton classes.
func (p *PLI) NumClasses() int { return len(p.classes) }

// RowCount returns N, the table's row count (not the number of rows covered
// by this PLI's classes; singleton rows are excluded from classes but
// still count toward N).
func (p *PLI) RowCount() int { return p.n }

// CoveredRows returns the total number of rows belonging to some
// non-singleton class (used by Intersect to pick the smaller operand and by
// cache as an entry's approximate memory cost).
func (p *PLI) CoveredRows() int {
	total := 0
	for _, c := range p.classes {
		total += len(c)
	}
	return total
}

// BuildSingleColumn builds the PLI for one column of t by grouping rows with
// equal cell values, keeping only groups of size >= 2.
func BuildSingleColumn(t *table.Table, col int) *PLI {
	n := t.RowCount()
	groups := make(map[string][]int, n)
	colVals := t.Column(col)
	for r := 0; r < n; r++ {
		v := colVals[r]
		groups[v] = append(groups[v], r)
	}
	classes := make([][]int, 0, len(groups))
	for _, rows := range groups {
		if len(rows) >= 2 {
			classes = append(classes, rows)
		}
	}
	sortClasses(classes)
	return &PLI{cols: bitset.FromColumns(col), classes: classes, n: n}
}

// Root returns the synthetic "empty A-set" PLI: a single class containing
// every row, since with no columns to project on all rows agree.
func Root(n int) *PLI {
	if n < 2 {
		return &PLI{cols: bitset.Empty, classes: nil, n: n}
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return &PLI{cols: bitset.Empty, classes: [][]int{all}, n: n}
}

// AttributeVector returns v where v[r] = 1-based cluster id if row r
// belongs to a non-singleton class, 0 if row r is a singleton under this
// PLI's attribute set. The vector is computed lazily on first call and
// memoised on the PLI.
func (p *PLI) AttributeVector() []int {
	if p.attrVec != nil {
		return p.attrVec
	}
	v := make([]int, p.n)
	for id, class := range p.classes {
		for _, r := range class {
			v[r] = id + 1
		}
	}
	p.attrVec = v
	return v
}

// Intersect computes the PLI of p.cols ∪ other.cols by probing the smaller
// partition's classes against the larger's attribute vector:
// for each class of the smaller side, bucket its rows by the larger side's
// cluster id (ignoring v=0, i.e. singletons of the larger side), and emit
// buckets of size >= 2.
func (p *PLI) Intersect(other *PLI) *PLI {
	small, big := p, other
	if small.CoveredRows() > big.CoveredRows() {
		small, big = big, small
	}
	bigVec := big.AttributeVector()

	newClasses := make([][]int, 0, len(small.classes))
	for _, class := range small.classes {
		buckets := make(map[int][]int, len(class))
		for _, r := range class {
			id := bigVec[r]
			if id == 0 {
				continue
			}
			buckets[id] = append(buckets[id], r)
		}
		for _, rows := range buckets {
			if len(rows) >= 2 {
				newClasses = append(newClasses, rows)
			}
		}
	}
	sortClasses(newClasses)
	return &PLI{
		cols:    p.cols.Union(other.cols),
		classes: newClasses,
		n:       p.n,
	}
}

// sortClasses gives PLIs a deterministic class order (sorted by each
// class's first row index), which in turn makes Intersect's output order
// deterministic and test assertions simple.
func sortClasses(classes [][]int) {
	for _, c := range classes {
		sort.Ints(c)
	}
	sort.Slice(classes, func(i, j int) bool {
		return classes[i][0] < classes[j][0]
	})
}
