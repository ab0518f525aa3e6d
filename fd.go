package dependomine

import "github.com/dependomine/dependomine/bitset"

// FD is a discovered approximate functional dependency LHS -> Rhs, together
// with its validated error under the measure Discover was configured with.
type FD struct {
	Lhs   bitset.Set
	Rhs   int
	Error float64
}
