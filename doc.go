// Package dependomine discovers approximate functional dependencies (AFDs)
// in an in-memory relational table.
//
// Given a table of named columns and an error measure computable from
// position-list-index (PLI) partitions, Discover finds, for every
// right-hand-side column a, the minimal left-hand-side attribute sets X
// such that X → a holds with violation rate ≤ a caller-supplied bound ε.
//
// The search is organized as three cooperating subsystems:
//
//	pli/cache - builds, caches and intersects per-attribute-set partitions
//	measure   - computes G3/G1/Simple-G3 violation rates from PLIs
//	search    - per-RHS random-restart hill-climbing over the attribute lattice
//
// plus supporting packages: bitset (64-bit attribute sets), trie (subset/
// superset queries over stored attribute sets), hitting (minimal transversals,
// used by search's escape step) and sampling (Random/Focused/Neyman row
// samplers used by the estimator).
//
//	go get github.com/dependomine/dependomine
package dependomine
