package dependomine

import "github.com/pkg/errors"

// Sentinel errors for Discover and its collaborators.
var (
	// ErrInvalidInput indicates a malformed call: too many columns for the
	// fast bitset path, an empty table, or a max_error outside [0,1].
	ErrInvalidInput = errors.New("dependomine: invalid input")

	// ErrPliConstructionFailure indicates PLI intersection was asked to
	// combine inconsistent source PLIs.
	ErrPliConstructionFailure = errors.New("dependomine: pli construction failure")

	// ErrOverflow indicates an arithmetic overflow in a pair-count
	// computation.
	ErrOverflow = errors.New("dependomine: arithmetic overflow")
)
