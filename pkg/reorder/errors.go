package reorder

import (
	"errors"
	"fmt"
)

var (
	// ErrStructuralMismatch reports meshes that disagree in vertex or
	// face-corner count where they must be identical.
	ErrStructuralMismatch = errors.New("reorder: structural mismatch")
	// ErrInvalidMapping reports a point order that is not a bijection over
	// the vertex range.
	ErrInvalidMapping = errors.New("reorder: invalid point mapping")
	// ErrMissingEdgeData reports an output edge with no smoothing entry.
	ErrMissingEdgeData = errors.New("reorder: missing edge data")
	// ErrStoreOperationFailed wraps any error returned by a mesh store call.
	ErrStoreOperationFailed = errors.New("reorder: store operation failed")
)

// storeFailure wraps an error returned by the mesh store.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreOperationFailed, op, err)
}
