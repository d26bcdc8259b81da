package reorder

import "fmt"

// ExtractSmoothing maps every edge of mesh, keyed by its endpoints after
// remapping through order, to its smoothing flag.
func ExtractSmoothing(mesh EdgeReader, order []int) (map[uint64]bool, error) {
	smoothing := make(map[uint64]bool, mesh.NumEdges())
	for e := 0; e < mesh.NumEdges(); e++ {
		v0, v1, err := mesh.EdgeVertices(e)
		if err != nil {
			return nil, storeFailure("edgeVertices", err)
		}
		if v0 < 0 || v0 >= len(order) || v1 < 0 || v1 >= len(order) {
			return nil, fmt.Errorf("%w: edge %d (%d, %d) outside %d vertices",
				ErrStructuralMismatch, e, v0, v1, len(order))
		}
		smooth, err := mesh.IsEdgeSmooth(e)
		if err != nil {
			return nil, storeFailure("isEdgeSmooth", err)
		}
		smoothing[EdgeKey(uint32(order[v0]), uint32(order[v1]))] = smooth
	}
	return smoothing, nil
}

// ApplySmoothing sets the smoothing flag of every edge of mesh. The mesh
// already uses the new numbering, so endpoints are keyed as they are.
func ApplySmoothing(mesh EdgeWriter, smoothing map[uint64]bool) error {
	for e := 0; e < mesh.NumEdges(); e++ {
		v0, v1, err := mesh.EdgeVertices(e)
		if err != nil {
			return storeFailure("edgeVertices", err)
		}
		if v0 < 0 || v1 < 0 {
			return fmt.Errorf("%w: edge %d has negative endpoint (%d, %d)", ErrStructuralMismatch, e, v0, v1)
		}
		smooth, ok := smoothing[EdgeKey(uint32(v0), uint32(v1))]
		if !ok {
			return fmt.Errorf("%w: edge %d (%d, %d)", ErrMissingEdgeData, e, v0, v1)
		}
		if err := mesh.SetEdgeSmooth(e, smooth); err != nil {
			return storeFailure("setEdgeSmoothing", err)
		}
	}
	return nil
}
