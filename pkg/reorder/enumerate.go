package reorder

import "fmt"

// FaceVertexList expands per-face counts and flattened connectivity into
// parallel (face, vertex) lists, one entry per face-corner in face order.
func FaceVertexList(counts, connects []int) (faces, vertices []int, err error) {
	total := 0
	for f, n := range counts {
		if n < 0 {
			return nil, nil, fmt.Errorf("%w: face %d has negative count %d", ErrStructuralMismatch, f, n)
		}
		total += n
	}
	if total != len(connects) {
		return nil, nil, fmt.Errorf("%w: face counts sum to %d, connectivity has %d entries",
			ErrStructuralMismatch, total, len(connects))
	}

	faces = make([]int, total)
	vertices = make([]int, total)
	idx := 0
	for f, n := range counts {
		for j := 0; j < n; j++ {
			faces[idx] = f
			vertices[idx] = connects[idx]
			idx++
		}
	}
	return faces, vertices, nil
}
