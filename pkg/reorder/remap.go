package reorder

import (
	"fmt"

	"github.com/taigrr/polyreorder/pkg/math3d"
)

// RemapPoints returns a new point slice with points[i] moved to order[i].
func RemapPoints(points []math3d.Vec3, order []int) ([]math3d.Vec3, error) {
	if err := ValidateOrder(order, len(points)); err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, len(points))
	for i, p := range points {
		out[order[i]] = p
	}
	return out, nil
}

// RemapConnectivity copies the face counts and connectivity. When applyRemap
// is set every connectivity entry v becomes order[v]; otherwise connectivity
// is assumed to already use the new numbering and passes through.
func RemapConnectivity(counts, connects, order []int, applyRemap bool) (newCounts, newConnects []int, err error) {
	newCounts = append([]int(nil), counts...)
	newConnects = make([]int, len(connects))
	for i, v := range connects {
		if v < 0 || v >= len(order) {
			return nil, nil, fmt.Errorf("%w: connectivity[%d] = %d outside %d vertices",
				ErrStructuralMismatch, i, v, len(order))
		}
		if applyRemap {
			v = order[v]
		}
		newConnects[i] = v
	}
	return newCounts, newConnects, nil
}
