package reorder

import (
	"fmt"
	"math"

	"github.com/taigrr/polyreorder/pkg/math3d"
)

// ValidateOrder checks that order is a bijection over [0, n).
func ValidateOrder(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: %d entries for %d vertices", ErrInvalidMapping, len(order), n)
	}
	seen := make([]bool, n)
	for old, v := range order {
		if v < 0 || v >= n {
			return fmt.Errorf("%w: order[%d] = %d out of range", ErrInvalidMapping, old, v)
		}
		if seen[v] {
			return fmt.Errorf("%w: vertex %d is targeted twice", ErrInvalidMapping, v)
		}
		seen[v] = true
	}
	return nil
}

// InvertOrder returns the inverse bijection, so inv[order[i]] == i.
func InvertOrder(order []int) ([]int, error) {
	if err := ValidateOrder(order, len(order)); err != nil {
		return nil, err
	}
	inv := make([]int, len(order))
	for old, v := range order {
		inv[v] = old
	}
	return inv, nil
}

// IdentityOrder returns the order that keeps every vertex id.
func IdentityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// MatchPoints derives order[old] = new by pairing every old point with the
// single new point lying within tolerance of it on every axis. A tolerance of
// zero requires exact equality.
func MatchPoints(oldPoints, newPoints []math3d.Vec3, tolerance float64) ([]int, error) {
	if len(oldPoints) != len(newPoints) {
		return nil, fmt.Errorf("%w: %d old points, %d new points",
			ErrStructuralMismatch, len(oldPoints), len(newPoints))
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("negative match tolerance %g", tolerance)
	}

	grid := newPointGrid(newPoints, tolerance)
	order := make([]int, len(oldPoints))
	taken := make([]bool, len(newPoints))
	for old, p := range oldPoints {
		candidates := grid.near(p)
		if len(candidates) != 1 {
			return nil, fmt.Errorf("%w: point %d at %v has %d matches", ErrInvalidMapping, old, p, len(candidates))
		}
		idx := candidates[0]
		if taken[idx] {
			return nil, fmt.Errorf("%w: point %d matches new point %d twice", ErrInvalidMapping, old, idx)
		}
		taken[idx] = true
		order[old] = idx
	}
	return order, nil
}

type cell [3]int64

// pointGrid buckets points by tolerance-sized cells.
type pointGrid struct {
	points    []math3d.Vec3
	tolerance float64
	cells     map[cell][]int
	exact     map[math3d.Vec3][]int
}

func newPointGrid(points []math3d.Vec3, tolerance float64) *pointGrid {
	g := &pointGrid{points: points, tolerance: tolerance}
	if tolerance == 0 {
		g.exact = make(map[math3d.Vec3][]int, len(points))
		for i, p := range points {
			g.exact[p] = append(g.exact[p], i)
		}
		return g
	}
	g.cells = make(map[cell][]int, len(points))
	for i, p := range points {
		c := g.cellOf(p)
		g.cells[c] = append(g.cells[c], i)
	}
	return g
}

func (g *pointGrid) cellOf(p math3d.Vec3) cell {
	return cell{
		int64(math.Floor(p.X / g.tolerance)),
		int64(math.Floor(p.Y / g.tolerance)),
		int64(math.Floor(p.Z / g.tolerance)),
	}
}

func (g *pointGrid) near(p math3d.Vec3) []int {
	if g.exact != nil {
		return g.exact[p]
	}
	var out []int
	c := g.cellOf(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, i := range g.cells[cell{c[0] + dx, c[1] + dy, c[2] + dz}] {
					if g.points[i].ApproxEqual(p, g.tolerance) {
						out = append(out, i)
					}
				}
			}
		}
	}
	return out
}
