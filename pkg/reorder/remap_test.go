package reorder

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/taigrr/polyreorder/pkg/math3d"
)

func tetraPoints() []math3d.Vec3 {
	return []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(0, 1, 0),
		math3d.V3(0, 0, 1),
	}
}

func TestRemapPointsTetrahedron(t *testing.T) {
	points := tetraPoints()
	order := []int{2, 0, 3, 1}

	got, err := RemapPoints(points, order)
	if err != nil {
		t.Fatalf("RemapPoints() error = %v", err)
	}
	// new vertex 0 is old vertex 1, new 1 is old 3, new 2 is old 0, new 3 is old 2.
	want := []math3d.Vec3{points[1], points[3], points[0], points[2]}
	if !slices.Equal(got, want) {
		t.Errorf("RemapPoints() = %v, want %v", got, want)
	}
}

func TestRemapPointsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 2, 5, 64} {
		points := make([]math3d.Vec3, n)
		for i := range points {
			points[i] = math3d.V3(rng.Float64(), rng.Float64(), rng.Float64())
		}
		order := rng.Perm(n)
		inv, err := InvertOrder(order)
		if err != nil {
			t.Fatalf("InvertOrder() error = %v", err)
		}

		forward, err := RemapPoints(points, order)
		if err != nil {
			t.Fatalf("RemapPoints() error = %v", err)
		}
		back, err := RemapPoints(forward, inv)
		if err != nil {
			t.Fatalf("RemapPoints(inverse) error = %v", err)
		}
		if !slices.Equal(back, points) {
			t.Errorf("n=%d: round trip = %v, want %v", n, back, points)
		}
	}
}

func TestRemapPointsInvalidMapping(t *testing.T) {
	tests := []struct {
		name  string
		order []int
	}{
		{"too short", []int{0, 1, 2}},
		{"duplicate", []int{0, 1, 1, 3}},
		{"out of range", []int{0, 1, 2, 4}},
		{"negative", []int{-1, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RemapPoints(tetraPoints(), tt.order); !errors.Is(err, ErrInvalidMapping) {
				t.Errorf("RemapPoints() error = %v, want ErrInvalidMapping", err)
			}
		})
	}
}

func TestRemapConnectivity(t *testing.T) {
	counts := []int{3, 3, 3, 3}
	connects := []int{0, 1, 2, 0, 3, 1, 1, 3, 2, 2, 3, 0}
	order := []int{2, 0, 3, 1}

	gotCounts, gotConnects, err := RemapConnectivity(counts, connects, order, true)
	if err != nil {
		t.Fatalf("RemapConnectivity() error = %v", err)
	}
	if !slices.Equal(gotCounts, counts) {
		t.Errorf("counts = %v, want %v", gotCounts, counts)
	}
	want := []int{2, 0, 3, 2, 1, 0, 0, 1, 3, 3, 1, 2}
	if !slices.Equal(gotConnects, want) {
		t.Errorf("connects = %v, want %v", gotConnects, want)
	}

	_, passThrough, err := RemapConnectivity(counts, connects, order, false)
	if err != nil {
		t.Fatalf("RemapConnectivity(no remap) error = %v", err)
	}
	if !slices.Equal(passThrough, connects) {
		t.Errorf("pass-through connects = %v, want %v", passThrough, connects)
	}

	// The input must not be modified.
	if connects[0] != 0 {
		t.Error("RemapConnectivity modified its input")
	}
}

func TestRemapConnectivityOutOfRange(t *testing.T) {
	_, _, err := RemapConnectivity([]int{3}, []int{0, 1, 4}, []int{0, 1, 2, 3}, true)
	if !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("error = %v, want ErrStructuralMismatch", err)
	}
}
