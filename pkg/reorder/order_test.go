package reorder

import (
	"errors"
	"slices"
	"testing"

	"github.com/taigrr/polyreorder/pkg/math3d"
)

func TestValidateOrder(t *testing.T) {
	if err := ValidateOrder([]int{2, 0, 3, 1}, 4); err != nil {
		t.Errorf("ValidateOrder(valid) error = %v", err)
	}
	if err := ValidateOrder(nil, 0); err != nil {
		t.Errorf("ValidateOrder(empty) error = %v", err)
	}
	if err := ValidateOrder([]int{0, 0}, 2); !errors.Is(err, ErrInvalidMapping) {
		t.Errorf("ValidateOrder(duplicate) error = %v, want ErrInvalidMapping", err)
	}
}

func TestInvertOrder(t *testing.T) {
	order := []int{2, 0, 3, 1}
	inv, err := InvertOrder(order)
	if err != nil {
		t.Fatalf("InvertOrder() error = %v", err)
	}
	if want := []int{1, 3, 0, 2}; !slices.Equal(inv, want) {
		t.Errorf("InvertOrder() = %v, want %v", inv, want)
	}
	for i := range order {
		if inv[order[i]] != i {
			t.Errorf("inv[order[%d]] = %d", i, inv[order[i]])
		}
	}
}

func TestIdentityOrder(t *testing.T) {
	if got := IdentityOrder(4); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("IdentityOrder(4) = %v", got)
	}
}

func TestMatchPoints(t *testing.T) {
	oldPoints := tetraPoints()
	order := []int{2, 0, 3, 1}
	newPoints, err := RemapPoints(oldPoints, order)
	if err != nil {
		t.Fatalf("RemapPoints() error = %v", err)
	}

	tests := []struct {
		name      string
		tolerance float64
		jitter    float64
	}{
		{"exact", 0, 0},
		{"within tolerance", 1e-4, 5e-5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shifted := make([]math3d.Vec3, len(newPoints))
			for i, p := range newPoints {
				shifted[i] = p.Add(math3d.V3(tt.jitter, -tt.jitter, tt.jitter))
			}
			got, err := MatchPoints(oldPoints, shifted, tt.tolerance)
			if err != nil {
				t.Fatalf("MatchPoints() error = %v", err)
			}
			if !slices.Equal(got, order) {
				t.Errorf("MatchPoints() = %v, want %v", got, order)
			}
		})
	}
}

func TestMatchPointsFailures(t *testing.T) {
	p := tetraPoints()
	if _, err := MatchPoints(p, p[:3], 0); !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("length mismatch error = %v, want ErrStructuralMismatch", err)
	}

	coincident := []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(0, 0, 0)}
	if _, err := MatchPoints(coincident, coincident, 0); !errors.Is(err, ErrInvalidMapping) {
		t.Errorf("ambiguous match error = %v, want ErrInvalidMapping", err)
	}

	moved := append([]math3d.Vec3(nil), p...)
	moved[0] = math3d.V3(5, 5, 5)
	if _, err := MatchPoints(p, moved, 1e-6); !errors.Is(err, ErrInvalidMapping) {
		t.Errorf("unmatched point error = %v, want ErrInvalidMapping", err)
	}
}
