package reorder

import (
	"errors"
	"slices"
	"testing"
)

func TestFaceVertexList(t *testing.T) {
	counts := []int{3, 4}
	connects := []int{0, 1, 2, 2, 1, 3, 4}

	faces, vertices, err := FaceVertexList(counts, connects)
	if err != nil {
		t.Fatalf("FaceVertexList() error = %v", err)
	}
	if want := []int{0, 0, 0, 1, 1, 1, 1}; !slices.Equal(faces, want) {
		t.Errorf("faces = %v, want %v", faces, want)
	}
	if !slices.Equal(vertices, connects) {
		t.Errorf("vertices = %v, want %v", vertices, connects)
	}
}

func TestFaceVertexListCornerCount(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
	}{
		{"empty", nil},
		{"triangles", []int{3, 3, 3}},
		{"mixed", []int{4, 3, 5, 6}},
		{"single ngon", []int{9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := 0
			for _, n := range tt.counts {
				sum += n
			}
			connects := make([]int, sum)
			faces, vertices, err := FaceVertexList(tt.counts, connects)
			if err != nil {
				t.Fatalf("FaceVertexList() error = %v", err)
			}
			if len(faces) != sum || len(vertices) != sum {
				t.Errorf("got %d faces, %d vertices; want %d each", len(faces), len(vertices), sum)
			}
		})
	}
}

func TestFaceVertexListMismatch(t *testing.T) {
	if _, _, err := FaceVertexList([]int{3, 3}, []int{0, 1, 2}); !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("error = %v, want ErrStructuralMismatch", err)
	}
	if _, _, err := FaceVertexList([]int{-1}, nil); !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("negative count error = %v, want ErrStructuralMismatch", err)
	}
}
