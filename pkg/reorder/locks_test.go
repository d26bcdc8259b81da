package reorder

import (
	"errors"
	"slices"
	"testing"

	"github.com/taigrr/polyreorder/pkg/math3d"
	"github.com/taigrr/polyreorder/pkg/polymesh"
)

func newQuad(t *testing.T) *polymesh.Mesh {
	t.Helper()
	points := []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(1, 1, 0),
		math3d.V3(0, 1, 0),
	}
	m, err := polymesh.New(4, 1, points, []int{4}, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("polymesh.New() error = %v", err)
	}
	return m
}

func TestApplyLocksQuad(t *testing.T) {
	counts := []int{4}
	connects := []int{0, 1, 2, 3}
	locked := []bool{true, false, true, false}

	rec := &recordingLocks{}
	if err := ApplyLocks(rec, counts, connects, locked); err != nil {
		t.Fatalf("ApplyLocks() error = %v", err)
	}
	want := []cornerCall{
		{op: "unlock", faces: []int{0, 0}, vertices: []int{1, 3}},
		{op: "lock", faces: []int{0, 0}, vertices: []int{0, 2}},
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("got %d calls, want %d: %+v", len(rec.calls), len(want), rec.calls)
	}
	for i, w := range want {
		got := rec.calls[i]
		if got.op != w.op || !slices.Equal(got.faces, w.faces) || !slices.Equal(got.vertices, w.vertices) {
			t.Errorf("call %d = %+v, want %+v", i, got, w)
		}
	}

	// Same transfer against a real mesh, read back through normal ids.
	m := newQuad(t)
	if err := ApplyNormals(m, counts, connects, make([]math3d.Vec3, 4)); err != nil {
		t.Fatalf("ApplyNormals() error = %v", err)
	}
	if err := ApplyLocks(m, counts, connects, locked); err != nil {
		t.Fatalf("ApplyLocks() error = %v", err)
	}
	got, err := ExtractLocks(m)
	if err != nil {
		t.Fatalf("ExtractLocks() error = %v", err)
	}
	if !slices.Equal(got, locked) {
		t.Errorf("ExtractLocks() = %v, want %v", got, locked)
	}
}

func TestApplyLocksSkipsEmptySubsets(t *testing.T) {
	tests := []struct {
		name   string
		locked []bool
		ops    []string
	}{
		{"all locked", []bool{true, true, true, true}, []string{"lock"}},
		{"all unlocked", []bool{false, false, false, false}, []string{"unlock"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingLocks{}
			if err := ApplyLocks(rec, []int{4}, []int{0, 1, 2, 3}, tt.locked); err != nil {
				t.Fatalf("ApplyLocks() error = %v", err)
			}
			var ops []string
			for _, c := range rec.calls {
				ops = append(ops, c.op)
			}
			if !slices.Equal(ops, tt.ops) {
				t.Errorf("ops = %v, want %v", ops, tt.ops)
			}
		})
	}

	rec := &recordingLocks{}
	if err := ApplyLocks(rec, nil, nil, nil); err != nil {
		t.Fatalf("ApplyLocks(empty mesh) error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("empty mesh issued %d calls", len(rec.calls))
	}
}

func TestPartitionLocksComplete(t *testing.T) {
	faces := []int{0, 0, 0, 1, 1, 1, 1, 2, 2, 2}
	vertices := []int{0, 1, 2, 2, 1, 3, 4, 4, 3, 5}
	patterns := [][]bool{
		{true, false, true, false, true, false, true, false, true, false},
		{true, true, true, true, true, true, true, true, true, true},
		{false, false, false, false, false, false, false, false, false, false},
		{false, true, true, false, false, false, true, true, false, true},
	}
	for _, locked := range patterns {
		l, u, err := PartitionLocks(faces, vertices, locked)
		if err != nil {
			t.Fatalf("PartitionLocks() error = %v", err)
		}
		if l.Len()+u.Len() != len(faces) {
			t.Errorf("%d locked + %d unlocked != %d corners", l.Len(), u.Len(), len(faces))
		}
		// Merging the subsets back in flag order must reproduce every corner once.
		li, ui := 0, 0
		for i, isLocked := range locked {
			set, idx := u, &ui
			if isLocked {
				set, idx = l, &li
			}
			if set.Faces[*idx] != faces[i] || set.Vertices[*idx] != vertices[i] {
				t.Fatalf("corner %d misplaced in partition", i)
			}
			*idx++
		}
	}
}

func TestApplyLocksMismatch(t *testing.T) {
	err := ApplyLocks(&recordingLocks{}, []int{4}, []int{0, 1, 2, 3}, []bool{true})
	if !errors.Is(err, ErrStructuralMismatch) {
		t.Errorf("error = %v, want ErrStructuralMismatch", err)
	}
}

func TestApplyLocksStoreFailure(t *testing.T) {
	rec := &recordingLocks{failOp: "lock"}
	err := ApplyLocks(rec, []int{4}, []int{0, 1, 2, 3}, []bool{true, false, false, false})
	if !errors.Is(err, ErrStoreOperationFailed) || !errors.Is(err, errFake) {
		t.Errorf("error = %v, want ErrStoreOperationFailed wrapping the store error", err)
	}
}
