package polymesh

import (
	"errors"
	"testing"

	"github.com/taigrr/polyreorder/pkg/math3d"
)

func TestFreshNormalsShared(t *testing.T) {
	m := newQuadPair(t)
	_, ids, _ := m.NormalIDs()
	// Corner 1 (face 0) and corner 4 (face 1) both sit on vertex 1.
	if ids[1] != ids[4] {
		t.Errorf("fresh corners on the same vertex should share a normal: %d vs %d", ids[1], ids[4])
	}
	if m.LockedCornerCount() != 0 {
		t.Errorf("LockedCornerCount() = %d, want 0", m.LockedCornerCount())
	}
}

func TestSetFaceVertexNormalsSplits(t *testing.T) {
	m := newQuadPair(t)
	up := math3d.V3(0, 0, 1)
	side := math3d.V3(1, 0, 0)

	if err := m.SetFaceVertexNormals([]math3d.Vec3{up, side}, []int{0, 1}, []int{1, 1}); err != nil {
		t.Fatalf("SetFaceVertexNormals() error = %v", err)
	}
	n0, _ := m.FaceVertexNormal(0, 1)
	n1, _ := m.FaceVertexNormal(1, 0)
	if n0 != up || n1 != side {
		t.Errorf("split normals = %v, %v; want %v, %v", n0, n1, up, side)
	}

	_, ids, _ := m.NormalIDs()
	if ids[1] == ids[4] {
		t.Error("corners should no longer share a normal id")
	}
	for _, id := range []int{ids[1], ids[4]} {
		locked, _ := m.IsNormalLocked(id)
		if !locked {
			t.Errorf("normal %d should be locked after assignment", id)
		}
	}
	if m.LockedCornerCount() != 2 {
		t.Errorf("LockedCornerCount() = %d, want 2", m.LockedCornerCount())
	}
}

func TestLockUnlock(t *testing.T) {
	m := newQuadPair(t)
	normals := make([]math3d.Vec3, 4)
	if err := m.SetFaceVertexNormals(normals, []int{0, 0, 0, 0}, []int{0, 1, 2, 3}); err != nil {
		t.Fatalf("SetFaceVertexNormals() error = %v", err)
	}
	if err := m.UnlockFaceVertexNormals([]int{0, 0}, []int{1, 3}); err != nil {
		t.Fatalf("UnlockFaceVertexNormals() error = %v", err)
	}
	_, ids, _ := m.NormalIDs()
	want := []bool{true, false, true, false}
	for c, w := range want {
		got, _ := m.IsNormalLocked(ids[c])
		if got != w {
			t.Errorf("corner %d locked = %v, want %v", c, got, w)
		}
	}
	if err := m.LockFaceVertexNormals([]int{0}, []int{3}); err != nil {
		t.Fatalf("LockFaceVertexNormals() error = %v", err)
	}
	if got, _ := m.IsNormalLocked(ids[3]); !got {
		t.Error("corner 3 should be locked")
	}
}

func TestNormalErrors(t *testing.T) {
	m := newQuadPair(t)
	if err := m.LockFaceVertexNormals([]int{0}, []int{4}); !errors.Is(err, ErrVertexNotInFace) {
		t.Errorf("lock vertex outside face: error = %v, want ErrVertexNotInFace", err)
	}
	if err := m.SetFaceVertexNormals(nil, []int{0}, []int{0}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("normal count mismatch: error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := m.FaceVertexNormal(0, 4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("FaceVertexNormal(0, 4) error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := m.IsNormalLocked(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("IsNormalLocked(-1) error = %v, want ErrIndexOutOfRange", err)
	}
}

