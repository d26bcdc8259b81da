package reorder

import "fmt"

// CornerSet is a parallel list of (face, vertex) corners.
type CornerSet struct {
	Faces    []int
	Vertices []int
}

// Len returns the number of corners in the set.
func (s CornerSet) Len() int {
	return len(s.Faces)
}

// ExtractLocks reads the lock flag of every face-corner through the mesh's
// own normal ids. Corners sharing a normal id share its flag.
func ExtractLocks(mesh LockReader) ([]bool, error) {
	_, ids, err := mesh.NormalIDs()
	if err != nil {
		return nil, storeFailure("normalIds", err)
	}
	locked := make([]bool, len(ids))
	for i, id := range ids {
		locked[i], err = mesh.IsNormalLocked(id)
		if err != nil {
			return nil, storeFailure("isNormalLocked", err)
		}
	}
	return locked, nil
}

// PartitionLocks splits the corners into locked and unlocked subsets,
// keeping their relative order.
func PartitionLocks(faces, vertices []int, locked []bool) (lockedSet, unlockedSet CornerSet, err error) {
	if len(faces) != len(vertices) || len(locked) != len(faces) {
		return CornerSet{}, CornerSet{}, fmt.Errorf("%w: %d lock flags for %d face-corners",
			ErrStructuralMismatch, len(locked), len(faces))
	}
	for i, l := range locked {
		if l {
			lockedSet.Faces = append(lockedSet.Faces, faces[i])
			lockedSet.Vertices = append(lockedSet.Vertices, vertices[i])
		} else {
			unlockedSet.Faces = append(unlockedSet.Faces, faces[i])
			unlockedSet.Vertices = append(unlockedSet.Vertices, vertices[i])
		}
	}
	return lockedSet, unlockedSet, nil
}

// ApplyLocks restores per-corner lock flags on mesh with one bulk unlock
// and one bulk lock call. A call is skipped when its subset is empty.
func ApplyLocks(mesh LockWriter, counts, connects []int, locked []bool) error {
	faces, vertices, err := FaceVertexList(counts, connects)
	if err != nil {
		return err
	}
	lockedSet, unlockedSet, err := PartitionLocks(faces, vertices, locked)
	if err != nil {
		return err
	}
	if unlockedSet.Len() > 0 {
		if err := mesh.UnlockFaceVertexNormals(unlockedSet.Faces, unlockedSet.Vertices); err != nil {
			return storeFailure("unlockFaceVertexNormals", err)
		}
	}
	if lockedSet.Len() > 0 {
		if err := mesh.LockFaceVertexNormals(lockedSet.Faces, lockedSet.Vertices); err != nil {
			return storeFailure("lockFaceVertexNormals", err)
		}
	}
	return nil
}
