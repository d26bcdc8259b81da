package polymesh

import (
	"fmt"

	"github.com/taigrr/polyreorder/pkg/math3d"
)

// corner resolves a (face, vertex) pair to its face-corner index.
func (m *Mesh) corner(face, vertex int) (int, error) {
	if face < 0 || face >= len(m.counts) {
		return 0, fmt.Errorf("%w: face %d", ErrIndexOutOfRange, face)
	}
	off := m.offsets[face]
	for k := 0; k < m.counts[face]; k++ {
		if m.connects[off+k] == vertex {
			return off + k, nil
		}
	}
	return 0, fmt.Errorf("%w: vertex %d, face %d", ErrVertexNotInFace, vertex, face)
}

// corners resolves parallel face and vertex lists without mutating anything.
func (m *Mesh) corners(faces, vertices []int) ([]int, error) {
	if len(faces) != len(vertices) {
		return nil, fmt.Errorf("%w: %d faces, %d vertices", ErrIndexOutOfRange, len(faces), len(vertices))
	}
	out := make([]int, len(faces))
	for i := range faces {
		c, err := m.corner(faces[i], vertices[i])
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// FaceVertexNormal returns the normal of the given corner of a face.
func (m *Mesh) FaceVertexNormal(face, corner int) (math3d.Vec3, error) {
	if face < 0 || face >= len(m.counts) {
		return math3d.Vec3{}, fmt.Errorf("%w: face %d", ErrIndexOutOfRange, face)
	}
	if corner < 0 || corner >= m.counts[face] {
		return math3d.Vec3{}, fmt.Errorf("%w: corner %d of face %d", ErrIndexOutOfRange, corner, face)
	}
	return m.normals[m.normalIDs[m.offsets[face]+corner]].vec, nil
}

// NormalIDs returns the per-face corner counts and the normal id of every corner.
func (m *Mesh) NormalIDs() (counts, ids []int, err error) {
	return append([]int(nil), m.counts...), append([]int(nil), m.normalIDs...), nil
}

// NumNormals returns the number of distinct normal ids.
func (m *Mesh) NumNormals() int {
	return len(m.normals)
}

// IsNormalLocked reports whether the normal with the given id is locked.
func (m *Mesh) IsNormalLocked(id int) (bool, error) {
	if id < 0 || id >= len(m.normals) {
		return false, fmt.Errorf("%w: normal %d", ErrIndexOutOfRange, id)
	}
	return m.normals[id].locked, nil
}

// SetFaceVertexNormals gives each listed corner its own locked normal.
func (m *Mesh) SetFaceVertexNormals(normals []math3d.Vec3, faces, vertices []int) error {
	if len(normals) != len(faces) {
		return fmt.Errorf("%w: %d normals for %d corners", ErrIndexOutOfRange, len(normals), len(faces))
	}
	cs, err := m.corners(faces, vertices)
	if err != nil {
		return err
	}
	for i, c := range cs {
		old := m.normalIDs[c]
		if m.normalRefs[old] == 1 {
			m.normals[old] = normal{vec: normals[i], locked: true}
			continue
		}
		m.normalRefs[old]--
		m.normalIDs[c] = len(m.normals)
		m.normals = append(m.normals, normal{vec: normals[i], locked: true})
		m.normalRefs = append(m.normalRefs, 1)
	}
	return nil
}

// LockFaceVertexNormals locks the normals of the listed corners.
func (m *Mesh) LockFaceVertexNormals(faces, vertices []int) error {
	return m.setLocked(faces, vertices, true)
}

// UnlockFaceVertexNormals unlocks the normals of the listed corners.
// Unlocking a shared normal unlocks it for every corner that uses it.
func (m *Mesh) UnlockFaceVertexNormals(faces, vertices []int) error {
	return m.setLocked(faces, vertices, false)
}

func (m *Mesh) setLocked(faces, vertices []int, locked bool) error {
	cs, err := m.corners(faces, vertices)
	if err != nil {
		return err
	}
	for _, c := range cs {
		m.normals[m.normalIDs[c]].locked = locked
	}
	return nil
}

// LockedCornerCount returns the number of corners whose normal is locked.
func (m *Mesh) LockedCornerCount() int {
	n := 0
	for _, id := range m.normalIDs {
		if m.normals[id].locked {
			n++
		}
	}
	return n
}

