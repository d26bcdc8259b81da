package reorder

import (
	"errors"
	"slices"

	"github.com/taigrr/polyreorder/pkg/math3d"
)

var errFake = errors.New("fake store failure")

// cornerCall records one bulk corner call.
type cornerCall struct {
	op       string
	faces    []int
	vertices []int
}

// recordingLocks implements LockWriter and NormalWriter and records every call.
type recordingLocks struct {
	calls   []cornerCall
	normals []math3d.Vec3
	failOp  string
}

func (r *recordingLocks) record(op string, faces, vertices []int) error {
	if op == r.failOp {
		return errFake
	}
	r.calls = append(r.calls, cornerCall{
		op:       op,
		faces:    append([]int(nil), faces...),
		vertices: append([]int(nil), vertices...),
	})
	return nil
}

func (r *recordingLocks) SetFaceVertexNormals(normals []math3d.Vec3, faces, vertices []int) error {
	r.normals = append([]math3d.Vec3(nil), normals...)
	return r.record("set", faces, vertices)
}

func (r *recordingLocks) LockFaceVertexNormals(faces, vertices []int) error {
	return r.record("lock", faces, vertices)
}

func (r *recordingLocks) UnlockFaceVertexNormals(faces, vertices []int) error {
	return r.record("unlock", faces, vertices)
}

// edgeList implements EdgeReader and EdgeWriter over a fixed edge slice.
type edgeList struct {
	edges  [][2]int
	smooth []bool
}

func (e *edgeList) NumEdges() int { return len(e.edges) }

func (e *edgeList) EdgeVertices(edge int) (int, int, error) {
	return e.edges[edge][0], e.edges[edge][1], nil
}

func (e *edgeList) IsEdgeSmooth(edge int) (bool, error) { return e.smooth[edge], nil }

func (e *edgeList) SetEdgeSmooth(edge int, smooth bool) error {
	e.smooth[edge] = smooth
	return nil
}

// uvRecorder implements UVWriter, recording the call sequence.
type uvRecorder struct {
	existing  []string
	calls     []string
	failOp    string
	createErr error
}

func (u *uvRecorder) call(op, set string) error {
	u.calls = append(u.calls, op+" "+set)
	if op == u.failOp {
		return errFake
	}
	return nil
}

func (u *uvRecorder) HasUVSet(name string) bool { return slices.Contains(u.existing, name) }

func (u *uvRecorder) CreateUVSet(name string) error {
	if err := u.call("create", name); err != nil {
		return err
	}
	return u.createErr
}

func (u *uvRecorder) ClearUVs(set string) error { return u.call("clear", set) }

func (u *uvRecorder) SetUVs(_, _ []float64, set string) error { return u.call("set", set) }

func (u *uvRecorder) AssignUVs(_, _ []int, set string) error { return u.call("assign", set) }
