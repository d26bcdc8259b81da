package reorder

import "github.com/taigrr/polyreorder/pkg/math3d"

// PointReader reads object-space vertex positions.
type PointReader interface {
	NumVertices() int
	Points() ([]math3d.Vec3, error)
}

// TopologyReader reads per-face vertex counts and flattened connectivity.
type TopologyReader interface {
	NumVertices() int
	Vertices() (counts, connects []int, err error)
}

// NormalReader reads split normals face by face.
type NormalReader interface {
	NumPolygons() int
	PolygonVertexCount(face int) (int, error)
	FaceVertexNormal(face, corner int) (math3d.Vec3, error)
}

// NormalWriter assigns split normals to (face, vertex) corners.
type NormalWriter interface {
	SetFaceVertexNormals(normals []math3d.Vec3, faces, vertices []int) error
	UnlockFaceVertexNormals(faces, vertices []int) error
}

// LockReader reads the normal id of every corner and the lock flag of each id.
type LockReader interface {
	NormalIDs() (counts, ids []int, err error)
	IsNormalLocked(id int) (bool, error)
}

// LockWriter bulk-locks and bulk-unlocks corner normals.
type LockWriter interface {
	LockFaceVertexNormals(faces, vertices []int) error
	UnlockFaceVertexNormals(faces, vertices []int) error
}

// EdgeReader walks edges and reads their smoothing flag.
type EdgeReader interface {
	NumEdges() int
	EdgeVertices(edge int) (v0, v1 int, err error)
	IsEdgeSmooth(edge int) (bool, error)
}

// EdgeWriter walks edges and sets their smoothing flag.
type EdgeWriter interface {
	NumEdges() int
	EdgeVertices(edge int) (v0, v1 int, err error)
	SetEdgeSmooth(edge int, smooth bool) error
}

// UVReader reads named UV sets.
type UVReader interface {
	UVSetNames() []string
	UVs(set string) (u, v []float64, err error)
	AssignedUVs(set string) (counts, ids []int, err error)
}

// UVWriter creates and fills named UV sets.
type UVWriter interface {
	HasUVSet(name string) bool
	CreateUVSet(name string) error
	ClearUVs(set string) error
	SetUVs(u, v []float64, set string) error
	AssignUVs(counts, ids []int, set string) error
}

// AttributeSource is everything read from the target mesh.
type AttributeSource interface {
	PointReader
	NormalReader
	LockReader
	EdgeReader
	UVReader
}

// Output is everything written to the reconstructed mesh.
type Output interface {
	NormalWriter
	LockWriter
	EdgeWriter
	UVWriter
}

// Rebuilder is an existing mesh that can replace its geometry in place.
type Rebuilder interface {
	Output
	CreateInPlace(numVertices, numPolygons int, points []math3d.Vec3, counts, connects []int) error
}

// NewMeshFunc constructs a fresh output mesh from geometry.
type NewMeshFunc func(numVertices, numPolygons int, points []math3d.Vec3, counts, connects []int) (Output, error)
