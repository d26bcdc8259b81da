// Package polymesh provides an in-memory polygon mesh with split normals,
// normal lock flags, per-edge smoothing and named UV sets.
//
// A Mesh is not safe for concurrent use.
package polymesh

import (
	"errors"
	"fmt"

	"github.com/taigrr/polyreorder/pkg/math3d"
)

// DefaultUVSet is the UV set every mesh carries from construction.
const DefaultUVSet = "map1"

var (
	// ErrIndexOutOfRange reports a face, corner, edge or normal id outside the mesh.
	ErrIndexOutOfRange = errors.New("polymesh: index out of range")
	// ErrInvalidTopology reports geometry whose counts and connectivity disagree.
	ErrInvalidTopology = errors.New("polymesh: invalid topology")
	// ErrVertexNotInFace reports a (face, vertex) pair where the face lacks the vertex.
	ErrVertexNotInFace = errors.New("polymesh: vertex not in face")
	// ErrUVSetExists reports creating a UV set under a name already in use.
	ErrUVSetExists = errors.New("polymesh: uv set already exists")
	// ErrUnknownUVSet reports a UV set name the mesh does not have.
	ErrUnknownUVSet = errors.New("polymesh: unknown uv set")
	// ErrInvalidUVs reports UV coordinates or assignments that do not fit the mesh.
	ErrInvalidUVs = errors.New("polymesh: invalid uv data")
)

// Edge is an undirected edge. V0 and V1 keep the orientation in which the
// edge was first met while walking the faces.
type Edge struct {
	V0, V1 int
	Smooth bool
}

type normal struct {
	vec    math3d.Vec3
	locked bool
}

// Mesh is a polygon mesh stored as per-face vertex counts plus a flattened
// connectivity list. Each face-corner references a normal by id; ids may be
// shared between corners.
type Mesh struct {
	Name string

	points   []math3d.Vec3
	counts   []int
	connects []int
	offsets  []int // first corner of each face

	normalIDs  []int // per corner
	normals    []normal
	normalRefs []int // corners referencing each normal id

	edges     []Edge
	edgeIndex map[[2]int]int

	uvSets []*uvSet
}

// New creates a mesh from its geometry. Every vertex starts with one shared,
// unlocked zero normal, every edge is smooth and only the default UV set exists.
func New(numVertices, numPolygons int, points []math3d.Vec3, counts, connects []int) (*Mesh, error) {
	m := &Mesh{}
	if err := m.CreateInPlace(numVertices, numPolygons, points, counts, connects); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateInPlace replaces the geometry of m and resets every attribute.
// The mesh name is kept. On error m is left unchanged.
func (m *Mesh) CreateInPlace(numVertices, numPolygons int, points []math3d.Vec3, counts, connects []int) error {
	if err := validateGeometry(numVertices, numPolygons, points, counts, connects); err != nil {
		return err
	}

	m.points = append([]math3d.Vec3(nil), points...)
	m.counts = append([]int(nil), counts...)
	m.connects = append([]int(nil), connects...)

	m.offsets = make([]int, len(counts))
	off := 0
	for i, n := range counts {
		m.offsets[i] = off
		off += n
	}

	// Unsplit normals are shared per vertex, like a freshly built mesh in most DCCs.
	m.normals = make([]normal, numVertices)
	m.normalRefs = make([]int, numVertices)
	m.normalIDs = make([]int, len(connects))
	for c, v := range connects {
		m.normalIDs[c] = v
		m.normalRefs[v]++
	}

	m.buildEdges()

	m.uvSets = []*uvSet{newUVSet(DefaultUVSet, len(connects))}
	return nil
}

func validateGeometry(numVertices, numPolygons int, points []math3d.Vec3, counts, connects []int) error {
	if numVertices < 0 || len(points) != numVertices {
		return fmt.Errorf("%w: %d points for %d vertices", ErrInvalidTopology, len(points), numVertices)
	}
	if numPolygons < 0 || len(counts) != numPolygons {
		return fmt.Errorf("%w: %d face counts for %d polygons", ErrInvalidTopology, len(counts), numPolygons)
	}
	total := 0
	for f, n := range counts {
		if n < 3 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidTopology, f, n)
		}
		total += n
	}
	if total != len(connects) {
		return fmt.Errorf("%w: face counts sum to %d, connectivity has %d entries", ErrInvalidTopology, total, len(connects))
	}
	for i, v := range connects {
		if v < 0 || v >= numVertices {
			return fmt.Errorf("%w: connectivity[%d] = %d", ErrIndexOutOfRange, i, v)
		}
	}
	return nil
}

// buildEdges derives the unique undirected edges in first-appearance order.
func (m *Mesh) buildEdges() {
	m.edges = m.edges[:0]
	m.edgeIndex = make(map[[2]int]int)
	for f, n := range m.counts {
		off := m.offsets[f]
		for k := 0; k < n; k++ {
			a := m.connects[off+k]
			b := m.connects[off+(k+1)%n]
			key := edgeKey(a, b)
			if _, ok := m.edgeIndex[key]; ok {
				continue
			}
			m.edgeIndex[key] = len(m.edges)
			m.edges = append(m.edges, Edge{V0: a, V1: b, Smooth: true})
		}
	}
}

// edgeKey creates a canonical key for an edge by sorting its endpoints.
func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int {
	return len(m.points)
}

// NumPolygons returns the number of faces.
func (m *Mesh) NumPolygons() int {
	return len(m.counts)
}

// NumFaceVertices returns the number of face-corners.
func (m *Mesh) NumFaceVertices() int {
	return len(m.connects)
}

// Points returns a copy of the vertex positions.
func (m *Mesh) Points() ([]math3d.Vec3, error) {
	return append([]math3d.Vec3(nil), m.points...), nil
}

// Vertices returns copies of the per-face vertex counts and the flattened connectivity.
func (m *Mesh) Vertices() (counts, connects []int, err error) {
	return append([]int(nil), m.counts...), append([]int(nil), m.connects...), nil
}

// PolygonVertexCount returns the number of corners of a face.
func (m *Mesh) PolygonVertexCount(face int) (int, error) {
	if face < 0 || face >= len(m.counts) {
		return 0, fmt.Errorf("%w: face %d", ErrIndexOutOfRange, face)
	}
	return m.counts[face], nil
}

// PolygonVertices returns the vertex ids of a face in winding order.
func (m *Mesh) PolygonVertices(face int) ([]int, error) {
	if face < 0 || face >= len(m.counts) {
		return nil, fmt.Errorf("%w: face %d", ErrIndexOutOfRange, face)
	}
	off := m.offsets[face]
	return append([]int(nil), m.connects[off:off+m.counts[face]]...), nil
}

// Bounds returns the axis-aligned bounding box of the points.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.points) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	lo, hi = m.points[0], m.points[0]
	for _, p := range m.points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:       m.Name,
		points:     append([]math3d.Vec3(nil), m.points...),
		counts:     append([]int(nil), m.counts...),
		connects:   append([]int(nil), m.connects...),
		offsets:    append([]int(nil), m.offsets...),
		normalIDs:  append([]int(nil), m.normalIDs...),
		normals:    append([]normal(nil), m.normals...),
		normalRefs: append([]int(nil), m.normalRefs...),
		edges:      append([]Edge(nil), m.edges...),
		edgeIndex:  make(map[[2]int]int, len(m.edgeIndex)),
		uvSets:     make([]*uvSet, len(m.uvSets)),
	}
	for k, v := range m.edgeIndex {
		clone.edgeIndex[k] = v
	}
	for i, s := range m.uvSets {
		clone.uvSets[i] = s.clone()
	}
	return clone
}
