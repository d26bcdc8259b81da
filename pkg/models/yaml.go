package models

import (
	"fmt"
	"os"

	"github.com/taigrr/polyreorder/pkg/math3d"
	"github.com/taigrr/polyreorder/pkg/polymesh"
	"gopkg.in/yaml.v3"
)

// meshDocument is the lossless YAML form of a mesh.
type meshDocument struct {
	Name      string          `yaml:"name,omitempty"`
	Points    [][3]float64    `yaml:"points"`
	Counts    []int           `yaml:"counts"`
	Connects  []int           `yaml:"connects"`
	Normals   []cornerNormal  `yaml:"normals,omitempty"`
	HardEdges [][2]int        `yaml:"hardEdges,omitempty"`
	UVSets    []uvSetDocument `yaml:"uvSets,omitempty"`
}

// cornerNormal is the normal of one face-corner.
type cornerNormal struct {
	N      [3]float64 `yaml:"n,flow"`
	Locked bool       `yaml:"locked,omitempty"`
}

type uvSetDocument struct {
	Name   string    `yaml:"name"`
	U      []float64 `yaml:"u,flow"`
	V      []float64 `yaml:"v,flow"`
	Counts []int     `yaml:"counts,flow"`
	IDs    []int     `yaml:"ids,flow"`
}

// MarshalMesh encodes mesh as a YAML document. Per-corner normals are
// omitted when every corner still has an unlocked zero normal.
func MarshalMesh(mesh *polymesh.Mesh) ([]byte, error) {
	points, err := mesh.Points()
	if err != nil {
		return nil, err
	}
	counts, connects, err := mesh.Vertices()
	if err != nil {
		return nil, err
	}
	normals, locked, err := cornerNormals(mesh)
	if err != nil {
		return nil, err
	}

	doc := meshDocument{
		Name:     mesh.Name,
		Points:   make([][3]float64, len(points)),
		Counts:   counts,
		Connects: connects,
	}
	for i, p := range points {
		doc.Points[i] = [3]float64{p.X, p.Y, p.Z}
	}

	fresh := true
	for c := range normals {
		if locked[c] || normals[c] != (math3d.Vec3{}) {
			fresh = false
			break
		}
	}
	if !fresh {
		doc.Normals = make([]cornerNormal, len(normals))
		for c, n := range normals {
			doc.Normals[c] = cornerNormal{N: [3]float64{n.X, n.Y, n.Z}, Locked: locked[c]}
		}
	}

	for e := range mesh.NumEdges() {
		smooth, err := mesh.IsEdgeSmooth(e)
		if err != nil {
			return nil, err
		}
		if smooth {
			continue
		}
		v0, v1, err := mesh.EdgeVertices(e)
		if err != nil {
			return nil, err
		}
		doc.HardEdges = append(doc.HardEdges, [2]int{v0, v1})
	}

	for _, name := range mesh.UVSetNames() {
		u, v, err := mesh.UVs(name)
		if err != nil {
			return nil, err
		}
		uvCounts, ids, err := mesh.AssignedUVs(name)
		if err != nil {
			return nil, err
		}
		doc.UVSets = append(doc.UVSets, uvSetDocument{Name: name, U: u, V: v, Counts: uvCounts, IDs: ids})
	}

	return yaml.Marshal(&doc)
}

// UnmarshalMesh decodes a YAML mesh document.
func UnmarshalMesh(data []byte) (*polymesh.Mesh, error) {
	var doc meshDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse mesh document: %w", err)
	}

	points := make([]math3d.Vec3, len(doc.Points))
	for i, p := range doc.Points {
		points[i] = math3d.V3(p[0], p[1], p[2])
	}
	mesh, err := polymesh.New(len(points), len(doc.Counts), points, doc.Counts, doc.Connects)
	if err != nil {
		return nil, fmt.Errorf("build mesh: %w", err)
	}
	mesh.Name = doc.Name

	if len(doc.Normals) > 0 {
		if len(doc.Normals) != len(doc.Connects) {
			return nil, fmt.Errorf("%d normals for %d face-corners", len(doc.Normals), len(doc.Connects))
		}
		if err := applyDocumentNormals(mesh, doc.Normals); err != nil {
			return nil, err
		}
	}

	for _, edge := range doc.HardEdges {
		e, ok := mesh.FindEdge(edge[0], edge[1])
		if !ok {
			return nil, fmt.Errorf("hard edge %d-%d is not an edge of the mesh", edge[0], edge[1])
		}
		if err := mesh.SetEdgeSmooth(e, false); err != nil {
			return nil, err
		}
	}

	for _, set := range doc.UVSets {
		if set.Name != polymesh.DefaultUVSet {
			if err := mesh.CreateUVSet(set.Name); err != nil {
				return nil, err
			}
		}
		if err := mesh.SetUVs(set.U, set.V, set.Name); err != nil {
			return nil, fmt.Errorf("uv set %q: %w", set.Name, err)
		}
		if err := mesh.AssignUVs(set.Counts, set.IDs, set.Name); err != nil {
			return nil, fmt.Errorf("uv set %q: %w", set.Name, err)
		}
	}

	return mesh, nil
}

// applyDocumentNormals sets every corner normal and then unlocks the corners
// stored as unlocked.
func applyDocumentNormals(mesh *polymesh.Mesh, normals []cornerNormal) error {
	vecs := make([]math3d.Vec3, len(normals))
	all := make([]bool, len(normals))
	for c, n := range normals {
		vecs[c] = math3d.V3(n.N[0], n.N[1], n.N[2])
		all[c] = true
	}
	if err := setCornerNormals(mesh, vecs, all); err != nil {
		return fmt.Errorf("set normals: %w", err)
	}

	counts, connects, err := mesh.Vertices()
	if err != nil {
		return err
	}
	var faces, vertices []int
	c := 0
	for f, n := range counts {
		for k := 0; k < n; k++ {
			if !normals[c].Locked {
				faces = append(faces, f)
				vertices = append(vertices, connects[c])
			}
			c++
		}
	}
	if len(faces) == 0 {
		return nil
	}
	return mesh.UnlockFaceVertexNormals(faces, vertices)
}

// LoadYAML reads a YAML mesh document from disk.
func LoadYAML(path string) (*polymesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mesh document: %w", err)
	}
	mesh, err := UnmarshalMesh(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// SaveYAML writes mesh as a YAML document.
func SaveYAML(path string, mesh *polymesh.Mesh) error {
	data, err := MarshalMesh(mesh)
	if err != nil {
		return fmt.Errorf("marshal mesh: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mesh document: %w", err)
	}
	return nil
}
