package models

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/polyreorder/pkg/math3d"
	"github.com/taigrr/polyreorder/pkg/polymesh"
)

// uvSetName maps TEXCOORD_n to map1, map2, ...
func uvSetName(n int) string {
	return fmt.Sprintf("map%d", n+1)
}

func texcoordAttr(n int) string {
	return fmt.Sprintf("TEXCOORD_%d", n)
}

// LoadGLTF loads a glTF or GLB file. Every triangle primitive of every mesh
// is merged into one polygon mesh in object space; node transforms are not
// applied. glTF vertices map one to one onto mesh vertices, normals become
// locked corner normals and TEXCOORD_n becomes UV set map<n+1>.
func LoadGLTF(path string) (*polymesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := decodeGLTF(doc)
	if err != nil {
		return nil, err
	}
	if mesh.Name == "" {
		mesh.Name = filepath.Base(path)
	}
	return mesh, nil
}

// gltfUVs collects one TEXCOORD channel across primitives.
type gltfUVs struct {
	u, v   []float64 // one per vertex
	mapped []bool    // one per face
}

func decodeGLTF(doc *gltf.Document) (*polymesh.Mesh, error) {
	var points []math3d.Vec3
	var connects []int
	var normals []math3d.Vec3
	var hasNormal []bool
	var primFaces [][2]int // first face and face count of each primitive
	channels := map[int]*gltfUVs{}
	name := ""

	for _, m := range doc.Meshes {
		if name == "" {
			name = m.Name
		}
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("read positions: %w", err)
			}

			baseVertex := len(points)
			for _, p := range positions {
				points = append(points, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
			}

			var indices []int
			if prim.Indices != nil {
				raw, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("read indices: %w", err)
				}
				indices = make([]int, len(raw))
				for i, x := range raw {
					indices[i] = int(x)
				}
			} else {
				indices = make([]int, len(positions))
				for i := range indices {
					indices[i] = i
				}
			}
			indices = indices[:len(indices)-len(indices)%3]
			for _, idx := range indices {
				if idx >= len(positions) {
					return nil, fmt.Errorf("index %d out of %d positions", idx, len(positions))
				}
			}

			var primNormals [][3]float32
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				primNormals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("read normals: %w", err)
				}
			}

			firstFace := len(connects) / 3
			for _, idx := range indices {
				connects = append(connects, baseVertex+idx)
				if idx < len(primNormals) {
					n := primNormals[idx]
					normals = append(normals, math3d.V3(float64(n[0]), float64(n[1]), float64(n[2])))
					hasNormal = append(hasNormal, true)
				} else {
					normals = append(normals, math3d.Vec3{})
					hasNormal = append(hasNormal, false)
				}
			}
			numFaces := len(indices) / 3
			primFaces = append(primFaces, [2]int{firstFace, numFaces})

			for n := 0; ; n++ {
				uvIdx, ok := prim.Attributes[texcoordAttr(n)]
				if !ok {
					break
				}
				uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("read uvs: %w", err)
				}
				ch := channels[n]
				if ch == nil {
					ch = &gltfUVs{}
					channels[n] = ch
				}
				ch.u = padFloats(ch.u, baseVertex)
				ch.v = padFloats(ch.v, baseVertex)
				for i := range positions {
					var uv [2]float32
					if i < len(uvs) {
						uv = uvs[i]
					}
					// glTF puts the V origin at the top.
					ch.u = append(ch.u, float64(uv[0]))
					ch.v = append(ch.v, 1-float64(uv[1]))
				}
				ch.mapped = padBools(ch.mapped, firstFace)
				for range numFaces {
					ch.mapped = append(ch.mapped, len(uvs) >= len(positions))
				}
			}
		}
	}

	numFaces := len(connects) / 3
	counts := make([]int, numFaces)
	for i := range counts {
		counts[i] = 3
	}
	mesh, err := polymesh.New(len(points), numFaces, points, counts, connects)
	if err != nil {
		return nil, fmt.Errorf("build gltf mesh: %w", err)
	}
	mesh.Name = name

	if err := setCornerNormals(mesh, normals, hasNormal); err != nil {
		return nil, fmt.Errorf("set gltf normals: %w", err)
	}

	channelIDs := make([]int, 0, len(channels))
	for n := range channels {
		channelIDs = append(channelIDs, n)
	}
	slices.Sort(channelIDs)
	for _, n := range channelIDs {
		ch := channels[n]
		set := uvSetName(n)
		if set != polymesh.DefaultUVSet {
			if err := mesh.CreateUVSet(set); err != nil {
				return nil, err
			}
		}
		if err := mesh.SetUVs(padFloats(ch.u, len(points)), padFloats(ch.v, len(points)), set); err != nil {
			return nil, fmt.Errorf("set gltf uvs: %w", err)
		}
		mapped := padBools(ch.mapped, numFaces)
		uvCounts := make([]int, numFaces)
		var ids []int
		for f := range numFaces {
			if !mapped[f] {
				continue
			}
			uvCounts[f] = 3
			ids = append(ids, connects[3*f:3*f+3]...)
		}
		if err := mesh.AssignUVs(uvCounts, ids, set); err != nil {
			return nil, fmt.Errorf("assign gltf uvs: %w", err)
		}
	}

	return mesh, nil
}

func padFloats(s []float64, n int) []float64 {
	for len(s) < n {
		s = append(s, 0)
	}
	return s
}

func padBools(s []bool, n int) []bool {
	for len(s) < n {
		s = append(s, false)
	}
	return s
}

// gltfVertex is one exported glTF vertex: a mesh vertex plus the corner
// attributes it carries.
type gltfVertex struct {
	point  int
	normal math3d.Vec3
	uvs    []int
}

// SaveGLTF writes mesh as glTF, or as GLB when path ends in ".glb".
func SaveGLTF(path string, mesh *polymesh.Mesh) error {
	doc, err := encodeGLTF(mesh)
	if err != nil {
		return err
	}
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatGLB {
		err = gltf.SaveBinary(doc, path)
	} else {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("save gltf: %w", err)
	}
	return nil
}

// encodeGLTF builds a single-mesh document. Polygons are fan triangulated.
// glTF vertex i is mesh vertex i carrying the attributes of its first
// corner; corners whose normal or UVs differ get extra split vertices.
func encodeGLTF(mesh *polymesh.Mesh) (*gltf.Document, error) {
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
	writeNormals := slices.Contains(locked, true)
	sets := mesh.UVSetNames()

	verts := make([]gltfVertex, len(points))
	used := make([]bool, len(points))
	splits := make(map[int][]int)
	cornerVertex := make([]int, len(connects))
	for c, p := range connects {
		uvs := make([]int, len(sets))
		for s, set := range sets {
			if uvs[s], err = mesh.CornerUV(set, c); err != nil {
				return nil, err
			}
		}
		cv := gltfVertex{point: p, normal: normals[c], uvs: uvs}
		if !used[p] {
			used[p] = true
			verts[p] = cv
			cornerVertex[c] = p
			continue
		}
		idx := -1
		for _, candidate := range append([]int{p}, splits[p]...) {
			if verts[candidate].normal == cv.normal && slices.Equal(verts[candidate].uvs, cv.uvs) {
				idx = candidate
				break
			}
		}
		if idx < 0 {
			idx = len(verts)
			verts = append(verts, cv)
			splits[p] = append(splits[p], idx)
		}
		cornerVertex[c] = idx
	}
	for p := range points {
		if !used[p] {
			verts[p] = gltfVertex{point: p, uvs: make([]int, len(sets))}
			for s := range verts[p].uvs {
				verts[p].uvs[s] = -1
			}
		}
	}

	positions := make([][3]float32, len(verts))
	vertNormals := make([][3]float32, len(verts))
	for i, v := range verts {
		positions[i] = points[v.point].Float32()
		vertNormals[i] = v.normal.Float32()
	}

	var indices []uint32
	off := 0
	for _, n := range counts {
		for k := 1; k+1 < n; k++ {
			indices = append(indices,
				uint32(cornerVertex[off]),
				uint32(cornerVertex[off+k]),
				uint32(cornerVertex[off+k+1]))
		}
		off += n
	}

	doc := gltf.NewDocument()
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}
	if writeNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, vertNormals)
	}
	for s, set := range sets {
		u, v, err := mesh.UVs(set)
		if err != nil {
			return nil, err
		}
		coords := make([][2]float32, len(verts))
		for i, vert := range verts {
			if id := vert.uvs[s]; id >= 0 {
				coords[i] = [2]float32{float32(u[id]), float32(1 - v[id])}
			}
		}
		attrs[texcoordAttr(s)] = modeler.WriteTextureCoord(doc, coords)
	}

	doc.Meshes = []*gltf.Mesh{{
		Name: mesh.Name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: attrs,
			Mode:       gltf.PrimitiveTriangles,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: mesh.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}
