package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/polyreorder/pkg/math3d"
	"github.com/taigrr/polyreorder/pkg/polymesh"
)

// OBJLoader loads Wavefront OBJ files. Polygons are kept as they are and
// every "v" line becomes one mesh vertex, so vertex ids match the file.
type OBJLoader struct {
	// KeepNormals locks "vn" normals onto the corners that reference them.
	KeepNormals bool
	// KeepSmoothing marks the edges of faces under "s off" as hard.
	KeepSmoothing bool
}

// NewOBJLoader creates a new OBJ loader with default settings.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		KeepNormals:   true,
		KeepSmoothing: true,
	}
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*polymesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// objCorner holds the resolved indices of one face-corner; -1 means absent.
type objCorner struct {
	pos, uv, normal int
}

// Load parses an OBJ from a reader.
func (l *OBJLoader) Load(r io.Reader, name string) (*polymesh.Mesh, error) {
	var positions []math3d.Vec3
	var normals []math3d.Vec3
	var uvs []math3d.Vec2

	var counts []int
	var corners []objCorner
	var hardFaces []int
	hard := false

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseVec3(fields, "vertex")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			positions = append(positions, p)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: invalid texture coord (need u v)", lineNum)
			}
			u, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid u coordinate: %w", lineNum, err)
			}
			v, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid v coordinate: %w", lineNum, err)
			}
			uvs = append(uvs, math3d.V2(u, v))

		case "vn":
			n, err := parseVec3(fields, "normal")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			normals = append(normals, n)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			for i := 1; i < len(fields); i++ {
				posIdx, uvIdx, normalIdx, err := parseFaceVertex(fields[i])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}

				c := objCorner{
					pos:    resolveIndex(posIdx, len(positions)),
					uv:     resolveIndex(uvIdx, len(uvs)),
					normal: resolveIndex(normalIdx, len(normals)),
				}
				if c.pos < 0 || c.pos >= len(positions) {
					return nil, fmt.Errorf("line %d: position index %d out of range", lineNum, posIdx)
				}
				if uvIdx != 0 && (c.uv < 0 || c.uv >= len(uvs)) {
					return nil, fmt.Errorf("line %d: texture index %d out of range", lineNum, uvIdx)
				}
				if normalIdx != 0 && (c.normal < 0 || c.normal >= len(normals)) {
					return nil, fmt.Errorf("line %d: normal index %d out of range", lineNum, normalIdx)
				}
				corners = append(corners, c)
			}
			if hard {
				hardFaces = append(hardFaces, len(counts))
			}
			counts = append(counts, len(fields)-1)

		case "s":
			if len(fields) > 1 {
				hard = fields[1] == "off" || fields[1] == "0"
			}

		case "o", "g":
			if len(fields) > 1 {
				name = fields[1]
			}

		default:
			// mtllib, usemtl and the rest carry nothing the mesh stores
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	connects := make([]int, len(corners))
	for i, c := range corners {
		connects[i] = c.pos
	}
	mesh, err := polymesh.New(len(positions), len(counts), positions, counts, connects)
	if err != nil {
		return nil, fmt.Errorf("build OBJ mesh: %w", err)
	}
	mesh.Name = name

	if len(uvs) > 0 {
		if err := assignOBJUVs(mesh, uvs, counts, corners); err != nil {
			return nil, err
		}
	}

	if l.KeepNormals && len(normals) > 0 {
		cornerN := make([]math3d.Vec3, len(corners))
		set := make([]bool, len(corners))
		for i, c := range corners {
			if c.normal >= 0 {
				cornerN[i] = normals[c.normal]
				set[i] = true
			}
		}
		if err := setCornerNormals(mesh, cornerN, set); err != nil {
			return nil, fmt.Errorf("set OBJ normals: %w", err)
		}
	}

	if l.KeepSmoothing {
		for _, f := range hardFaces {
			if err := hardenFace(mesh, f); err != nil {
				return nil, err
			}
		}
	}

	return mesh, nil
}

func parseVec3(fields []string, what string) (math3d.Vec3, error) {
	if len(fields) < 4 {
		return math3d.Vec3{}, fmt.Errorf("invalid %s (need x y z)", what)
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("invalid %s %c: %w", what, "xyz"[i], err)
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// assignOBJUVs stores "vt" coordinates in the default set. A face is mapped
// only when every corner names a texture coordinate.
func assignOBJUVs(mesh *polymesh.Mesh, uvs []math3d.Vec2, counts []int, corners []objCorner) error {
	u := make([]float64, len(uvs))
	v := make([]float64, len(uvs))
	for i, uv := range uvs {
		u[i], v[i] = uv.X, uv.Y
	}
	if err := mesh.SetUVs(u, v, polymesh.DefaultUVSet); err != nil {
		return fmt.Errorf("set OBJ uvs: %w", err)
	}

	uvCounts := make([]int, len(counts))
	var ids []int
	off := 0
	for f, n := range counts {
		face := corners[off : off+n]
		off += n
		mapped := true
		for _, c := range face {
			if c.uv < 0 {
				mapped = false
				break
			}
		}
		if !mapped {
			continue
		}
		uvCounts[f] = n
		for _, c := range face {
			ids = append(ids, c.uv)
		}
	}
	if err := mesh.AssignUVs(uvCounts, ids, polymesh.DefaultUVSet); err != nil {
		return fmt.Errorf("assign OBJ uvs: %w", err)
	}
	return nil
}

// hardenFace marks every edge of a face as hard.
func hardenFace(mesh *polymesh.Mesh, face int) error {
	verts, err := mesh.PolygonVertices(face)
	if err != nil {
		return err
	}
	for k, a := range verts {
		b := verts[(k+1)%len(verts)]
		e, ok := mesh.FindEdge(a, b)
		if !ok {
			return fmt.Errorf("face %d: edge %d-%d not found", face, a, b)
		}
		if err := mesh.SetEdgeSmooth(e, false); err != nil {
			return err
		}
	}
	return nil
}

// parseFaceVertex parses a face vertex in format: v, v/vt, v/vt/vn, or v//vn
// Returns 1-indexed values (0 means not specified)
func parseFaceVertex(s string) (pos, uv, normal int, err error) {
	parts := strings.Split(s, "/")

	pos, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid vertex index: %s", parts[0])
	}

	if len(parts) > 1 && parts[1] != "" {
		uv, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid texture index: %s", parts[1])
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid normal index: %s", parts[2])
		}
	}

	return pos, uv, normal, nil
}

// resolveIndex converts OBJ 1-indexed (or negative) index to 0-indexed.
// Returns -1 if index was 0 (not specified).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx // Negative indices count from end
	}
	return idx - 1
}

// LoadOBJ is a convenience function to load an OBJ file with default settings.
func LoadOBJ(path string) (*polymesh.Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}

// WriteOBJ writes mesh as OBJ. Locked normals are written as "vn", the
// default UV set as "vt", and faces whose edges are all hard go under "s off".
func WriteOBJ(w io.Writer, mesh *polymesh.Mesh) error {
	bw := bufio.NewWriter(w)

	points, err := mesh.Points()
	if err != nil {
		return err
	}
	counts, connects, err := mesh.Vertices()
	if err != nil {
		return err
	}
	normals, locked, err := cornerNormals(mesh)
	if err != nil {
		return err
	}
	u, v, err := mesh.UVs(polymesh.DefaultUVSet)
	if err != nil {
		return err
	}

	if mesh.Name != "" {
		fmt.Fprintf(bw, "o %s\n", mesh.Name)
	}
	for _, p := range points {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}
	for i := range u {
		fmt.Fprintf(bw, "vt %s %s\n", formatFloat(u[i]), formatFloat(v[i]))
	}

	// One "vn" per distinct locked normal.
	normalIdx := make([]int, len(connects))
	seen := make(map[math3d.Vec3]int)
	for c, n := range normals {
		normalIdx[c] = -1
		if !locked[c] {
			continue
		}
		idx, ok := seen[n]
		if !ok {
			idx = len(seen)
			seen[n] = idx
			fmt.Fprintf(bw, "vn %s %s %s\n", formatFloat(n.X), formatFloat(n.Y), formatFloat(n.Z))
		}
		normalIdx[c] = idx
	}

	smooth := true
	off := 0
	for f, n := range counts {
		faceSmooth, err := hasSmoothEdge(mesh, connects[off:off+n])
		if err != nil {
			return err
		}
		if faceSmooth != smooth {
			if faceSmooth {
				bw.WriteString("s 1\n")
			} else {
				bw.WriteString("s off\n")
			}
			smooth = faceSmooth
		}

		bw.WriteString("f")
		for k := 0; k < n; k++ {
			c := off + k
			uvID, err := mesh.CornerUV(polymesh.DefaultUVSet, c)
			if err != nil {
				return fmt.Errorf("face %d: %w", f, err)
			}
			bw.WriteString(" " + strconv.Itoa(connects[c]+1))
			switch {
			case uvID >= 0 && normalIdx[c] >= 0:
				fmt.Fprintf(bw, "/%d/%d", uvID+1, normalIdx[c]+1)
			case uvID >= 0:
				fmt.Fprintf(bw, "/%d", uvID+1)
			case normalIdx[c] >= 0:
				fmt.Fprintf(bw, "//%d", normalIdx[c]+1)
			}
		}
		bw.WriteString("\n")
		off += n
	}

	return bw.Flush()
}

func hasSmoothEdge(mesh *polymesh.Mesh, verts []int) (bool, error) {
	for k, a := range verts {
		e, ok := mesh.FindEdge(a, verts[(k+1)%len(verts)])
		if !ok {
			continue
		}
		smooth, err := mesh.IsEdgeSmooth(e)
		if err != nil {
			return false, err
		}
		if smooth {
			return true, nil
		}
	}
	return false, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// SaveOBJ writes mesh to an OBJ file.
func SaveOBJ(path string, mesh *polymesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create OBJ file: %w", err)
	}
	if err := WriteOBJ(f, mesh); err != nil {
		f.Close()
		return fmt.Errorf("write OBJ: %w", err)
	}
	return f.Close()
}
