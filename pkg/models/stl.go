package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/taigrr/polyreorder/pkg/math3d"
	"github.com/taigrr/polyreorder/pkg/polymesh"
)

// STLLoader loads STL (stereolithography) files in both ASCII and binary formats.
// Vertices are deduplicated by exact position.
type STLLoader struct {
	// FacetNormals locks each facet normal onto the corners of its facet.
	FacetNormals bool
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{
		FacetNormals: true,
	}
}

// LoadFile loads an STL file from disk.
func (l *STLLoader) LoadFile(path string) (*polymesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}

	return l.LoadBytes(data, path)
}

// LoadBytes parses STL from a byte slice.
func (l *STLLoader) LoadBytes(data []byte, name string) (*polymesh.Mesh, error) {
	var s *stlSoup
	var err error
	if isBinarySTL(data) {
		s, err = parseBinarySTL(data, name)
	} else {
		s, err = parseASCIISTL(data, name)
	}
	if err != nil {
		return nil, err
	}
	return s.build(l.FacetNormals)
}

// Load parses STL from a reader.
// Note: This reads the entire content into memory to detect format.
func (l *STLLoader) Load(r io.Reader, name string) (*polymesh.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return l.LoadBytes(data, name)
}

// stlSoup accumulates deduplicated facets before the mesh is built.
type stlSoup struct {
	name      string
	points    []math3d.Vec3
	vertexMap map[math3d.Vec3]int
	counts    []int
	connects  []int
	normals   []math3d.Vec3 // per corner
}

func newSTLSoup(name string) *stlSoup {
	return &stlSoup{name: name, vertexMap: make(map[math3d.Vec3]int)}
}

func (s *stlSoup) vertex(pos math3d.Vec3) int {
	if idx, exists := s.vertexMap[pos]; exists {
		return idx
	}
	idx := len(s.points)
	s.points = append(s.points, pos)
	s.vertexMap[pos] = idx
	return idx
}

func (s *stlSoup) facet(normal math3d.Vec3, verts []int) {
	s.counts = append(s.counts, len(verts))
	s.connects = append(s.connects, verts...)
	for range verts {
		s.normals = append(s.normals, normal)
	}
}

func (s *stlSoup) build(facetNormals bool) (*polymesh.Mesh, error) {
	mesh, err := polymesh.New(len(s.points), len(s.counts), s.points, s.counts, s.connects)
	if err != nil {
		return nil, fmt.Errorf("build STL mesh: %w", err)
	}
	mesh.Name = s.name
	if !facetNormals {
		return mesh, nil
	}
	set := make([]bool, len(s.normals))
	for i := range set {
		set[i] = true
	}
	if err := setCornerNormals(mesh, s.normals, set); err != nil {
		return nil, fmt.Errorf("set STL normals: %w", err)
	}
	return mesh, nil
}

// isBinarySTL detects if the data is binary STL format.
// Binary STL starts with 80-byte header, then 4-byte triangle count.
// ASCII STL starts with "solid".
func isBinarySTL(data []byte) bool {
	if len(data) < 84 {
		return false
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("solid")) {
		// "solid" may also open a binary header; trust the size check.
		triCount := binary.LittleEndian.Uint32(data[80:84])
		expectedSize := 84 + uint64(triCount)*50
		return uint64(len(data)) == expectedSize
	}

	return true
}

func parseBinarySTL(data []byte, name string) (*stlSoup, error) {
	if len(data) < 84 {
		return nil, fmt.Errorf("binary STL too short: %d bytes", len(data))
	}

	// Skip 80-byte header
	triCount := binary.LittleEndian.Uint32(data[80:84])

	expectedSize := 84 + uint64(triCount)*50
	if uint64(len(data)) < expectedSize {
		return nil, fmt.Errorf("binary STL truncated: expected %d bytes, got %d", expectedSize, len(data))
	}

	s := newSTLSoup(name)
	offset := 84
	for i := uint32(0); i < triCount; i++ {
		normal := readVec3LE(data[offset:])
		offset += 12

		verts := make([]int, 3)
		for v := range verts {
			verts[v] = s.vertex(readVec3LE(data[offset:]))
			offset += 12
		}

		// Skip 2-byte attribute byte count
		offset += 2

		s.facet(normal, verts)
	}

	return s, nil
}

func readVec3LE(data []byte) math3d.Vec3 {
	return math3d.V3(
		float64(readFloat32LE(data)),
		float64(readFloat32LE(data[4:])),
		float64(readFloat32LE(data[8:])),
	)
}

// readFloat32LE reads a little-endian float32 from a byte slice.
func readFloat32LE(data []byte) float32 {
	bits := binary.LittleEndian.Uint32(data)
	return math.Float32frombits(bits)
}

func parseASCIISTL(data []byte, name string) (*stlSoup, error) {
	s := newSTLSoup(name)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var currentNormal math3d.Vec3
	var faceVerts []int
	inFacet := false
	inLoop := false

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				s.name = fields[1]
			}

		case "facet":
			currentNormal = math3d.Vec3{}
			if len(fields) >= 5 && strings.ToLower(fields[1]) == "normal" {
				n, err := parseVec3(fields[1:], "normal")
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				currentNormal = n.Normalize()
			}
			inFacet = true
			faceVerts = nil

		case "outer":
			if len(fields) >= 2 && strings.ToLower(fields[1]) == "loop" {
				inLoop = true
			}

		case "vertex":
			if !inFacet || !inLoop {
				return nil, fmt.Errorf("line %d: vertex outside facet/loop", lineNum)
			}
			pos, err := parseVec3(fields, "vertex")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			faceVerts = append(faceVerts, s.vertex(pos))

		case "endloop":
			inLoop = false

		case "endfacet":
			if len(faceVerts) >= 3 {
				s.facet(currentNormal, faceVerts)
			}
			inFacet = false
			faceVerts = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return s, nil
}

// LoadSTL is a convenience function to load an STL file with default settings.
func LoadSTL(path string) (*polymesh.Mesh, error) {
	return NewSTLLoader().LoadFile(path)
}
