// Package models reads and writes polygon meshes in common interchange
// formats: Wavefront OBJ, STL, glTF/GLB and a lossless YAML document.
package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/polyreorder/pkg/math3d"
	"github.com/taigrr/polyreorder/pkg/polymesh"
	"github.com/taigrr/polyreorder/pkg/reorder"
)

// ErrUnsupportedFormat is returned for file extensions no loader or writer handles.
var ErrUnsupportedFormat = errors.New("models: unsupported format")

// Format identifies a mesh file format.
type Format string

// Formats handled by Load and Save. STL is read only.
const (
	FormatOBJ  Format = "obj"
	FormatSTL  Format = "stl"
	FormatGLTF Format = "gltf"
	FormatGLB  Format = "glb"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return FormatOBJ, nil
	case ".stl":
		return FormatSTL, nil
	case ".gltf":
		return FormatGLTF, nil
	case ".glb":
		return FormatGLB, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load reads a mesh file, choosing the loader from its extension.
func Load(path string) (*polymesh.Mesh, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatOBJ:
		return LoadOBJ(path)
	case FormatSTL:
		return LoadSTL(path)
	case FormatGLTF, FormatGLB:
		return LoadGLTF(path)
	default:
		return LoadYAML(path)
	}
}

// Save writes a mesh file, choosing the writer from its extension.
// STL is read-only.
func Save(path string, mesh *polymesh.Mesh) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatOBJ:
		return SaveOBJ(path, mesh)
	case FormatGLTF, FormatGLB:
		return SaveGLTF(path, mesh)
	case FormatYAML:
		return SaveYAML(path, mesh)
	default:
		return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
	}
}

// setCornerNormals gives every corner with set[c] its own locked normal.
func setCornerNormals(mesh *polymesh.Mesh, normals []math3d.Vec3, set []bool) error {
	counts, connects, err := mesh.Vertices()
	if err != nil {
		return err
	}
	faces, vertices, err := reorder.FaceVertexList(counts, connects)
	if err != nil {
		return err
	}
	var ns []math3d.Vec3
	var fs, vs []int
	for c := range faces {
		if !set[c] {
			continue
		}
		ns = append(ns, normals[c])
		fs = append(fs, faces[c])
		vs = append(vs, vertices[c])
	}
	if len(fs) == 0 {
		return nil
	}
	return mesh.SetFaceVertexNormals(ns, fs, vs)
}

// cornerNormals returns the normal of every face-corner in connectivity order.
func cornerNormals(mesh *polymesh.Mesh) ([]math3d.Vec3, []bool, error) {
	normals, err := reorder.ExtractNormals(mesh)
	if err != nil {
		return nil, nil, err
	}
	locked, err := reorder.ExtractLocks(mesh)
	if err != nil {
		return nil, nil, err
	}
	return normals, locked, nil
}
