package reorder

import (
	"fmt"

	"github.com/taigrr/polyreorder/pkg/math3d"
)

// ExtractNormals reads every split normal of mesh, one per face-corner in
// face order.
func ExtractNormals(mesh NormalReader) ([]math3d.Vec3, error) {
	var normals []math3d.Vec3
	for f := 0; f < mesh.NumPolygons(); f++ {
		n, err := mesh.PolygonVertexCount(f)
		if err != nil {
			return nil, storeFailure("polygonVertexCount", err)
		}
		for c := 0; c < n; c++ {
			normal, err := mesh.FaceVertexNormal(f, c)
			if err != nil {
				return nil, storeFailure("faceVertexNormal", err)
			}
			normals = append(normals, normal)
		}
	}
	return normals, nil
}

// ApplyNormals assigns normals[i] to the i-th face-corner of the topology
// given by counts and connects, then unlocks every corner. Lock state is
// restored afterwards by ApplyLocks.
func ApplyNormals(mesh NormalWriter, counts, connects []int, normals []math3d.Vec3) error {
	faces, vertices, err := FaceVertexList(counts, connects)
	if err != nil {
		return err
	}
	if len(normals) != len(faces) {
		return fmt.Errorf("%w: %d normals for %d face-corners", ErrStructuralMismatch, len(normals), len(faces))
	}
	if err := mesh.SetFaceVertexNormals(normals, faces, vertices); err != nil {
		return storeFailure("setFaceVertexNormals", err)
	}
	if err := mesh.UnlockFaceVertexNormals(faces, vertices); err != nil {
		return storeFailure("unlockFaceVertexNormals", err)
	}
	return nil
}
