package reorder

import "go.uber.org/zap"

// UVSetData is one named UV set as read from a mesh.
type UVSetData struct {
	Name   string
	U, V   []float64
	Counts []int // per face: 0 when unmapped, otherwise the face's corner count
	IDs    []int // UV ids of the mapped corners in face order
}

// ExtractUVSets reads every UV set of mesh in the mesh's own set order.
func ExtractUVSets(mesh UVReader) ([]UVSetData, error) {
	names := mesh.UVSetNames()
	sets := make([]UVSetData, 0, len(names))
	for _, name := range names {
		u, v, err := mesh.UVs(name)
		if err != nil {
			return nil, storeFailure("getUVs "+name, err)
		}
		counts, ids, err := mesh.AssignedUVs(name)
		if err != nil {
			return nil, storeFailure("getAssignedUVs "+name, err)
		}
		sets = append(sets, UVSetData{Name: name, U: u, V: v, Counts: counts, IDs: ids})
	}
	return sets, nil
}

// ApplyUVSets recreates each set on mesh: create (unless mesh already has
// it, as it always has its default set), clear, write coordinates, then
// write corner assignments. A failed creation is logged and ignored; a set
// that really is missing fails at the clear step.
func ApplyUVSets(mesh UVWriter, sets []UVSetData, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, set := range sets {
		if !mesh.HasUVSet(set.Name) {
			if err := mesh.CreateUVSet(set.Name); err != nil {
				logger.Debug("uv set creation ignored", zap.String("set", set.Name), zap.Error(err))
			}
		}
		if err := mesh.ClearUVs(set.Name); err != nil {
			return storeFailure("clearUVs "+set.Name, err)
		}
		if err := mesh.SetUVs(set.U, set.V, set.Name); err != nil {
			return storeFailure("setUVs "+set.Name, err)
		}
		if err := mesh.AssignUVs(set.Counts, set.IDs, set.Name); err != nil {
			return storeFailure("assignUVs "+set.Name, err)
		}
	}
	return nil
}
