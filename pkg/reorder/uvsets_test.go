package reorder

import (
	"errors"
	"slices"
	"testing"

	"github.com/taigrr/polyreorder/pkg/polymesh"
)

func fillUVs(t *testing.T, m *polymesh.Mesh) {
	t.Helper()
	if err := m.SetUVs([]float64{0, 1, 1, 0, 2, 2}, []float64{1, 1, 0, 0, 1, 0}, polymesh.DefaultUVSet); err != nil {
		t.Fatalf("SetUVs() error = %v", err)
	}
	if err := m.AssignUVs([]int{4, 4}, []int{0, 1, 2, 3, 1, 4, 5, 2}, polymesh.DefaultUVSet); err != nil {
		t.Fatalf("AssignUVs() error = %v", err)
	}
	if err := m.CreateUVSet("lightmap"); err != nil {
		t.Fatalf("CreateUVSet() error = %v", err)
	}
	if err := m.SetUVs([]float64{0.5, 0.25, 0.75}, []float64{0.5, 0.25, 0.75}, "lightmap"); err != nil {
		t.Fatalf("SetUVs(lightmap) error = %v", err)
	}
	if err := m.AssignUVs([]int{0, 4}, []int{0, 1, 2, 1}, "lightmap"); err != nil {
		t.Fatalf("AssignUVs(lightmap) error = %v", err)
	}
}

func TestUVSetsVerbatimTransfer(t *testing.T) {
	target := newQuadPairMesh(t)
	fillUVs(t, target)

	sets, err := ExtractUVSets(target)
	if err != nil {
		t.Fatalf("ExtractUVSets() error = %v", err)
	}
	if len(sets) != 2 || sets[0].Name != polymesh.DefaultUVSet || sets[1].Name != "lightmap" {
		t.Fatalf("sets = %+v", sets)
	}

	out := newQuadPairMesh(t)
	// Stale data in the default set must not survive.
	if err := out.SetUVs([]float64{9, 9, 9, 9, 9, 9, 9, 9, 9}, make([]float64, 9), polymesh.DefaultUVSet); err != nil {
		t.Fatalf("SetUVs() error = %v", err)
	}
	if err := ApplyUVSets(out, sets, nil); err != nil {
		t.Fatalf("ApplyUVSets() error = %v", err)
	}

	again, err := ExtractUVSets(out)
	if err != nil {
		t.Fatalf("ExtractUVSets(out) error = %v", err)
	}
	if len(again) != len(sets) {
		t.Fatalf("got %d sets back, want %d", len(again), len(sets))
	}
	for i := range sets {
		a, b := sets[i], again[i]
		if a.Name != b.Name ||
			!slices.Equal(a.U, b.U) || !slices.Equal(a.V, b.V) ||
			!slices.Equal(a.Counts, b.Counts) || !slices.Equal(a.IDs, b.IDs) {
			t.Errorf("set %d: got %+v, want %+v", i, b, a)
		}
	}
}

func TestApplyUVSetsCallOrder(t *testing.T) {
	sets := []UVSetData{{Name: polymesh.DefaultUVSet}, {Name: "detail"}}
	rec := &uvRecorder{existing: []string{polymesh.DefaultUVSet}}
	if err := ApplyUVSets(rec, sets, nil); err != nil {
		t.Fatalf("ApplyUVSets() error = %v", err)
	}
	want := []string{
		"clear map1", "set map1", "assign map1",
		"create detail", "clear detail", "set detail", "assign detail",
	}
	if !slices.Equal(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestApplyUVSetsToleratesCreateFailure(t *testing.T) {
	rec := &uvRecorder{createErr: polymesh.ErrUVSetExists}
	if err := ApplyUVSets(rec, []UVSetData{{Name: "detail"}}, nil); err != nil {
		t.Fatalf("ApplyUVSets() error = %v, want creation failure ignored", err)
	}

	// A set that truly is missing fails at the clear step.
	m := newQuadPairMesh(t)
	err := ApplyUVSets(m, []UVSetData{{Name: ""}}, nil)
	if !errors.Is(err, ErrStoreOperationFailed) || !errors.Is(err, polymesh.ErrUnknownUVSet) {
		t.Errorf("error = %v, want ErrStoreOperationFailed wrapping ErrUnknownUVSet", err)
	}
}

func TestApplyUVSetsStopsOnFailure(t *testing.T) {
	rec := &uvRecorder{existing: []string{polymesh.DefaultUVSet}, failOp: "set"}
	err := ApplyUVSets(rec, []UVSetData{{Name: polymesh.DefaultUVSet}, {Name: "detail"}}, nil)
	if !errors.Is(err, ErrStoreOperationFailed) {
		t.Fatalf("error = %v, want ErrStoreOperationFailed", err)
	}
	if want := []string{"clear map1", "set map1"}; !slices.Equal(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestApplyUVSetsCreatesOnlyMissingSets(t *testing.T) {
	rec := &uvRecorder{existing: []string{"lightmap"}}
	sets := []UVSetData{{Name: polymesh.DefaultUVSet}, {Name: "lightmap"}}
	if err := ApplyUVSets(rec, sets, nil); err != nil {
		t.Fatalf("ApplyUVSets() error = %v", err)
	}
	want := []string{
		"create map1", "clear map1", "set map1", "assign map1",
		"clear lightmap", "set lightmap", "assign lightmap",
	}
	if !slices.Equal(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}
