package reorder

import (
	"errors"
	"fmt"

	"github.com/taigrr/polyreorder/pkg/math3d"
	"go.uber.org/zap"
)

// BuildMode selects how the output mesh is produced.
type BuildMode int

const (
	// BuildNew constructs a fresh mesh through Request.NewMesh.
	BuildNew BuildMode = iota
	// BuildInPlace rebuilds Request.Existing in place.
	BuildInPlace
)

// String returns the mode name.
func (m BuildMode) String() string {
	switch m {
	case BuildNew:
		return "new"
	case BuildInPlace:
		return "in-place"
	default:
		return fmt.Sprintf("BuildMode(%d)", int(m))
	}
}

// Stage is a step of the reorder pipeline. Stages run strictly in order.
type Stage int

const (
	// StageStart is the state before anything has been computed.
	StageStart Stage = iota
	// StagePointsComputed follows remapping the target points.
	StagePointsComputed
	// StageTopologyComputed follows building the output counts and connectivity.
	StageTopologyComputed
	// StageAttributesExtracted follows reading normals, locks, smoothing and UV sets.
	StageAttributesExtracted
	// StageMeshBuilt follows creating or rebuilding the output mesh.
	StageMeshBuilt
	// StageAttributesApplied follows writing every attribute to the output.
	StageAttributesApplied
	// StageDone marks a finished reorder.
	StageDone
)

var stageNames = [...]string{
	StageStart:               "start",
	StagePointsComputed:      "points computed",
	StageTopologyComputed:    "topology computed",
	StageAttributesExtracted: "attributes extracted",
	StageMeshBuilt:           "mesh built",
	StageAttributesApplied:   "attributes applied",
	StageDone:                "done",
}

// String returns the stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Request describes one reorder operation.
type Request struct {
	// Source supplies the topology of the output.
	Source TopologyReader
	// Target supplies positions, normals, locks, edge smoothing and UV sets.
	Target AttributeSource
	// PointOrder maps old vertex ids to new ones: PointOrder[old] = new.
	PointOrder []int
	// RemapConnectivity renumbers the source connectivity through
	// PointOrder. Leave it unset when the source already uses the new ids.
	RemapConnectivity bool

	Mode BuildMode
	// NewMesh builds the output when Mode is BuildNew.
	NewMesh NewMeshFunc
	// Existing is rebuilt when Mode is BuildInPlace.
	Existing Rebuilder
}

// Reorderer runs reorder requests. The zero value is ready to use.
type Reorderer struct {
	Logger *zap.Logger
}

// New creates a Reorderer that logs to logger.
func New(logger *zap.Logger) *Reorderer {
	return &Reorderer{Logger: logger}
}

// Reorder runs req with a Reorderer that does not log.
func Reorder(req Request) (Output, error) {
	return (&Reorderer{}).Reorder(req)
}

// extracted holds everything read from the target mesh.
type extracted struct {
	normals   []math3d.Vec3
	locked    []bool
	smoothing map[uint64]bool
	uvSets    []UVSetData
}

// Reorder builds the output mesh for req. The first failing step aborts the
// run and its error is returned prefixed with the last stage reached. No
// rollback is attempted, so the output may be left partially populated.
func (r *Reorderer) Reorder(req Request) (Output, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	stage := StageStart
	fail := func(err error) (Output, error) {
		log.Debug("reorder failed", zap.Stringer("stage", stage), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	advance := func(next Stage, fields ...zap.Field) {
		stage = next
		log.Debug("reorder stage", append([]zap.Field{zap.Stringer("stage", stage)}, fields...)...)
	}

	if err := validateRequest(req); err != nil {
		return fail(err)
	}
	numVertices := req.Source.NumVertices()
	if n := req.Target.NumVertices(); n != numVertices {
		return fail(fmt.Errorf("%w: source has %d vertices, target has %d", ErrStructuralMismatch, numVertices, n))
	}
	if err := ValidateOrder(req.PointOrder, numVertices); err != nil {
		return fail(err)
	}

	targetPoints, err := req.Target.Points()
	if err != nil {
		return fail(storeFailure("getPoints", err))
	}
	points, err := RemapPoints(targetPoints, req.PointOrder)
	if err != nil {
		return fail(err)
	}
	advance(StagePointsComputed, zap.Int("vertices", numVertices))

	srcCounts, srcConnects, err := req.Source.Vertices()
	if err != nil {
		return fail(storeFailure("getVertices", err))
	}
	counts, connects, err := RemapConnectivity(srcCounts, srcConnects, req.PointOrder, req.RemapConnectivity)
	if err != nil {
		return fail(err)
	}
	advance(StageTopologyComputed,
		zap.Int("faces", len(counts)),
		zap.Int("corners", len(connects)),
		zap.Bool("remapped", req.RemapConnectivity))

	attrs, err := extractAttributes(req.Target, req.PointOrder, len(connects))
	if err != nil {
		return fail(err)
	}
	advance(StageAttributesExtracted,
		zap.Int("edges", len(attrs.smoothing)),
		zap.Int("uvSets", len(attrs.uvSets)))

	out, err := buildMesh(req, numVertices, points, counts, connects)
	if err != nil {
		return fail(err)
	}
	advance(StageMeshBuilt, zap.Stringer("mode", req.Mode))

	if err := r.applyAttributes(out, counts, connects, attrs, log); err != nil {
		return fail(err)
	}
	advance(StageAttributesApplied)

	advance(StageDone)
	return out, nil
}

func validateRequest(req Request) error {
	if req.Source == nil || req.Target == nil {
		return errors.New("reorder: source and target meshes are required")
	}
	switch req.Mode {
	case BuildNew:
		if req.NewMesh == nil {
			return errors.New("reorder: BuildNew requires a NewMesh func")
		}
	case BuildInPlace:
		if req.Existing == nil {
			return errors.New("reorder: BuildInPlace requires an existing mesh")
		}
	default:
		return fmt.Errorf("reorder: unknown build mode %v", req.Mode)
	}
	return nil
}

// extractAttributes reads all four attribute domains from the target. The
// reads are independent of each other.
func extractAttributes(target AttributeSource, order []int, numCorners int) (extracted, error) {
	var attrs extracted
	var err error

	attrs.normals, err = ExtractNormals(target)
	if err != nil {
		return attrs, err
	}
	if len(attrs.normals) != numCorners {
		return attrs, fmt.Errorf("%w: target has %d face-corners, source has %d",
			ErrStructuralMismatch, len(attrs.normals), numCorners)
	}

	attrs.locked, err = ExtractLocks(target)
	if err != nil {
		return attrs, err
	}
	if len(attrs.locked) != numCorners {
		return attrs, fmt.Errorf("%w: target has %d normal ids, source has %d face-corners",
			ErrStructuralMismatch, len(attrs.locked), numCorners)
	}

	attrs.smoothing, err = ExtractSmoothing(target, order)
	if err != nil {
		return attrs, err
	}

	attrs.uvSets, err = ExtractUVSets(target)
	if err != nil {
		return attrs, err
	}
	return attrs, nil
}

func buildMesh(req Request, numVertices int, points []math3d.Vec3, counts, connects []int) (Output, error) {
	if req.Mode == BuildInPlace {
		if err := req.Existing.CreateInPlace(numVertices, len(counts), points, counts, connects); err != nil {
			return nil, storeFailure("createInPlace", err)
		}
		return req.Existing, nil
	}
	out, err := req.NewMesh(numVertices, len(counts), points, counts, connects)
	if err != nil {
		return nil, storeFailure("create", err)
	}
	if out == nil {
		return nil, storeFailure("create", errors.New("no mesh returned"))
	}
	return out, nil
}

// applyAttributes writes the extracted attributes onto the output. Normals
// must be applied immediately before locks since ApplyNormals clears them.
func (r *Reorderer) applyAttributes(out Output, counts, connects []int, attrs extracted, log *zap.Logger) error {
	if err := ApplyUVSets(out, attrs.uvSets, log); err != nil {
		return err
	}
	if err := ApplyNormals(out, counts, connects, attrs.normals); err != nil {
		return err
	}
	if err := ApplyLocks(out, counts, connects, attrs.locked); err != nil {
		return err
	}
	return ApplySmoothing(out, attrs.smoothing)
}
