package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/table"
)

// EntityTable is the SoA store of per-entity render transforms. Row 0,
// the degenerate slot, holds zero-valued position/rotation/scale and is
// never written by bulk operations.
type EntityTable struct {
	idx *table.Index

	positions []mgl32.Vec4
	rotations []mgl32.Quat
	scales    []mgl32.Vec4
}

// NewEntityTable returns an empty table with only the degenerate row.
func NewEntityTable() *EntityTable {
	return &EntityTable{
		idx:       table.NewIndex(),
		positions: []mgl32.Vec4{{}},
		rotations: []mgl32.Quat{{}},
		scales:    []mgl32.Vec4{{}},
	}
}

// Put inserts a new entity transform and returns its handle. position
// and scale are expected to carry w=1 (homogeneous point / unused lane).
func (et *EntityTable) Put(position mgl32.Vec4, rotation mgl32.Quat, scale mgl32.Vec4) table.Handle {
	h := et.idx.Put()
	et.positions = append(et.positions, position)
	et.rotations = append(et.rotations, rotation)
	et.scales = append(et.scales, scale)
	return h
}

// Free removes an entity, swap-compacting its row.
func (et *EntityTable) Free(h table.Handle) bool {
	idx, ok := et.idx.Free(h)
	if !ok {
		return false
	}

	last := len(et.positions) - 1
	et.positions[idx] = et.positions[last]
	et.rotations[idx] = et.rotations[last]
	et.scales[idx] = et.scales[last]

	et.positions = et.positions[:last]
	et.rotations = et.rotations[:last]
	et.scales = et.scales[:last]

	return true
}

// GetIndirect resolves a handle to its dense index.
func (et *EntityTable) GetIndirect(h table.Handle) (int, bool) {
	return et.idx.GetIndirect(h)
}

// Handles returns the dense-index-parallel owning-handle array.
func (et *EntityTable) Handles() []table.Handle {
	return et.idx.Handles()
}

// Len returns the number of rows, including the degenerate row.
func (et *EntityTable) Len() int {
	return et.idx.Len()
}

// SetPosition overwrites a live entity's position (e.g. to follow its
// bound physics node each frame).
func (et *EntityTable) SetPosition(h table.Handle, position mgl32.Vec4) bool {
	idx, ok := et.idx.GetIndirect(h)
	if !ok || idx == 0 {
		return false
	}
	et.positions[idx] = position
	return true
}

// SetRotation overwrites a live entity's rotation (e.g. to follow its
// bound physics node's rotor).
func (et *EntityTable) SetRotation(h table.Handle, rotation mgl32.Quat) bool {
	idx, ok := et.idx.GetIndirect(h)
	if !ok || idx == 0 {
		return false
	}
	et.rotations[idx] = rotation
	return true
}

// PositionSlice returns the dense position column, for bulk GPU upload.
func (et *EntityTable) PositionSlice() []mgl32.Vec4 { return et.positions }

// RotationSlice returns the dense rotation column, for bulk GPU upload.
func (et *EntityTable) RotationSlice() []mgl32.Quat { return et.rotations }

// ScaleSlice returns the dense scale column, for bulk GPU upload.
func (et *EntityTable) ScaleSlice() []mgl32.Vec4 { return et.scales }

// Renderable associates a render entity with a mesh and the dense handle
// into an EntityTable that carries its transform.
type Renderable struct {
	MeshID     uint32
	DataHandle table.Handle
}
