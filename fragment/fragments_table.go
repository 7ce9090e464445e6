package fragment

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/table"
)

// State is a fragment's lifecycle stage. Attached fragments follow their
// parent nodes; once any parent is disabled, a fragment moves to Debris
// and never returns to Attached.
type State uint8

const (
	Attached State = iota
	Debris
	InactiveDebris
)

// FragmentsTable is the SoA store of skinned voxels. Row 0, the
// degenerate slot, always holds the zero value of every column.
type FragmentsTable struct {
	idx *table.Index

	parents    [][4]table.Handle
	influence  [][4]float32
	restOffset []mgl32.Vec3

	state  []State
	health []float32

	position []mgl32.Vec3
	velocity []mgl32.Vec3
	forces   []mgl32.Vec3
}

// NewFragmentsTable returns an empty table with only the degenerate row.
func NewFragmentsTable() *FragmentsTable {
	return NewFragmentsTableWithCapacity(0)
}

// NewFragmentsTableWithCapacity returns an empty table pre-sized for
// capacity live rows in addition to the degenerate row.
func NewFragmentsTableWithCapacity(capacity int) *FragmentsTable {
	return &FragmentsTable{
		idx:        table.NewIndex(),
		parents:    make([][4]table.Handle, 1, capacity+1),
		influence:  make([][4]float32, 1, capacity+1),
		restOffset: make([]mgl32.Vec3, 1, capacity+1),
		state:      make([]State, 1, capacity+1),
		health:     make([]float32, 1, capacity+1),
		position:   make([]mgl32.Vec3, 1, capacity+1),
		velocity:   make([]mgl32.Vec3, 1, capacity+1),
		forces:     make([]mgl32.Vec3, 1, capacity+1),
	}
}

// Put inserts a new Attached fragment row and returns its handle.
func (ft *FragmentsTable) Put(parents [4]table.Handle, influence [4]float32, restOffset mgl32.Vec3, health float32, position mgl32.Vec3) table.Handle {
	h := ft.idx.Put()
	ft.parents = append(ft.parents, parents)
	ft.influence = append(ft.influence, influence)
	ft.restOffset = append(ft.restOffset, restOffset)
	ft.state = append(ft.state, Attached)
	ft.health = append(ft.health, health)
	ft.position = append(ft.position, position)
	ft.velocity = append(ft.velocity, mgl32.Vec3{})
	ft.forces = append(ft.forces, mgl32.Vec3{})
	return h
}

// Free removes a fragment, swap-compacting its row.
func (ft *FragmentsTable) Free(h table.Handle) bool {
	idx, ok := ft.idx.Free(h)
	if !ok {
		return false
	}

	last := len(ft.parents) - 1
	ft.parents[idx] = ft.parents[last]
	ft.influence[idx] = ft.influence[last]
	ft.restOffset[idx] = ft.restOffset[last]
	ft.state[idx] = ft.state[last]
	ft.health[idx] = ft.health[last]
	ft.position[idx] = ft.position[last]
	ft.velocity[idx] = ft.velocity[last]
	ft.forces[idx] = ft.forces[last]

	ft.parents = ft.parents[:last]
	ft.influence = ft.influence[:last]
	ft.restOffset = ft.restOffset[:last]
	ft.state = ft.state[:last]
	ft.health = ft.health[:last]
	ft.position = ft.position[:last]
	ft.velocity = ft.velocity[:last]
	ft.forces = ft.forces[:last]

	return true
}

// GetIndirect resolves a handle to its dense index.
func (ft *FragmentsTable) GetIndirect(h table.Handle) (int, bool) {
	return ft.idx.GetIndirect(h)
}

// Handles returns the dense-index-parallel owning-handle array.
func (ft *FragmentsTable) Handles() []table.Handle {
	return ft.idx.Handles()
}

// Len returns the number of rows, including the degenerate row.
func (ft *FragmentsTable) Len() int { return ft.idx.Len() }

// LiveCount returns the number of live (non-degenerate) rows.
func (ft *FragmentsTable) LiveCount() int { return ft.idx.LiveCount() }

// Parents returns a fragment's four parent-node handles.
func (ft *FragmentsTable) Parents(h table.Handle) ([4]table.Handle, bool) {
	idx, ok := ft.idx.GetIndirect(h)
	if !ok {
		return [4]table.Handle{}, false
	}
	return ft.parents[idx], true
}

// Influence returns a fragment's four parent-skinning weights.
func (ft *FragmentsTable) Influence(h table.Handle) ([4]float32, bool) {
	idx, ok := ft.idx.GetIndirect(h)
	if !ok {
		return [4]float32{}, false
	}
	return ft.influence[idx], true
}

// State returns a fragment's lifecycle state.
func (ft *FragmentsTable) State(h table.Handle) (State, bool) {
	idx, ok := ft.idx.GetIndirect(h)
	if !ok {
		return Attached, false
	}
	return ft.state[idx], true
}

// SetState overwrites a fragment's lifecycle state.
func (ft *FragmentsTable) SetState(h table.Handle, state State) bool {
	idx, ok := ft.idx.GetIndirect(h)
	if !ok || idx == 0 {
		return false
	}
	ft.state[idx] = state
	return true
}

// Position returns a fragment's current world position.
func (ft *FragmentsTable) Position(h table.Handle) (mgl32.Vec3, bool) {
	idx, ok := ft.idx.GetIndirect(h)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return ft.position[idx], true
}

// RestOffset returns a fragment's rest offset from its weighted parent
// centroid.
func (ft *FragmentsTable) RestOffset(h table.Handle) (mgl32.Vec3, bool) {
	idx, ok := ft.idx.GetIndirect(h)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return ft.restOffset[idx], true
}

// StateSlice returns the dense state column, for bulk GPU upload.
func (ft *FragmentsTable) StateSlice() []State { return ft.state }

// PositionSlice returns the dense position column, for bulk GPU upload.
func (ft *FragmentsTable) PositionSlice() []mgl32.Vec3 { return ft.position }

// ParentsSlice returns the dense parents column, for bulk GPU upload.
func (ft *FragmentsTable) ParentsSlice() [][4]table.Handle { return ft.parents }

// InfluenceSlice returns the dense influence column, for bulk GPU upload.
func (ft *FragmentsTable) InfluenceSlice() [][4]float32 { return ft.influence }

// RestOffsetSlice returns the dense rest-offset column, for bulk GPU upload.
func (ft *FragmentsTable) RestOffsetSlice() []mgl32.Vec3 { return ft.restOffset }
