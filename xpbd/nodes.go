package xpbd

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/table"
)

// NodesTable is the SoA store of physics point masses. Row 0, the
// degenerate slot, always holds the zero value of every column and is
// never written by the solver's bulk loops.
type NodesTable struct {
	idx *table.Index

	nextPositions  []mgl32.Vec3
	positions      []mgl32.Vec3
	masses         []float32
	inverseMasses  []float32
	externalForces []mgl32.Vec3
	velocities     []mgl32.Vec3
}

// NewNodesTable returns an empty table with only the degenerate row.
func NewNodesTable() *NodesTable {
	return NewNodesTableWithCapacity(0)
}

// NewNodesTableWithCapacity returns an empty table pre-sized for capacity
// live rows in addition to the degenerate row.
func NewNodesTableWithCapacity(capacity int) *NodesTable {
	nt := &NodesTable{
		idx:            table.NewIndex(),
		nextPositions:  make([]mgl32.Vec3, 1, capacity+1),
		positions:      make([]mgl32.Vec3, 1, capacity+1),
		masses:         make([]float32, 1, capacity+1),
		inverseMasses:  make([]float32, 1, capacity+1),
		externalForces: make([]mgl32.Vec3, 1, capacity+1),
		velocities:     make([]mgl32.Vec3, 1, capacity+1),
	}
	return nt
}

// Put inserts a dynamic node at position with the given mass (must be >
// 0). It returns the new node's handle.
func (nt *NodesTable) Put(position mgl32.Vec3, mass float32) table.Handle {
	invMass := float32(0)
	if mass > 0 {
		invMass = 1 / mass
	}
	return nt.put(position, mass, invMass)
}

// PutFixed inserts a node with infinite mass (inverse mass 0): it is
// never displaced by constraint projection or gravity.
func (nt *NodesTable) PutFixed(position mgl32.Vec3) table.Handle {
	return nt.put(position, 0, 0)
}

func (nt *NodesTable) put(position mgl32.Vec3, mass, invMass float32) table.Handle {
	h := nt.idx.Put()
	nt.positions = append(nt.positions, position)
	nt.nextPositions = append(nt.nextPositions, position)
	nt.masses = append(nt.masses, mass)
	nt.inverseMasses = append(nt.inverseMasses, invMass)
	nt.externalForces = append(nt.externalForces, mgl32.Vec3{})
	nt.velocities = append(nt.velocities, mgl32.Vec3{})
	return h
}

// Free removes a node, swap-compacting its row. It reports whether h was
// live.
func (nt *NodesTable) Free(h table.Handle) bool {
	idx, ok := nt.idx.Free(h)
	if !ok {
		return false
	}

	last := len(nt.positions) - 1
	nt.positions[idx] = nt.positions[last]
	nt.nextPositions[idx] = nt.nextPositions[last]
	nt.masses[idx] = nt.masses[last]
	nt.inverseMasses[idx] = nt.inverseMasses[last]
	nt.externalForces[idx] = nt.externalForces[last]
	nt.velocities[idx] = nt.velocities[last]

	nt.positions = nt.positions[:last]
	nt.nextPositions = nt.nextPositions[:last]
	nt.masses = nt.masses[:last]
	nt.inverseMasses = nt.inverseMasses[:last]
	nt.externalForces = nt.externalForces[:last]
	nt.velocities = nt.velocities[:last]

	return true
}

// GetIndirect resolves a handle to its dense index.
func (nt *NodesTable) GetIndirect(h table.Handle) (int, bool) {
	return nt.idx.GetIndirect(h)
}

// Handles returns the dense-index-parallel owning-handle array.
func (nt *NodesTable) Handles() []table.Handle {
	return nt.idx.Handles()
}

// Len returns the number of rows, including the degenerate row.
func (nt *NodesTable) Len() int {
	return nt.idx.Len()
}

// LiveCount returns the number of live nodes, excluding the degenerate
// row.
func (nt *NodesTable) LiveCount() int {
	return nt.idx.LiveCount()
}

// Position returns a node's current position.
func (nt *NodesTable) Position(h table.Handle) (mgl32.Vec3, bool) {
	idx, ok := nt.idx.GetIndirect(h)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return nt.positions[idx], true
}

// SetPosition overwrites a node's current and predicted position, for
// callers repositioning a node directly (not through the constraint
// solver).
func (nt *NodesTable) SetPosition(h table.Handle, position mgl32.Vec3) bool {
	idx, ok := nt.idx.GetIndirect(h)
	if !ok || idx == 0 {
		return false
	}
	nt.positions[idx] = position
	nt.nextPositions[idx] = position
	return true
}

// Velocity returns a node's current velocity.
func (nt *NodesTable) Velocity(h table.Handle) (mgl32.Vec3, bool) {
	idx, ok := nt.idx.GetIndirect(h)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return nt.velocities[idx], true
}

// InverseMass returns a node's inverse mass (0 for a fixed node).
func (nt *NodesTable) InverseMass(h table.Handle) (float32, bool) {
	idx, ok := nt.idx.GetIndirect(h)
	if !ok {
		return 0, false
	}
	return nt.inverseMasses[idx], true
}

// ApplyForce accumulates force onto a single live node. It is a no-op on
// the degenerate handle or an unknown handle.
func (nt *NodesTable) ApplyForce(h table.Handle, force mgl32.Vec3) {
	idx, ok := nt.idx.GetIndirect(h)
	if !ok || idx == 0 {
		return
	}
	nt.externalForces[idx] = nt.externalForces[idx].Add(force)
}

// ApplyForceMulti accumulates force onto every handle in hs.
func (nt *NodesTable) ApplyForceMulti(hs []table.Handle, force mgl32.Vec3) {
	for _, h := range hs {
		nt.ApplyForce(h, force)
	}
}

// PositionSlice returns the dense position column, for bulk GPU upload.
func (nt *NodesTable) PositionSlice() []mgl32.Vec3 { return nt.positions }

// ApplyForceBatched adds force*mass to every live node (e.g. gravity).
func (nt *NodesTable) ApplyForceBatched(force mgl32.Vec3) {
	for i := 1; i < len(nt.externalForces); i++ {
		nt.externalForces[i] = nt.externalForces[i].Add(force.Mul(nt.masses[i]))
	}
}
