package fragment

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/spatialhash"
	"github.com/errphoenix/razed/table"
	"github.com/errphoenix/razed/xpbd"
)

// latticeSpatialResolution is the cell size used to index lattice nodes
// for skinning queries; queryMaxRange bounds how far NearestCells may
// expand its search shell before giving up.
const (
	latticeSpatialResolution spatialhash.Resolution = 2
	queryMaxRange            int32                   = 3 * int32(latticeSpatialResolution)
)

// WeightFunc maps a voxel-to-parent squared distance to a provisional
// skinning weight; weights are renormalized to sum to 1 afterwards.
type WeightFunc func(distanceSquared float32) float32

// InverseSquareWeight favors the nearest parent, unlike LegacyWeightFunc.
func InverseSquareWeight(distanceSquared float32) float32 {
	const eps = 1e-6
	return 1 / (distanceSquared + eps)
}

// LegacyWeightFunc reproduces the original implementation's weighting
// (weight = distance squared, then renormalized), which assigns the
// *most* influence to the *furthest* of the four parents. Kept only for
// regression parity with existing content authored against it.
func LegacyWeightFunc(distanceSquared float32) float32 {
	return distanceSquared
}

// System owns the fragment table, the node->fragments membership map,
// and the break-propagation bookkeeping.
type System struct {
	fragments *FragmentsTable

	// nodeMap associates a lattice node handle with the fragments it
	// helps skin.
	nodeMap map[table.Handle][]table.Handle

	disabledNodes        map[table.Handle]struct{}
	disabledFragsAlltime map[table.Handle]struct{}
	disabledFragsFrame   []int

	weight WeightFunc
}

// NewSystem returns an empty system using InverseSquareWeight.
func NewSystem() *System {
	return NewSystemWithCapacity(0)
}

// NewSystemWithCapacity returns an empty system pre-sized for capacity
// fragments.
func NewSystemWithCapacity(capacity int) *System {
	return &System{
		fragments:            NewFragmentsTableWithCapacity(capacity),
		nodeMap:              make(map[table.Handle][]table.Handle),
		disabledNodes:        make(map[table.Handle]struct{}),
		disabledFragsAlltime: make(map[table.Handle]struct{}),
		weight:               InverseSquareWeight,
	}
}

// WithWeightFunc overrides the skinning weight policy.
func (s *System) WithWeightFunc(fn WeightFunc) *System {
	s.weight = fn
	return s
}

// Table returns the underlying fragment row store.
func (s *System) Table() *FragmentsTable { return s.fragments }

// FragmentsOf returns the fragments skinned to node. Returns nil if node
// has never been registered by GenerateFragments.
func (s *System) FragmentsOf(node table.Handle) []table.Handle {
	return s.nodeMap[node]
}

// Reset clears the disabled-nodes membership and the node->fragment map,
// in preparation for a fresh GenerateFragments call over a rebuilt
// lattice. disabledFragsAlltime is deliberately left untouched: it
// tracks a fragment handle's break status for its entire lifetime, not
// per-structure-registration.
func (s *System) Reset() {
	s.disabledNodes = make(map[table.Handle]struct{})
	s.nodeMap = make(map[table.Handle][]table.Handle)
}

// FrameDisabledFragsDirect returns the direct dense-table indices of
// every fragment newly disabled by the last HandleConstraintBreak call.
//
// These are unstable direct indices, not handles: valid only until the
// next mutation of the fragment table (Free, or another generation
// pass). Use them the same frame they were produced.
func (s *System) FrameDisabledFragsDirect() []int {
	return s.disabledFragsFrame
}

// HandleConstraintBreak marks Debris every fragment anchored to either
// endpoint of a newly broken link, the first time that endpoint is seen
// disabled. Calling this twice with the same brokenLinks yields no new
// disabledFragsAlltime entries and an empty FrameDisabledFragsDirect on
// the second call.
func (s *System) HandleConstraintBreak(brokenLinks []table.Handle, links *xpbd.LinksTable) {
	s.disabledFragsFrame = s.disabledFragsFrame[:0]

	for _, linkHandle := range brokenLinks {
		a, b, ok := links.Endpoints(linkHandle)
		if !ok {
			continue
		}
		s.disableNode(a)
		s.disableNode(b)
	}

	for _, idx := range s.disabledFragsFrame {
		s.fragments.state[idx] = Debris
	}
}

func (s *System) disableNode(node table.Handle) {
	if _, seen := s.disabledNodes[node]; seen {
		return
	}
	s.disabledNodes[node] = struct{}{}

	for _, fragHandle := range s.nodeMap[node] {
		if fragHandle == 0 {
			continue
		}
		if _, already := s.disabledFragsAlltime[fragHandle]; already {
			continue
		}
		s.disabledFragsAlltime[fragHandle] = struct{}{}

		if idx, ok := s.fragments.GetIndirect(fragHandle); ok {
			s.disabledFragsFrame = append(s.disabledFragsFrame, idx)
		}
	}
}

// GenerateFragments skins every filled cell of grid onto the nearest up
// to four of nodeHandles (parallel to positions), inserting one
// Attached fragment row per voxel and recording it against each parent
// in the node->fragments map.
func (s *System) GenerateFragments(grid *VoxelGrid, nodeHandles []table.Handle, positions []mgl32.Vec3) {
	hash := spatialhash.WithCapacity(latticeSpatialResolution, len(nodeHandles))
	hash.DumpSOA(positions, nodeHandles)

	var nearBuf []spatialhash.Cell
	for voxel := range grid.Voxels() {
		cell := hash.CellAt(voxel)

		err := hash.NearestCells(cell, 4, queryMaxRange, queryMaxRange, queryMaxRange, &nearBuf)
		if err != nil {
			slog.Debug("fragment: nearest-cell query came up short",
				"cell", cell, "err", err)
		}

		n := len(nearBuf)
		if n > 4 {
			n = 4
		}
		if n == 0 {
			slog.Warn("fragment: skipping voxel, no nearby nodes in spatial hash", "cell", cell)
			continue
		}

		var parents [4]table.Handle
		var weights [4]float32
		var total float32

		for k := 0; k < n; k++ {
			parentHandle, _ := hash.Get(nearBuf[k])
			parentPos, _ := hash.PositionOf(nearBuf[k])

			parents[k] = parentHandle
			diff := voxel.Sub(parentPos)
			weights[k] = s.weight(diff.Dot(diff))
			total += weights[k]
		}
		if total > 0 {
			for k := 0; k < n; k++ {
				weights[k] /= total
			}
		}

		var centroid mgl32.Vec3
		for k := 0; k < n; k++ {
			parentPos, _ := hash.PositionOf(nearBuf[k])
			centroid = centroid.Add(parentPos.Mul(weights[k]))
		}
		restOffset := voxel.Sub(centroid)

		handle := s.fragments.Put(parents, weights, restOffset, 100, voxel)

		for k := 0; k < n; k++ {
			s.nodeMap[parents[k]] = append(s.nodeMap[parents[k]], handle)
		}
	}
}
