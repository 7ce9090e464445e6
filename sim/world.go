package sim

import (
	"github.com/go-gl/mathgl/mgl32"

	asim "github.com/sarchlab/akita/v4/sim"

	"github.com/errphoenix/razed/fragment"
	"github.com/errphoenix/razed/pipeline"
	"github.com/errphoenix/razed/scene"
	"github.com/errphoenix/razed/table"
	"github.com/errphoenix/razed/xpbd"
)

// defaultStepDelta is the fixed physics timestep used when the builder
// is not given an explicit one: 60 steps per simulated second.
const defaultStepDelta = asim.VTimeInSec(1.0 / 60.0)

// World is the simulation-thread ticking component: one Tick call walks
// the whole physics-to-frame-buffer pipeline. It never touches a
// pipeline.FrameConsumer directly; that handoff happens on the
// render/consumer side, which calls ConsumeFrame independently.
type World struct {
	*asim.TickingComponent

	solver *xpbd.Solver
	rotor  *fragment.RotorSystem
	frags  *fragment.System

	entities   *scene.EntityTable
	entityNode map[table.Handle]table.Handle
	entityMesh map[table.Handle]uint32

	buffers *pipeline.Buffers
	queue   *pipeline.DrawCommandQueue

	stepDelta asim.VTimeInSec

	// topologyDirty is set whenever nodes/links are added or removed
	// outside a Step, forcing the rotor's rest-frame basis cache to be
	// rebuilt on the next Tick; otherwise Tick keeps the cached basis.
	topologyDirty bool
}

// Solver returns the world's constraint solver.
func (w *World) Solver() *xpbd.Solver { return w.solver }

// Rotor returns the world's per-node rotation tracker.
func (w *World) Rotor() *fragment.RotorSystem { return w.rotor }

// Fragments returns the world's voxel-skinning system.
func (w *World) Fragments() *fragment.System { return w.frags }

// Entities returns the world's renderable-transform table.
func (w *World) Entities() *scene.EntityTable { return w.entities }

// Buffers returns the frame-data aggregate shared with the render side.
func (w *World) Buffers() *pipeline.Buffers { return w.buffers }

// ImportLattice inserts a lattice builder's authored nodes and links into
// the solver, and marks the rotor's basis cache stale.
func (w *World) ImportLattice(b xpbd.LatticeImporter) xpbd.LatticeIds {
	ids := w.solver.ImportLattice(b)
	w.topologyDirty = true
	return ids
}

// GenerateFragments skins grid onto the solver's current node positions
// and registers the result with the world's fragment system.
func (w *World) GenerateFragments(grid *fragment.VoxelGrid, nodeHandles []table.Handle) {
	nodes := w.solver.Nodes()
	positions := make([]mgl32.Vec3, len(nodeHandles))
	for i, h := range nodeHandles {
		positions[i], _ = nodes.Position(h)
	}
	w.frags.GenerateFragments(grid, nodeHandles, positions)
}

// BindEntity creates a renderable entity at node's current position,
// identity rotation and the given scale, and binds it to follow node
// every Tick. mesh is opaque to World; it is only blitted into
// scene.Renderable for the render side to interpret.
func (w *World) BindEntity(node table.Handle, mesh uint32, scale mgl32.Vec4) table.Handle {
	pos, _ := w.solver.Nodes().Position(node)
	h := w.entities.Put(mgl32.Vec4{pos.X(), pos.Y(), pos.Z(), 1}, mgl32.QuatIdent(), scale)
	w.entityNode[h] = node
	w.entityMesh[h] = mesh
	return h
}

// PushDrawCommand enqueues a draw command for the next frame's upload.
func (w *World) PushDrawCommand(cmd pipeline.DrawCommand) {
	w.queue.Push(cmd)
}

// ConsumeFrame reads the most recently flipped command section and
// live-link count and hands them to c. This is the render side's pull,
// independent of the producer's Tick; it is never called from Tick.
func (w *World) ConsumeFrame(c pipeline.FrameConsumer) {
	c.ConsumeFrame(w.buffers.Command.Read(), w.buffers.LiveLinkCount())
}

// Tick advances the world by stepDelta: rotor basis rebuild (only when the
// topology is dirty), rotor relative/rotation recompute, solver step, break propagation into fragments, scene entity sync,
// pipeline blit, and boundary flip.
func (w *World) Tick(now asim.VTimeInSec) (madeProgress bool) {
	nodes := w.solver.Nodes()
	links := w.solver.Links()

	if w.topologyDirty {
		w.rotor.RecomputeBasisCache(nodes, links, true)
		w.topologyDirty = false
	}
	w.rotor.RecomputeRelatives(nodes, links)
	w.rotor.RecomputeRotations(nodes)

	w.solver.Step(w.stepDelta)

	w.frags.HandleConstraintBreak(w.solver.FrameBrokenLinks(), links)

	w.syncEntities()
	w.blit()
	w.flip()

	return true
}

func (w *World) syncEntities() {
	handles := w.entities.Handles()
	for i := 1; i < len(handles); i++ {
		entityHandle := handles[i]
		nodeHandle, ok := w.entityNode[entityHandle]
		if !ok {
			continue
		}

		pos, ok := w.solver.Nodes().Position(nodeHandle)
		if !ok {
			continue
		}
		w.entities.SetPosition(entityHandle, mgl32.Vec4{pos.X(), pos.Y(), pos.Z(), 1})
		w.entities.SetRotation(entityHandle, w.rotor.Rotation(nodeHandle))
	}
}
