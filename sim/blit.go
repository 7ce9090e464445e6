package sim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/pipeline"
	"github.com/errphoenix/razed/scene"
)

// blit copies every GPU-facing table's dense columns into this frame's
// write sections. It never calls Flip; that is a distinct step, so a
// caller can inspect Write() before publishing if it wants to.
func (w *World) blit() {
	w.blitScene()
	w.blitDebug()
	w.blitFragments()

	w.queue.Upload(w.buffers.Command)
}

func (w *World) blitScene() {
	b := w.buffers.Scene
	handles := w.entities.Handles()
	live := handles[1:]

	renderables := make([]scene.Renderable, len(live))
	for i, h := range live {
		renderables[i] = scene.Renderable{MeshID: w.entityMesh[h], DataHandle: h}
	}
	pipeline.BlitPart(b.EntityIndexMap.Write(), renderables, 0)

	meshIDs := make([]uint32, len(live))
	for i, h := range live {
		meshIDs[i] = w.entityMesh[h]
	}
	pipeline.BlitPart(b.MeshData.Write(), meshIDs, 0)

	pipeline.BlitPart(b.IMapEntityData.Write(), live, 0)
	pipeline.BlitPart(b.PodPositions.Write(), w.entities.PositionSlice()[1:], 0)
	pipeline.BlitPart(b.PodScales.Write(), w.entities.ScaleSlice()[1:], 0)

	rotations := quatsToVec4(w.entities.RotationSlice()[1:])
	pipeline.BlitPart(b.PodRotations.Write(), rotations, 0)
}

func (w *World) blitDebug() {
	b := w.buffers.XpbdDebug
	nodes := w.solver.Nodes()
	links := w.solver.Links()

	nodeHandles := nodes.Handles()[1:]
	pipeline.BlitPart(b.IMapNodes.Write(), nodeHandles, 0)
	pipeline.BlitPartPadded(b.PodNodes.Write(), nodes.PositionSlice()[1:], 0)

	linkHandles := links.Handles()
	constraints := make([][2]uint32, 0, len(linkHandles))
	for _, lh := range linkHandles[1:] {
		a, bHandle, ok := links.Endpoints(lh)
		if !ok {
			continue
		}
		ai, aok := nodes.GetIndirect(a)
		bi, bok := nodes.GetIndirect(bHandle)
		if !aok || !bok {
			continue
		}
		constraints = append(constraints, [2]uint32{uint32(ai), uint32(bi)})
	}
	pipeline.BlitPart(b.Constraints.Write(), constraints, 0)

	w.buffers.SetLiveLinkCount(uint32(links.LiveCount()))
}

func (w *World) blitFragments() {
	b := w.buffers.Fragments
	ft := w.frags.Table()
	nodes := w.solver.Nodes()

	parents := ft.ParentsSlice()[1:]
	podParents := make([][4]uint32, len(parents))
	for i, p := range parents {
		for k := 0; k < 4; k++ {
			podParents[i][k] = uint32(p[k])
		}
	}
	pipeline.BlitPart(b.PodParents.Write(), podParents, 0)
	pipeline.BlitPart(b.PodWeights.Write(), ft.InfluenceSlice()[1:], 0)
	pipeline.BlitPartPadded(b.PodOffsets.Write(), ft.RestOffsetSlice()[1:], 0)

	states := ft.StateSlice()[1:]
	podStates := make([]uint32, len(states))
	for i, s := range states {
		podStates[i] = uint32(s)
	}
	pipeline.BlitPart(b.PodStates.Write(), podStates, 0)

	nodeHandles := nodes.Handles()[1:]
	pipeline.BlitPart(b.IMapNodes.Write(), nodeHandles, 0)
	pipeline.BlitPartPadded(b.PodNodesPositions.Write(), nodes.PositionSlice()[1:], 0)

	rotors := make([]mgl32.Quat, len(nodeHandles))
	for i, h := range nodeHandles {
		rotors[i] = w.rotor.Rotation(h)
	}
	pipeline.BlitPart(b.PodNodesRotors.Write(), quatsToVec4(rotors), 0)
}

// flip publishes every written section as the current one for the
// consumer side to read.
func (w *World) flip() {
	b := w.buffers

	b.Command.Flip()
	b.Scene.EntityIndexMap.Flip()
	b.Scene.MeshData.Flip()
	b.Scene.IMapEntityData.Flip()
	b.Scene.PodPositions.Flip()
	b.Scene.PodRotations.Flip()
	b.Scene.PodScales.Flip()

	b.XpbdDebug.Constraints.Flip()
	b.XpbdDebug.IMapNodes.Flip()
	b.XpbdDebug.PodNodes.Flip()

	b.Fragments.PodParents.Flip()
	b.Fragments.PodWeights.Flip()
	b.Fragments.PodOffsets.Flip()
	b.Fragments.PodStates.Flip()
	b.Fragments.IMapNodes.Flip()
	b.Fragments.PodNodesPositions.Flip()
	b.Fragments.PodNodesRotors.Flip()
}

func quatsToVec4(qs []mgl32.Quat) []mgl32.Vec4 {
	out := make([]mgl32.Vec4, len(qs))
	for i, q := range qs {
		out[i] = mgl32.Vec4{q.V.X(), q.V.Y(), q.V.Z(), q.W}
	}
	return out
}
