package pipeline

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/scene"
	"github.com/errphoenix/razed/table"
)

// Allocation sizes for each partitioned buffer's sections, matching the
// bind-slot enums declared in scene.Layout, xpbd.DebugLayout and
// fragment.Layout.
const (
	EntityAllocation     = 8192
	XpbdConstraintsAlloc = 4096
	XpbdNodesAlloc       = 512
	FragmentsAlloc       = 16384
	SelectedAlloc        = 1
)

// SceneBuffers holds the scene buffer's partitions, one TriBuffer per
// bind slot declared by scene.Layout.
type SceneBuffers struct {
	EntityIndexMap *TriBuffer[scene.Renderable] // bind 0
	MeshData       *TriBuffer[uint32]           // bind 1
	IMapEntityData *TriBuffer[table.Handle]     // bind 2
	PodPositions   *TriBuffer[mgl32.Vec4]       // bind 3
	PodRotations   *TriBuffer[mgl32.Vec4]       // bind 4, quat-as-Vec4
	PodScales      *TriBuffer[mgl32.Vec4]       // bind 5
}

func newSceneBuffers() SceneBuffers {
	return SceneBuffers{
		EntityIndexMap: NewTriBuffer[scene.Renderable](EntityAllocation),
		MeshData:       NewTriBuffer[uint32](EntityAllocation),
		IMapEntityData: NewTriBuffer[table.Handle](EntityAllocation),
		PodPositions:   NewTriBuffer[mgl32.Vec4](EntityAllocation),
		PodRotations:   NewTriBuffer[mgl32.Vec4](EntityAllocation),
		PodScales:      NewTriBuffer[mgl32.Vec4](EntityAllocation),
	}
}

// DebugBuffers holds the XPBD debug buffer's partitions, one TriBuffer
// per bind slot declared by xpbd.DebugLayout.
type DebugBuffers struct {
	Constraints *TriBuffer[[2]uint32]    // bind 0, link endpoints
	IMapNodes   *TriBuffer[table.Handle] // bind 1
	PodNodes    *TriBuffer[mgl32.Vec4]   // bind 2, Vec4-padded node positions
	Selected    *TriBuffer[uint32]       // bind 3
}

func newDebugBuffers() DebugBuffers {
	return DebugBuffers{
		Constraints: NewTriBuffer[[2]uint32](XpbdConstraintsAlloc),
		IMapNodes:   NewTriBuffer[table.Handle](XpbdNodesAlloc),
		PodNodes:    NewTriBuffer[mgl32.Vec4](XpbdConstraintsAlloc),
		Selected:    NewTriBuffer[uint32](SelectedAlloc),
	}
}

// FragmentBuffers holds the fragment buffer's partitions, one TriBuffer
// per bind slot declared by fragment.Layout.
type FragmentBuffers struct {
	PodParents        *TriBuffer[[4]uint32]    // bind 0
	PodWeights        *TriBuffer[[4]float32]   // bind 1
	PodOffsets        *TriBuffer[mgl32.Vec4]   // bind 2
	PodStates         *TriBuffer[uint32]       // bind 3
	IMapNodes         *TriBuffer[table.Handle] // bind 4
	PodNodesPositions *TriBuffer[mgl32.Vec4]   // bind 5
	PodNodesRotors    *TriBuffer[mgl32.Vec4]   // bind 6, quat-as-Vec4
}

func newFragmentBuffers() FragmentBuffers {
	return FragmentBuffers{
		PodParents:        NewTriBuffer[[4]uint32](FragmentsAlloc),
		PodWeights:        NewTriBuffer[[4]float32](FragmentsAlloc),
		PodOffsets:        NewTriBuffer[mgl32.Vec4](FragmentsAlloc),
		PodStates:         NewTriBuffer[uint32](FragmentsAlloc),
		IMapNodes:         NewTriBuffer[table.Handle](XpbdNodesAlloc),
		PodNodesPositions: NewTriBuffer[mgl32.Vec4](XpbdNodesAlloc),
		PodNodesRotors:    NewTriBuffer[mgl32.Vec4](XpbdNodesAlloc),
	}
}

// Buffers is the full frame-data aggregate shared between the
// simulation (producer) and render (consumer) threads: one command
// tri-buffer plus one partitioned tri-buffer per GPU-facing table, and
// the live-link atomic the renderer uses as an instance count for
// breakage visualisation.
type Buffers struct {
	Command   *TriBuffer[DrawCommand]
	Scene     SceneBuffers
	XpbdDebug DebugBuffers
	Fragments FragmentBuffers

	liveLinkCount atomic.Uint32
}

// NewBuffers allocates every partition at its declared capacity.
func NewBuffers() *Buffers {
	return &Buffers{
		Command:   NewTriBuffer[DrawCommand](CommandQueueAlloc),
		Scene:     newSceneBuffers(),
		XpbdDebug: newDebugBuffers(),
		Fragments: newFragmentBuffers(),
	}
}

// SetLiveLinkCount publishes the current number of live links, for the
// renderer's breakage-visualisation instance count. Producer-side.
func (b *Buffers) SetLiveLinkCount(n uint32) {
	b.liveLinkCount.Store(n)
}

// LiveLinkCount reads the last-published live link count. Consumer-side.
func (b *Buffers) LiveLinkCount() uint32 {
	return b.liveLinkCount.Load()
}
