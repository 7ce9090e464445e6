package sim

import (
	"github.com/go-gl/mathgl/mgl32"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	asim "github.com/sarchlab/akita/v4/sim"

	"github.com/errphoenix/razed/fragment"
	"github.com/errphoenix/razed/pipeline"
	"github.com/errphoenix/razed/table"
	"github.com/errphoenix/razed/xpbd"
)

const sixtyHz = asim.VTimeInSec(1.0 / 60.0)

var _ = Describe("World Tick", func() {
	It("steps the solver, syncs a bound entity, and flips every buffer for the consumer", func() {
		solver := xpbd.NewSolverBuilder().WithBreakThresholds(45000, -15000).Build()

		anchor := solver.Nodes().PutFixed(mgl32.Vec3{0, 0, 0})
		n1 := solver.Nodes().Put(mgl32.Vec3{0, -50, 0}, 50)
		n2 := solver.Nodes().Put(mgl32.Vec3{0, -51, 0}, 50)

		anchorLink := solver.Links().Put(anchor, n1, 1e-6, 1)
		solver.Links().Put(n1, n2, 1e-6, 1)

		world := NewWorldBuilder().
			WithSolver(solver).
			WithStepDelta(sixtyHz).
			Build("TestWorld")

		grid := fragment.NewVoxelGrid(
			func(c fragment.VoxelCell) bool { return c == (fragment.VoxelCell{}) },
			fragment.NewVoxelGridOptions(2, 2, 2, 1),
		)
		grid.Build(mgl32.Vec3{0, -50, 0})
		world.GenerateFragments(grid, []table.Handle{anchor, n1, n2})

		world.BindEntity(n1, 7, mgl32.Vec4{1, 1, 1, 1})

		broke := false
		for step := 0; step < 8 && !broke; step++ {
			solver.ApplyForceBatched(mgl32.Vec3{0, -9.81, 0})
			world.PushDrawCommand(pipeline.DrawCommand{Count: 3, InstanceCount: 1})
			world.Tick(sixtyHz)
			if len(world.Fragments().FrameDisabledFragsDirect()) > 0 {
				broke = true
			}
		}
		Expect(broke).To(BeTrue(), "expected the anchor-adjacent link to break within 8 steps")

		_, stillLive := solver.Links().GetIndirect(anchorLink)
		Expect(stillLive).To(BeFalse(), "expected the broken link to be freed from the links table")

		pos, _ := solver.Nodes().Position(n1)
		entityPos := world.Entities().PositionSlice()[1]
		Expect(entityPos.X()).To(BeNumerically("~", pos.X(), 1e-3))
		Expect(entityPos.Y()).To(BeNumerically("~", pos.Y(), 1e-3))
		Expect(entityPos.Z()).To(BeNumerically("~", pos.Z(), 1e-3))

		Expect(world.Buffers().Command.Read()[0].Count).To(Equal(uint32(3)))
		Expect(world.Buffers().LiveLinkCount()).To(Equal(uint32(1)))
	})
})
