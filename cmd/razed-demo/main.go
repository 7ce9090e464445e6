package main

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	asim "github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/errphoenix/razed/fragment"
	"github.com/errphoenix/razed/lattice"
	"github.com/errphoenix/razed/pipeline"
	"github.com/errphoenix/razed/sim"
	"github.com/errphoenix/razed/xpbd"
)

func main() {
	engine := asim.NewSerialEngine()

	solver := xpbd.NewSolverBuilder().
		WithGround(0).
		Build()

	world := sim.NewWorldBuilder().
		WithEngine(engine).
		WithFreq(asim.Freq(60)).
		WithSolver(solver).
		Build("World")

	template := lattice.BuildingTemplate{
		Origin: mgl32.Vec3{0, 0, 0},
		Width:  4,
		Height: 3,
		Depth:  4,
		Floors: 3,
	}
	ids := world.ImportLattice(template.Build())

	for i, node := range ids.NodeHandles {
		world.BindEntity(node, uint32(i%4), mgl32.Vec4{0.3, 0.3, 0.3, 1})
	}

	grid := fragment.NewVoxelGrid(
		func(fragment.VoxelCell) bool { return true },
		fragment.NewVoxelGridOptions(4, 9, 4, 2),
	)
	grid.Build(mgl32.Vec3{0, 4.5, 0})
	world.GenerateFragments(grid, ids.NodeHandles)

	slog.Info("razed-demo: lattice built",
		"nodes", len(ids.NodeHandles),
		"links", len(ids.LinkHandles),
		"fragments", world.Fragments().Table().LiveCount())

	const (
		frames  = 180
		sixtyHz = asim.VTimeInSec(1.0 / 60.0)
	)
	for frame := 0; frame < frames; frame++ {
		solver.ApplyForceBatched(mgl32.Vec3{0, -9.81, 0})
		world.PushDrawCommand(pipeline.DrawCommand{
			Count:         1,
			InstanceCount: uint32(world.Fragments().Table().LiveCount()),
		})
		world.Tick(sixtyHz)
		world.DebugDump()
	}

	fmt.Printf("ran %d frames, %d links still live\n", frames, world.Buffers().LiveLinkCount())
	atexit.Exit(0)
}
