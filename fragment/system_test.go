package fragment

import (
	"github.com/go-gl/mathgl/mgl32"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/errphoenix/razed/table"
	"github.com/errphoenix/razed/xpbd"
)

// cubeCorners returns the 8 corners of a cube of the given half-extent
// centered on the origin, spaced widely enough that each corner falls
// into its own spatial-hash cell at the system's lattice resolution.
func cubeCorners(half float32) []mgl32.Vec3 {
	var pts []mgl32.Vec3
	for _, x := range []float32{-half, half} {
		for _, y := range []float32{-half, half} {
			for _, z := range []float32{-half, half} {
				pts = append(pts, mgl32.Vec3{x, y, z})
			}
		}
	}
	return pts
}

var _ = Describe("System GenerateFragments", func() {
	var (
		nodes       *xpbd.NodesTable
		nodeHandles []table.Handle
		positions   []mgl32.Vec3
		sys         *System
		grid        *VoxelGrid
	)

	BeforeEach(func() {
		nodes = xpbd.NewNodesTable()
		positions = cubeCorners(1.5)
		nodeHandles = nil
		for _, p := range positions {
			nodeHandles = append(nodeHandles, nodes.Put(p, 10))
		}

		grid = NewVoxelGrid(
			func(c VoxelCell) bool {
				return abs32(c.X) <= 1 && abs32(c.Y) <= 1 && abs32(c.Z) <= 1
			},
			NewVoxelGridOptions(2, 2, 2, 2),
		)
		grid.Build(mgl32.Vec3{})

		sys = NewSystem()
		sys.GenerateFragments(grid, nodeHandles, positions)
	})

	It("produces one fragment per filled voxel", func() {
		Expect(sys.Table().LiveCount()).To(Equal(27))
	})

	It("gives every fragment weights summing to 1 and parents among the registered nodes", func() {
		known := map[table.Handle]bool{}
		for _, h := range nodeHandles {
			known[h] = true
		}

		for _, h := range sys.Table().Handles()[1:] {
			weights, ok := sys.Table().Influence(h)
			Expect(ok).To(BeTrue())

			var sum float32
			for _, w := range weights {
				sum += w
			}
			Expect(sum).To(BeNumerically("~", 1, 1e-4))

			parents, _ := sys.Table().Parents(h)
			for _, p := range parents {
				if p == 0 {
					continue
				}
				Expect(known[p]).To(BeTrue())
			}
		}
	})

	It("computes a rest offset consistent with the weighted parent centroid", func() {
		for _, h := range sys.Table().Handles()[1:] {
			weights, _ := sys.Table().Influence(h)
			parents, _ := sys.Table().Parents(h)
			restOffset, _ := sys.Table().RestOffset(h)
			voxel, _ := sys.Table().Position(h)

			var centroid mgl32.Vec3
			for k, p := range parents {
				if p == 0 {
					continue
				}
				pos, ok := nodes.Position(p)
				Expect(ok).To(BeTrue())
				centroid = centroid.Add(pos.Mul(weights[k]))
			}

			reconstructed := restOffset.Add(centroid)
			Expect(reconstructed.X()).To(BeNumerically("~", voxel.X(), 1e-4))
			Expect(reconstructed.Y()).To(BeNumerically("~", voxel.Y(), 1e-4))
			Expect(reconstructed.Z()).To(BeNumerically("~", voxel.Z(), 1e-4))
		}
	})
})

var _ = Describe("System HandleConstraintBreak", func() {
	It("moves fragments to Debris exactly once per link break, idempotently", func() {
		nodes := xpbd.NewNodesTable()
		a := nodes.Put(mgl32.Vec3{0, 0, 0}, 1)
		b := nodes.Put(mgl32.Vec3{10, 10, 10}, 1)

		links := xpbd.NewLinksTable()
		link := links.Put(a, b, 1e-6, 1)

		grid := NewVoxelGrid(
			func(c VoxelCell) bool { return c == (VoxelCell{}) },
			NewVoxelGridOptions(2, 2, 2, 1),
		)
		grid.Build(mgl32.Vec3{})

		sys := NewSystem()
		sys.GenerateFragments(grid, []table.Handle{a, b}, []mgl32.Vec3{{0, 0, 0}, {10, 10, 10}})
		Expect(sys.Table().LiveCount()).To(Equal(1))

		fragHandle := sys.Table().Handles()[1]

		sys.HandleConstraintBreak([]table.Handle{link}, links)
		state, _ := sys.Table().State(fragHandle)
		Expect(state).To(Equal(Debris))
		Expect(sys.FrameDisabledFragsDirect()).NotTo(BeEmpty())

		sys.HandleConstraintBreak([]table.Handle{link}, links)
		Expect(sys.FrameDisabledFragsDirect()).To(BeEmpty())
	})
})

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
