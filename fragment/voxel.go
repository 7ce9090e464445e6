package fragment

import "github.com/go-gl/mathgl/mgl32"

// VoxelCell is an integer grid coordinate in a VoxelGrid, symmetric
// around the origin.
type VoxelCell struct {
	X, Y, Z int32
}

// VoxelGridFn decides whether a cell is filled.
type VoxelGridFn func(VoxelCell) bool

// VoxelOffsetFn perturbs a filled cell's world position.
type VoxelOffsetFn func(VoxelCell) mgl32.Vec3

// VoxelGridOptions configures the extent and density of a VoxelGrid.
// Like the rest of this package's builders, WithX methods return a
// modified copy rather than mutating the receiver.
type VoxelGridOptions struct {
	Width, Height, Depth float32
	Density              int32
}

// NewVoxelGridOptions returns options with the given extents and density.
func NewVoxelGridOptions(width, height, depth float32, density int32) VoxelGridOptions {
	return VoxelGridOptions{Width: width, Height: height, Depth: depth, Density: density}
}

// DefaultVoxelGridOptions matches the original's 1x1x1, density-1 default.
func DefaultVoxelGridOptions() VoxelGridOptions {
	return NewVoxelGridOptions(1, 1, 1, 1)
}

func (o VoxelGridOptions) WithWidth(width float32) VoxelGridOptions {
	o.Width = width
	return o
}

func (o VoxelGridOptions) WithHeight(height float32) VoxelGridOptions {
	o.Height = height
	return o
}

func (o VoxelGridOptions) WithDepth(depth float32) VoxelGridOptions {
	o.Depth = depth
	return o
}

func (o VoxelGridOptions) WithDensity(density int32) VoxelGridOptions {
	o.Density = density
	return o
}

// VoxelGrid is a closed mapping from VoxelCell to world position, built
// fresh on each call to Build. It is not long-lived: regenerate it
// whenever the structure it skins is (re)registered.
type VoxelGrid struct {
	generator VoxelGridFn
	offsetFn  VoxelOffsetFn
	options   VoxelGridOptions

	voxels map[VoxelCell]mgl32.Vec3
}

// NewVoxelGrid returns a grid with no offset function.
func NewVoxelGrid(generator VoxelGridFn, options VoxelGridOptions) *VoxelGrid {
	return NewVoxelGridWithOffsets(generator, options, func(VoxelCell) mgl32.Vec3 { return mgl32.Vec3{} })
}

// NewVoxelGridWithOffsets returns a grid whose filled-cell positions are
// additionally perturbed by offsetFn.
func NewVoxelGridWithOffsets(generator VoxelGridFn, options VoxelGridOptions, offsetFn VoxelOffsetFn) *VoxelGrid {
	return &VoxelGrid{
		generator: generator,
		offsetFn:  offsetFn,
		options:   options,
		voxels:    make(map[VoxelCell]mgl32.Vec3),
	}
}

// Build (re)populates the grid around center. Cell ranges are symmetric:
// [-halfExtent, halfExtent) on each axis, where extent = density*size.
func (g *VoxelGrid) Build(center mgl32.Vec3) {
	g.voxels = make(map[VoxelCell]mgl32.Vec3)

	vw := int32(float32(g.options.Density) * g.options.Width)
	vh := int32(float32(g.options.Density) * g.options.Height)
	vd := int32(float32(g.options.Density) * g.options.Depth)

	hvw, hvh, hvd := vw/2, vh/2, vd/2

	for x := -hvw; x < hvw; x++ {
		for y := -hvh; y < hvh; y++ {
			for z := -hvd; z < hvd; z++ {
				cell := VoxelCell{X: x, Y: y, Z: z}
				if !g.generator(cell) {
					continue
				}
				position := mgl32.Vec3{
					(float32(cell.X) / float32(vw)) * g.options.Width,
					(float32(cell.Y) / float32(vh)) * g.options.Height,
					(float32(cell.Z) / float32(vd)) * g.options.Depth,
				}
				g.voxels[cell] = center.Add(position).Add(g.offsetFn(cell))
			}
		}
	}
}

// GetVoxel looks up a single filled cell's world position.
func (g *VoxelGrid) GetVoxel(cell VoxelCell) (mgl32.Vec3, bool) {
	v, ok := g.voxels[cell]
	return v, ok
}

// Options returns the grid's current options.
func (g *VoxelGrid) Options() VoxelGridOptions { return g.options }

// SetOptions replaces the grid's options; callers must call Build again
// for the change to take effect.
func (g *VoxelGrid) SetOptions(options VoxelGridOptions) { g.options = options }

// Voxels returns the filled cell -> world position map built by Build.
func (g *VoxelGrid) Voxels() map[VoxelCell]mgl32.Vec3 { return g.voxels }

// Count returns the number of filled cells.
func (g *VoxelGrid) Count() int { return len(g.voxels) }
