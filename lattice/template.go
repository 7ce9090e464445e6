package lattice

import "github.com/go-gl/mathgl/mgl32"

const (
	buildingNodeMass       = 100.0
	buildingLinkCompliance = 0.5e-5
	floorNodeCount         = 8
)

// BuildingTemplate generates a rectangular multi-floor lattice: four
// fixed ground anchors, a perimeter of four nodes per floor linked into
// a ring, pillars tying each floor's ring to the one below, and a
// cross-braced floor center (four nodes linked to the ring corners and
// the floor below) for torsional stiffness.
type BuildingTemplate struct {
	Origin mgl32.Vec3
	Width  float32
	// Height is the per-floor height, not the total building height.
	Height float32
	Depth  float32
	Floors uint32
}

// Build authors the template into a fresh Builder using LinkNodes only;
// it never touches the cursor stack.
func (t BuildingTemplate) Build() *Builder {
	if t.Floors == 0 {
		panic("lattice: BuildingTemplate requires at least one floor")
	}

	totalNodes := floorNodeCount*int(t.Floors) + 4
	b := NewBuilderWithCapacity(totalNodes)

	link := NewLinkOptions(buildingLinkCompliance)
	w := t.Width / 2
	d := t.Depth / 2
	o := t.Origin

	bottomLB := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{-w, 0, -d}), buildingNodeMass).WithFixed(true))
	bottomRB := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{w, 0, -d}), buildingNodeMass).WithFixed(true))
	bottomRF := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{w, 0, d}), buildingNodeMass).WithFixed(true))
	bottomLF := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{-w, 0, d}), buildingNodeMass).WithFixed(true))

	b.LinkNodes(bottomLB, bottomRB, link)
	b.LinkNodes(bottomRB, bottomRF, link)
	b.LinkNodes(bottomRF, bottomLF, link)
	b.LinkNodes(bottomLF, bottomLB, link)

	lastTop := [4]NodeID{bottomLB, bottomRB, bottomRF, bottomLF}

	for i := uint32(0); i < t.Floors; i++ {
		ceilingY := t.Height * float32(i+1)
		midY := ceilingY - t.Height*0.5

		backLeft := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{-w, ceilingY, -d}), buildingNodeMass))
		backRight := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{w, ceilingY, -d}), buildingNodeMass))
		frontRight := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{w, ceilingY, d}), buildingNodeMass))
		frontLeft := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{-w, ceilingY, d}), buildingNodeMass))

		b.LinkNodes(backLeft, backRight, link)
		b.LinkNodes(backRight, frontRight, link)
		b.LinkNodes(frontRight, frontLeft, link)
		b.LinkNodes(frontLeft, backLeft, link)

		b.LinkNodes(backLeft, lastTop[0], link)
		b.LinkNodes(backRight, lastTop[1], link)
		b.LinkNodes(frontRight, lastTop[2], link)
		b.LinkNodes(frontLeft, lastTop[3], link)

		cLeft := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{-w, midY, 0}), buildingNodeMass))
		cRight := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{w, midY, 0}), buildingNodeMass))
		cFront := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{0, midY, d}), buildingNodeMass))
		cBack := b.Node(NewNodeOptions(o.Add(mgl32.Vec3{0, midY, -d}), buildingNodeMass))

		b.LinkNodes(cLeft, backLeft, link)
		b.LinkNodes(cLeft, frontLeft, link)
		b.LinkNodes(cLeft, lastTop[0], link)
		b.LinkNodes(cLeft, lastTop[3], link)

		b.LinkNodes(cRight, backRight, link)
		b.LinkNodes(cRight, frontRight, link)
		b.LinkNodes(cRight, lastTop[1], link)
		b.LinkNodes(cRight, lastTop[2], link)

		b.LinkNodes(cFront, frontLeft, link)
		b.LinkNodes(cFront, frontRight, link)
		b.LinkNodes(cFront, lastTop[2], link)
		b.LinkNodes(cFront, lastTop[3], link)

		b.LinkNodes(cBack, backRight, link)
		b.LinkNodes(cBack, backLeft, link)
		b.LinkNodes(cBack, lastTop[0], link)
		b.LinkNodes(cBack, lastTop[1], link)

		lastTop = [4]NodeID{backLeft, backRight, frontRight, frontLeft}
	}

	return b
}
