package lattice

import (
	"testing"

	"github.com/errphoenix/razed/xpbd"
)

func TestBuildingTemplateNodeAndLinkCounts(t *testing.T) {
	tmpl := BuildingTemplate{Width: 4, Height: 3, Depth: 4, Floors: 2}
	b := tmpl.Build()

	wantNodes := floorNodeCount*2 + 4
	if b.NodeCount() != wantNodes {
		t.Fatalf("expected %d nodes, got %d", wantNodes, b.NodeCount())
	}

	// 4 anchor perimeter links + per floor: 4 ring + 4 pillar + 16 cross = 24
	wantLinks := 4 + 2*24
	if b.LinkCount() != wantLinks {
		t.Fatalf("expected %d links, got %d", wantLinks, b.LinkCount())
	}
}

func TestBuildingTemplateAnchorsAreFixed(t *testing.T) {
	tmpl := BuildingTemplate{Width: 2, Height: 2, Depth: 2, Floors: 1}
	b := tmpl.Build()

	solver := xpbd.NewSolverBuilder().Build()
	nodeHandles, _ := b.Export(solver.Nodes(), solver.Links())

	for i := 0; i < 4; i++ {
		inv, ok := solver.Nodes().InverseMass(nodeHandles[i])
		if !ok || inv != 0 {
			t.Fatalf("expected anchor node %d to be fixed (inverse mass 0), got (%v, %v)", i, inv, ok)
		}
	}
	inv, ok := solver.Nodes().InverseMass(nodeHandles[4])
	if !ok || inv == 0 {
		t.Fatalf("expected the first floor node to be dynamic, got (%v, %v)", inv, ok)
	}
}

func TestBuildingTemplatePanicsWithZeroFloors(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Build to panic with zero floors")
		}
	}()
	BuildingTemplate{Width: 1, Height: 1, Depth: 1, Floors: 0}.Build()
}
