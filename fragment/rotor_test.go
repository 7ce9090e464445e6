package fragment

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/xpbd"
)

func TestRotorSystemIsIdentityWhenUnchanged(t *testing.T) {
	nodes := xpbd.NewNodesTable()
	a := nodes.Put(mgl32.Vec3{0, 0, 0}, 1)
	b := nodes.Put(mgl32.Vec3{1, 0, 0}, 1)
	links := xpbd.NewLinksTable()
	links.Put(a, b, 1e-6, 1)

	r := NewRotorSystem()
	r.RecomputeBasisCache(nodes, links, true)
	r.RecomputeRelatives(nodes, links)
	r.RecomputeRotations(nodes)

	rot := r.Rotation(a)
	want := mgl32.QuatIdent()
	const eps = 1e-4
	if abs(rot.W-want.W) > eps || abs(rot.V.X()-want.V.X()) > eps ||
		abs(rot.V.Y()-want.V.Y()) > eps || abs(rot.V.Z()-want.V.Z()) > eps {
		t.Fatalf("expected identity rotation when relative == basis, got %+v", rot)
	}
}

func TestRotorSystemTracksDirectionChange(t *testing.T) {
	nodes := xpbd.NewNodesTable()
	a := nodes.Put(mgl32.Vec3{0, 0, 0}, 1)
	b := nodes.Put(mgl32.Vec3{1, 0, 0}, 1)
	links := xpbd.NewLinksTable()
	links.Put(a, b, 1e-6, 1)

	r := NewRotorSystem()
	r.RecomputeBasisCache(nodes, links, true)

	nodes.SetPosition(b, mgl32.Vec3{0, 1, 0})
	r.RecomputeRelatives(nodes, links)
	r.RecomputeRotations(nodes)

	rot := r.Rotation(a)
	rotated := rot.Rotate(mgl32.Vec3{1, 0, 0})

	const eps = 1e-3
	if abs(rotated.X()) > eps || abs(rotated.Y()-1) > eps || abs(rotated.Z()) > eps {
		t.Fatalf("expected the x-axis basis to rotate onto +y, got %v", rotated)
	}
}

func TestRotorSystemClearRelativesEmptiesLists(t *testing.T) {
	nodes := xpbd.NewNodesTable()
	a := nodes.Put(mgl32.Vec3{0, 0, 0}, 1)
	b := nodes.Put(mgl32.Vec3{1, 0, 0}, 1)
	links := xpbd.NewLinksTable()
	links.Put(a, b, 1e-6, 1)

	r := NewRotorSystem()
	r.RecomputeBasisCache(nodes, links, true)
	r.RecomputeRelatives(nodes, links)

	if len(r.relative[a]) == 0 {
		t.Fatalf("expected relatives to be populated after RecomputeRelatives")
	}
	r.ClearRelatives()
	if len(r.relative[a]) != 0 {
		t.Fatalf("expected ClearRelatives to empty every node's relative list")
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
