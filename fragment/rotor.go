package fragment

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/table"
	"github.com/errphoenix/razed/xpbd"
)

// RotorSystem derives a per-node rotation quaternion by comparing each
// incident link's current direction against its rest direction, and
// composing the rotation arcs over every incident link.
//
// basis holds the rest-frame direction of each incident link, cached
// once at import and only invalidated by RecomputeBasisCache(overwrite:
// true) when the lattice topology changes. relative holds the
// current-frame direction and is rebuilt every frame.
type RotorSystem struct {
	rotations map[table.Handle]mgl32.Quat
	basis     map[table.Handle][]mgl32.Vec3
	relative  map[table.Handle][]mgl32.Vec3
}

// NewRotorSystem returns an empty rotor system.
func NewRotorSystem() *RotorSystem {
	return &RotorSystem{
		rotations: make(map[table.Handle]mgl32.Quat),
		basis:     make(map[table.Handle][]mgl32.Vec3),
		relative:  make(map[table.Handle][]mgl32.Vec3),
	}
}

// ClearRelatives empties every node's current-frame direction list
// without discarding the underlying storage.
func (r *RotorSystem) ClearRelatives() {
	for h := range r.relative {
		r.relative[h] = r.relative[h][:0]
	}
}

// RecomputeBasisCache walks every link and records its rest direction
// against both endpoints. With overwrite, the cache is rebuilt from
// scratch; call this whenever the lattice's topology changes. Without
// overwrite, the direction of every live link is appended onto whatever
// basis is already cached; links cached earlier are not skipped, so they
// appear again.
func (r *RotorSystem) RecomputeBasisCache(nodes *xpbd.NodesTable, links *xpbd.LinksTable, overwrite bool) {
	if overwrite {
		r.basis = make(map[table.Handle][]mgl32.Vec3)
	}
	r.forEachLink(nodes, links, func(a, b table.Handle, basisA, basisB mgl32.Vec3) {
		r.basis[a] = append(r.basis[a], basisA)
		r.basis[b] = append(r.basis[b], basisB)
	})
}

// RecomputeRelatives rebuilds every node's current-frame direction list
// from the live link topology. Call this once per frame, before
// RecomputeRotations.
func (r *RotorSystem) RecomputeRelatives(nodes *xpbd.NodesTable, links *xpbd.LinksTable) {
	r.ClearRelatives()
	r.forEachLink(nodes, links, func(a, b table.Handle, relA, relB mgl32.Vec3) {
		r.relative[a] = append(r.relative[a], relA)
		r.relative[b] = append(r.relative[b], relB)
	})
}

func (r *RotorSystem) forEachLink(nodes *xpbd.NodesTable, links *xpbd.LinksTable, visit func(a, b table.Handle, dirA, dirB mgl32.Vec3)) {
	for _, linkHandle := range links.Handles() {
		a, b, ok := links.Endpoints(linkHandle)
		if !ok || linkHandle == 0 {
			continue
		}
		posA, okA := nodes.Position(a)
		posB, okB := nodes.Position(b)
		if !okA || !okB {
			continue
		}
		dirA := posB.Sub(posA).Normalize()
		visit(a, b, dirA, dirA.Mul(-1))
	}
}

// RecomputeRotations composes, for every node with cached basis data,
// the quaternion rotation arc from each cached rest direction to its
// matching current direction.
func (r *RotorSystem) RecomputeRotations(nodes *xpbd.NodesTable) {
	r.rotations = make(map[table.Handle]mgl32.Quat)

	for _, h := range nodes.Handles() {
		if h == 0 {
			continue
		}
		basis, ok := r.basis[h]
		if !ok {
			continue
		}
		relative := r.relative[h]

		rot := mgl32.QuatIdent()
		n := len(basis)
		if len(relative) < n {
			n = len(relative)
		}
		for i := 0; i < n; i++ {
			rot = rot.Mul(quatFromRotationArc(basis[i], relative[i]))
		}
		r.rotations[h] = rot
	}
}

// Rotation returns a node's last-computed rotation, or identity if the
// node has never been covered by RecomputeRotations.
func (r *RotorSystem) Rotation(h table.Handle) mgl32.Quat {
	if rot, ok := r.rotations[h]; ok {
		return rot
	}
	return mgl32.QuatIdent()
}

// quatFromRotationArc returns the shortest-arc rotation taking the unit
// vector from to the unit vector to.
func quatFromRotationArc(from, to mgl32.Vec3) mgl32.Quat {
	const epsilon = 1e-6

	dot := from.Dot(to)
	switch {
	case dot >= 1-epsilon:
		return mgl32.QuatIdent()
	case dot <= -1+epsilon:
		axis := mgl32.Vec3{1, 0, 0}.Cross(from)
		if axis.Dot(axis) < epsilon {
			axis = mgl32.Vec3{0, 1, 0}.Cross(from)
		}
		axis = axis.Normalize()
		return mgl32.Quat{W: 0, V: axis}
	default:
		axis := from.Cross(to)
		s := float32(math.Sqrt(float64((1 + dot) * 2)))
		invs := 1 / s
		return mgl32.Quat{W: s * 0.5, V: axis.Mul(invs)}
	}
}
