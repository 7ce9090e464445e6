package xpbd

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sarchlab/akita/v4/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const sixtyHz = sim.VTimeInSec(1.0 / 60.0)

var _ = Describe("Solver", func() {
	It("keeps two fixed nodes linked to each other stationary", func() {
		s := NewSolverBuilder().Build()
		a := s.Nodes().PutFixed(mgl32.Vec3{0, 0, 0})
		b := s.Nodes().PutFixed(mgl32.Vec3{2, 0, 0})
		s.Links().Put(a, b, 0, 2)

		for i := 0; i < 120; i++ {
			s.Step(sixtyHz)
		}

		pa, _ := s.Nodes().Position(a)
		pb, _ := s.Nodes().Position(b)
		Expect(pa).To(Equal(mgl32.Vec3{0, 0, 0}))
		Expect(pb).To(Equal(mgl32.Vec3{2, 0, 0}))
	})

	It("holds a pendulum near its rest length under gravity", func() {
		s := NewSolverBuilder().Build()
		anchor := s.Nodes().PutFixed(mgl32.Vec3{0, 0, 0})
		bob := s.Nodes().Put(mgl32.Vec3{1, 0, 0}, 1)
		restLength := float32(1)
		s.Links().Put(anchor, bob, 1e-7, restLength)

		steps := 5 * 60
		for i := 0; i < steps; i++ {
			s.ApplyForceBatched(mgl32.Vec3{0, -9.81, 0})
			s.Step(sixtyHz)
		}

		panchor, _ := s.Nodes().Position(anchor)
		pbob, _ := s.Nodes().Position(bob)
		dist := pbob.Sub(panchor).Len()

		Expect(dist).To(BeNumerically("~", restLength, restLength*0.005))
	})

	It("never gains kinetic energy under damping with no external force", func() {
		s := NewSolverBuilder().WithDamping(0.996).Build()
		n := s.Nodes().Put(mgl32.Vec3{0, 0, 0}, 1)
		idx, _ := s.Nodes().idx.GetIndirect(n)
		s.Nodes().velocities[idx] = mgl32.Vec3{3, 0, 0}

		keBefore := kineticEnergy(s.Nodes())
		s.Step(sixtyHz)
		keAfter := kineticEnergy(s.Nodes())

		Expect(keAfter).To(BeNumerically("<=", keBefore*0.996*0.996+1e-6))
	})

	It("produces identical positions for identical inputs", func() {
		build := func() *Solver {
			s := NewSolverBuilder().Build()
			a := s.Nodes().PutFixed(mgl32.Vec3{0, 5, 0})
			b := s.Nodes().Put(mgl32.Vec3{1, 5, 0}, 1)
			s.Links().Put(a, b, 1e-6, 1)
			return s
		}

		s1 := build()
		s2 := build()

		for i := 0; i < 30; i++ {
			s1.ApplyForceBatched(mgl32.Vec3{0, -9.81, 0})
			s2.ApplyForceBatched(mgl32.Vec3{0, -9.81, 0})
			s1.Step(sixtyHz)
			s2.Step(sixtyHz)
		}

		Expect(s1.Nodes().positions).To(Equal(s2.Nodes().positions))
	})

	It("drops a single free node to the ground plane", func() {
		s := NewSolverBuilder().WithGround(0).Build()
		n := s.Nodes().Put(mgl32.Vec3{0, 10, 0}, 1)

		for i := 0; i < 60; i++ {
			s.ApplyForceBatched(mgl32.Vec3{0, -9.81, 0})
			s.Step(sixtyHz)
		}

		p, _ := s.Nodes().Position(n)
		v, _ := s.Nodes().Velocity(n)
		Expect(p.Y()).To(BeNumerically("<=", 1e-3))
		Expect(v.Y()).To(BeNumerically(">=", -20.0))
	})

	It("preserves a triangle lattice's side lengths with no gravity", func() {
		s := NewSolverBuilder().Build()
		p0 := mgl32.Vec3{0, 5, 0}
		p1 := mgl32.Vec3{1, 5, 0}
		p2 := mgl32.Vec3{0.5, 6, 0}

		n0 := s.Nodes().Put(p0, 1)
		n1 := s.Nodes().Put(p1, 1)
		n2 := s.Nodes().Put(p2, 1)

		rest01 := p1.Sub(p0).Len()
		rest12 := p2.Sub(p1).Len()
		rest20 := p0.Sub(p2).Len()

		s.Links().Put(n0, n1, 1e-6, rest01)
		s.Links().Put(n1, n2, 1e-6, rest12)
		s.Links().Put(n2, n0, 1e-6, rest20)

		for i := 0; i < 100; i++ {
			s.Step(sixtyHz)
		}

		q0, _ := s.Nodes().Position(n0)
		q1, _ := s.Nodes().Position(n1)
		q2, _ := s.Nodes().Position(n2)

		Expect(q1.Sub(q0).Len()).To(BeNumerically("~", rest01, rest01*0.001))
		Expect(q2.Sub(q1).Len()).To(BeNumerically("~", rest12, rest12*0.001))
		Expect(q0.Sub(q2).Len()).To(BeNumerically("~", rest20, rest20*0.001))
	})

	It("breaks the link nearest a chain's anchor under sustained tension", func() {
		s := NewSolverBuilder().WithBreakThresholds(45000, -15000).Build()

		anchor := s.Nodes().PutFixed(mgl32.Vec3{0, 0, 0})
		// n1 starts far past the anchor link's rest length: the first
		// substep's projection must close a huge gap, driving |lambda|
		// past the breakage threshold immediately.
		n1 := s.Nodes().Put(mgl32.Vec3{0, -50, 0}, 50)
		n2 := s.Nodes().Put(mgl32.Vec3{0, -51, 0}, 50)
		n3 := s.Nodes().Put(mgl32.Vec3{0, -52, 0}, 50)

		anchorLink := s.Links().Put(anchor, n1, 1e-6, 1)
		s.Links().Put(n1, n2, 1e-6, 1)
		s.Links().Put(n2, n3, 1e-6, 1)

		broke := false
		for step := 0; step < 8 && !broke; step++ {
			s.ApplyForceBatched(mgl32.Vec3{0, -9.81, 0})
			s.Step(sixtyHz)
			if len(s.FrameBrokenLinks()) > 0 {
				broke = true
				Expect(s.FrameBrokenLinks()).To(ContainElement(anchorLink))
			}
		}

		Expect(broke).To(BeTrue(), "expected the anchor-adjacent link to break within 8 steps (32 substeps)")

		s.ApplyForceBatched(mgl32.Vec3{0, -9.81, 0})
		s.Step(sixtyHz)
		Expect(s.FrameBrokenLinks()).To(BeEmpty())
	})
})

func kineticEnergy(nodes *NodesTable) float32 {
	var ke float32
	for i := 1; i < len(nodes.velocities); i++ {
		v := nodes.velocities[i]
		ke += 0.5 * nodes.masses[i] * v.Dot(v)
	}
	return ke
}
