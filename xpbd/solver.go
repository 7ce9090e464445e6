package xpbd

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/errphoenix/razed/table"
)

// GroundContact describes an optional ground plane that clamps predicted
// positions and applies restitution/friction on impact.
type GroundContact struct {
	Enabled bool
	Level   float32
}

// BreakThresholds are the per-substep force thresholds (lambda / h^2)
// beyond which a link is marked broken. Tensile is a positive bound,
// Compressive a negative one.
type BreakThresholds struct {
	Tensile     float32
	Compressive float32
}

// Config holds the solver's tunables.
type Config struct {
	Iterations      int
	Substeps        uint32
	Damping         float32
	Ground          GroundContact
	BreakingEnabled bool
	BreakThresholds BreakThresholds
}

// DefaultConfig matches the reference tuning: 8 iterations, 4 substeps,
// 0.996 damping, breaking enabled at +45000/-15000.
func DefaultConfig() Config {
	return Config{
		Iterations:      8,
		Substeps:        4,
		Damping:         0.996,
		BreakingEnabled: true,
		BreakThresholds: BreakThresholds{Tensile: 45000, Compressive: -15000},
	}
}

// SolverBuilder builds a Solver. Each WithX call returns a modified copy,
// so chains may be branched and reused.
type SolverBuilder struct {
	cfg      Config
	capacity int
	nodes    *NodesTable
	links    *LinksTable
}

// NewSolverBuilder starts a builder from DefaultConfig.
func NewSolverBuilder() SolverBuilder {
	return SolverBuilder{cfg: DefaultConfig()}
}

func (b SolverBuilder) WithIterations(n int) SolverBuilder {
	b.cfg.Iterations = n
	return b
}

func (b SolverBuilder) WithSubsteps(n uint32) SolverBuilder {
	b.cfg.Substeps = n
	return b
}

func (b SolverBuilder) WithDamping(d float32) SolverBuilder {
	b.cfg.Damping = d
	return b
}

func (b SolverBuilder) WithGround(level float32) SolverBuilder {
	b.cfg.Ground = GroundContact{Enabled: true, Level: level}
	return b
}

func (b SolverBuilder) WithBreaking(enabled bool) SolverBuilder {
	b.cfg.BreakingEnabled = enabled
	return b
}

func (b SolverBuilder) WithBreakThresholds(tensile, compressive float32) SolverBuilder {
	b.cfg.BreakThresholds = BreakThresholds{Tensile: tensile, Compressive: compressive}
	return b
}

// WithCapacity pre-sizes the node and link tables the builder creates.
// Ignored if WithNodes/WithLinks are also used.
func (b SolverBuilder) WithCapacity(capacity int) SolverBuilder {
	b.capacity = capacity
	return b
}

// WithNodes supplies a pre-built nodes table instead of an empty one.
func (b SolverBuilder) WithNodes(nodes *NodesTable) SolverBuilder {
	b.nodes = nodes
	return b
}

// WithLinks supplies a pre-built links table instead of an empty one.
func (b SolverBuilder) WithLinks(links *LinksTable) SolverBuilder {
	b.links = links
	return b
}

// Build constructs the Solver.
func (b SolverBuilder) Build() *Solver {
	nodes := b.nodes
	if nodes == nil {
		nodes = NewNodesTableWithCapacity(b.capacity)
	}
	links := b.links
	if links == nil {
		links = NewLinksTableWithCapacity(b.capacity)
	}
	return &Solver{cfg: b.cfg, nodes: nodes, links: links}
}

// Solver is the XPBD constraint solver: substepped prediction, ground
// contact, Gauss-Seidel distance-constraint projection, and strain-based
// breakage, over a pair of owned Nodes/Links tables.
type Solver struct {
	cfg Config

	nodes *NodesTable
	links *LinksTable

	h           float32
	brokenLinks []table.Handle
}

// Nodes returns the solver's node table.
func (s *Solver) Nodes() *NodesTable { return s.nodes }

// Links returns the solver's link table.
func (s *Solver) Links() *LinksTable { return s.links }

// Config returns the solver's current tunables.
func (s *Solver) Config() Config { return s.cfg }

// ApplyForce accumulates force onto a single node, cleared at the next
// predict phase.
func (s *Solver) ApplyForce(h table.Handle, force mgl32.Vec3) {
	s.nodes.ApplyForce(h, force)
}

// ApplyForceMulti accumulates force onto every handle in hs.
func (s *Solver) ApplyForceMulti(hs []table.Handle, force mgl32.Vec3) {
	s.nodes.ApplyForceMulti(hs, force)
}

// ApplyForceBatched adds force*mass to every live node (e.g. gravity).
func (s *Solver) ApplyForceBatched(force mgl32.Vec3) {
	s.nodes.ApplyForceBatched(force)
}

// FrameBrokenLinks returns the handles broken during the most recent
// Step call. The slice is reused and is only valid until the next Step.
func (s *Solver) FrameBrokenLinks() []table.Handle {
	return s.brokenLinks
}

// LatticeIds is returned by ImportLattice: the handles a lattice import
// assigned to its nodes and links, in authoring order.
type LatticeIds struct {
	NodeHandles []table.Handle
	LinkHandles []table.Handle
}

// LatticeImporter is satisfied by lattice.Builder; it is declared here,
// rather than imported from package lattice, so that lattice can depend
// on xpbd without xpbd depending back on lattice.
type LatticeImporter interface {
	Export(nodes *NodesTable, links *LinksTable) (nodeHandles, linkHandles []table.Handle)
}

// ImportLattice consumes a lattice builder, inserting its authored nodes
// and links into the solver's tables.
func (s *Solver) ImportLattice(b LatticeImporter) LatticeIds {
	nodeHandles, linkHandles := b.Export(s.nodes, s.links)
	return LatticeIds{NodeHandles: nodeHandles, LinkHandles: linkHandles}
}

// Step advances the simulation by delta, running cfg.Substeps substeps
// of predict/ground/solve/breakage/finalize, then applying damping.
func (s *Solver) Step(delta sim.VTimeInSec) {
	s.brokenLinks = s.brokenLinks[:0]
	if s.cfg.Substeps == 0 {
		return
	}

	s.h = float32(delta) / float32(s.cfg.Substeps)
	for i := uint32(0); i < s.cfg.Substeps; i++ {
		s.substep()
	}

	nodes := s.nodes
	for i := 1; i < len(nodes.velocities); i++ {
		nodes.velocities[i] = nodes.velocities[i].Mul(s.cfg.Damping)
	}
}

func (s *Solver) substep() {
	nodes := s.nodes
	links := s.links
	h := s.h
	h2 := h * h

	for i := 1; i < len(nodes.positions); i++ {
		f := nodes.externalForces[i].Mul(nodes.inverseMasses[i])
		nodes.nextPositions[i] = nodes.positions[i].Add(nodes.velocities[i].Mul(h)).Add(f.Mul(h2))
		nodes.externalForces[i] = mgl32.Vec3{}
	}

	if s.cfg.Ground.Enabled {
		yg := s.cfg.Ground.Level
		for i := 1; i < len(nodes.positions); i++ {
			if nodes.nextPositions[i].Y() >= yg {
				continue
			}

			np := nodes.nextPositions[i]
			np[1] = yg
			nodes.nextPositions[i] = np

			cp := nodes.positions[i]
			cp[1] = yg
			nodes.positions[i] = cp

			v := nodes.velocities[i]
			v[1] *= -0.4
			v[0] *= 0.2
			v[2] *= 0.2
			nodes.velocities[i] = v
		}
	}

	for i := range links.lambdas {
		links.lambdas[i] = 0
	}

	// Gauss-Seidel: links are projected in dense-index order, never
	// reordered, so results are reproducible across runs.
	for iter := 0; iter < s.cfg.Iterations; iter++ {
		for li := 1; li < len(links.a); li++ {
			ai, aok := nodes.idx.GetIndirect(links.a[li])
			bi, bok := nodes.idx.GetIndirect(links.b[li])
			if !aok || !bok {
				continue
			}

			invA, invB := nodes.inverseMasses[ai], nodes.inverseMasses[bi]
			if invA+invB < 1e-7 {
				continue
			}

			pa, pb := nodes.nextPositions[ai], nodes.nextPositions[bi]
			d := pa.Sub(pb)
			dist := d.Len()
			if dist < 1e-7 {
				continue
			}

			alphaTilde := links.compliances[li] / h2
			c := dist - links.restLengths[li]
			dLambda := (-c - alphaTilde*links.lambdas[li]) / (invA + invB + alphaTilde)
			links.lambdas[li] += dLambda

			n := d.Mul(1 / dist)
			nodes.nextPositions[ai] = pa.Add(n.Mul(invA * dLambda))
			nodes.nextPositions[bi] = pb.Sub(n.Mul(invB * dLambda))
		}
	}

	if s.cfg.BreakingEnabled {
		for li := 1; li < len(links.a); li++ {
			force := links.lambdas[li] / h2
			if force >= s.cfg.BreakThresholds.Tensile || force <= s.cfg.BreakThresholds.Compressive {
				s.brokenLinks = append(s.brokenLinks, links.Handles()[li])
			}
		}
		for _, h := range s.brokenLinks {
			links.Free(h)
		}
	}

	for i := 1; i < len(nodes.positions); i++ {
		nodes.velocities[i] = nodes.nextPositions[i].Sub(nodes.positions[i]).Mul(1 / h)
		nodes.positions[i] = nodes.nextPositions[i]
	}
}
