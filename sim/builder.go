package sim

import (
	asim "github.com/sarchlab/akita/v4/sim"

	"github.com/errphoenix/razed/fragment"
	"github.com/errphoenix/razed/pipeline"
	"github.com/errphoenix/razed/scene"
	"github.com/errphoenix/razed/table"
	"github.com/errphoenix/razed/xpbd"
)

// WorldBuilder builds a World. Each WithX call returns a modified copy.
type WorldBuilder struct {
	engine    asim.Engine
	freq      asim.Freq
	solver    *xpbd.Solver
	rotor     *fragment.RotorSystem
	frags     *fragment.System
	stepDelta asim.VTimeInSec
}

// NewWorldBuilder starts a builder with the reference tuning: 60Hz
// tick frequency and a matching 1/60s physics step.
func NewWorldBuilder() WorldBuilder {
	return WorldBuilder{
		freq:      asim.Freq(60),
		stepDelta: defaultStepDelta,
	}
}

// WithEngine sets the driving engine.
func (b WorldBuilder) WithEngine(engine asim.Engine) WorldBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the tick frequency the TickingComponent is scheduled at.
func (b WorldBuilder) WithFreq(freq asim.Freq) WorldBuilder {
	b.freq = freq
	return b
}

// WithStepDelta overrides the fixed physics timestep passed to
// Solver.Step each Tick.
func (b WorldBuilder) WithStepDelta(delta asim.VTimeInSec) WorldBuilder {
	b.stepDelta = delta
	return b
}

// WithSolver supplies a pre-built solver instead of the builder
// constructing one from xpbd.DefaultConfig.
func (b WorldBuilder) WithSolver(solver *xpbd.Solver) WorldBuilder {
	b.solver = solver
	return b
}

// WithRotor supplies a pre-built rotor system.
func (b WorldBuilder) WithRotor(rotor *fragment.RotorSystem) WorldBuilder {
	b.rotor = rotor
	return b
}

// WithFragments supplies a pre-built fragment system.
func (b WorldBuilder) WithFragments(frags *fragment.System) WorldBuilder {
	b.frags = frags
	return b
}

// Build constructs the World.
func (b WorldBuilder) Build(name string) *World {
	solver := b.solver
	if solver == nil {
		solver = xpbd.NewSolverBuilder().Build()
	}
	rotor := b.rotor
	if rotor == nil {
		rotor = fragment.NewRotorSystem()
	}
	frags := b.frags
	if frags == nil {
		frags = fragment.NewSystem()
	}

	w := &World{
		solver:        solver,
		rotor:         rotor,
		frags:         frags,
		entities:      scene.NewEntityTable(),
		entityNode:    make(map[table.Handle]table.Handle),
		entityMesh:    make(map[table.Handle]uint32),
		buffers:       pipeline.NewBuffers(),
		queue:         pipeline.NewDrawCommandQueue(),
		stepDelta:     b.stepDelta,
		topologyDirty: true,
	}
	w.TickingComponent = asim.NewTickingComponent(name, b.engine, b.freq, w)

	return w
}
