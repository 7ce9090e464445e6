// Package sim ties the XPBD solver, rotor system, fragment system and
// scene table into one ticking component: World. One Tick recomputes
// rotors, steps the solver, propagates breakage into fragments, syncs
// scene entities to their bound nodes, and blits every GPU-facing table
// into the frame's triple-buffered pipeline.Buffers.
package sim
