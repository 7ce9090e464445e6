// Package scene holds the render-facing entity table: per-entity
// position/rotation/scale, and the Renderable record that associates an
// entity with a mesh and its entity-data handle.
package scene
