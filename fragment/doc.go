// Package fragment skins a voxel grid onto a lattice's nodes via
// spatial-hash nearest-neighbour queries, and tracks the fragment
// lifecycle (Attached -> Debris) as the lattice breaks under it.
package fragment
