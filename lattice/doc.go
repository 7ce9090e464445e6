// Package lattice provides a cursor-stack authoring builder for XPBD
// node/link structures, and a building-shaped template generator built
// on top of it.
package lattice
