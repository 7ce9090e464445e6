// Package xpbd implements the position-based-dynamics solver: a
// structure-of-arrays store of nodes and distance-constraint links, a
// substepped Gauss-Seidel projection loop, ground contact, and
// strain-based breakage detection.
package xpbd
