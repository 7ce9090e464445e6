// Package spatialhash implements the bucketed cell hash used once, at
// fragment-generation time, to find the lattice nodes nearest a voxel. It
// is deliberately not a long-lived index: callers build one, query it, and
// discard it (see fragment.System.GenerateFragments).
package spatialhash

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/table"
)

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y, Z int32
}

// Resolution is the world-to-cell scale factor: world coordinates are
// floor-divided by Resolution to obtain a Cell.
type Resolution int32

type entry struct {
	pos    mgl32.Vec3
	handle table.Handle
}

// Hash is a bucketed map from Cell to the points that fall inside it.
type Hash struct {
	resolution Resolution
	buckets    map[Cell][]entry
}

// New creates an empty Hash at the given resolution.
func New(resolution Resolution) *Hash {
	return &Hash{resolution: resolution, buckets: make(map[Cell][]entry)}
}

// WithCapacity creates an empty Hash sized for approximately capacity
// points.
func WithCapacity(resolution Resolution, capacity int) *Hash {
	return &Hash{resolution: resolution, buckets: make(map[Cell][]entry, capacity)}
}

// CellAt floor-divides a world point by the hash's resolution.
func (h *Hash) CellAt(point mgl32.Vec3) Cell {
	r := float32(h.resolution)
	return Cell{
		X: int32(math.Floor(float64(point.X() / r))),
		Y: int32(math.Floor(float64(point.Y() / r))),
		Z: int32(math.Floor(float64(point.Z() / r))),
	}
}

// DumpSOA bulk-inserts parallel position/handle slices.
func (h *Hash) DumpSOA(positions []mgl32.Vec3, handles []table.Handle) {
	for i, pos := range positions {
		cell := h.CellAt(pos)
		h.buckets[cell] = append(h.buckets[cell], entry{pos: pos, handle: handles[i]})
	}
}

// Get returns a representative handle occupying cell, if any.
func (h *Hash) Get(cell Cell) (table.Handle, bool) {
	es, ok := h.buckets[cell]
	if !ok || len(es) == 0 {
		return 0, false
	}
	return es[0].handle, true
}

// PositionOf returns a representative point occupying cell, if any. Used
// by callers that already resolved a handle via Get and want the original
// point rather than the cell center.
func (h *Hash) PositionOf(cell Cell) (mgl32.Vec3, bool) {
	es, ok := h.buckets[cell]
	if !ok || len(es) == 0 {
		return mgl32.Vec3{}, false
	}
	return es[0].pos, true
}

// ApproxPointAt returns the world-space center of cell.
func (h *Hash) ApproxPointAt(cell Cell) mgl32.Vec3 {
	r := float32(h.resolution)
	return mgl32.Vec3{
		(float32(cell.X) + 0.5) * r,
		(float32(cell.Y) + 0.5) * r,
		(float32(cell.Z) + 0.5) * r,
	}
}

// ErrUnderfull reports that a NearestCells query found fewer than k
// occupied cells within the requested axis ranges.
type ErrUnderfull struct {
	// Remaining is how many more cells were requested beyond what was found.
	Remaining int
}

func (e *ErrUnderfull) Error() string {
	return fmt.Sprintf("spatialhash: query underfull, %d neighbour(s) short of requested count", e.Remaining)
}

// NearestCells finds up to k occupied cells nearest origin in Chebyshev
// order (expanding concentric shells), within the given per-axis ranges,
// and appends them to *out (which is reset to empty first). If fewer than
// k cells were found within range, it returns an *ErrUnderfull wrapping
// the shortfall; *out still holds whatever was found.
func (h *Hash) NearestCells(origin Cell, k int, maxRangeX, maxRangeY, maxRangeZ int32, out *[]Cell) error {
	*out = (*out)[:0]
	if k <= 0 {
		return nil
	}

	maxRange := maxRangeX
	if maxRangeY > maxRange {
		maxRange = maxRangeY
	}
	if maxRangeZ > maxRange {
		maxRange = maxRangeZ
	}

	for d := int32(0); d <= maxRange && len(*out) < k; d++ {
		for dx := -d; dx <= d; dx++ {
			if abs32(dx) > maxRangeX {
				continue
			}
			for dy := -d; dy <= d; dy++ {
				if abs32(dy) > maxRangeY {
					continue
				}
				for dz := -d; dz <= d; dz++ {
					if abs32(dz) > maxRangeZ {
						continue
					}
					if chebyshev(dx, dy, dz) != d {
						continue // already visited in an earlier, smaller shell
					}

					cell := Cell{X: origin.X + dx, Y: origin.Y + dy, Z: origin.Z + dz}
					if es, ok := h.buckets[cell]; ok && len(es) > 0 {
						*out = append(*out, cell)
						if len(*out) == k {
							return nil
						}
					}
				}
			}
		}
	}

	if len(*out) < k {
		return &ErrUnderfull{Remaining: k - len(*out)}
	}
	return nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func chebyshev(dx, dy, dz int32) int32 {
	m := abs32(dx)
	if a := abs32(dy); a > m {
		m = a
	}
	if a := abs32(dz); a > m {
		m = a
	}
	return m
}
