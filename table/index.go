package table

// Handle is a stable, non-zero identifier for one row of a table. Handle 0
// is the reserved sentinel: it is always considered live and always maps
// to dense index 0, whose row holds default-constructed values.
type Handle uint32

// Index is the handle-allocation and dense-compaction core shared by every
// concrete row table. It owns both directions of the handle<->dense-index
// map and the free list; it does not own any column data itself — each
// concrete table embeds an Index and keeps its own parallel slices in
// lockstep with it (see the doc comment on Put and Free below).
type Index struct {
	// slots[h] is a candidate dense index for handle h. It is only trusted
	// when handles[slots[h]] == h; a freed handle's old slot may have been
	// overwritten by a later swap-remove without invalidating slots[h]
	// itself, so validity is always re-derived from handles, never cached.
	slots []uint32

	// handles[i] is the handle owning dense slot i. handles[0] == 0.
	handles []Handle

	free []Handle
}

// NewIndex returns an Index with only the degenerate slot 0 populated.
func NewIndex() *Index {
	return &Index{
		slots:   []uint32{0},
		handles: []Handle{0},
	}
}

// Put allocates a handle, reusing the free list when possible, and appends
// it to the dense handle array. It never returns 0.
//
// Put does not touch column data: callers MUST append one row to every
// parallel column immediately after calling Put, before any other mutation
// of the table, so the column lengths stay equal to len(handles).
func (ix *Index) Put() Handle {
	var h Handle
	if n := len(ix.free); n > 0 {
		h = ix.free[n-1]
		ix.free = ix.free[:n-1]
	} else {
		h = Handle(len(ix.slots))
		ix.slots = append(ix.slots, 0)
	}

	idx := uint32(len(ix.handles))
	ix.handles = append(ix.handles, h)
	ix.slots[h] = idx

	return h
}

// Free swap-removes h's dense slot and returns the dense index that was
// freed along with whether h was live. Freeing the sentinel handle 0 is a
// no-op and reports ok=false.
//
// Free does not touch column data: callers MUST mirror the swap-remove on
// every parallel column — move the last element into the returned index,
// then truncate by one — using the same index this call returns.
func (ix *Index) Free(h Handle) (removed int, ok bool) {
	if h == 0 {
		return 0, false
	}

	idx, ok := ix.GetIndirect(h)
	if !ok {
		return 0, false
	}

	last := len(ix.handles) - 1
	moved := ix.handles[last]
	ix.handles[idx] = moved
	ix.handles = ix.handles[:last]
	if idx != last {
		ix.slots[moved] = uint32(idx)
	}

	ix.free = append(ix.free, h)
	return idx, true
}

// GetIndirect resolves a handle to its current dense index. It returns
// (0, true) for the sentinel handle 0, and (0, false) for a freed or
// out-of-range handle.
func (ix *Index) GetIndirect(h Handle) (int, bool) {
	if h == 0 {
		return 0, true
	}
	if int(h) >= len(ix.slots) {
		return 0, false
	}

	idx := ix.slots[h]
	if int(idx) >= len(ix.handles) || ix.handles[idx] != h {
		return 0, false
	}
	return int(idx), true
}

// Handles returns the dense-index-parallel array of owning handles. It is
// invalidated by any subsequent Put or Free.
func (ix *Index) Handles() []Handle {
	return ix.handles
}

// Len returns the number of live rows, including the degenerate row 0.
func (ix *Index) Len() int {
	return len(ix.handles)
}

// LiveCount returns the number of live rows excluding the degenerate row,
// i.e. the number of handles returned by Put and not yet freed.
func (ix *Index) LiveCount() int {
	return len(ix.handles) - 1
}
