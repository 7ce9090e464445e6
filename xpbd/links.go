package xpbd

import "github.com/errphoenix/razed/table"

// LinksTable is the SoA store of distance constraints between node
// handles. Row 0 is the degenerate slot: endpoints 0,0, zero compliance,
// zero rest length.
type LinksTable struct {
	idx *table.Index

	a, b        []table.Handle
	compliances []float32
	restLengths []float32
	lambdas     []float32
}

// NewLinksTable returns an empty table with only the degenerate row.
func NewLinksTable() *LinksTable {
	return NewLinksTableWithCapacity(0)
}

// NewLinksTableWithCapacity returns an empty table pre-sized for capacity
// live rows in addition to the degenerate row.
func NewLinksTableWithCapacity(capacity int) *LinksTable {
	return &LinksTable{
		idx:         table.NewIndex(),
		a:           make([]table.Handle, 1, capacity+1),
		b:           make([]table.Handle, 1, capacity+1),
		compliances: make([]float32, 1, capacity+1),
		restLengths: make([]float32, 1, capacity+1),
		lambdas:     make([]float32, 1, capacity+1),
	}
}

// Put inserts a link between node handles a and b.
func (lt *LinksTable) Put(a, b table.Handle, compliance, restLength float32) table.Handle {
	h := lt.idx.Put()
	lt.a = append(lt.a, a)
	lt.b = append(lt.b, b)
	lt.compliances = append(lt.compliances, compliance)
	lt.restLengths = append(lt.restLengths, restLength)
	lt.lambdas = append(lt.lambdas, 0)
	return h
}

// Free removes a link, swap-compacting its row.
func (lt *LinksTable) Free(h table.Handle) bool {
	idx, ok := lt.idx.Free(h)
	if !ok {
		return false
	}

	last := len(lt.a) - 1
	lt.a[idx] = lt.a[last]
	lt.b[idx] = lt.b[last]
	lt.compliances[idx] = lt.compliances[last]
	lt.restLengths[idx] = lt.restLengths[last]
	lt.lambdas[idx] = lt.lambdas[last]

	lt.a = lt.a[:last]
	lt.b = lt.b[:last]
	lt.compliances = lt.compliances[:last]
	lt.restLengths = lt.restLengths[:last]
	lt.lambdas = lt.lambdas[:last]

	return true
}

// GetIndirect resolves a handle to its dense index.
func (lt *LinksTable) GetIndirect(h table.Handle) (int, bool) {
	return lt.idx.GetIndirect(h)
}

// Handles returns the dense-index-parallel owning-handle array.
func (lt *LinksTable) Handles() []table.Handle {
	return lt.idx.Handles()
}

// Len returns the number of rows, including the degenerate row.
func (lt *LinksTable) Len() int {
	return lt.idx.Len()
}

// LiveCount returns the number of live links, excluding the degenerate
// row.
func (lt *LinksTable) LiveCount() int {
	return lt.idx.LiveCount()
}

// Endpoints returns the pair of node handles a link connects.
func (lt *LinksTable) Endpoints(h table.Handle) (a, b table.Handle, ok bool) {
	idx, ok := lt.idx.GetIndirect(h)
	if !ok {
		return 0, 0, false
	}
	return lt.a[idx], lt.b[idx], true
}

// RestLength returns a link's rest length.
func (lt *LinksTable) RestLength(h table.Handle) (float32, bool) {
	idx, ok := lt.idx.GetIndirect(h)
	if !ok {
		return 0, false
	}
	return lt.restLengths[idx], true
}
