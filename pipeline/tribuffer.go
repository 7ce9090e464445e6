package pipeline

import "sync/atomic"

const (
	sectionIndexMask uint32 = 0x3
	sectionDirtyBit  uint32 = 0x4
)

// TriBuffer is a lock-free single-producer/single-consumer triple
// buffer. Three independent sections back it; at any instant exactly
// one is owned by the producer for writing, one is owned by the
// consumer for reading, and one sits idle as a spare that absorbs the
// next hand-off. No section is ever touched by both sides at once, so
// Flip and Read need nothing beyond a single atomic swap.
//
// The producer never blocks on the consumer: if Flip is called again
// before the consumer has caught up, the previously published section
// simply becomes the new spare and its data is never read.
type TriBuffer[T any] struct {
	sections [3][]T

	// middle packs the spare section's index in its low 2 bits and a
	// dirty flag (new data waiting) in bit 2.
	middle atomic.Uint32

	write int
	read  int
}

// NewTriBuffer allocates three independent zero-valued sections of cap
// elements each.
func NewTriBuffer[T any](capacity int) *TriBuffer[T] {
	tb := &TriBuffer[T]{write: 0, read: 2}
	for i := range tb.sections {
		tb.sections[i] = make([]T, capacity)
	}
	tb.middle.Store(1)
	return tb
}

// Write returns the producer's private section. It is safe to mutate
// freely until the next call to Flip.
func (tb *TriBuffer[T]) Write() []T {
	return tb.sections[tb.write]
}

// Flip publishes the section the producer just finished writing and
// adopts the current spare as the new write target.
func (tb *TriBuffer[T]) Flip() {
	published := uint32(tb.write) | sectionDirtyBit
	old := tb.middle.Swap(published)
	tb.write = int(old & sectionIndexMask)
}

// Read returns the consumer's current section, first adopting the most
// recently published section if one is waiting. Repeated calls with no
// intervening Flip return the same section.
func (tb *TriBuffer[T]) Read() []T {
	if cur := tb.middle.Load(); cur&sectionDirtyBit != 0 {
		claimed := uint32(tb.read)
		old := tb.middle.Swap(claimed)
		tb.read = int(old & sectionIndexMask)
	}
	return tb.sections[tb.read]
}
