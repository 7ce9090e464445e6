package pipeline

import "log/slog"

// DrawCommand is a standard indirect draw record.
type DrawCommand struct {
	Count         uint32
	InstanceCount uint32
	FirstVertex   uint32
	BaseInstance  uint32
}

// CommandQueueAlloc is the command tri-buffer's section capacity.
const CommandQueueAlloc = 2048

// DrawCommandQueue is the producer-side pushable queue of indirect draw
// descriptors, uploaded wholesale into the command TriBuffer on each
// boundary crossing.
type DrawCommandQueue struct {
	pending []DrawCommand
}

// NewDrawCommandQueue returns an empty queue.
func NewDrawCommandQueue() *DrawCommandQueue {
	return &DrawCommandQueue{}
}

// Push appends one draw command to the pending queue.
func (q *DrawCommandQueue) Push(cmd DrawCommand) {
	q.pending = append(q.pending, cmd)
}

// Len returns the number of pending commands not yet uploaded.
func (q *DrawCommandQueue) Len() int {
	return len(q.pending)
}

// Upload copies the pending queue into tb's write section and clears
// it. If the queue holds more commands than tb's section capacity, the
// excess is discarded and its count is returned as overflow.
func (q *DrawCommandQueue) Upload(tb *TriBuffer[DrawCommand]) (overflow int) {
	section := tb.Write()
	n := len(q.pending)
	if n > len(section) {
		overflow = n - len(section)
		n = len(section)
		slog.Warn("pipeline: draw command queue overflowed section capacity",
			"capacity", len(section), "dropped", overflow)
	}
	copy(section, q.pending[:n])
	q.pending = q.pending[:0]
	return overflow
}
