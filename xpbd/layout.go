package xpbd

// DebugLayout names the partitions of the XPBD debug GPU buffer; the
// discriminants must match the GPU binding slots declared for it.
type DebugLayout uint32

const (
	// DebugConstraints holds [2]uint32 link endpoint index pairs.
	DebugConstraints DebugLayout = iota
	// DebugIMapNodes holds the dense-index-parallel node handle array.
	DebugIMapNodes
	// DebugPodNodes holds Vec4-padded node positions.
	DebugPodNodes
	// DebugSelected holds a single uint32: the currently picked link.
	DebugSelected

	debugLayoutCount
)

// DebugLayoutCount is the number of partitions in the debug buffer.
const DebugLayoutCount = int(debugLayoutCount)
