package fragment

// Layout names the partitions of the fragment GPU buffer; the
// discriminants must match the GPU binding slots declared for it.
type Layout uint32

const (
	// PodParents holds each fragment's four parent-node handles.
	PodParents Layout = iota
	// PodWeights holds each fragment's four skinning weights.
	PodWeights
	// PodOffsets holds each fragment's rest offset, Vec4-padded.
	PodOffsets
	// PodStates holds each fragment's lifecycle state.
	PodStates
	// IMapNodes holds the dense-index-parallel node handle array.
	IMapNodes
	// PodNodesPositions holds node positions, Vec4-padded.
	PodNodesPositions
	// PodNodesRotors holds node rotations, quat-as-Vec4.
	PodNodesRotors

	layoutCount
)

// LayoutCount is the number of partitions in the fragment buffer.
const LayoutCount = int(layoutCount)
