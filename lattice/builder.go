package lattice

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/errphoenix/razed/table"
	"github.com/errphoenix/razed/xpbd"
)

// NodeID is a local, authoring-time identifier for a node pending
// insertion; it is not an xpbd.Handle. It is only meaningful within the
// Builder that produced it.
type NodeID int

// NodeOptions describes a node to be authored.
type NodeOptions struct {
	Position mgl32.Vec3
	Mass     float32
	Fixed    bool
}

// NewNodeOptions returns options for a dynamic node of the given mass.
func NewNodeOptions(position mgl32.Vec3, mass float32) NodeOptions {
	return NodeOptions{Position: position, Mass: mass}
}

// WithFixed marks the node as fixed (infinite mass) or not.
func (o NodeOptions) WithFixed(fixed bool) NodeOptions {
	o.Fixed = fixed
	return o
}

// LinkOptions describes a link to be authored. If RestLength is not set
// via WithRestLength, Export derives it from the endpoints' positions at
// authoring time.
type LinkOptions struct {
	Compliance      float32
	restLength      float32
	restLengthIsSet bool
}

// NewLinkOptions returns options for a link of the given compliance,
// with an auto-derived rest length.
func NewLinkOptions(compliance float32) LinkOptions {
	return LinkOptions{Compliance: compliance}
}

// WithRestLength overrides the auto-derived rest length.
func (o LinkOptions) WithRestLength(restLength float32) LinkOptions {
	o.restLength = restLength
	o.restLengthIsSet = true
	return o
}

type nodeRecord struct {
	position mgl32.Vec3
	mass     float32
	fixed    bool
}

type linkRecord struct {
	a, b NodeID
	opts LinkOptions
}

// Builder authors a set of nodes and links using a cursor stack: Node
// pushes a new pending node; Link connects the two topmost pending nodes
// and pops the very top one, leaving the other as the new top; LinkTo
// connects the top to an arbitrary earlier node without popping;
// LinkNodes connects any explicit pair and never touches the stack.
type Builder struct {
	nodes []nodeRecord
	links []linkRecord
	stack []NodeID
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBuilderWithCapacity returns an empty Builder pre-sized for capacity
// nodes.
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		nodes: make([]nodeRecord, 0, capacity),
		links: make([]linkRecord, 0, capacity),
	}
}

// Node authors a new node, pushes it onto the cursor stack, and returns
// its local id for later use with LinkTo or LinkNodes.
func (b *Builder) Node(opts NodeOptions) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, nodeRecord{position: opts.Position, mass: opts.Mass, fixed: opts.Fixed})
	b.stack = append(b.stack, id)
	return id
}

// Link connects the two topmost pending nodes, then pops the top one.
// It panics if fewer than two nodes are pending.
func (b *Builder) Link(opts LinkOptions) {
	n := len(b.stack)
	if n < 2 {
		panic("lattice: Link requires at least two pending nodes")
	}
	top := b.stack[n-1]
	second := b.stack[n-2]
	b.links = append(b.links, linkRecord{a: second, b: top, opts: opts})
	b.stack = b.stack[:n-1]
}

// LinkTo connects the topmost pending node to an arbitrary earlier node
// without popping the stack. It panics if no node is pending.
func (b *Builder) LinkTo(id NodeID, opts LinkOptions) {
	n := len(b.stack)
	if n < 1 {
		panic("lattice: LinkTo requires a pending node")
	}
	top := b.stack[n-1]
	b.links = append(b.links, linkRecord{a: top, b: id, opts: opts})
}

// LinkNodes connects an explicit pair of nodes, independent of the
// cursor stack.
func (b *Builder) LinkNodes(a, c NodeID, opts LinkOptions) {
	b.links = append(b.links, linkRecord{a: a, b: c, opts: opts})
}

// Export inserts every authored node and link into nodes/links, in
// authoring order, and returns the handles assigned to each. It
// satisfies xpbd.LatticeImporter.
func (b *Builder) Export(nodes *xpbd.NodesTable, links *xpbd.LinksTable) (nodeHandles, linkHandles []table.Handle) {
	nodeHandles = make([]table.Handle, len(b.nodes))
	for i, nr := range b.nodes {
		if nr.fixed {
			nodeHandles[i] = nodes.PutFixed(nr.position)
		} else {
			nodeHandles[i] = nodes.Put(nr.position, nr.mass)
		}
	}

	linkHandles = make([]table.Handle, len(b.links))
	for i, lr := range b.links {
		a := nodeHandles[lr.a]
		c := nodeHandles[lr.b]

		rest := lr.opts.restLength
		if !lr.opts.restLengthIsSet {
			pa, _ := nodes.Position(a)
			pc, _ := nodes.Position(c)
			rest = pa.Sub(pc).Len()
		}

		linkHandles[i] = links.Put(a, c, lr.opts.Compliance, rest)
	}

	return nodeHandles, linkHandles
}

// NodeCount returns the number of nodes authored so far.
func (b *Builder) NodeCount() int { return len(b.nodes) }

// LinkCount returns the number of links authored so far.
func (b *Builder) LinkCount() int { return len(b.links) }
