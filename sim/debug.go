package sim

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// DumpToggle gates DebugDump. Off by default; flip it on in a debug
// build of razed-demo to see per-tick lattice state on stdout.
const DumpToggle = false

// DebugDump prints the live node and link tables as two go-pretty
// tables. Cheap relative to a Tick, but not free — gated by DumpToggle.
func (w *World) DebugDump() {
	if !DumpToggle {
		return
	}

	nodes := w.solver.Nodes()
	links := w.solver.Links()

	nodeTable := table.NewWriter()
	nodeTable.SetTitle(fmt.Sprintf("Nodes (%d live)", nodes.LiveCount()))
	nodeTable.AppendHeader(table.Row{"Handle", "X", "Y", "Z", "Fixed"})
	for _, h := range nodes.Handles()[1:] {
		pos, ok := nodes.Position(h)
		if !ok {
			continue
		}
		invMass, _ := nodes.InverseMass(h)
		nodeTable.AppendRow(table.Row{h, pos.X(), pos.Y(), pos.Z(), invMass == 0})
	}
	fmt.Println(nodeTable.Render())

	linkTable := table.NewWriter()
	linkTable.SetTitle(fmt.Sprintf("Links (%d live)", links.LiveCount()))
	linkTable.AppendHeader(table.Row{"Handle", "NodeA", "NodeB", "RestLength"})
	for _, h := range links.Handles()[1:] {
		a, b, ok := links.Endpoints(h)
		if !ok {
			continue
		}
		rest, _ := links.RestLength(h)
		linkTable.AppendRow(table.Row{h, a, b, rest})
	}
	fmt.Println(linkTable.Render())
}
