package dimacs

import (
	"fmt"
	"io"
	"sort"

	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
)

// Export serializes the full graph to w in DIMACS format. Nodes are
// emitted in ascending id order and arcs within a node in ascending
// (dst,class) order, matching spec.md §4.1's determinism requirement
// ("serializing the graph twice without intervening mutation produces
// byte-identical output", spec.md §8 invariant 6).
func Export(g *flowgraph.Graph, w io.Writer) {
	fmt.Fprint(w, "c ===========================\n")
	fmt.Fprintf(w, "p min %d %d\n", g.NumNodes(), g.NumArcs())
	fmt.Fprint(w, "c ===========================\n")

	fmt.Fprint(w, "c === ALL NODES FOLLOW ===\n")
	ids := make([]flowgraph.NodeID, 0, len(g.Nodes()))
	for id := range g.Nodes() {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		generateNode(g.Node(id), w)
	}

	fmt.Fprint(w, "c === ALL ARCS FOLLOW ===\n")
	for _, id := range ids {
		n := g.Node(id)
		dsts := make([]flowgraph.NodeID, 0, len(n.OutgoingArcMap))
		for dst := range n.OutgoingArcMap {
			dsts = append(dsts, dst)
		}
		sort.Slice(dsts, func(i, j int) bool { return dsts[i] < dsts[j] })
		for _, dst := range dsts {
			generateArc(n.OutgoingArcMap[dst], w)
		}
	}

	fmt.Fprint(w, "c EOI\n")
}

// ExportIncremental serializes only the given changes, in the order
// recorded, for the solver's incremental-input mode.
func ExportIncremental(changes []Change, w io.Writer) {
	for _, change := range changes {
		fmt.Fprint(w, change.GenerateChangeDescription())
		fmt.Fprint(w, change.GenerateChange())
	}
	fmt.Fprint(w, "c EOI\n")
}

func generateNode(n *flowgraph.Node, w io.Writer) {
	switch {
	case n.ResourceDescriptor != nil:
		fmt.Fprintf(w, "c nd Res_%s\n", n.ResourceDescriptor.Uuid)
	case n.Task != nil:
		fmt.Fprintf(w, "c nd Task_%d\n", n.Task.Uid)
	case n.EquivClass != nil:
		fmt.Fprintf(w, "c nd EC_%d\n", *n.EquivClass)
	case n.Comment != "":
		fmt.Fprintf(w, "c nd %s\n", n.Comment)
	}

	nodeType := NodeTypeOther
	switch n.Type {
	case flowgraph.NodeTypePu:
		nodeType = NodeTypePu
	case flowgraph.NodeTypeMachine:
		nodeType = NodeTypeMachine
	case flowgraph.NodeTypeNuma, flowgraph.NodeTypeSocket, flowgraph.NodeTypeCache, flowgraph.NodeTypeCore, flowgraph.NodeTypeCoordinator:
		nodeType = NodeTypeIntermediateResource
	case flowgraph.NodeTypeSink:
		nodeType = NodeTypeSink
	case flowgraph.NodeTypeUnscheduledTask, flowgraph.NodeTypeScheduledTask, flowgraph.NodeTypeRootTask:
		nodeType = NodeTypeTask
	}

	fmt.Fprintf(w, "n %d %d %d\n", n.ID, n.Excess, nodeType)
}

func generateArc(arc *flowgraph.Arc, w io.Writer) {
	fmt.Fprintf(w, "a %d %d %d %d %d\n",
		arc.Src, arc.Dst, arc.CapLowerBound, arc.CapUpperBound, arc.Cost)
}
