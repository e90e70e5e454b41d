package flowgraph

// ArcType distinguishes a plain preference/structural arc from one that
// currently carries a scheduled task's flow (spec.md §3, "arc class" in
// the GLOSSARY is a finer-grained notion than this; ArcType here is the
// coarse running/other split the solver and delta conversion need).
type ArcType int

const (
	ArcTypeOther ArcType = iota
	ArcTypeRunning
)

// ArcClass is the role an arc plays in the flow graph (spec.md §3); it
// determines which CostModeler method produced its cost and governs the
// lifecycle edits in spec.md §4.1's arc-edit table.
type ArcClass int

const (
	ArcClassTaskToEquivClass ArcClass = iota
	ArcClassTaskToResourcePreference
	ArcClassTaskToUnscheduled
	ArcClassTaskToClusterAgg
	ArcClassEquivToResource
	ArcClassEquivToEquiv
	ArcClassResourceInternal
	ArcClassResourceToSink
	ArcClassUnscheduledToSink

	// ArcClassTest tags arcs built by hand-rolled benchmark/test graphs
	// (pkg/scheduling/algorithms/mcmf's own tests) that exercise the
	// solver algorithms directly, outside the flowmanager/cost-model
	// lifecycle that would otherwise assign a real class.
	ArcClassTest
)

// Arc is a directed, capacitated, costed edge of the flow graph
// (spec.md §3, FlowGraphArc). Grounded on
// coreos-ksched/scheduling/flow/flowgraph/arc.go, extended with the
// ArcClass field spec.md requires arcs to be indexed by (src,dst,class)
// and with the SrcNode/DstNode back-references the teacher's Graph
// relies on for O(1) traversal.
type Arc struct {
	Src, Dst           NodeID
	SrcNode, DstNode   *Node
	CapLowerBound      uint64
	CapUpperBound      uint64
	Cost               int64
	Type               ArcType
	Class              ArcClass
}

// NewArc creates a zero-capacity, zero-cost arc between two existing
// nodes. Capacity and cost are set afterwards by the caller (mirrors
// Graph.AddArc / AddArcWithCapAndCost in the teacher).
func NewArc(src, dst *Node) *Arc {
	return &Arc{
		Src:     src.ID,
		Dst:     dst.ID,
		SrcNode: src,
		DstNode: dst,
	}
}
