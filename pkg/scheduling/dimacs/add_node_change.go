package dimacs

import (
	"strconv"

	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
)

// AddNodeChange records the addition of a node to the flow graph.
type AddNodeChange struct {
	commentChange
	ID     flowgraph.NodeID
	Excess int64
	Typ    flowgraph.NodeType
}

func NewAddNodeChange(n *flowgraph.Node) *AddNodeChange {
	return &AddNodeChange{ID: n.ID, Excess: n.Excess, Typ: n.Type}
}

func (an *AddNodeChange) GenerateChange() string {
	return "n " + strconv.FormatUint(uint64(an.ID), 10) +
		" " + strconv.FormatInt(an.Excess, 10) +
		" " + strconv.Itoa(int(an.dimacsNodeType())) + "\n"
}

func (an *AddNodeChange) dimacsNodeType() NodeType {
	switch an.Typ {
	case flowgraph.NodeTypePu:
		return NodeTypePu
	case flowgraph.NodeTypeMachine:
		return NodeTypeMachine
	case flowgraph.NodeTypeSink:
		return NodeTypeSink
	case flowgraph.NodeTypeNuma, flowgraph.NodeTypeSocket, flowgraph.NodeTypeCache, flowgraph.NodeTypeCore, flowgraph.NodeTypeCoordinator:
		return NodeTypeIntermediateResource
	case flowgraph.NodeTypeUnscheduledTask, flowgraph.NodeTypeScheduledTask, flowgraph.NodeTypeRootTask:
		return NodeTypeTask
	default:
		return NodeTypeOther
	}
}
