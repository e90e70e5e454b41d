package flowgraph

import (
	"github.com/golang/glog"

	pb "github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/utility"
)

// NodeType enumerates the roles a flow-graph node can play (spec.md §3).
type NodeType int

const (
	NodeTypeRootTask NodeType = iota + 1
	NodeTypeScheduledTask
	NodeTypeUnscheduledTask
	NodeTypeJobAggregator
	NodeTypeSink
	NodeTypeEquivClass
	NodeTypeCoordinator
	NodeTypeMachine
	NodeTypeNuma
	NodeTypeSocket
	NodeTypeCache
	NodeTypeCore
	NodeTypePu
)

// Node is a node of the scheduling flow graph (spec.md §3, FlowGraphNode).
// Grounded on coreos-ksched/scheduling/flow/flowgraph/node.go, extended
// with the Potential/Visited fields NickrenREN-firmament-go's Graph and
// the mcmf solver rely on, and with an explicit EquivClass field.
type Node struct {
	ID NodeID
	// Excess is the supply of flow at this node: +1 for an unscheduled
	// task node, the complementary negative for the sink, 0 elsewhere.
	Excess  int64
	Type    NodeType
	Comment string

	// Task is the descriptor of the task this node represents (task
	// nodes only).
	Task  *pb.TaskDescriptor
	JobID utility.JobID

	// ResourceID/ResourceDescriptor identify the resource this node
	// represents (resource nodes only).
	ResourceID         utility.ResourceID
	ResourceDescriptor *pb.ResourceDescriptor

	// EquivClass identifies the equivalence class this node aggregates
	// (equivalence-class nodes only).
	EquivClass *utility.EquivClass

	OutgoingArcMap map[NodeID]*Arc
	IncomingArcMap map[NodeID]*Arc

	// Visited supports one-shot graph traversals (BFS/DFS); callers bump
	// a traversal-local counter rather than resetting every node.
	Visited uint32
	// Potential is the node potential maintained by the successive-
	// shortest-path mcmf solver between runs.
	Potential int64
}

func insertIfAbsent(m map[NodeID]*Arc, k NodeID, v *Arc) bool {
	if _, ok := m[k]; ok {
		return false
	}
	m[k] = v
	return true
}

// AddArc registers an arc outgoing from this node, and correspondingly
// incoming at its destination.
func (n *Node) AddArc(arc *Arc) {
	if arc.Src != n.ID {
		glog.Fatalf("flowgraph: AddArc: arc.Src %v != node %v", arc.Src, n.ID)
	}
	if !insertIfAbsent(n.OutgoingArcMap, arc.Dst, arc) {
		glog.Fatalf("flowgraph: AddArc: arc %v already present in node %v's outgoing map", arc, n.ID)
	}
	if !insertIfAbsent(arc.DstNode.IncomingArcMap, arc.Src, arc) {
		glog.Fatalf("flowgraph: AddArc: arc %v already present in node %v's incoming map", arc, arc.DstNode.ID)
	}
}

// GetRandomArc returns an arbitrary outgoing arc, or nil if the node has
// none.
func (n *Node) GetRandomArc() *Arc {
	for _, arc := range n.OutgoingArcMap {
		return arc
	}
	return nil
}

func (n *Node) IsEquivClassNode() bool { return n.Type == NodeTypeEquivClass }

func (n *Node) IsResourceNode() bool {
	switch n.Type {
	case NodeTypeCoordinator, NodeTypeMachine, NodeTypeNuma, NodeTypeSocket,
		NodeTypeCache, NodeTypeCore, NodeTypePu:
		return true
	default:
		return false
	}
}

func (n *Node) IsTaskNode() bool {
	switch n.Type {
	case NodeTypeRootTask, NodeTypeScheduledTask, NodeTypeUnscheduledTask:
		return true
	default:
		return false
	}
}

// IsScheduled reports whether this task node currently has a binding
// (spec.md §8 invariant 4: type(T)=Scheduled iff T is bound).
func (n *Node) IsScheduled() bool { return n.Type == NodeTypeScheduledTask }

// GetResidualy returns this resource node's unused capacity towards the
// sink: the sum of its direct arc capacities to/from sinkID, which for a
// leaf (PU) node is exactly its remaining task slots.
func (n *Node) GetResidualy(sinkID NodeID) uint64 {
	var residual uint64
	if arc, ok := n.OutgoingArcMap[sinkID]; ok {
		residual += arc.CapUpperBound
	}
	if arc, ok := n.IncomingArcMap[sinkID]; ok {
		residual += arc.CapUpperBound
	}
	return residual
}

func (n *Node) IsTaskAssignedOrRunning() bool {
	if n.Task == nil {
		glog.Fatalf("flowgraph: node %v has no TaskDescriptor", n.ID)
	}
	return n.Task.State == pb.TaskDescriptor_Assigned || n.Task.State == pb.TaskDescriptor_Running
}

// TransformToResourceNodeType maps a resource's position in the topology
// tree to the corresponding flow-graph NodeType.
func TransformToResourceNodeType(rd *pb.ResourceDescriptor) NodeType {
	switch rd.Type {
	case pb.ResourceDescriptor_ResourcePu:
		return NodeTypePu
	case pb.ResourceDescriptor_ResourceCore:
		return NodeTypeCore
	case pb.ResourceDescriptor_ResourceCache:
		return NodeTypeCache
	case pb.ResourceDescriptor_ResourceMachine:
		return NodeTypeMachine
	case pb.ResourceDescriptor_ResourceNumaNode:
		return NodeTypeNuma
	case pb.ResourceDescriptor_ResourceSocket:
		return NodeTypeSocket
	case pb.ResourceDescriptor_ResourceCoordinator:
		return NodeTypeCoordinator
	default:
		glog.Fatalf("flowgraph: unsupported resource type %v", rd.Type)
		return -1
	}
}
