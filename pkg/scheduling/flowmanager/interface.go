package flowmanager

import (
	pb "github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
	"github.com/ms705/firmament/pkg/scheduling/utility"
)

// GraphManager owns the live flowgraph.Graph and keeps it in sync with
// job/task/resource lifecycle events (spec.md §4.1). It mutates the
// graph exclusively through a GraphChangeManager so every edit is also
// captured as a dimacs.Change for the next incremental solver run.
// Grounded on NickrenREN-firmament-go/pkg/scheduling/flowmanager/interface.go.
type GraphManager interface {
	LeafNodeIDs() map[flowgraph.NodeID]struct{}
	SinkNode() *flowgraph.Node
	GraphChangeManager() GraphChangeManager

	AddOrUpdateJobNodes(jobs []*pb.JobDescriptor)

	UpdateTimeDependentCosts(jobs []*pb.JobDescriptor)

	// AddResourceTopology adds an entire resource topology tree rooted at
	// topo, updating TopologyStatistics on every ancestor up to the root.
	AddResourceTopology(topo *pb.ResourceTopologyNodeDescriptor)

	UpdateResourceTopology(rtnd *pb.ResourceTopologyNodeDescriptor)

	ComputeTopologyStatistics(node *flowgraph.Node)

	JobCompleted(id utility.JobID)
	JobRemoved(id utility.JobID)

	NodeBindingToSchedulingDelta(taskNodeID, resourceNodeID flowgraph.NodeID,
		taskBindings map[utility.TaskID]utility.ResourceID) *pb.SchedulingDelta

	SchedulingDeltasForPreemptedTasks(taskMapping TaskMapping, rmap *utility.ResourceMap) []pb.SchedulingDelta

	// PurgeUnconnectedEquivClassNodes removes equivalence-class nodes left
	// without arcs after a task state change, preference change or
	// resource removal; task, resource and unscheduled-agg nodes can never
	// end up unconnected so they need no equivalent pass.
	PurgeUnconnectedEquivClassNodes()

	// RemoveResourceTopology removes the tree rooted at rd, updating
	// TopologyStatistics on every remaining ancestor, and returns the ids
	// of the PU nodes that were removed so callers can evict any tasks
	// bound to them.
	RemoveResourceTopology(rd *pb.ResourceDescriptor) []flowgraph.NodeID

	TaskCompleted(id utility.TaskID) flowgraph.NodeID
	TaskEvicted(id utility.TaskID, rid utility.ResourceID)
	TaskFailed(id utility.TaskID)
	TaskKilled(id utility.TaskID)
	TaskMigrated(id utility.TaskID, from, to utility.ResourceID)
	TaskScheduled(id utility.TaskID, rid utility.ResourceID)

	// UpdateAllCostsToUnscheduledAggs refreshes every task's arc to its
	// unscheduled aggregator, and for running tasks their continuation
	// cost, ahead of a scheduling round (spec.md §4.2 time-dependent
	// costs).
	UpdateAllCostsToUnscheduledAggs()
}
