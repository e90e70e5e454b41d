package costmodel

import (
	"time"

	pb "github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// whareMapCostModel penalises placing a task on a machine that is
// already host to many co-running tasks, as a proxy for the
// micro-architectural interference Whare-Map's classifier measures
// directly (spec.md §4.2, "whare-map (interference map)"; the
// classifier itself and its profiling RPCs are out of scope). The
// interference estimate comes from NumRunningTasksBelow, refreshed by
// GatherStats during the stats-dependent ComputeTopologyStatistics pass
// the flow scheduler runs for this model (spec.md §4.4).
type whareMapCostModel struct {
	*baseCostModel
}

var _ CostModeler = &whareMapCostModel{}

const (
	whareBaseCost            int64 = 10
	whareInterferencePerTask int64 = 15
)

func NewWhareMapCostModel(resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64) CostModeler {
	return &whareMapCostModel{newBaseCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)}
}

// DependsOnTopologyStats is true: the interference estimate reads
// NumRunningTasksBelow, which only ComputeTopologyStatistics refreshes.
func (w *whareMapCostModel) DependsOnTopologyStats() bool { return true }

// GatherStats rolls a child resource node's running-task count into its
// parent's, the same bottom-up accumulation TopologyStatistics performs
// for NumSlotsBelow.
func (w *whareMapCostModel) GatherStats(accumulator, other *flowgraph.Node) *flowgraph.Node {
	if !accumulator.IsResourceNode() || !other.IsResourceNode() {
		return accumulator
	}
	accumulator.ResourceDescriptor.NumRunningTasksBelow += other.ResourceDescriptor.NumRunningTasksBelow
	return accumulator
}

func (w *whareMapCostModel) interferenceCost(res util.ResourceID) int64 {
	rs := w.resourceMap.FindPtrOrNull(res)
	if rs == nil || rs.Descriptor == nil {
		return whareBaseCost
	}
	return whareBaseCost + int64(rs.Descriptor.NumRunningTasksBelow)*whareInterferencePerTask
}

func (w *whareMapCostModel) TaskToUnscheduledAgg(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(w.waitPenalty(id, time.Second, 1, whareBaseCost), 1, 0)
}

func (w *whareMapCostModel) UnscheduledAggToSink(util.JobID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (w *whareMapCostModel) TaskToResourceNode(_ util.TaskID, res util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(w.interferenceCost(res), 1, 0)
}

func (w *whareMapCostModel) ResourceNodeToResourceNode(_, _ *pb.ResourceDescriptor) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (w *whareMapCostModel) LeafResourceNodeToSink(util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, w.maxTasksPerPu, 0)
}

func (w *whareMapCostModel) TaskContinuation(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(whareBaseCost, 1, 0)
}

func (w *whareMapCostModel) TaskPreemption(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(whareBaseCost*2, 1, 0)
}

func (w *whareMapCostModel) TaskToEquivClassAggregator(util.TaskID, util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (w *whareMapCostModel) EquivClassToResourceNode(_ util.EquivClass, res util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(w.interferenceCost(res), 1, 0)
}

func (w *whareMapCostModel) EquivClassToEquivClass(_, _ util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (w *whareMapCostModel) GetTaskEquivClasses(util.TaskID) []util.EquivClass {
	return []util.EquivClass{ClusterAggregatorEC}
}

func (w *whareMapCostModel) GetOutgoingEquivClassPrefArcs(util.EquivClass) []util.ResourceID {
	return w.allLeaves()
}

func (w *whareMapCostModel) GetTaskPreferenceArcs(util.TaskID) []util.ResourceID {
	return nil
}

func (w *whareMapCostModel) GetEquivClassToEquivClassesArcs(util.EquivClass) []util.EquivClass {
	return nil
}
