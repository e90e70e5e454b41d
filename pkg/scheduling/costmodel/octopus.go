package costmodel

import (
	"time"

	pb "github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// octopusCostModel spreads load evenly across machines: the cost of
// placing a task on a resource grows with that resource's current
// occupancy ratio (NumRunningTasksBelow / NumSlotsBelow), so the solver
// prefers the least-loaded machine (spec.md §4.2, "octopus
// (load-balancing)"). Like whare-map it depends on the stats-dependent
// ComputeTopologyStatistics pass (spec.md §4.4).
type octopusCostModel struct {
	*baseCostModel
}

var _ CostModeler = &octopusCostModel{}

const octopusCostScale int64 = 1000

func NewOctopusCostModel(resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64) CostModeler {
	return &octopusCostModel{newBaseCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)}
}

// DependsOnTopologyStats is true: the occupancy ratio this model costs
// placements by reads NumRunningTasksBelow, rolled up only by
// ComputeTopologyStatistics.
func (o *octopusCostModel) DependsOnTopologyStats() bool { return true }

func (o *octopusCostModel) GatherStats(accumulator, other *flowgraph.Node) *flowgraph.Node {
	if !accumulator.IsResourceNode() || !other.IsResourceNode() {
		return accumulator
	}
	accumulator.ResourceDescriptor.NumRunningTasksBelow += other.ResourceDescriptor.NumRunningTasksBelow
	accumulator.ResourceDescriptor.NumSlotsBelow += other.ResourceDescriptor.NumSlotsBelow
	return accumulator
}

func (o *octopusCostModel) occupancyCost(res util.ResourceID) int64 {
	rs := o.resourceMap.FindPtrOrNull(res)
	if rs == nil || rs.Descriptor == nil || rs.Descriptor.NumSlotsBelow == 0 {
		return 0
	}
	ratio := float64(rs.Descriptor.NumRunningTasksBelow) / float64(rs.Descriptor.NumSlotsBelow)
	return int64(ratio * float64(octopusCostScale))
}

func (o *octopusCostModel) TaskToUnscheduledAgg(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(o.waitPenalty(id, time.Second, 1, 0), 1, 0)
}

func (o *octopusCostModel) UnscheduledAggToSink(util.JobID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (o *octopusCostModel) TaskToResourceNode(_ util.TaskID, res util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(o.occupancyCost(res), 1, 0)
}

func (o *octopusCostModel) ResourceNodeToResourceNode(_, _ *pb.ResourceDescriptor) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (o *octopusCostModel) LeafResourceNodeToSink(util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, o.maxTasksPerPu, 0)
}

func (o *octopusCostModel) TaskContinuation(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (o *octopusCostModel) TaskPreemption(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(octopusCostScale, 1, 0)
}

func (o *octopusCostModel) TaskToEquivClassAggregator(util.TaskID, util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (o *octopusCostModel) EquivClassToResourceNode(_ util.EquivClass, res util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(o.occupancyCost(res), 1, 0)
}

func (o *octopusCostModel) EquivClassToEquivClass(_, _ util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (o *octopusCostModel) GetTaskEquivClasses(util.TaskID) []util.EquivClass {
	return []util.EquivClass{ClusterAggregatorEC}
}

func (o *octopusCostModel) GetOutgoingEquivClassPrefArcs(util.EquivClass) []util.ResourceID {
	return o.allLeaves()
}

func (o *octopusCostModel) GetTaskPreferenceArcs(util.TaskID) []util.ResourceID {
	return nil
}

func (o *octopusCostModel) GetEquivClassToEquivClassesArcs(util.EquivClass) []util.EquivClass {
	return nil
}
