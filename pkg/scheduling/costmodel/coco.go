package costmodel

import (
	"time"

	pb "github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// cocoCostModel reserves a task's full multi-dimensional resource
// request (cores and memory, folded into PU-equivalent RequestSlots)
// against a machine's remaining capacity and costs a placement by how
// tightly it packs the machine, so bin-packing-friendly placements beat
// spreading tasks thin (spec.md §4.2, "coco (multi-dimensional resource
// reservations)"; the solver itself stays min-cost flow, this only
// shapes the costs it optimises over).
// Grounded on NickrenREN-firmament-go/pkg/scheduling/costmodel/
// direct_mapping_cost_model.go, whose slot-packing cost function this
// adapts onto this module's ResourceVector/RequestSlots types.
type cocoCostModel struct {
	*baseCostModel
}

var _ CostModeler = &cocoCostModel{}

const (
	cocoMaxCost     int64 = 1000
	cocoUnfitCost   int64 = cocoMaxCost
	cocoBaseUnsched int64 = 5
)

func NewCocoCostModel(resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64) CostModeler {
	return &cocoCostModel{newBaseCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)}
}

// DependsOnTopologyStats is true: packingCost reads NumRunningTasksBelow,
// rolled up only by ComputeTopologyStatistics.
func (c *cocoCostModel) DependsOnTopologyStats() bool { return true }

// packingCost returns cocoUnfitCost when the task does not fit on the
// resource's remaining capacity, otherwise a cost that falls as the
// post-placement occupancy ratio rises (prefer the tightest fit that
// still leaves the task room).
func (c *cocoCostModel) packingCost(taskID util.TaskID, res util.ResourceID) int64 {
	requested := c.slotsForTask(taskID)
	rs := c.resourceMap.FindPtrOrNull(res)
	if rs == nil || rs.Descriptor == nil {
		return cocoUnfitCost
	}
	capacity := NewRequestSlots(&rs.Descriptor.Capacity)
	used := RequestSlots(rs.Descriptor.NumRunningTasksBelow)
	available := capacity - used
	if requested <= 0 || requested > available {
		return cocoUnfitCost
	}
	postOccupancy := float64(used+requested) / float64(capacity)
	return int64((1 - postOccupancy) * float64(cocoMaxCost))
}

func (c *cocoCostModel) TaskToUnscheduledAgg(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(c.waitPenalty(id, time.Second, 3, cocoBaseUnsched), 1, 0)
}

func (c *cocoCostModel) UnscheduledAggToSink(util.JobID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (c *cocoCostModel) TaskToResourceNode(id util.TaskID, res util.ResourceID) ArcDescriptor {
	slots := c.slotsForTask(id)
	return NewArcDescriptor(c.packingCost(id, res), uint64(slots), 0)
}

func (c *cocoCostModel) ResourceNodeToResourceNode(_, _ *pb.ResourceDescriptor) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (c *cocoCostModel) LeafResourceNodeToSink(res util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, uint64(c.slotsForResource(res)), 0)
}

func (c *cocoCostModel) TaskContinuation(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(0, uint64(c.slotsForTask(id)), 0)
}

func (c *cocoCostModel) TaskPreemption(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(cocoMaxCost, 1, 0)
}

func (c *cocoCostModel) TaskToEquivClassAggregator(util.TaskID, util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (c *cocoCostModel) EquivClassToResourceNode(_ util.EquivClass, res util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, uint64(c.slotsForResource(res)), 0)
}

func (c *cocoCostModel) EquivClassToEquivClass(_, _ util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (c *cocoCostModel) GetTaskEquivClasses(util.TaskID) []util.EquivClass {
	return nil
}

func (c *cocoCostModel) GetOutgoingEquivClassPrefArcs(util.EquivClass) []util.ResourceID {
	return nil
}

func (c *cocoCostModel) GetTaskPreferenceArcs(util.TaskID) []util.ResourceID {
	return c.allLeaves()
}

func (c *cocoCostModel) GetEquivClassToEquivClassesArcs(util.EquivClass) []util.EquivClass {
	return nil
}

// GatherStats rolls a child resource's running-task count up to its
// parent, the occupancy figure packingCost reads back via resourceMap.
func (c *cocoCostModel) GatherStats(accumulator, other *flowgraph.Node) *flowgraph.Node {
	if !accumulator.IsResourceNode() || !other.IsResourceNode() {
		return accumulator
	}
	accumulator.ResourceDescriptor.NumRunningTasksBelow += other.ResourceDescriptor.NumRunningTasksBelow
	return accumulator
}
