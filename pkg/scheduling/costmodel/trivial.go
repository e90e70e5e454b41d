package costmodel

import (
	"time"

	pb "github.com/ms705/firmament/pkg/proto"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// trivialCostModel assigns flat, constant costs everywhere except the
// unscheduled-aggregator arc, which still has to grow with wait time to
// satisfy the CostModeler monotonicity contract (spec.md §4.2,
// "trivial (constant costs)"). Useful as a baseline and for tests that
// only care about flow feasibility, not placement quality.
// Grounded on coreos-ksched/scheduling/flow/costmodel/trivial_cost_modeler.go.
type trivialCostModel struct {
	*baseCostModel
}

var _ CostModeler = &trivialCostModel{}

func NewTrivialCostModel(resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64) CostModeler {
	return &trivialCostModel{newBaseCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)}
}

func (t *trivialCostModel) TaskToUnscheduledAgg(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(t.waitPenalty(id, time.Second, 1, 5), 1, 0)
}

func (t *trivialCostModel) UnscheduledAggToSink(util.JobID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (t *trivialCostModel) TaskToResourceNode(util.TaskID, util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(1, 1, 0)
}

func (t *trivialCostModel) ResourceNodeToResourceNode(_, _ *pb.ResourceDescriptor) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (t *trivialCostModel) LeafResourceNodeToSink(util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, t.maxTasksPerPu, 0)
}

func (t *trivialCostModel) TaskContinuation(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (t *trivialCostModel) TaskPreemption(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(1, 1, 0)
}

func (t *trivialCostModel) TaskToEquivClassAggregator(util.TaskID, util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(1, 1, 0)
}

func (t *trivialCostModel) EquivClassToResourceNode(util.EquivClass, util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(1, 1, 0)
}

func (t *trivialCostModel) EquivClassToEquivClass(_, _ util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(1, 1, 0)
}

func (t *trivialCostModel) GetTaskEquivClasses(util.TaskID) []util.EquivClass {
	return []util.EquivClass{ClusterAggregatorEC}
}

func (t *trivialCostModel) GetOutgoingEquivClassPrefArcs(util.EquivClass) []util.ResourceID {
	return t.allLeaves()
}

func (t *trivialCostModel) GetTaskPreferenceArcs(util.TaskID) []util.ResourceID {
	return nil
}

func (t *trivialCostModel) GetEquivClassToEquivClassesArcs(util.EquivClass) []util.EquivClass {
	return nil
}
