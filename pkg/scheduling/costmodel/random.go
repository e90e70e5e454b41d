package costmodel

import (
	"math/rand"
	"time"

	pb "github.com/ms705/firmament/pkg/proto"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// randomCostModel draws arc costs from a uniform distribution, except
// the leaf-to-sink arcs (cost 0) and the task-to-unscheduled arcs, whose
// cost is a fixed base plus the task's wait time so that it never
// decreases; it exists to stress-test the solver and flow graph maintenance against
// placements with no structure at all (spec.md §4.2, "random").
type randomCostModel struct {
	*baseCostModel
	rnd *rand.Rand
}

var _ CostModeler = &randomCostModel{}

const randomCostCeiling = 100

func NewRandomCostModel(resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64) CostModeler {
	return &randomCostModel{
		baseCostModel: newBaseCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu),
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *randomCostModel) randCost() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(r.rnd.Intn(randomCostCeiling))
}

func (r *randomCostModel) TaskToUnscheduledAgg(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(r.waitPenalty(id, time.Second, 1, randomCostCeiling), 1, 0)
}

func (r *randomCostModel) UnscheduledAggToSink(util.JobID) ArcDescriptor {
	return NewArcDescriptor(r.randCost(), 1, 0)
}

func (r *randomCostModel) TaskToResourceNode(util.TaskID, util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(r.randCost(), 1, 0)
}

func (r *randomCostModel) ResourceNodeToResourceNode(_, _ *pb.ResourceDescriptor) ArcDescriptor {
	return NewArcDescriptor(r.randCost(), 1, 0)
}

func (r *randomCostModel) LeafResourceNodeToSink(util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, r.maxTasksPerPu, 0)
}

func (r *randomCostModel) TaskContinuation(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(r.randCost(), 1, 0)
}

func (r *randomCostModel) TaskPreemption(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(r.randCost(), 1, 0)
}

func (r *randomCostModel) TaskToEquivClassAggregator(util.TaskID, util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(r.randCost(), 1, 0)
}

func (r *randomCostModel) EquivClassToResourceNode(util.EquivClass, util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(r.randCost(), 1, 0)
}

func (r *randomCostModel) EquivClassToEquivClass(_, _ util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(r.randCost(), 1, 0)
}

func (r *randomCostModel) GetTaskEquivClasses(util.TaskID) []util.EquivClass {
	return []util.EquivClass{ClusterAggregatorEC}
}

func (r *randomCostModel) GetOutgoingEquivClassPrefArcs(util.EquivClass) []util.ResourceID {
	return r.allLeaves()
}

func (r *randomCostModel) GetTaskPreferenceArcs(util.TaskID) []util.ResourceID {
	return nil
}

func (r *randomCostModel) GetEquivClassToEquivClassesArcs(util.EquivClass) []util.EquivClass {
	return nil
}
