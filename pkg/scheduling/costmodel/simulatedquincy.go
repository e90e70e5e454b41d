package costmodel

import (
	"math/rand"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru"

	pb "github.com/ms705/firmament/pkg/proto"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// simulatedQuincyCostModel is quincy's "replay" sibling: instead of
// hashing a task id into the topology deterministically, it draws block
// holders from a simulated DFS trace with a configurable seed, so the
// same trace can be rerun to compare different solver/cost-model
// combinations against identical input (spec.md §4.2, "simulated-quincy
// (simulated DFS trace)").
type simulatedQuincyCostModel struct {
	*baseCostModel

	blockCache *lru.Cache
	trace      *rand.Rand
}

var _ CostModeler = &simulatedQuincyCostModel{}

// NewSimulatedQuincyCostModel builds a simulated-quincy cost model whose
// DFS trace is reproducible across runs given the same seed.
func NewSimulatedQuincyCostModel(resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64, traceSeed int64) CostModeler {
	cache, _ := lru.New(quincyBlockCacheSize)
	return &simulatedQuincyCostModel{
		baseCostModel: newBaseCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu),
		blockCache:    cache,
		trace:         rand.New(rand.NewSource(traceSeed)),
	}
}

func (s *simulatedQuincyCostModel) blockHolders(id util.TaskID) []util.ResourceID {
	if v, ok := s.blockCache.Get(id); ok {
		return v.([]util.ResourceID)
	}
	machines := s.allLeaves()
	sort.Slice(machines, func(i, j int) bool { return machines[i] < machines[j] })
	if len(machines) == 0 {
		return nil
	}
	n := quincyBlocksPerTask
	if n > len(machines) {
		n = len(machines)
	}
	s.mu.Lock()
	perm := s.trace.Perm(len(machines))
	s.mu.Unlock()
	holders := make([]util.ResourceID, 0, n)
	for i := 0; i < n; i++ {
		holders = append(holders, machines[perm[i]])
	}
	s.blockCache.Add(id, holders)
	return holders
}

func (s *simulatedQuincyCostModel) isBlockHolder(id util.TaskID, res util.ResourceID) bool {
	for _, h := range s.blockHolders(id) {
		if h == res {
			return true
		}
	}
	return false
}

func (s *simulatedQuincyCostModel) TaskToUnscheduledAgg(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(s.waitPenalty(id, time.Second, 2, quincyTransferCost), 1, 0)
}

func (s *simulatedQuincyCostModel) UnscheduledAggToSink(util.JobID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *simulatedQuincyCostModel) TaskToResourceNode(id util.TaskID, res util.ResourceID) ArcDescriptor {
	if s.isBlockHolder(id, res) {
		return NewArcDescriptor(quincyLocalCost, 1, 0)
	}
	return NewArcDescriptor(quincyTransferCost, 1, 0)
}

func (s *simulatedQuincyCostModel) ResourceNodeToResourceNode(_, _ *pb.ResourceDescriptor) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *simulatedQuincyCostModel) LeafResourceNodeToSink(util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, s.maxTasksPerPu, 0)
}

func (s *simulatedQuincyCostModel) TaskContinuation(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(quincyLocalCost, 1, 0)
}

func (s *simulatedQuincyCostModel) TaskPreemption(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(quincyTransferCost, 1, 0)
}

func (s *simulatedQuincyCostModel) TaskToEquivClassAggregator(util.TaskID, util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *simulatedQuincyCostModel) EquivClassToResourceNode(util.EquivClass, util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *simulatedQuincyCostModel) EquivClassToEquivClass(_, _ util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *simulatedQuincyCostModel) GetTaskEquivClasses(util.TaskID) []util.EquivClass {
	return nil
}

func (s *simulatedQuincyCostModel) GetOutgoingEquivClassPrefArcs(util.EquivClass) []util.ResourceID {
	return nil
}

func (s *simulatedQuincyCostModel) GetTaskPreferenceArcs(id util.TaskID) []util.ResourceID {
	return s.blockHolders(id)
}

func (s *simulatedQuincyCostModel) GetEquivClassToEquivClassesArcs(util.EquivClass) []util.EquivClass {
	return nil
}

func (s *simulatedQuincyCostModel) RemoveTask(id util.TaskID) {
	s.blockCache.Remove(id)
	s.baseCostModel.RemoveTask(id)
}

// AddMachine and RemoveMachine purge every cached block placement, so no
// cached pick names a removed leaf or ignores a new one.
func (s *simulatedQuincyCostModel) AddMachine(rtnd *pb.ResourceTopologyNodeDescriptor) {
	s.blockCache.Purge()
	s.baseCostModel.AddMachine(rtnd)
}

func (s *simulatedQuincyCostModel) RemoveMachine(id util.ResourceID) {
	s.blockCache.Purge()
	s.baseCostModel.RemoveMachine(id)
}
