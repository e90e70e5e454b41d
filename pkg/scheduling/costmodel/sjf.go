package costmodel

import (
	"time"

	pb "github.com/ms705/firmament/pkg/proto"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// sjfCostModel favours whichever task is expected to finish soonest,
// using a per-task-name knowledge base of observed runtimes in place of
// Firmament's full knowledge-base service (spec.md §4.2,
// "shortest-job-first (uses knowledge-base runtime estimates)";
// Non-goals exclude the knowledge-base RPC surface itself). The estimate
// is refined every time a task of that name completes.
type sjfCostModel struct {
	*baseCostModel

	avgRuntime     map[string]time.Duration
	runtimeSamples map[string]int
}

var _ CostModeler = &sjfCostModel{}

const (
	sjfMaxCost           int64 = 5000
	sjfDefaultEstimate         = 10 * time.Second
	sjfUnscheduledPerSec int64 = 2
)

func NewSJFCostModel(resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64) CostModeler {
	return &sjfCostModel{
		baseCostModel:  newBaseCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu),
		avgRuntime:     make(map[string]time.Duration),
		runtimeSamples: make(map[string]int),
	}
}

func (s *sjfCostModel) estimatedRuntime(id util.TaskID) time.Duration {
	td := s.taskMap.FindPtrOrNull(id)
	if td == nil {
		return sjfDefaultEstimate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.avgRuntime[td.Name]; ok {
		return d
	}
	return sjfDefaultEstimate
}

// RemoveTask folds the task's observed lifetime into the running average
// for its name before handing off to the base bookkeeping.
func (s *sjfCostModel) RemoveTask(id util.TaskID) {
	td := s.taskMap.FindPtrOrNull(id)
	s.mu.Lock()
	if td != nil {
		if arrival, ok := s.taskArrival[id]; ok {
			observed := time.Since(arrival)
			n := s.runtimeSamples[td.Name]
			prev := s.avgRuntime[td.Name]
			s.avgRuntime[td.Name] = (prev*time.Duration(n) + observed) / time.Duration(n+1)
			s.runtimeSamples[td.Name] = n + 1
		}
	}
	s.mu.Unlock()
	s.baseCostModel.RemoveTask(id)
}

func (s *sjfCostModel) costFromRuntime(d time.Duration) int64 {
	c := int64(d / time.Second)
	if c > sjfMaxCost {
		return sjfMaxCost
	}
	return c
}

func (s *sjfCostModel) TaskToUnscheduledAgg(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(s.waitPenalty(id, time.Second, sjfUnscheduledPerSec, sjfMaxCost), 1, 0)
}

func (s *sjfCostModel) UnscheduledAggToSink(util.JobID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *sjfCostModel) TaskToResourceNode(id util.TaskID, _ util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(s.costFromRuntime(s.estimatedRuntime(id)), 1, 0)
}

func (s *sjfCostModel) ResourceNodeToResourceNode(_, _ *pb.ResourceDescriptor) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *sjfCostModel) LeafResourceNodeToSink(util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, s.maxTasksPerPu, 0)
}

func (s *sjfCostModel) TaskContinuation(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(s.costFromRuntime(s.estimatedRuntime(id))/2, 1, 0)
}

func (s *sjfCostModel) TaskPreemption(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(sjfMaxCost, 1, 0)
}

func (s *sjfCostModel) TaskToEquivClassAggregator(util.TaskID, util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *sjfCostModel) EquivClassToResourceNode(util.EquivClass, util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *sjfCostModel) EquivClassToEquivClass(_, _ util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (s *sjfCostModel) GetTaskEquivClasses(util.TaskID) []util.EquivClass {
	return nil
}

func (s *sjfCostModel) GetOutgoingEquivClassPrefArcs(util.EquivClass) []util.ResourceID {
	return nil
}

func (s *sjfCostModel) GetTaskPreferenceArcs(util.TaskID) []util.ResourceID {
	return s.allLeaves()
}

func (s *sjfCostModel) GetEquivClassToEquivClassesArcs(util.EquivClass) []util.EquivClass {
	return nil
}
