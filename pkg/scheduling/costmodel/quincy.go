package costmodel

import (
	"hash/fnv"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru"

	pb "github.com/ms705/firmament/pkg/proto"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// quincyCostModel approximates data-locality scheduling: each task has a
// small set of leaf resources holding its input blocks, picked from the
// leaf ids in ascending order starting at an offset hashed from the task
// id, and arcs to those leaves are cheap while every other leaf costs a
// flat "transfer" penalty (spec.md §4.2, "quincy (data-locality via DFS
// block placement)"). The pick is recomputed only on a cache miss; the
// cache is purged whenever a machine is added or removed.
type quincyCostModel struct {
	*baseCostModel

	blockCache *lru.Cache
}

var _ CostModeler = &quincyCostModel{}

const (
	quincyBlocksPerTask  = 3
	quincyLocalCost      = 1
	quincyTransferCost   = 50
	quincyBlockCacheSize = 4096
)

func NewQuincyCostModel(resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64) CostModeler {
	cache, _ := lru.New(quincyBlockCacheSize)
	return &quincyCostModel{
		baseCostModel: newBaseCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu),
		blockCache:    cache,
	}
}

// blockHolders returns the leaf resources this task's simulated input
// blocks are on: quincyBlocksPerTask consecutive entries of the sorted
// leaf ids, starting at an offset hashed from the task id, so repeated
// calls agree without needing a real block placement service.
func (q *quincyCostModel) blockHolders(id util.TaskID) []util.ResourceID {
	if v, ok := q.blockCache.Get(id); ok {
		return v.([]util.ResourceID)
	}
	machines := q.allLeaves()
	sort.Slice(machines, func(i, j int) bool { return machines[i] < machines[j] })
	if len(machines) == 0 {
		return nil
	}
	h := fnv.New64a()
	for _, b := range []byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)} {
		h.Write([]byte{b})
	}
	start := int(h.Sum64() % uint64(len(machines)))
	n := quincyBlocksPerTask
	if n > len(machines) {
		n = len(machines)
	}
	holders := make([]util.ResourceID, 0, n)
	for i := 0; i < n; i++ {
		holders = append(holders, machines[(start+i)%len(machines)])
	}
	q.blockCache.Add(id, holders)
	return holders
}

func (q *quincyCostModel) isBlockHolder(id util.TaskID, res util.ResourceID) bool {
	for _, h := range q.blockHolders(id) {
		if h == res {
			return true
		}
	}
	return false
}

func (q *quincyCostModel) TaskToUnscheduledAgg(id util.TaskID) ArcDescriptor {
	return NewArcDescriptor(q.waitPenalty(id, time.Second, 2, quincyTransferCost), 1, 0)
}

func (q *quincyCostModel) UnscheduledAggToSink(util.JobID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (q *quincyCostModel) TaskToResourceNode(id util.TaskID, res util.ResourceID) ArcDescriptor {
	if q.isBlockHolder(id, res) {
		return NewArcDescriptor(quincyLocalCost, 1, 0)
	}
	return NewArcDescriptor(quincyTransferCost, 1, 0)
}

func (q *quincyCostModel) ResourceNodeToResourceNode(_, _ *pb.ResourceDescriptor) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (q *quincyCostModel) LeafResourceNodeToSink(util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, q.maxTasksPerPu, 0)
}

func (q *quincyCostModel) TaskContinuation(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(quincyLocalCost, 1, 0)
}

func (q *quincyCostModel) TaskPreemption(util.TaskID) ArcDescriptor {
	return NewArcDescriptor(quincyTransferCost, 1, 0)
}

func (q *quincyCostModel) TaskToEquivClassAggregator(util.TaskID, util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (q *quincyCostModel) EquivClassToResourceNode(util.EquivClass, util.ResourceID) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (q *quincyCostModel) EquivClassToEquivClass(_, _ util.EquivClass) ArcDescriptor {
	return NewArcDescriptor(0, 1, 0)
}

func (q *quincyCostModel) GetTaskEquivClasses(util.TaskID) []util.EquivClass {
	return nil
}

func (q *quincyCostModel) GetOutgoingEquivClassPrefArcs(util.EquivClass) []util.ResourceID {
	return nil
}

// GetTaskPreferenceArcs restricts the flow graph to the task's block
// holders only, instead of wiring an arc to every leaf in the cluster.
func (q *quincyCostModel) GetTaskPreferenceArcs(id util.TaskID) []util.ResourceID {
	return q.blockHolders(id)
}

func (q *quincyCostModel) GetEquivClassToEquivClassesArcs(util.EquivClass) []util.EquivClass {
	return nil
}

// RemoveTask drops the task's cached block placement before handing off
// to the base bookkeeping.
func (q *quincyCostModel) RemoveTask(id util.TaskID) {
	q.blockCache.Remove(id)
	q.baseCostModel.RemoveTask(id)
}

// AddMachine and RemoveMachine purge every cached block placement, so no
// cached pick names a removed leaf or ignores a new one.
func (q *quincyCostModel) AddMachine(rtnd *pb.ResourceTopologyNodeDescriptor) {
	q.blockCache.Purge()
	q.baseCostModel.AddMachine(rtnd)
}

func (q *quincyCostModel) RemoveMachine(id util.ResourceID) {
	q.blockCache.Purge()
	q.baseCostModel.RemoveMachine(id)
}
