package costmodel

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aybabtme/uniplot/histogram"

	pb "github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// baseCostModel holds the bookkeeping every concrete cost model needs:
// lookup tables for live tasks/resources, the per-task arrival clock that
// makes TaskToUnscheduledAgg monotone, and the resource topology handed to
// it via AddMachine/RemoveMachine. Every CostModeler implementation in
// this package embeds it and overrides only the cost/preference methods
// that actually differ, so the lifecycle and stats plumbing is written
// once.
// Grounded on coreos-ksched/scheduling/flow/costmodel/trivial_cost_modeler.go.
type baseCostModel struct {
	mu sync.Mutex

	resourceMap      *util.ResourceMap
	taskMap          *util.TaskMap
	leafResIDset     map[util.ResourceID]struct{}
	machineToResTopo map[util.ResourceID]*pb.ResourceTopologyNodeDescriptor
	taskArrival      map[util.TaskID]time.Time
	maxTasksPerPu    uint64
}

func newBaseCostModel(resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64) *baseCostModel {
	return &baseCostModel{
		resourceMap:      resourceMap,
		taskMap:          taskMap,
		leafResIDset:     leafResIDset,
		machineToResTopo: make(map[util.ResourceID]*pb.ResourceTopologyNodeDescriptor),
		taskArrival:      make(map[util.TaskID]time.Time),
		maxTasksPerPu:    maxTasksPerPu,
	}
}

// waitPenalty grows monotonically with how long id has been waiting,
// which is what lets every concrete model satisfy the
// TaskToUnscheduledAgg monotonicity invariant (spec.md §4.2) without
// repeating the bookkeeping.
func (b *baseCostModel) waitPenalty(id util.TaskID, unit time.Duration, perUnit, base int64) int64 {
	b.mu.Lock()
	arrival, ok := b.taskArrival[id]
	b.mu.Unlock()
	if !ok {
		return base
	}
	waited := time.Since(arrival)
	return base + int64(waited/unit)*perUnit
}

func (b *baseCostModel) AddMachine(rtnd *pb.ResourceTopologyNodeDescriptor) {
	id := util.MustResourceIDFromUUID(rtnd.ResourceDesc.Uuid)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.machineToResTopo[id] = rtnd
}

func (b *baseCostModel) AddTask(id util.TaskID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.taskArrival[id]; !ok {
		b.taskArrival[id] = time.Now()
	}
}

func (b *baseCostModel) RemoveMachine(id util.ResourceID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.machineToResTopo, id)
}

func (b *baseCostModel) RemoveTask(id util.TaskID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.taskArrival, id)
}

func (b *baseCostModel) GatherStats(accumulator, _ *flowgraph.Node) *flowgraph.Node {
	return accumulator
}

func (b *baseCostModel) PrepareStats(*flowgraph.Node) {}

func (b *baseCostModel) UpdateStats(accumulator, _ *flowgraph.Node) *flowgraph.Node {
	return accumulator
}

// DependsOnTopologyStats defaults to false: most models cost arcs purely
// from the task/resource descriptors they're handed, with no need for the
// bottom-up ComputeTopologyStatistics rollup.
func (b *baseCostModel) DependsOnTopologyStats() bool { return false }

// DebugInfo renders a histogram of how long currently-pending tasks have
// been waiting, a quick visual check for starvation under whichever
// concrete cost model is running.
func (b *baseCostModel) DebugInfo() string {
	b.mu.Lock()
	waits := make([]float64, 0, len(b.taskArrival))
	for _, arrival := range b.taskArrival {
		waits = append(waits, time.Since(arrival).Seconds())
	}
	b.mu.Unlock()
	if len(waits) == 0 {
		return "no pending tasks"
	}
	sort.Float64s(waits)
	var buf bytes.Buffer
	hist := histogram.Hist(10, waits)
	if err := histogram.Fprint(&buf, hist, histogram.Linear(40)); err != nil {
		return fmt.Sprintf("histogram error: %v", err)
	}
	return buf.String()
}

func (b *baseCostModel) DebugInfoCSV() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var buf bytes.Buffer
	buf.WriteString("task_id,wait_seconds\n")
	for id, arrival := range b.taskArrival {
		fmt.Fprintf(&buf, "%d,%.3f\n", id, time.Since(arrival).Seconds())
	}
	return buf.String()
}

func (b *baseCostModel) slotsForTask(id util.TaskID) RequestSlots {
	td := b.taskMap.FindPtrOrNull(id)
	if td == nil {
		return 0
	}
	return NewRequestSlots(&td.ResourceRequest)
}

func (b *baseCostModel) slotsForResource(id util.ResourceID) RequestSlots {
	b.mu.Lock()
	rtnd, ok := b.machineToResTopo[id]
	b.mu.Unlock()
	if !ok {
		return 0
	}
	return NewRequestSlots(&rtnd.ResourceDesc.Capacity)
}

// allLeaves returns the current leaf (PU) resource ids; models whose
// preference arcs fan out to every machine (trivial, random, sjf) share
// this instead of each keeping their own copy of leafResIDset.
func (b *baseCostModel) allLeaves() []util.ResourceID {
	ids := make([]util.ResourceID, 0, len(b.leafResIDset))
	for id := range b.leafResIDset {
		ids = append(ids, id)
	}
	return ids
}
