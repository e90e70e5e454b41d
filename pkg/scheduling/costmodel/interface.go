// Package costmodel defines the pluggable cost function (spec.md §4.2)
// that the flow graph consults for every arc cost and capacity it needs,
// plus the concrete cost models a scheduler can select between.
//
// Grounded on NickrenREN-firmament-go/pkg/scheduling/costmodel/interface.go.
package costmodel

import (
	"math"

	pb "github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

type (
	Cost          int64
	CostModelType int64
)

type Gather func(accumulator, other *flowgraph.Node) *flowgraph.Node

type Prepare func(accumulator *flowgraph.Node)

type Update func(accumulator, other *flowgraph.Node) *flowgraph.Node

// CostModelType enumerates the models selectable via pkg/config
// (spec.md §4.2 Selection list).
const (
	CostModelTrivial CostModelType = iota
	CostModelRandom
	CostModelSjf
	CostModelQuincy
	CostModelWhare
	CostModelCoco
	CostModelOctopus
	CostModelSimulatedQuincy
	CostModelVoid
	CostModelNet
)

// ClusterAggregatorEC is the equivalence class every task belongs to by
// virtue of being schedulable on the cluster at all; cost models that
// don't define finer-grained classes fall back to this one.
var ClusterAggregatorEC = util.HashBytesToEquivClass([]byte("CLUSTER_AGG"))

// ArcDescriptor is what a CostModeler hands back for any arc it is asked
// about: cost plus the capacity range the graph manager should set on
// that arc. Gain is informational: NewArcDescriptor sets it to 1.0 and
// nothing in this module reads it.
type ArcDescriptor struct {
	Cost     int64
	Capacity uint64
	MinFlow  uint64
	Gain     float64
}

func NewArcDescriptor(cost int64, capacity, minFlow uint64) ArcDescriptor {
	return ArcDescriptor{
		Cost:     cost,
		Capacity: capacity,
		MinFlow:  minFlow,
		Gain:     1.0,
	}
}

// RequestSlots is a resource request expressed in PU-equivalent slots,
// the unit whare-map and coco reason about instead of raw cores/bytes.
type RequestSlots int64

type MachineResourceSlots struct {
	CapacitySlots  RequestSlots
	AvailableSlots RequestSlots
}

// NewRequestSlots converts a raw resource request into PU-equivalent
// slots: one slot per core, capped by the memory available per slot
// (quarter of a GiB per slot, matching the teacher's bin-packing ratio).
func NewRequestSlots(request *pb.ResourceVector) RequestSlots {
	requestCPUNum := math.Ceil(request.CpuCores)
	ramSlots := float64(request.RamBytes) / (256 * 1024 * 1024)
	slots := math.Min(ramSlots, requestCPUNum)
	return RequestSlots(math.Ceil(slots))
}

func NewMachineResourceSlots(capacitySlots, availableSlots RequestSlots) MachineResourceSlots {
	return MachineResourceSlots{
		CapacitySlots:  capacitySlots,
		AvailableSlots: availableSlots,
	}
}

// CostModeler is consulted by flowmanager.GraphManager for every arc cost
// and capacity in the flow graph, and is kept informed of task/machine
// lifecycle events so it can maintain whatever bookkeeping it needs to
// answer those questions (spec.md §4.2).
type CostModeler interface {
	// TaskToUnscheduledAgg returns the cost of leaving a task unscheduled
	// for one more scheduling round. Must be monotonically increasing
	// across repeated calls for the same task so the solver eventually
	// prefers placing it over leaving it waiting.
	TaskToUnscheduledAgg(util.TaskID) ArcDescriptor

	UnscheduledAggToSink(util.JobID) ArcDescriptor

	// TaskToResourceNode returns the preference arc from a task to a
	// specific resource (usually a PU).
	TaskToResourceNode(util.TaskID, util.ResourceID) ArcDescriptor

	// ResourceNodeToResourceNode returns the arc linking two internal
	// nodes of a resource topology (e.g. machine to socket).
	ResourceNodeToResourceNode(source, destination *pb.ResourceDescriptor) ArcDescriptor

	// LeafResourceNodeToSink returns the arc from a leaf resource (PU) to
	// the sink, effectively how much flow that PU can absorb.
	LeafResourceNodeToSink(util.ResourceID) ArcDescriptor

	// TaskContinuation and TaskPreemption cost the arcs that let an
	// already-running task keep or give up its current resource.
	TaskContinuation(util.TaskID) ArcDescriptor
	TaskPreemption(util.TaskID) ArcDescriptor

	// TaskToEquivClassAggregator costs the arc from a task to an
	// equivalence class it belongs to.
	TaskToEquivClassAggregator(util.TaskID, util.EquivClass) ArcDescriptor

	// EquivClassToResourceNode costs the arc from an equivalence class to
	// a resource it may be placed on.
	EquivClassToResourceNode(util.EquivClass, util.ResourceID) ArcDescriptor

	// EquivClassToEquivClass costs the arc from one equivalence class to
	// another it aggregates into.
	EquivClassToEquivClass(tec1, tec2 util.EquivClass) ArcDescriptor

	// GetTaskEquivClasses returns the equivalence classes a task belongs
	// to.
	GetTaskEquivClasses(util.TaskID) []util.EquivClass

	// GetOutgoingEquivClassPrefArcs returns the resources an equivalence
	// class has preference arcs to.
	GetOutgoingEquivClassPrefArcs(ec util.EquivClass) []util.ResourceID

	// GetTaskPreferenceArcs returns the resources a task has direct
	// preference arcs to.
	GetTaskPreferenceArcs(util.TaskID) []util.ResourceID

	// GetEquivClassToEquivClassesArcs returns the equivalence classes an
	// equivalence class has outgoing arcs to.
	GetEquivClassToEquivClassesArcs(util.EquivClass) []util.EquivClass

	AddMachine(*pb.ResourceTopologyNodeDescriptor)
	AddTask(util.TaskID)
	RemoveMachine(util.ResourceID)
	RemoveTask(util.TaskID)

	// GatherStats is called bottom-up during TopologyStatistics
	// traversal, combining a child's stats into its parent's.
	GatherStats(accumulator, other *flowgraph.Node) *flowgraph.Node

	// PrepareStats resets a node's accumulator before a GatherStats pass;
	// most cost models no-op here.
	PrepareStats(accumulator *flowgraph.Node)

	// UpdateStats regenerates arc costs in the resource topology after a
	// GatherStats pass has refreshed the statistics it depends on.
	UpdateStats(accumulator, other *flowgraph.Node) *flowgraph.Node

	// DependsOnTopologyStats reports whether this model's arc costs read
	// statistics only ComputeTopologyStatistics refreshes (e.g.
	// NumRunningTasksBelow), so the flow scheduler knows whether running
	// that pass before each solve is required or wasted work.
	DependsOnTopologyStats() bool

	DebugInfo() string
	DebugInfoCSV() string
}
