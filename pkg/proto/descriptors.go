// Package proto holds the wire-level descriptor types shared by the
// scheduling core: jobs, tasks, resources and the topology tree that
// groups them. In the upstream Firmament project these are generated
// from a .proto schema; no schema ships in this module, so they are
// plain Go structs carrying the same fields. Nothing in this module
// serializes them over the wire — they are passed by reference between
// packages in-process.
package proto

// JobDescriptor_State is the job lifecycle state (spec.md §4.5).
type JobDescriptor_State int

const (
	JobDescriptor_Created JobDescriptor_State = iota
	JobDescriptor_Running
	JobDescriptor_Completed
	JobDescriptor_Failed
	JobDescriptor_Aborted
)

func (s JobDescriptor_State) String() string {
	switch s {
	case JobDescriptor_Created:
		return "CREATED"
	case JobDescriptor_Running:
		return "RUNNING"
	case JobDescriptor_Completed:
		return "COMPLETED"
	case JobDescriptor_Failed:
		return "FAILED"
	case JobDescriptor_Aborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// JobDescriptor describes a job: a named collection of tasks.
type JobDescriptor struct {
	Uuid string
	Name string
	// RootTask is the descriptor of the job's root task; additional
	// tasks are reachable through it in the full Firmament data model.
	// This module treats Tasks as the flattened, authoritative list.
	RootTask *TaskDescriptor
	Tasks    []*TaskDescriptor
	State    JobDescriptor_State
}

// TaskDescriptor_State is the task lifecycle state (spec.md §4.5).
type TaskDescriptor_State int

const (
	TaskDescriptor_Created TaskDescriptor_State = iota
	TaskDescriptor_Runnable
	TaskDescriptor_Assigned
	TaskDescriptor_Running
	TaskDescriptor_Completed
	TaskDescriptor_Failed
	TaskDescriptor_Killed
	TaskDescriptor_Evicted
)

func (s TaskDescriptor_State) String() string {
	switch s {
	case TaskDescriptor_Created:
		return "CREATED"
	case TaskDescriptor_Runnable:
		return "RUNNABLE"
	case TaskDescriptor_Assigned:
		return "ASSIGNED"
	case TaskDescriptor_Running:
		return "RUNNING"
	case TaskDescriptor_Completed:
		return "COMPLETED"
	case TaskDescriptor_Failed:
		return "FAILED"
	case TaskDescriptor_Killed:
		return "KILLED"
	case TaskDescriptor_Evicted:
		return "EVICTED"
	default:
		return "UNKNOWN"
	}
}

// TaskDescriptor describes a single task within a job.
type TaskDescriptor struct {
	Uid   uint64
	Name  string
	JobID string
	State TaskDescriptor_State
	// DelegatedFrom names the resource a migrated/delegated task came
	// from; empty when not applicable.
	DelegatedFrom string
	// AttemptCount counts the task's attempts. The flow scheduler's
	// HandleTaskFinalReport resets it to 0; nothing in this module
	// increments it, and no cost model reads it.
	AttemptCount uint64
	// ResourceRequest is the task's multi-dimensional resource ask,
	// consumed by the coco cost model.
	ResourceRequest ResourceVector
}

// ResourceVector is a multi-dimensional resource quantity (cores,
// memory, ...). Consumed by the coco cost model; not a solver in its
// own right (spec.md Non-goals excludes bin-packing *solvers*, not
// costing resource fit).
type ResourceVector struct {
	CpuCores  float64
	RamBytes  uint64
	DiskBytes uint64
}

// ResourceDescriptor_ResourceType enumerates positions in the resource
// topology tree (spec.md §3).
type ResourceDescriptor_ResourceType int

const (
	ResourceDescriptor_ResourceCoordinator ResourceDescriptor_ResourceType = iota
	ResourceDescriptor_ResourceMachine
	ResourceDescriptor_ResourceNumaNode
	ResourceDescriptor_ResourceSocket
	ResourceDescriptor_ResourceCache
	ResourceDescriptor_ResourceCore
	ResourceDescriptor_ResourcePu
	ResourceDescriptor_ResourceNic
	ResourceDescriptor_ResourceDisk
	ResourceDescriptor_ResourceSsd
	ResourceDescriptor_ResourceLogical
)

var ResourceDescriptor_ResourceType_name = map[int32]string{
	int32(ResourceDescriptor_ResourceCoordinator): "COORDINATOR",
	int32(ResourceDescriptor_ResourceMachine):     "MACHINE",
	int32(ResourceDescriptor_ResourceNumaNode):    "NUMA_NODE",
	int32(ResourceDescriptor_ResourceSocket):      "SOCKET",
	int32(ResourceDescriptor_ResourceCache):       "CACHE",
	int32(ResourceDescriptor_ResourceCore):        "CORE",
	int32(ResourceDescriptor_ResourcePu):          "PU",
	int32(ResourceDescriptor_ResourceNic):         "NIC",
	int32(ResourceDescriptor_ResourceDisk):        "DISK",
	int32(ResourceDescriptor_ResourceSsd):         "SSD",
	int32(ResourceDescriptor_ResourceLogical):     "LOGICAL",
}

// ResourceDescriptor_ResourceState is the operational state of a
// resource.
type ResourceDescriptor_ResourceState int

const (
	ResourceDescriptor_ResourceUnknown ResourceDescriptor_ResourceState = iota
	ResourceDescriptor_ResourceIdle
	ResourceDescriptor_ResourceBusy
	ResourceDescriptor_ResourceDegraded
)

// ResourceDescriptor describes one node of the resource topology tree:
// a coordinator, machine, socket, cache, core or PU.
type ResourceDescriptor struct {
	Uuid         string
	FriendlyName string
	Type         ResourceDescriptor_ResourceType
	State        ResourceDescriptor_ResourceState
	Schedulable  bool

	// CurrentRunningTasks lists the task ids currently bound to this
	// resource (leaf PUs only; non-leaf nodes leave this empty and rely
	// on NumRunningTasksBelow instead).
	CurrentRunningTasks []uint64

	// NumSlotsBelow/NumRunningTasksBelow are populated by
	// ComputeTopologyStatistics (spec.md §4.1) and read by stats-
	// dependent cost models (coco, octopus, wharemap).
	NumSlotsBelow        uint64
	NumRunningTasksBelow uint64

	// Capacity is this resource's own multi-dimensional capacity, used
	// by the coco cost model; zero-valued (and ignored) for internal
	// topology nodes that don't host tasks directly.
	Capacity ResourceVector
}

// ResourceTopologyNodeDescriptor is one node of the machine tree:
// a ResourceDescriptor plus its position in the tree.
type ResourceTopologyNodeDescriptor struct {
	ResourceDesc *ResourceDescriptor
	ParentId     string
	Children     []*ResourceTopologyNodeDescriptor
}

// SchedulingDelta_Type is the kind of scheduling action produced by a
// scheduling iteration (spec.md §6).
type SchedulingDelta_Type int

const (
	SchedulingDelta_NOOP SchedulingDelta_Type = iota
	SchedulingDelta_PLACE
	SchedulingDelta_PREEMPT
	SchedulingDelta_MIGRATE
)

func (t SchedulingDelta_Type) String() string {
	switch t {
	case SchedulingDelta_NOOP:
		return "NOOP"
	case SchedulingDelta_PLACE:
		return "PLACE"
	case SchedulingDelta_PREEMPT:
		return "PREEMPT"
	case SchedulingDelta_MIGRATE:
		return "MIGRATE"
	default:
		return "UNKNOWN"
	}
}

// SchedulingDelta is the tagged record produced for every task binding
// decision (spec.md §6). OldResourceId is populated for PREEMPT/MIGRATE
// so the scheduler can address the resource being vacated.
type SchedulingDelta struct {
	Type          SchedulingDelta_Type
	TaskId        uint64
	ResourceId    string
	OldResourceId string
	Actioned      bool
}

// TaskFinalReport carries completion statistics for a terminal task;
// populated by HandleTaskFinalReport. Fields beyond FinishTime are left
// for the (out-of-scope) knowledge base to interpret.
type TaskFinalReport struct {
	TaskId     uint64
	FinishTime uint64
}
