package proto

import "context"

// TaskReplyType / NodeReplyType classify the outcome of a facade call
// (spec.md §6 scheduling deltas plus the lifecycle acks the original
// Firmament coordinator protocol expects for every mutation).
type TaskReplyType int

const (
	TaskReplyType_TASK_SUBMITTED_OK TaskReplyType = iota
	TaskReplyType_TASK_ALREADY_SUBMITTED
	TaskReplyType_TASK_COMPLETED_OK
	TaskReplyType_TASK_FAILED_OK
	TaskReplyType_TASK_REMOVED_OK
	TaskReplyType_TASK_UPDATED_OK
	TaskReplyType_TASK_NOT_FOUND
)

type NodeReplyType int

const (
	NodeReplyType_NODE_ADDED_OK NodeReplyType = iota
	NodeReplyType_NODE_ALREADY_EXISTS
	NodeReplyType_NODE_FAILED_OK
	NodeReplyType_NODE_REMOVED_OK
	NodeReplyType_NODE_UPDATED_OK
	NodeReplyType_NODE_NOT_FOUND
)

// ScheduleRequest triggers one scheduling iteration over every job with
// runnable tasks; it carries no fields of its own (spec.md §4.4 "the
// scheduler decides what to schedule", not the caller).
type ScheduleRequest struct{}

// SchedulingDeltas is the result of a scheduling iteration: every
// placement/preemption/migration decision made (spec.md §6).
type SchedulingDeltas struct {
	Deltas []SchedulingDelta
}

// TaskUID/ResourceUID identify a task or resource for calls that don't
// need the full descriptor.
type TaskUID struct {
	TaskUid uint64
}

type ResourceUID struct {
	ResourceUid string
}

// TaskDescription bundles a task with the job it belongs to, so
// TaskSubmitted can register both in one call the first time a job's
// task is seen.
type TaskDescription struct {
	TaskDescriptor *TaskDescriptor
	JobDescriptor  *JobDescriptor
}

// TaskStats/ResourceStats carry monitoring samples the knowledge base
// would otherwise interpret (spec.md Non-goals excludes the knowledge
// base itself; these calls are accepted and acknowledged but otherwise
// inert).
type TaskStats struct {
	TaskUid   uint64
	CpuUsage  float64
	RamUsage  uint64
	Timestamp uint64
}

type ResourceStats struct {
	ResourceUid string
	CpuUsage    float64
	RamUsage    uint64
	Timestamp   uint64
}

type TaskCompletedResponse struct{ Type TaskReplyType }
type TaskFailedResponse struct{ Type TaskReplyType }
type TaskRemovedResponse struct{ Type TaskReplyType }
type TaskSubmittedResponse struct{ Type TaskReplyType }
type TaskUpdatedResponse struct{ Type TaskReplyType }
type TaskStatsResponse struct{ Type TaskReplyType }

type NodeAddedResponse struct{ Type NodeReplyType }
type NodeFailedResponse struct{ Type NodeReplyType }
type NodeRemovedResponse struct{ Type NodeReplyType }
type NodeUpdatedResponse struct{ Type NodeReplyType }
type ResourceStatsResponse struct{ Type NodeReplyType }

// FirmamentSchedulerServer is the gRPC-shaped facade a coordinator talks
// to: every cluster/job/task lifecycle event arrives as one call, and
// Schedule triggers a scheduling iteration over whatever is currently
// runnable. Grounded on NickrenREN-firmament-go/pkg/firmamentservice,
// whose retrieval included the facade's implementation but not the
// .proto schema these types and this interface are hand-rolled from.
type FirmamentSchedulerServer interface {
	Schedule(context.Context, *ScheduleRequest) (*SchedulingDeltas, error)

	TaskCompleted(context.Context, *TaskUID) (*TaskCompletedResponse, error)
	TaskFailed(context.Context, *TaskUID) (*TaskFailedResponse, error)
	TaskRemoved(context.Context, *TaskUID) (*TaskRemovedResponse, error)
	TaskSubmitted(context.Context, *TaskDescription) (*TaskSubmittedResponse, error)
	TaskUpdated(context.Context, *TaskDescription) (*TaskUpdatedResponse, error)

	NodeAdded(context.Context, *ResourceTopologyNodeDescriptor) (*NodeAddedResponse, error)
	NodeFailed(context.Context, *ResourceUID) (*NodeFailedResponse, error)
	NodeRemoved(context.Context, *ResourceUID) (*NodeRemovedResponse, error)
	NodeUpdated(context.Context, *ResourceTopologyNodeDescriptor) (*NodeUpdatedResponse, error)

	AddTaskStats(context.Context, *TaskStats) (*TaskStatsResponse, error)
	AddNodeStats(context.Context, *ResourceStats) (*ResourceStatsResponse, error)
}
