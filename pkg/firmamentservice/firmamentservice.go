// Package firmamentservice is the gRPC-shaped facade a coordinator talks
// to: every cluster/job/task lifecycle event arrives as one call on
// proto.FirmamentSchedulerServer, translated into the corresponding
// flowscheduler.Scheduler method and acknowledged with a typed reply.
//
// Grounded on NickrenREN-firmament-go/pkg/firmamentservice/firmamentservice.go,
// whose method set (Schedule, TaskSubmitted, NodeAdded, ...) this keeps,
// filled in where the teacher's own copy returned nil, nil unconditionally.
package firmamentservice

import (
	"context"
	"sync"

	"github.com/labstack/gommon/log"

	"github.com/ms705/firmament/pkg/config"
	"github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/flowscheduler"
	"github.com/ms705/firmament/pkg/scheduling/utility"
)

var _ proto.FirmamentSchedulerServer = &schedulerServer{}

type schedulerServer struct {
	// mu serializes every call into schedulerServer; none of its methods
	// call back into another exported method of this type, so a plain
	// (non-reentrant) mutex held for the method's duration is enough.
	mu sync.Mutex

	scheduler flowscheduler.Scheduler

	jobMap      *utility.JobMap
	taskMap     *utility.TaskMap
	resourceMap *utility.ResourceMap

	topLevelResID utility.ResourceID

	// jobIncompleteTasksNumMap tracks how many of a job's tasks have yet
	// to reach a terminal state; the job is marked complete the moment
	// this reaches zero.
	jobIncompleteTasksNumMap map[utility.JobID]uint64
	// jobTasksNumToRemoveMap tracks how many of a job's tasks are still
	// to be removed before the job itself can be removed.
	jobTasksNumToRemoveMap map[utility.JobID]uint64
}

// NewSchedulerServer constructs the facade and the Scheduler it wraps,
// rooted at a freshly synthesized top-level coordinator resource. cfg
// selects the CostModeler and every other scheduler tunable (spec.md
// §4.2, §10.2).
func NewSchedulerServer(cfg *config.Config) proto.FirmamentSchedulerServer {
	ss := &schedulerServer{
		jobMap:                   utility.NewJobMap(),
		taskMap:                  utility.NewTaskMap(),
		resourceMap:              utility.NewResourceMap(),
		jobIncompleteTasksNumMap: make(map[utility.JobID]uint64),
		jobTasksNumToRemoveMap:   make(map[utility.JobID]uint64),
	}

	rs := utility.CreateTopLevelResourceStatus()
	ss.topLevelResID = utility.MustResourceIDFromUUID(rs.Descriptor.Uuid)
	ss.resourceMap.InsertOrUpdate(ss.topLevelResID, rs)

	ss.scheduler = flowscheduler.NewScheduler(ss.jobMap, ss.resourceMap, rs.TopologyNode, ss.taskMap, cfg)

	return ss
}

// Schedule runs one scheduling iteration over every job with runnable
// tasks (spec.md §4.4) and returns the resulting deltas.
func (ss *schedulerServer) Schedule(ctx context.Context, _ *proto.ScheduleRequest) (*proto.SchedulingDeltas, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	log.Infof("firmamentservice: Schedule")
	_, deltas := ss.scheduler.ScheduleAllJobs(utility.NewSchedulerStats())
	return &proto.SchedulingDeltas{Deltas: deltas}, nil
}

func (ss *schedulerServer) TaskCompleted(ctx context.Context, req *proto.TaskUID) (*proto.TaskCompletedResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	td := ss.taskMap.FindPtrOrNull(utility.TaskID(req.TaskUid))
	if td == nil {
		log.Warnf("firmamentservice: TaskCompleted: unknown task %d", req.TaskUid)
		return &proto.TaskCompletedResponse{Type: proto.TaskReplyType_TASK_NOT_FOUND}, nil
	}
	ss.scheduler.HandleTaskCompletion(td, &proto.TaskFinalReport{TaskId: req.TaskUid})
	ss.decrementIncompleteTasks(td)
	return &proto.TaskCompletedResponse{Type: proto.TaskReplyType_TASK_COMPLETED_OK}, nil
}

func (ss *schedulerServer) TaskFailed(ctx context.Context, req *proto.TaskUID) (*proto.TaskFailedResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	td := ss.taskMap.FindPtrOrNull(utility.TaskID(req.TaskUid))
	if td == nil {
		log.Warnf("firmamentservice: TaskFailed: unknown task %d", req.TaskUid)
		return &proto.TaskFailedResponse{Type: proto.TaskReplyType_TASK_NOT_FOUND}, nil
	}
	ss.scheduler.HandleTaskFailure(td)
	ss.decrementIncompleteTasks(td)
	return &proto.TaskFailedResponse{Type: proto.TaskReplyType_TASK_FAILED_OK}, nil
}

func (ss *schedulerServer) TaskRemoved(ctx context.Context, req *proto.TaskUID) (*proto.TaskRemovedResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	td := ss.taskMap.FindPtrOrNull(utility.TaskID(req.TaskUid))
	if td == nil {
		log.Warnf("firmamentservice: TaskRemoved: unknown task %d", req.TaskUid)
		return &proto.TaskRemovedResponse{Type: proto.TaskReplyType_TASK_NOT_FOUND}, nil
	}
	ss.scheduler.HandleTaskRemoval(td)

	jobID := utility.MustJobIDFromString(td.JobID)
	if n, ok := ss.jobTasksNumToRemoveMap[jobID]; ok && n > 0 {
		n--
		ss.jobTasksNumToRemoveMap[jobID] = n
		if n == 0 {
			delete(ss.jobTasksNumToRemoveMap, jobID)
			ss.scheduler.HandleJobRemoval(jobID)
			delete(ss.jobIncompleteTasksNumMap, jobID)
		}
	}
	return &proto.TaskRemovedResponse{Type: proto.TaskReplyType_TASK_REMOVED_OK}, nil
}

// TaskSubmitted registers a job the first time one of its tasks is seen,
// and every task exactly once, then tells the scheduler the job has
// work to place on the next iteration.
func (ss *schedulerServer) TaskSubmitted(ctx context.Context, req *proto.TaskDescription) (*proto.TaskSubmittedResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	jd := req.JobDescriptor
	td := req.TaskDescriptor
	jobID := utility.MustJobIDFromString(jd.Uuid)

	if existing := ss.jobMap.FindPtrOrNull(jobID); existing != nil {
		jd = existing
	} else {
		jd.State = proto.JobDescriptor_Created
		ss.jobMap.InsertOrUpdate(jobID, jd)
	}

	taskID := utility.TaskID(td.Uid)
	if ss.taskMap.FindPtrOrNull(taskID) != nil {
		return &proto.TaskSubmittedResponse{Type: proto.TaskReplyType_TASK_ALREADY_SUBMITTED}, nil
	}
	td.JobID = jd.Uuid
	td.State = proto.TaskDescriptor_Runnable
	ss.taskMap.InsertOrUpdate(taskID, td)
	jd.Tasks = append(jd.Tasks, td)

	ss.jobIncompleteTasksNumMap[jobID]++
	ss.jobTasksNumToRemoveMap[jobID]++
	ss.scheduler.AddJob(jd)

	return &proto.TaskSubmittedResponse{Type: proto.TaskReplyType_TASK_SUBMITTED_OK}, nil
}

// TaskUpdated overwrites the mutable fields of an already-submitted
// task descriptor (spec.md §6's update-in-place semantics); it does not
// re-register the task or touch the flow graph directly, since the next
// scheduling iteration picks up whatever TaskToResourceNode/
// TaskToEquivClassAggregator costs the updated fields now imply.
func (ss *schedulerServer) TaskUpdated(ctx context.Context, req *proto.TaskDescription) (*proto.TaskUpdatedResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	td := ss.taskMap.FindPtrOrNull(utility.TaskID(req.TaskDescriptor.Uid))
	if td == nil {
		log.Warnf("firmamentservice: TaskUpdated: unknown task %d", req.TaskDescriptor.Uid)
		return &proto.TaskUpdatedResponse{Type: proto.TaskReplyType_TASK_NOT_FOUND}, nil
	}
	td.ResourceRequest = req.TaskDescriptor.ResourceRequest
	td.Name = req.TaskDescriptor.Name
	return &proto.TaskUpdatedResponse{Type: proto.TaskReplyType_TASK_UPDATED_OK}, nil
}

// NodeAdded registers every resource in the subtree rooted at rtnd
// (attaching it under the top-level coordinator if it arrived as a
// fresh root) and wires it into the flow graph.
func (ss *schedulerServer) NodeAdded(ctx context.Context, rtnd *proto.ResourceTopologyNodeDescriptor) (*proto.NodeAddedResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	rID := utility.MustResourceIDFromUUID(rtnd.ResourceDesc.Uuid)
	if ss.resourceMap.ContainsKey(rID) {
		return &proto.NodeAddedResponse{Type: proto.NodeReplyType_NODE_ALREADY_EXISTS}, nil
	}
	if rtnd.ParentId == "" {
		top := ss.resourceMap.FindPtrOrNull(ss.topLevelResID)
		rtnd.ParentId = top.Descriptor.Uuid
		top.TopologyNode.Children = append(top.TopologyNode.Children, rtnd)
	}

	ss.registerResourceSubtree(rtnd)
	ss.scheduler.RegisterResource(rtnd)

	return &proto.NodeAddedResponse{Type: proto.NodeReplyType_NODE_ADDED_OK}, nil
}

func (ss *schedulerServer) registerResourceSubtree(rtnd *proto.ResourceTopologyNodeDescriptor) {
	rID := utility.MustResourceIDFromUUID(rtnd.ResourceDesc.Uuid)
	ss.resourceMap.InsertOrUpdate(rID, &utility.ResourceStatus{
		Descriptor:   rtnd.ResourceDesc,
		TopologyNode: rtnd,
	})
	for _, child := range rtnd.Children {
		ss.registerResourceSubtree(child)
	}
}

func (ss *schedulerServer) NodeFailed(ctx context.Context, req *proto.ResourceUID) (*proto.NodeFailedResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	rs := ss.resourceMap.FindPtrOrNull(utility.MustResourceIDFromUUID(req.ResourceUid))
	if rs == nil {
		log.Warnf("firmamentservice: NodeFailed: unknown resource %s", req.ResourceUid)
		return &proto.NodeFailedResponse{Type: proto.NodeReplyType_NODE_NOT_FOUND}, nil
	}
	ss.scheduler.DeregisterResource(rs.TopologyNode)
	return &proto.NodeFailedResponse{Type: proto.NodeReplyType_NODE_FAILED_OK}, nil
}

func (ss *schedulerServer) NodeRemoved(ctx context.Context, req *proto.ResourceUID) (*proto.NodeRemovedResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	rs := ss.resourceMap.FindPtrOrNull(utility.MustResourceIDFromUUID(req.ResourceUid))
	if rs == nil {
		log.Warnf("firmamentservice: NodeRemoved: unknown resource %s", req.ResourceUid)
		return &proto.NodeRemovedResponse{Type: proto.NodeReplyType_NODE_NOT_FOUND}, nil
	}
	ss.scheduler.DeregisterResource(rs.TopologyNode)
	return &proto.NodeRemovedResponse{Type: proto.NodeReplyType_NODE_REMOVED_OK}, nil
}

// NodeUpdated refreshes a resource's own descriptor fields (friendly
// name, capacity); topology shape changes go through NodeRemoved plus
// NodeAdded instead, since moving a node to a new parent is not a
// supported in-place operation.
func (ss *schedulerServer) NodeUpdated(ctx context.Context, rtnd *proto.ResourceTopologyNodeDescriptor) (*proto.NodeUpdatedResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	rs := ss.resourceMap.FindPtrOrNull(utility.MustResourceIDFromUUID(rtnd.ResourceDesc.Uuid))
	if rs == nil {
		log.Warnf("firmamentservice: NodeUpdated: unknown resource %s", rtnd.ResourceDesc.Uuid)
		return &proto.NodeUpdatedResponse{Type: proto.NodeReplyType_NODE_NOT_FOUND}, nil
	}
	rs.Descriptor.FriendlyName = rtnd.ResourceDesc.FriendlyName
	rs.Descriptor.Capacity = rtnd.ResourceDesc.Capacity
	return &proto.NodeUpdatedResponse{Type: proto.NodeReplyType_NODE_UPDATED_OK}, nil
}

// AddTaskStats/AddNodeStats accept monitoring samples and acknowledge
// them; interpreting them is the out-of-scope knowledge base's job
// (spec.md Non-goals).
func (ss *schedulerServer) AddTaskStats(ctx context.Context, _ *proto.TaskStats) (*proto.TaskStatsResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return &proto.TaskStatsResponse{Type: proto.TaskReplyType_TASK_UPDATED_OK}, nil
}

func (ss *schedulerServer) AddNodeStats(ctx context.Context, _ *proto.ResourceStats) (*proto.ResourceStatsResponse, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return &proto.ResourceStatsResponse{Type: proto.NodeReplyType_NODE_UPDATED_OK}, nil
}

func (ss *schedulerServer) decrementIncompleteTasks(td *proto.TaskDescriptor) {
	jobID := utility.MustJobIDFromString(td.JobID)
	n, ok := ss.jobIncompleteTasksNumMap[jobID]
	if !ok || n == 0 {
		return
	}
	n--
	ss.jobIncompleteTasksNumMap[jobID] = n
	if n == 0 {
		ss.scheduler.HandleJobCompletion(jobID)
	}
}
