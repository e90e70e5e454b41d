// Package flowscheduler ties the flow graph, cost model and solver
// together into the scheduling loop spec.md §4.4 describes: maintain
// per-job/per-task/per-resource bookkeeping, translate lifecycle events
// into flow-graph mutations, and turn a solved min-cost flow back into
// concrete scheduling deltas.
//
// Grounded on NickrenREN-firmament-go/pkg/scheduling/flowscheduler/flowscheduler.go
// for the event-handling half (task/resource/job lifecycle), and on
// coreos-ksched/scheduling/flow/flowscheduler/scheduler.go for the
// scheduling-iteration half, which the teacher's own copy never
// implemented.
package flowscheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/ms705/firmament/pkg/config"
	"github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/costmodel"
	"github.com/ms705/firmament/pkg/scheduling/dimacs"
	ss "github.com/ms705/firmament/pkg/scheduling/solver"

	"github.com/ms705/firmament/pkg/scheduling/flowmanager"
	"github.com/ms705/firmament/pkg/scheduling/utility"
)

// TaskSet is a set of tasks.
type TaskSet map[utility.TaskID]struct{}

type scheduler struct {
	// mu is the scheduler-wide re-entrant mutex spec.md §5 requires,
	// protecting the flow graph, the cost model and the task-binding
	// table. Go has no native recursive mutex, so every Scheduler method
	// is split into an exported lock-acquiring wrapper and an unexported
	// implementation; wrappers call each other's unexported sibling
	// directly instead of recursing through Lock, giving the same
	// mutual-exclusion guarantee without deadlocking on the scheduler's
	// own internal call graph (ScheduleAllJobs -> scheduleJobs,
	// applySchedulingDeltas -> handleTaskPlacement, and so on).
	mu sync.Mutex

	// enableEviction gates whether a resource failure reschedules the
	// tasks that were bound to it (true) or simply fails them (false).
	enableEviction  bool
	enableMigration bool

	jobMap      *utility.JobMap
	taskMap     *utility.TaskMap
	resourceMap *utility.ResourceMap

	// Event driven scheduler specific fields.
	// TaskBindings tracks the state of which task maps to which resource
	// as of the last scheduling iteration.
	TaskBindings map[utility.TaskID]utility.ResourceID
	// resourceBindings is the inverse multimap: every task currently
	// bound to a given resource.
	resourceBindings map[utility.ResourceID]TaskSet
	// jobsToSchedule holds the jobs to be considered on the next
	// scheduling round.
	jobsToSchedule map[utility.JobID]*proto.JobDescriptor
	// runnableTasks is the multimap of runnable tasks per job. Lazy
	// graph reduction (dependency resolution between tasks) is out of
	// scope here; every task a job exposes is considered runnable.
	runnableTasks map[utility.JobID]TaskSet

	graphManager flowmanager.GraphManager
	solver       ss.Solver
	costModel    costmodel.CostModeler

	lastUpdateTimeDependentCosts time.Time

	leafResourceIDs map[utility.ResourceID]struct{}

	pusRemovedDuringSolverRun     map[uint64]struct{}
	tasksCompletedDuringSolverRun map[uint64]struct{}

	dimacsStats *dimacs.ChangeStats

	solverRunCnt uint64

	resourceRoots map[*proto.ResourceTopologyNodeDescriptor]struct{}

	// debugCostModel/debugOutputDir mirror pkg/config's DebugCostModel
	// and DebugOutputDir: when set, the cost model's DebugInfo/
	// DebugInfoCSV are dumped to debugOutputDir after every solver run.
	debugCostModel bool
	debugOutputDir string
}

// NewScheduler constructs a flow scheduler over an already-populated
// topology rooted at root. cfg selects the CostModeler (spec.md §4.2
// Selection list), the PU task-slot width every cost model bounds its
// LeafResourceNodeToSink arcs by, the external solver binary/timeout,
// and whether cost-model debug dumps are written after each round.
func NewScheduler(jobMap *utility.JobMap, resourceMap *utility.ResourceMap, root *proto.ResourceTopologyNodeDescriptor,
	taskMap *utility.TaskMap, cfg *config.Config) Scheduler {
	s := &scheduler{
		jobMap:      jobMap,
		resourceMap: resourceMap,
		taskMap:     taskMap,

		lastUpdateTimeDependentCosts: time.Now(),
		solverRunCnt:                 0,
		leafResourceIDs:              make(map[utility.ResourceID]struct{}),

		dimacsStats: &dimacs.ChangeStats{},

		resourceRoots:    make(map[*proto.ResourceTopologyNodeDescriptor]struct{}),
		TaskBindings:     make(map[utility.TaskID]utility.ResourceID),
		resourceBindings: make(map[utility.ResourceID]TaskSet),
		jobsToSchedule:   make(map[utility.JobID]*proto.JobDescriptor),
		runnableTasks:    make(map[utility.JobID]TaskSet),

		tasksCompletedDuringSolverRun: make(map[uint64]struct{}),
		pusRemovedDuringSolverRun:     make(map[uint64]struct{}),

		enableEviction: true,

		debugCostModel: cfg.DebugCostModel,
		debugOutputDir: cfg.DebugOutputDir,
	}

	// The cost model and the graph manager share the same leafResourceIDs
	// map instance: the graph manager mutates it as PU nodes are added
	// or removed, and the cost model reads through the same reference
	// when it needs to enumerate every leaf.
	s.costModel = costmodel.NewCostModel(cfg.CostModel, resourceMap, taskMap, s.leafResourceIDs, cfg.MaxTasksPerPu)
	s.graphManager = flowmanager.NewGraphManager(s.costModel, s.leafResourceIDs, s.dimacsStats, cfg.MaxTasksPerPu)

	// Set up the initial flow graph.
	s.graphManager.AddResourceTopology(root)

	// spec.md §4.4: stats-dependent cost models need the topology-wide
	// rollup computed once up front, not just after the first solve.
	if s.costModel.DependsOnTopologyStats() {
		s.graphManager.ComputeTopologyStatistics(s.graphManager.SinkNode())
	}

	s.solver = ss.NewSolver(s.graphManager, cfg.SolverBinary, cfg.SolverTimeout)

	return s
}

func (sche *scheduler) GetTaskBindings() map[utility.TaskID]utility.ResourceID {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	return sche.getTaskBindings()
}

func (sche *scheduler) getTaskBindings() map[utility.TaskID]utility.ResourceID {
	return sche.TaskBindings
}

func (sche *scheduler) AddJob(jd *proto.JobDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.addJob(jd)
}

func (sche *scheduler) addJob(jd *proto.JobDescriptor) {
	sche.jobsToSchedule[utility.MustJobIDFromString(jd.Uuid)] = jd
}

func (sche *scheduler) CheckRunningTasksHealth() {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.checkRunningTasksHealth()
}

func (sche *scheduler) checkRunningTasksHealth() {}

func (sche *scheduler) dfsHandleTasksFromDeregisterResource(rtnd *proto.ResourceTopologyNodeDescriptor) {
	for _, childNode := range rtnd.Children {
		sche.dfsHandleTasksFromDeregisterResource(childNode)
	}
	sche.handleTasksFromDeregisterResource(rtnd)
}

func (sche *scheduler) handleTasksFromDeregisterResource(rtnd *proto.ResourceTopologyNodeDescriptor) {
	resourceDesc := rtnd.ResourceDesc
	rID := utility.MustResourceIDFromUUID(resourceDesc.Uuid)

	tasks, ok := sche.resourceBindings[rID]
	if !ok {
		return
	}

	for taskID := range tasks {
		taskDesc := sche.taskMap.FindPtrOrNull(taskID)
		if taskDesc == nil {
			glog.Fatalf("flowscheduler: descriptor for task %v must exist in taskMap", taskID)
		}
		if sche.enableEviction {
			sche.handleTaskEviction(taskDesc, resourceDesc)
		} else {
			sche.handleTaskFailure(taskDesc)
		}
	}
}

func (sche *scheduler) dfsCleanStateForDeregisterResource(rtnd *proto.ResourceTopologyNodeDescriptor) {
	for _, childNode := range rtnd.Children {
		sche.dfsCleanStateForDeregisterResource(childNode)
	}
	sche.cleanStateForDeregisterResource(rtnd)
}

func (sche *scheduler) cleanStateForDeregisterResource(rtnd *proto.ResourceTopologyNodeDescriptor) {
	rID := utility.MustResourceIDFromUUID(rtnd.ResourceDesc.Uuid)
	delete(sche.resourceBindings, rID)
	sche.resourceMap.Delete(rID)
}

// RemoveResourceNodeFromParentChildrenList removes a resource node from
// its parent's children list. Not part of the Scheduler interface, so
// it's only ever reached already under sche.mu.
func (sche *scheduler) RemoveResourceNodeFromParentChildrenList(rtnd *proto.ResourceTopologyNodeDescriptor) {
	parentID := utility.MustResourceIDFromUUID(rtnd.ParentId)
	parentResourceStatus := sche.resourceMap.FindPtrOrNull(parentID)
	if parentResourceStatus == nil {
		glog.Fatalf("flowscheduler: parent resource status for node %v must exist", rtnd.ResourceDesc.Uuid)
	}

	parentNode := parentResourceStatus.TopologyNode
	children := parentNode.Children
	index := -1
	for i, childNode := range children {
		if childNode.ResourceDesc.Uuid == rtnd.ResourceDesc.Uuid {
			index = i
			break
		}
	}
	if index == -1 {
		glog.Fatalf("flowscheduler: resource node %v not found as child of its parent %v", rtnd.ResourceDesc.Uuid, parentID)
	}
	parentNode.Children = append(children[:index], children[index+1:]...)
}

func (sche *scheduler) DeregisterResource(rtnd *proto.ResourceTopologyNodeDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.deregisterResource(rtnd)
}

func (sche *scheduler) deregisterResource(rtnd *proto.ResourceTopologyNodeDescriptor) {
	if sche.resourceMap.FindPtrOrNull(utility.MustResourceIDFromUUID(rtnd.ResourceDesc.Uuid)) == nil {
		return
	}
	// Post-order traversal: evict tasks from the leaves up before the
	// topology nodes that carry them disappear.
	sche.dfsHandleTasksFromDeregisterResource(rtnd)

	for _, puNodeID := range sche.graphManager.RemoveResourceTopology(rtnd.ResourceDesc) {
		sche.pusRemovedDuringSolverRun[uint64(puNodeID)] = struct{}{}
	}

	if rtnd.ParentId != "" {
		delete(sche.resourceRoots, rtnd)
	}

	sche.dfsCleanStateForDeregisterResource(rtnd)

	if rtnd.ParentId != "" {
		sche.RemoveResourceNodeFromParentChildrenList(rtnd)
	} else {
		glog.V(1).Infof("flowscheduler: deregistering a resource root %v", rtnd.ResourceDesc.Uuid)
	}
}

func (sche *scheduler) HandleJobCompletion(jobID utility.JobID) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleJobCompletion(jobID)
}

func (sche *scheduler) handleJobCompletion(jobID utility.JobID) {
	sche.graphManager.JobCompleted(jobID)

	jd := sche.jobMap.FindPtrOrNull(jobID)
	if jd == nil {
		glog.Fatalf("flowscheduler: job for id %v must exist", jobID)
	}
	delete(sche.jobsToSchedule, jobID)
	delete(sche.runnableTasks, jobID)
	jd.State = proto.JobDescriptor_Completed
}

func (sche *scheduler) HandleJobRemoval(jobID utility.JobID) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleJobRemoval(jobID)
}

func (sche *scheduler) handleJobRemoval(jobID utility.JobID) {
	sche.graphManager.JobRemoved(jobID)

	jd := sche.jobMap.FindPtrOrNull(jobID)
	if jd == nil {
		glog.Fatalf("flowscheduler: job for id %v must exist", jobID)
	}
	delete(sche.jobsToSchedule, jobID)
	delete(sche.runnableTasks, jobID)
}

// unbindTaskFromResource clears a task's resource binding, used on
// failure, migration and eviction. Returns false if the task was not
// already bound to rID.
func (sche *scheduler) unbindTaskFromResource(td *proto.TaskDescriptor, rID utility.ResourceID) bool {
	taskID := utility.TaskID(td.Uid)
	resourceStatus := sche.resourceMap.FindPtrOrNull(rID)
	if resourceStatus == nil {
		return false
	}
	rd := resourceStatus.Descriptor
	if len(rd.CurrentRunningTasks) == 0 {
		rd.State = proto.ResourceDescriptor_ResourceIdle
	}
	if _, ok := sche.TaskBindings[taskID]; !ok {
		return false
	}
	taskSet := sche.resourceBindings[rID]
	if _, ok := taskSet[taskID]; !ok {
		return false
	}
	delete(sche.TaskBindings, taskID)
	delete(taskSet, taskID)
	return true
}

// bindTaskToResource records a new task/resource binding; the inverse of
// unbindTaskFromResource, called on every successful placement.
func (sche *scheduler) bindTaskToResource(td *proto.TaskDescriptor, rID utility.ResourceID) {
	taskID := utility.TaskID(td.Uid)
	sche.TaskBindings[taskID] = rID
	if _, ok := sche.resourceBindings[rID]; !ok {
		sche.resourceBindings[rID] = make(TaskSet)
	}
	sche.resourceBindings[rID][taskID] = struct{}{}

	resourceStatus := sche.resourceMap.FindPtrOrNull(rID)
	if resourceStatus == nil {
		glog.Fatalf("flowscheduler: resource %v must have a resource status in the resourceMap", rID)
	}
	rd := resourceStatus.Descriptor
	rd.State = proto.ResourceDescriptor_ResourceBusy
	rd.CurrentRunningTasks = append(rd.CurrentRunningTasks, td.Uid)
}

func (sche *scheduler) HandleTaskCompletion(td *proto.TaskDescriptor, report *proto.TaskFinalReport) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleTaskCompletion(td, report)
}

func (sche *scheduler) handleTaskCompletion(td *proto.TaskDescriptor, report *proto.TaskFinalReport) {
	rID, ok := sche.TaskBindings[utility.TaskID(td.Uid)]
	if ok {
		resourceStatus := sche.resourceMap.FindPtrOrNull(rID)
		if resourceStatus == nil {
			glog.Fatalf("flowscheduler: resource %v must have a resource status in the resourceMap", rID)
		}
		if !sche.unbindTaskFromResource(td, rID) {
			glog.Fatalf("flowscheduler: could not unbind task %v from resource %v on completion", td.Uid, rID)
		}
	}
	// A task with no binding completed without ever being observed as
	// scheduled; this can happen after a machine failure marks it failed
	// and unbinds it, followed by a late completion notification. Nothing
	// further to unwind in that case.

	// A task already removed from the flow network (failed/killed) has
	// no node left to tear down.
	removed := td.State == proto.TaskDescriptor_Failed || td.State == proto.TaskDescriptor_Killed
	td.State = proto.TaskDescriptor_Completed
	if report != nil {
		report.TaskId = td.Uid
	}

	if !removed && len(td.DelegatedFrom) == 0 {
		nodeID := sche.graphManager.TaskCompleted(utility.TaskID(td.Uid))
		sche.tasksCompletedDuringSolverRun[uint64(nodeID)] = struct{}{}
	}
}

func (sche *scheduler) HandleTaskDelegationFailure(td *proto.TaskDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleTaskDelegationFailure(td)
}

func (sche *scheduler) handleTaskDelegationFailure(td *proto.TaskDescriptor) {
	// Forwarding delegation failures to a delegating coordinator is out
	// of scope (spec.md Non-goals: single cluster, no federation).
}

func (sche *scheduler) HandleTaskDelegationSuccess(td *proto.TaskDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleTaskDelegationSuccess(td)
}

func (sche *scheduler) handleTaskDelegationSuccess(td *proto.TaskDescriptor) {}

// insertTaskIntoRunnables adds taskID to jobID's runnable set.
func (sche *scheduler) insertTaskIntoRunnables(jobID utility.JobID, taskID utility.TaskID) {
	if _, ok := sche.runnableTasks[jobID]; !ok {
		sche.runnableTasks[jobID] = make(TaskSet)
	}
	sche.runnableTasks[jobID][taskID] = struct{}{}
}

func (sche *scheduler) HandleTaskEviction(td *proto.TaskDescriptor, rd *proto.ResourceDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleTaskEviction(td, rd)
}

func (sche *scheduler) handleTaskEviction(td *proto.TaskDescriptor, rd *proto.ResourceDescriptor) {
	rID := utility.MustResourceIDFromUUID(rd.Uuid)
	taskID := utility.TaskID(td.Uid)
	jobID := utility.MustJobIDFromString(td.JobID)

	sche.graphManager.TaskEvicted(taskID, rID)

	if !sche.unbindTaskFromResource(td, rID) {
		glog.Fatalf("flowscheduler: could not unbind task %v from resource %v for eviction", taskID, rID)
	}
	td.State = proto.TaskDescriptor_Runnable
	sche.insertTaskIntoRunnables(jobID, taskID)
}

func (sche *scheduler) HandleTaskFailure(td *proto.TaskDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleTaskFailure(td)
}

func (sche *scheduler) handleTaskFailure(td *proto.TaskDescriptor) {
	taskID := utility.TaskID(td.Uid)
	sche.graphManager.TaskFailed(taskID)

	rID, ok := sche.TaskBindings[taskID]
	if ok {
		if sche.resourceMap.FindPtrOrNull(rID) == nil {
			glog.Fatalf("flowscheduler: resource %v is not found in resourceMap", rID)
		}
		if !sche.unbindTaskFromResource(td, rID) {
			glog.Fatalf("flowscheduler: could not unbind task %v from resource %v on failure", taskID, rID)
		}
	}
	td.State = proto.TaskDescriptor_Failed

	if len(td.DelegatedFrom) != 0 {
		// Forwarding the failure to the delegating coordinator is out of
		// scope here, same as handleTaskDelegationFailure.
		glog.V(1).Infof("flowscheduler: delegated task %v failed, not forwarding", taskID)
	}
}

func (sche *scheduler) HandleTaskFinalReport(report *proto.TaskFinalReport, td *proto.TaskDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleTaskFinalReport(report, td)
}

func (sche *scheduler) handleTaskFinalReport(report *proto.TaskFinalReport, td *proto.TaskDescriptor) {
	if report == nil || td == nil {
		return
	}
	td.AttemptCount = 0
}

func (sche *scheduler) HandleTaskRemoval(td *proto.TaskDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleTaskRemoval(td)
}

func (sche *scheduler) handleTaskRemoval(td *proto.TaskDescriptor) {
	taskID := utility.TaskID(td.Uid)
	// No dedicated graph-manager removal op exists for a task that was
	// never scheduled or has already terminated; TaskFailed removes
	// whatever flow-graph state remains without requiring it to have run.
	sche.graphManager.TaskFailed(taskID)

	if td.State == proto.TaskDescriptor_Running {
		sche.killRunningTask(taskID)
		return
	}
	if td.State == proto.TaskDescriptor_Runnable {
		jobID := utility.MustJobIDFromString(td.JobID)
		sche.insertTaskIntoRunnables(jobID, taskID)
	}
	td.State = proto.TaskDescriptor_Killed
}

func (sche *scheduler) KillRunningTask(taskID utility.TaskID) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.killRunningTask(taskID)
}

func (sche *scheduler) killRunningTask(taskID utility.TaskID) {
	sche.graphManager.TaskKilled(taskID)

	td := sche.taskMap.FindPtrOrNull(taskID)
	if td == nil {
		glog.Fatalf("flowscheduler: tried to kill unknown task %v, not present in taskMap", taskID)
	}
	rID, ok := sche.TaskBindings[taskID]
	if td.State != proto.TaskDescriptor_Running || !ok {
		glog.Fatalf("flowscheduler: task %v not bound or running on any resource", taskID)
	}
	td.State = proto.TaskDescriptor_Killed

	if !sche.unbindTaskFromResource(td, rID) {
		glog.Fatalf("flowscheduler: could not unbind task %v from resource %v on kill", taskID, rID)
	}
}

// PlaceDelegatedTask places a task delegated from a superior coordinator
// directly onto id, bypassing the flow graph (spec.md Non-goals excludes
// multi-coordinator federation, so this degrades to a direct bind). It
// returns false if the resource can no longer accept it.
func (sche *scheduler) PlaceDelegatedTask(td *proto.TaskDescriptor, id utility.ResourceID) bool {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	return sche.placeDelegatedTask(td, id)
}

func (sche *scheduler) placeDelegatedTask(td *proto.TaskDescriptor, id utility.ResourceID) bool {
	resourceStatus := sche.resourceMap.FindPtrOrNull(id)
	if resourceStatus == nil || resourceStatus.Descriptor.State != proto.ResourceDescriptor_ResourceIdle {
		return false
	}
	sche.bindTaskToResource(td, id)
	td.State = proto.TaskDescriptor_Assigned
	return true
}

// RegisterResource marks every PU beneath rtnd schedulable, wires the
// subtree into the flow graph and, if it is a topology root, tracks it
// for post-iteration statistics refresh.
func (sche *scheduler) RegisterResource(rtnd *proto.ResourceTopologyNodeDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.registerResource(rtnd)
}

func (sche *scheduler) registerResource(rtnd *proto.ResourceTopologyNodeDescriptor) {
	var markSchedulable func(n *proto.ResourceTopologyNodeDescriptor)
	markSchedulable = func(n *proto.ResourceTopologyNodeDescriptor) {
		if n.ResourceDesc.Type == proto.ResourceDescriptor_ResourcePu {
			n.ResourceDesc.Schedulable = true
			if n.ResourceDesc.State == proto.ResourceDescriptor_ResourceUnknown {
				n.ResourceDesc.State = proto.ResourceDescriptor_ResourceIdle
			}
		}
		for _, child := range n.Children {
			markSchedulable(child)
		}
	}
	markSchedulable(rtnd)

	sche.graphManager.AddResourceTopology(rtnd)

	if rtnd.ParentId == "" {
		sche.resourceRoots[rtnd] = struct{}{}
	}
}

// ScheduleAllJobs computes which outstanding jobs currently have
// runnable tasks and schedules exactly those (spec.md §4.4 step 1).
func (sche *scheduler) ScheduleAllJobs(stat *utility.SchedulerStats) (uint64, []proto.SchedulingDelta) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	return sche.scheduleAllJobs(stat)
}

func (sche *scheduler) scheduleAllJobs(stat *utility.SchedulerStats) (uint64, []proto.SchedulingDelta) {
	start := time.Now()
	jds := make([]*proto.JobDescriptor, 0, len(sche.jobsToSchedule))
	for _, jd := range sche.jobsToSchedule {
		if len(sche.computeRunnableTasksForJob(jd)) > 0 {
			jds = append(jds, jd)
		}
	}
	scheduled, deltas := sche.scheduleJobs(jds)
	if stat != nil {
		stat.TotalRuntimeMicros = uint64(time.Since(start).Microseconds())
	}
	return scheduled, deltas
}

// ScheduleJob runs a full scheduling iteration restricted to a single
// job; inefficient (it still traverses the whole resource graph) but
// useful for placing one job's tasks without waiting for the next
// cluster-wide round.
func (sche *scheduler) ScheduleJob(jd *proto.JobDescriptor, stats *utility.SchedulerStats) uint64 {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	return sche.scheduleJob(jd, stats)
}

func (sche *scheduler) scheduleJob(jd *proto.JobDescriptor, stats *utility.SchedulerStats) uint64 {
	scheduled, _ := sche.scheduleJobs([]*proto.JobDescriptor{jd})
	return scheduled
}

// ScheduleJobs runs one scheduling iteration over jdsRunnable (spec.md
// §4.4): refresh time-dependent costs, wire the jobs' task nodes into
// the flow graph, solve, and apply the resulting deltas.
func (sche *scheduler) ScheduleJobs(jdsRunnable []*proto.JobDescriptor) (uint64, []proto.SchedulingDelta) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	return sche.scheduleJobs(jdsRunnable)
}

func (sche *scheduler) scheduleJobs(jdsRunnable []*proto.JobDescriptor) (uint64, []proto.SchedulingDelta) {
	if len(jdsRunnable) == 0 {
		return 0, nil
	}

	sche.graphManager.UpdateAllCostsToUnscheduledAggs()
	sche.graphManager.AddOrUpdateJobNodes(jdsRunnable)

	numScheduled, deltas := sche.runSchedulingIteration()
	glog.V(1).Infof("flowscheduler: scheduling iteration %d complete, placed %d tasks", sche.solverRunCnt, numScheduled)
	sche.solverRunCnt++
	sche.dimacsStats.ResetStats()
	sche.tasksCompletedDuringSolverRun = make(map[uint64]struct{})
	sche.pusRemovedDuringSolverRun = make(map[uint64]struct{})

	return uint64(numScheduled), deltas
}

// runSchedulingIteration performs the remaining steps of spec.md §4.4:
// solve, turn the solution into deltas (preemptions first, so a
// resource a PLACE targets is already known free), apply them, refresh
// the resource-topology statistics every stats-dependent cost model
// (coco/octopus/whare) needs for its next round, and dump cost-model
// debug output when configured to.
func (sche *scheduler) runSchedulingIteration() (int, []proto.SchedulingDelta) {
	taskMappings := sche.solver.Solve()

	deltas := sche.graphManager.SchedulingDeltasForPreemptedTasks(taskMappings, sche.resourceMap)
	for taskNodeID, resourceNodeID := range taskMappings {
		d := sche.graphManager.NodeBindingToSchedulingDelta(taskNodeID, resourceNodeID, sche.TaskBindings)
		if d != nil {
			deltas = append(deltas, *d)
		}
	}

	numScheduled := sche.applySchedulingDeltas(deltas)

	for rtnd := range sche.resourceRoots {
		sche.graphManager.UpdateResourceTopology(rtnd)
	}

	if sche.costModel.DependsOnTopologyStats() {
		sche.graphManager.ComputeTopologyStatistics(sche.graphManager.SinkNode())
	}

	if sche.debugCostModel {
		sche.dumpCostModelDebugInfo()
	}

	return numScheduled, deltas
}

// dumpCostModelDebugInfo writes the cost model's DebugInfo/DebugInfoCSV
// for this round under debugOutputDir, named by solverRunCnt so
// successive rounds don't overwrite each other.
func (sche *scheduler) dumpCostModelDebugInfo() {
	if err := os.MkdirAll(sche.debugOutputDir, 0755); err != nil {
		glog.Errorf("flowscheduler: could not create debug output dir %q: %v", sche.debugOutputDir, err)
		return
	}

	txtPath := filepath.Join(sche.debugOutputDir, fmt.Sprintf("cost_model_%d.txt", sche.solverRunCnt))
	if err := os.WriteFile(txtPath, []byte(sche.costModel.DebugInfo()), 0644); err != nil {
		glog.Errorf("flowscheduler: could not write cost model debug dump %q: %v", txtPath, err)
	}

	csvPath := filepath.Join(sche.debugOutputDir, fmt.Sprintf("cost_model_%d.csv", sche.solverRunCnt))
	if err := os.WriteFile(csvPath, []byte(sche.costModel.DebugInfoCSV()), 0644); err != nil {
		glog.Errorf("flowscheduler: could not write cost model debug CSV %q: %v", csvPath, err)
	}
}

// applySchedulingDeltas effects each delta against the event-scheduler
// bookkeeping (TaskBindings/resourceBindings/job and task state); a
// delta whose task or resource has vanished since the solver read the
// graph is logged and skipped rather than treated as fatal, since a
// concurrent deregistration can race a long solver run.
func (sche *scheduler) applySchedulingDeltas(deltas []proto.SchedulingDelta) int {
	numScheduled := 0
	for _, d := range deltas {
		td := sche.taskMap.FindPtrOrNull(utility.TaskID(d.TaskId))
		if td == nil {
			glog.Warningf("flowscheduler: scheduling delta for unknown task %v, dropping", d.TaskId)
			continue
		}
		var resourceStatus *utility.ResourceStatus
		if d.Type != proto.SchedulingDelta_NOOP {
			resourceStatus = sche.resourceMap.FindPtrOrNull(utility.MustResourceIDFromUUID(d.ResourceId))
		}

		switch d.Type {
		case proto.SchedulingDelta_PLACE:
			if resourceStatus == nil {
				glog.Warningf("flowscheduler: PLACE delta for unknown resource %v, dropping", d.ResourceId)
				continue
			}
			jd := sche.jobMap.FindPtrOrNull(utility.MustJobIDFromString(td.JobID))
			if jd != nil && jd.State != proto.JobDescriptor_Running {
				jd.State = proto.JobDescriptor_Running
			}
			sche.handleTaskPlacement(td, resourceStatus.Descriptor)
			numScheduled++
		case proto.SchedulingDelta_PREEMPT:
			if resourceStatus == nil {
				glog.Warningf("flowscheduler: PREEMPT delta for unknown resource %v, dropping", d.ResourceId)
				continue
			}
			sche.handleTaskEviction(td, resourceStatus.Descriptor)
		case proto.SchedulingDelta_MIGRATE:
			if resourceStatus == nil {
				glog.Warningf("flowscheduler: MIGRATE delta for unknown resource %v, dropping", d.ResourceId)
				continue
			}
			sche.handleTaskMigration(td, resourceStatus.Descriptor)
		case proto.SchedulingDelta_NOOP:
			glog.V(2).Infof("flowscheduler: NOOP delta for task %v", d.TaskId)
		default:
			glog.Errorf("flowscheduler: unknown delta type %v", d.Type)
		}
	}
	return numScheduled
}

func (sche *scheduler) HandleTaskMigration(td *proto.TaskDescriptor, rd *proto.ResourceDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleTaskMigration(td, rd)
}

func (sche *scheduler) handleTaskMigration(td *proto.TaskDescriptor, rd *proto.ResourceDescriptor) {
	oldRID, ok := sche.TaskBindings[utility.TaskID(td.Uid)]
	if !ok {
		glog.Fatalf("flowscheduler: migrating task %v has no prior resource binding", td.Uid)
	}
	newRID := utility.MustResourceIDFromUUID(rd.Uuid)

	sche.graphManager.TaskMigrated(utility.TaskID(td.Uid), oldRID, newRID)

	if !sche.unbindTaskFromResource(td, oldRID) {
		glog.Fatalf("flowscheduler: could not unbind task %v from resource %v for migration", td.Uid, oldRID)
	}
	sche.bindTaskToResource(td, newRID)
	td.State = proto.TaskDescriptor_Assigned
}

// HandleTaskPlacement binds td to rd following a PLACE delta: update the
// event-scheduler bookkeeping and inform the flow graph so the binding
// is reflected on the next scheduling round's arcs.
func (sche *scheduler) HandleTaskPlacement(td *proto.TaskDescriptor, rd *proto.ResourceDescriptor) {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	sche.handleTaskPlacement(td, rd)
}

func (sche *scheduler) handleTaskPlacement(td *proto.TaskDescriptor, rd *proto.ResourceDescriptor) {
	rID := utility.MustResourceIDFromUUID(rd.Uuid)
	sche.bindTaskToResource(td, rID)
	td.State = proto.TaskDescriptor_Assigned
	sche.graphManager.TaskScheduled(utility.TaskID(td.Uid), rID)
}

// ComputeRunnableTasksForJob returns every task of jd that isn't already
// terminal, adding them to the global runnable set. Dependency-based
// lazy graph reduction between tasks of a job is out of scope (spec.md
// Non-goals: no intra-job DAG scheduling), so every non-terminal task of
// a job is runnable as soon as the job itself is.
func (sche *scheduler) ComputeRunnableTasksForJob(jd *proto.JobDescriptor) TaskSet {
	sche.mu.Lock()
	defer sche.mu.Unlock()
	return sche.computeRunnableTasksForJob(jd)
}

func (sche *scheduler) computeRunnableTasksForJob(jd *proto.JobDescriptor) TaskSet {
	jobID := utility.MustJobIDFromString(jd.Uuid)
	for _, td := range jd.Tasks {
		switch td.State {
		case proto.TaskDescriptor_Completed, proto.TaskDescriptor_Failed, proto.TaskDescriptor_Killed:
			continue
		default:
			taskID := utility.TaskID(td.Uid)
			sche.insertTaskIntoRunnables(jobID, taskID)
		}
	}
	return sche.runnableTasks[jobID]
}
