package flowmanager

import (
	"strconv"

	"github.com/golang/glog"

	pb "github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/costmodel"
	"github.com/ms705/firmament/pkg/scheduling/dimacs"
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
	"github.com/ms705/firmament/pkg/scheduling/utility"
	"github.com/ms705/firmament/pkg/scheduling/utility/queue"
)

var _ GraphManager = &graphManager{}

// graphManager is the sole owner of the live flowgraph.Graph; every
// mutation to it funnels through cm (a GraphChangeManager) so the
// change is both applied and recorded for the next incremental solver
// run. Grounded on
// NickrenREN-firmament-go/pkg/scheduling/flowmanager/graph_manager.go,
// adapted to this module's flattened job.Tasks list (see below) in
// place of the teacher's spawned-task DAG walk.
type graphManager struct {
	// UpdatePreferencesRunningTask re-evaluates a running task's resource
	// and equivalence-class preferences on every scheduling round, not
	// just its continuation/preemption cost.
	UpdatePreferencesRunningTask bool
	Preemption                   bool
	MaxTasksPerPu                uint64

	cm          GraphChangeManager
	sinkNode    *flowgraph.Node
	costModeler costmodel.CostModeler

	resourceToNode   map[utility.ResourceID]*flowgraph.Node
	taskToNode       map[utility.TaskID]*flowgraph.Node
	taskECToNode     map[utility.EquivClass]*flowgraph.Node
	jobUnschedToNode map[utility.JobID]*flowgraph.Node
	taskToRunningArc map[utility.TaskID]*flowgraph.Arc
	nodeToParentNode map[*flowgraph.Node]*flowgraph.Node

	// leafResourceIDs mirrors the PU ids known to the cost modeler;
	// leafNodeIDs is the flow-graph-node equivalent exposed to callers
	// (e.g. the solver, which needs to know which nodes are PUs when
	// interpreting a flow assignment).
	leafResourceIDs map[utility.ResourceID]struct{}
	leafNodeIDs     map[flowgraph.NodeID]struct{}

	dimacsStats *dimacs.ChangeStats
	// curTraversalCounter marks nodes visited during the current
	// ComputeTopologyStatistics pass, avoiding an O(n) reset before each
	// traversal.
	curTraversalCounter uint32
}

// taskOrNode pairs a task descriptor with its (possibly absent) flow
// node while walking the update queue.
type taskOrNode struct {
	Node     *flowgraph.Node
	TaskDesc *pb.TaskDescriptor
}

func NewGraphManager(costModeler costmodel.CostModeler, leafResourceIDs map[utility.ResourceID]struct{},
	dimacsStats *dimacs.ChangeStats, maxTasksPerPu uint64) GraphManager {
	cm := NewChangeManager(dimacsStats)
	sinkNode := cm.AddNode(flowgraph.NodeTypeSink, 0, dimacs.AddSinkNode, "SINK")
	return &graphManager{
		dimacsStats:      dimacsStats,
		leafResourceIDs:  leafResourceIDs,
		cm:               cm,
		costModeler:      costModeler,
		resourceToNode:   make(map[utility.ResourceID]*flowgraph.Node),
		taskToNode:       make(map[utility.TaskID]*flowgraph.Node),
		taskECToNode:     make(map[utility.EquivClass]*flowgraph.Node),
		jobUnschedToNode: make(map[utility.JobID]*flowgraph.Node),
		taskToRunningArc: make(map[utility.TaskID]*flowgraph.Arc),
		nodeToParentNode: make(map[*flowgraph.Node]*flowgraph.Node),
		leafNodeIDs:      make(map[flowgraph.NodeID]struct{}),
		sinkNode:         sinkNode,
		MaxTasksPerPu:    maxTasksPerPu,
	}
}

func (gm *graphManager) GraphChangeManager() GraphChangeManager { return gm.cm }
func (gm *graphManager) SinkNode() *flowgraph.Node               { return gm.sinkNode }
func (gm *graphManager) LeafNodeIDs() map[flowgraph.NodeID]struct{} { return gm.leafNodeIDs }

// AddOrUpdateJobNodes adds an unscheduled-aggregator node for any job
// seen for the first time, then queues every task of the job that
// needs a flow-graph node (RUNNABLE/RUNNING/ASSIGNED) for a preference
// refresh via updateFlowGraph. job.Tasks is the flattened, authoritative
// task list (pkg/proto doc comment); unlike the teacher this module has
// no spawned-task DAG to walk, so there is no nodeless-task branch.
func (gm *graphManager) AddOrUpdateJobNodes(jobs []*pb.JobDescriptor) {
	nodeQueue := queue.NewFIFO()
	markedNodes := make(map[flowgraph.NodeID]struct{})
	for _, job := range jobs {
		jid := utility.MustJobIDFromString(job.Uuid)
		unschedAggNode := gm.jobUnschedToNode[jid]
		if unschedAggNode == nil {
			unschedAggNode = gm.addUnscheduledAggNode(jid)
		}

		for _, td := range job.Tasks {
			if existing := gm.nodeForTaskID(utility.TaskID(td.Uid)); existing != nil {
				if _, ok := markedNodes[existing.ID]; !ok {
					nodeQueue.Push(&taskOrNode{Node: existing, TaskDesc: td})
					markedNodes[existing.ID] = struct{}{}
				}
				continue
			}
			if !taskNeedNode(td) {
				continue
			}
			taskNode := gm.addTaskNode(jid, td)
			gm.updateUnscheduledAggNode(unschedAggNode, 1)
			nodeQueue.Push(&taskOrNode{Node: taskNode, TaskDesc: td})
			markedNodes[taskNode.ID] = struct{}{}
		}
	}
	gm.updateFlowGraph(nodeQueue, markedNodes)
}

func (gm *graphManager) UpdateTimeDependentCosts(jobs []*pb.JobDescriptor) {
	gm.AddOrUpdateJobNodes(jobs)
}

// UpdateResourceTopology refreshes capacity/num-slots/num-running-tasks
// for the tree rooted at rtnd and propagates the delta up to the root.
func (gm *graphManager) UpdateResourceTopology(rtnd *pb.ResourceTopologyNodeDescriptor) {
	rd := rtnd.ResourceDesc
	oldCapacity := int64(gm.capacityFromResNodeToParent(rd))
	oldNumSlots := int64(rd.NumSlotsBelow)
	oldNumRunningTasks := int64(rd.NumRunningTasksBelow)
	gm.updateResourceTopologyDFS(rtnd)

	if rtnd.ParentId != "" {
		curNode := gm.nodeForResourceID(utility.MustResourceIDFromUUID(rtnd.ParentId))
		capDelta := int64(gm.capacityFromResNodeToParent(rd)) - oldCapacity
		slotsDelta := int64(rd.NumSlotsBelow) - oldNumSlots
		runningTasksDelta := int64(rd.NumRunningTasksBelow) - oldNumRunningTasks
		gm.updateResourceStatsUpToRoot(curNode, capDelta, slotsDelta, runningTasksDelta)
	}
}

func (gm *graphManager) AddResourceTopology(rtnd *pb.ResourceTopologyNodeDescriptor) {
	if rtnd == nil {
		glog.Fatalf("flowmanager: AddResourceTopology: rtnd is nil")
	}
	rd := rtnd.ResourceDesc
	gm.addResourceTopologyDFS(rtnd)
	if rtnd.ParentId != "" {
		rID := utility.MustResourceIDFromUUID(rtnd.ParentId)
		currNode := gm.nodeForResourceID(rID)
		capacityToParent := gm.capacityFromResNodeToParent(rd)
		gm.updateResourceStatsUpToRoot(currNode, int64(capacityToParent), int64(rd.NumSlotsBelow), int64(rd.NumRunningTasksBelow))
	}
}

func (gm *graphManager) NodeBindingToSchedulingDelta(tid, rid flowgraph.NodeID, tb map[utility.TaskID]utility.ResourceID) *pb.SchedulingDelta {
	taskNode := gm.cm.Graph().Node(tid)
	if !taskNode.IsTaskNode() {
		glog.Fatalf("flowmanager: NodeBindingToSchedulingDelta: node %d is not a task node", tid)
	}
	resNode := gm.cm.Graph().Node(rid)
	var deltaType pb.SchedulingDelta_Type
	switch resNode.Type {
	case flowgraph.NodeTypePu, flowgraph.NodeTypeMachine:
		deltaType = pb.SchedulingDelta_PLACE
	case flowgraph.NodeTypeJobAggregator:
		return nil
	default:
		glog.Fatalf("flowmanager: NodeBindingToSchedulingDelta: unexpected destination node type %v", resNode.Type)
	}

	task := taskNode.Task
	res := resNode.ResourceDescriptor

	boundRes, ok := tb[utility.TaskID(task.Uid)]
	if !ok {
		return &pb.SchedulingDelta{Type: deltaType, TaskId: task.Uid, ResourceId: res.Uuid}
	}

	if boundRes != utility.MustResourceIDFromUUID(res.Uuid) {
		return &pb.SchedulingDelta{
			Type:          pb.SchedulingDelta_MIGRATE,
			TaskId:        task.Uid,
			ResourceId:    res.Uuid,
			OldResourceId: strconv.FormatUint(uint64(boundRes), 10),
		}
	}

	// Already scheduled here: re-add the task id to the resource's
	// running-tasks list, which the caller clears at the start of every
	// round (see SchedulingDeltasForPreemptedTasks).
	res.CurrentRunningTasks = append(res.CurrentRunningTasks, task.Uid)
	return nil
}

func (gm *graphManager) SchedulingDeltasForPreemptedTasks(taskMappings TaskMapping, rmap *utility.ResourceMap) []pb.SchedulingDelta {
	deltas := make([]pb.SchedulingDelta, 0)
	rmap.RLock()
	defer rmap.RUnlock()

	for _, resourceStatus := range rmap.UnsafeGet() {
		rd := resourceStatus.Descriptor
		runningTasks := rd.CurrentRunningTasks
		for _, taskID := range runningTasks {
			taskNode := gm.nodeForTaskID(utility.TaskID(taskID))
			if taskNode == nil {
				continue
			}
			if _, ok := taskMappings[taskNode.ID]; !ok {
				deltas = append(deltas, pb.SchedulingDelta{
					TaskId:     taskID,
					ResourceId: rd.Uuid,
					Type:       pb.SchedulingDelta_PREEMPT,
				})
			}
		}
		// Cleared here and repopulated by NodeBindingToSchedulingDelta /
		// the scheduler as it reasserts each binding for this round.
		rd.CurrentRunningTasks = make([]uint64, 0)
	}
	return deltas
}

func (gm *graphManager) JobCompleted(id utility.JobID) { gm.removeUnscheduledAggNode(id) }
func (gm *graphManager) JobRemoved(id utility.JobID)   { gm.removeUnscheduledAggNode(id) }

func (gm *graphManager) PurgeUnconnectedEquivClassNodes() {
	for _, node := range gm.taskECToNode {
		if len(node.IncomingArcMap) == 0 {
			gm.removeEquivClassNode(node)
		}
	}
}

// RemoveResourceTopology removes rd and its subtree, propagating the
// capacity/stat deltas up to the root, and returns the PU node ids that
// were removed so the caller can evict whatever tasks were bound there.
func (gm *graphManager) RemoveResourceTopology(rd *pb.ResourceDescriptor) []flowgraph.NodeID {
	rID := utility.MustResourceIDFromUUID(rd.Uuid)
	rNode := gm.nodeForResourceID(rID)
	if rNode == nil {
		glog.Fatalf("flowmanager: RemoveResourceTopology: no node for resource %s", rd.Uuid)
	}
	removedPUs := make([]flowgraph.NodeID, 0)
	capDelta := int64(0)
	for _, arc := range rNode.OutgoingArcMap {
		capDelta -= int64(arc.CapUpperBound)
		if arc.DstNode.ResourceID != 0 {
			removedPUs = append(removedPUs, gm.traverseAndRemoveTopology(arc.DstNode)...)
		}
	}
	gm.updateResourceStatsUpToRoot(rNode, capDelta, -int64(rNode.ResourceDescriptor.NumSlotsBelow), -int64(rNode.ResourceDescriptor.NumRunningTasksBelow))
	if rNode.Type == flowgraph.NodeTypePu {
		removedPUs = append(removedPUs, rNode.ID)
	} else if rNode.Type == flowgraph.NodeTypeMachine {
		gm.costModeler.RemoveMachine(rNode.ResourceID)
	}
	gm.removeResourceNode(rNode)
	return removedPUs
}

func (gm *graphManager) TaskCompleted(id utility.TaskID) flowgraph.NodeID {
	taskNode := gm.taskToNode[id]
	if taskNode == nil {
		glog.Fatalf("flowmanager: TaskCompleted: no node for task %d", id)
	}
	if gm.Preemption {
		gm.updateUnscheduledAggNode(gm.unschedAggNodeForJobID(taskNode.JobID), -1)
	}
	delete(gm.taskToRunningArc, id)
	nodeID := gm.removeTaskNode(taskNode)
	gm.costModeler.RemoveTask(id)
	return nodeID
}

func (gm *graphManager) TaskMigrated(id utility.TaskID, from, to utility.ResourceID) {
	gm.TaskEvicted(id, from)
	gm.TaskScheduled(id, to)
}

func (gm *graphManager) removeTaskHelper(taskID utility.TaskID) {
	taskNode := gm.nodeForTaskID(taskID)
	if taskNode == nil {
		// Task already completed/removed.
		return
	}
	if gm.Preemption {
		gm.updateUnscheduledAggNode(gm.unschedAggNodeForJobID(taskNode.JobID), -1)
	}
	delete(gm.taskToRunningArc, taskID)
	gm.removeTaskNode(taskNode)
	gm.costModeler.RemoveTask(taskID)
}

func (gm *graphManager) TaskEvicted(taskID utility.TaskID, rid utility.ResourceID) {
	taskNode := gm.nodeForTaskID(taskID)
	if taskNode == nil {
		glog.Fatalf("flowmanager: TaskEvicted: no node for task %d", taskID)
	}
	taskNode.Type = flowgraph.NodeTypeUnscheduledTask

	arc, ok := gm.taskToRunningArc[taskID]
	if !ok {
		glog.Fatalf("flowmanager: TaskEvicted: no running arc for task %d", taskID)
	}
	delete(gm.taskToRunningArc, taskID)
	gm.cm.DeleteArc(arc, dimacs.DelArcEvictedTask, "TaskEvicted: delete running arc")

	if !gm.Preemption {
		jobID := utility.JobID(taskNode.JobID)
		unschedAggNode := gm.unschedAggNodeForJobID(jobID)
		if unschedAggNode == nil {
			glog.Fatalf("flowmanager: TaskEvicted: no unscheduled aggregator for job %d", jobID)
		}
		gm.updateUnscheduledAggNode(unschedAggNode, 1)
	}
}

func (gm *graphManager) TaskFailed(id utility.TaskID) { gm.removeTaskHelper(id) }
func (gm *graphManager) TaskKilled(id utility.TaskID) { gm.removeTaskHelper(id) }

func (gm *graphManager) TaskScheduled(id utility.TaskID, rid utility.ResourceID) {
	taskNode := gm.nodeForTaskID(id)
	if taskNode == nil {
		glog.Fatalf("flowmanager: TaskScheduled: no node for task %d", id)
	}
	taskNode.Type = flowgraph.NodeTypeScheduledTask
	resNode := gm.nodeForResourceID(rid)
	gm.updateArcsForScheduledTask(taskNode, resNode)
}

func (gm *graphManager) UpdateAllCostsToUnscheduledAggs() {
	for _, jobNode := range gm.jobUnschedToNode {
		for _, arc := range jobNode.IncomingArcMap {
			if arc.SrcNode.IsTaskAssignedOrRunning() {
				gm.updateRunningTaskNode(arc.SrcNode, false, nil, nil)
			} else {
				gm.updateTaskToUnscheduledAggArc(arc.SrcNode)
			}
		}
	}
}

// ComputeTopologyStatistics walks the resource topology in BFS order
// from node (normally the sink) along incoming arcs, letting the cost
// modeler prepare/gather/update per-node statistics as it goes. Only
// correct on a tree, like the reference implementations it is grounded
// on; a DAG would require processing a node only after all its children
// have contributed.
func (gm *graphManager) ComputeTopologyStatistics(node *flowgraph.Node) {
	toVisit := queue.NewFIFO()
	gm.curTraversalCounter++
	toVisit.Push(node)
	node.Visited = gm.curTraversalCounter
	for !toVisit.IsEmpty() {
		curNode := toVisit.Pop().(*flowgraph.Node)
		for _, incomingArc := range curNode.IncomingArcMap {
			if incomingArc.SrcNode.Visited != gm.curTraversalCounter {
				gm.costModeler.PrepareStats(incomingArc.SrcNode)
				toVisit.Push(incomingArc.SrcNode)
				incomingArc.SrcNode.Visited = gm.curTraversalCounter
			}
			incomingArc.SrcNode = gm.costModeler.GatherStats(incomingArc.SrcNode, curNode)
			incomingArc.SrcNode = gm.costModeler.UpdateStats(incomingArc.SrcNode, curNode)
		}
	}
}

// --- private helpers ---

func (gm *graphManager) addEquivClassNode(ec utility.EquivClass) *flowgraph.Node {
	ecNode := gm.cm.AddNode(flowgraph.NodeTypeEquivClass, 0, dimacs.AddEquivClassNode, "AddEquivClassNode")
	ecNode.EquivClass = &ec
	if _, ok := gm.taskECToNode[ec]; ok {
		glog.Fatalf("flowmanager: addEquivClassNode: mapping for EC %v already present", ec)
	}
	gm.taskECToNode[ec] = ecNode
	return ecNode
}

func (gm *graphManager) addResourceNode(rd *pb.ResourceDescriptor) *flowgraph.Node {
	comment := "AddResourceNode"
	if rd.FriendlyName != "" {
		comment = rd.FriendlyName
	}
	resourceNode := gm.cm.AddNode(flowgraph.TransformToResourceNodeType(rd), 0, dimacs.AddResourceNode, comment)
	rID := utility.MustResourceIDFromUUID(rd.Uuid)
	resourceNode.ResourceID = rID
	resourceNode.ResourceDescriptor = rd
	if _, ok := gm.resourceToNode[rID]; ok {
		glog.Fatalf("flowmanager: addResourceNode: mapping for resource %v already present", rID)
	}
	gm.resourceToNode[rID] = resourceNode

	if resourceNode.Type == flowgraph.NodeTypePu {
		gm.leafNodeIDs[resourceNode.ID] = struct{}{}
		gm.leafResourceIDs[rID] = struct{}{}
	}
	return resourceNode
}

// addResourceTopologyDFS adds every node of the subtree rooted at rtnd,
// connecting PU leaves to the sink, computing fresh statistics for
// newly-added nodes, and wiring each new node to its parent.
func (gm *graphManager) addResourceTopologyDFS(rtnd *pb.ResourceTopologyNodeDescriptor) {
	rd := rtnd.ResourceDesc
	rID := utility.MustResourceIDFromUUID(rd.Uuid)
	resourceNode := gm.nodeForResourceID(rID)

	addedNewResNode := false
	if resourceNode == nil {
		addedNewResNode = true
		resourceNode = gm.addResourceNode(rd)
		switch resourceNode.Type {
		case flowgraph.NodeTypePu:
			// PUs are the schedulable leaves: connect straight to the sink.
			gm.updateResToSinkArc(resourceNode)
			if rd.NumSlotsBelow == 0 {
				rd.NumSlotsBelow = gm.MaxTasksPerPu
			}
			if rd.NumRunningTasksBelow == 0 {
				rd.NumRunningTasksBelow = uint64(len(rd.CurrentRunningTasks))
			}
		case flowgraph.NodeTypeMachine:
			gm.costModeler.AddMachine(rtnd)
			rd.NumRunningTasksBelow = 0
		default:
			rd.NumRunningTasksBelow = 0
		}
	} else {
		rd.NumSlotsBelow = gm.costModeler.LeafResourceNodeToSink(rID).Capacity
		rd.NumRunningTasksBelow = 0
	}

	gm.visitTopologyChildren(rtnd)

	if addedNewResNode {
		if rtnd.ParentId == "" {
			return
		}
		pID := utility.MustResourceIDFromUUID(rtnd.ParentId)
		parentNode := gm.nodeForResourceID(pID)
		if parentNode == nil {
			glog.Fatalf("flowmanager: addResourceTopologyDFS: no parent node for resource %v", rd.Uuid)
		}
		if _, ok := gm.nodeToParentNode[resourceNode]; ok {
			glog.Fatalf("flowmanager: addResourceTopologyDFS: parent mapping for %v already present", rd.Uuid)
		}
		gm.nodeToParentNode[resourceNode] = parentNode

		arcDescriptor := gm.costModeler.ResourceNodeToResourceNode(parentNode.ResourceDescriptor, rd)
		gm.cm.AddArc(parentNode, resourceNode, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
			flowgraph.ArcTypeOther, flowgraph.ArcClassResourceInternal, dimacs.AddArcBetweenRes, "AddResourceTopologyDFS")
	}
}

func (gm *graphManager) addTaskNode(jobID utility.JobID, td *pb.TaskDescriptor) *flowgraph.Node {
	gm.costModeler.AddTask(utility.TaskID(td.Uid))
	taskNode := gm.cm.AddNode(flowgraph.NodeTypeUnscheduledTask, 1, dimacs.AddTaskNode, "AddTaskNode")
	taskNode.Task = td
	taskNode.JobID = jobID
	gm.sinkNode.Excess--
	if _, ok := gm.taskToNode[utility.TaskID(td.Uid)]; ok {
		glog.Fatalf("flowmanager: addTaskNode: mapping for task %d already present", td.Uid)
	}
	gm.taskToNode[utility.TaskID(td.Uid)] = taskNode
	return taskNode
}

func (gm *graphManager) addUnscheduledAggNode(jobID utility.JobID) *flowgraph.Node {
	comment := "UNSCHED_AGG_for_" + strconv.FormatUint(uint64(jobID), 10)
	unschedAggNode := gm.cm.AddNode(flowgraph.NodeTypeJobAggregator, 0, dimacs.AddUnschedJobNode, comment)
	unschedAggNode.JobID = jobID
	if _, ok := gm.jobUnschedToNode[jobID]; ok {
		glog.Fatalf("flowmanager: addUnscheduledAggNode: mapping for job %d already present", jobID)
	}
	gm.jobUnschedToNode[jobID] = unschedAggNode
	return unschedAggNode
}

func (gm *graphManager) capacityFromResNodeToParent(rd *pb.ResourceDescriptor) uint64 {
	if gm.Preemption {
		return rd.NumSlotsBelow
	}
	return rd.NumSlotsBelow - rd.NumRunningTasksBelow
}

// pinTaskToNode restricts taskNode's outgoing arcs to resourceNode only,
// used when preemption is disabled: once a task is placed it cannot be
// reconsidered for anywhere else, so every other preference arc is torn
// down and the surviving arc becomes the running arc.
func (gm *graphManager) pinTaskToNode(taskNode, resourceNode *flowgraph.Node) {
	addedRunningArc := false
	const lowBoundCapacity = uint64(0)

	for dstNodeID, arc := range taskNode.OutgoingArcMap {
		if dstNodeID != resourceNode.ID {
			gm.cm.DeleteArc(arc, dimacs.DelArcTaskToRes, "PinTaskToNode: drop stale preference")
			continue
		}
		addedRunningArc = true
		arcDescriptor := gm.costModeler.TaskContinuation(utility.TaskID(taskNode.Task.Uid))
		arc.Type = flowgraph.ArcTypeRunning
		gm.cm.ChangeArc(arc, lowBoundCapacity, arcDescriptor.Capacity, arcDescriptor.Cost,
			dimacs.ChgArcRunningTask, "PinTaskToNode: transform to running arc")

		if _, ok := gm.taskToRunningArc[utility.TaskID(taskNode.Task.Uid)]; ok {
			glog.Fatalf("flowmanager: pinTaskToNode: running arc for task %d already present", taskNode.Task.Uid)
		}
		gm.taskToRunningArc[utility.TaskID(taskNode.Task.Uid)] = arc
	}

	if !addedRunningArc {
		arcDescriptor := gm.costModeler.TaskContinuation(utility.TaskID(taskNode.Task.Uid))
		newArc := gm.cm.AddArc(taskNode, resourceNode, lowBoundCapacity, arcDescriptor.Capacity, arcDescriptor.Cost,
			flowgraph.ArcTypeRunning, flowgraph.ArcClassTaskToResourcePreference, dimacs.AddArcRunningTask, "PinTaskToNode: add running arc")
		gm.taskToRunningArc[utility.TaskID(taskNode.Task.Uid)] = newArc
	}
}

func (gm *graphManager) removeEquivClassNode(ecNode *flowgraph.Node) {
	delete(gm.taskECToNode, *ecNode.EquivClass)
	gm.cm.DeleteNode(ecNode, dimacs.DelEquivClassNode, "RemoveEquivClassNode")
}

func (gm *graphManager) removeInvalidECPrefArcs(node *flowgraph.Node, prefEcs []utility.EquivClass, changeType dimacs.ChangeType) {
	prefECSet := make(map[utility.EquivClass]struct{}, len(prefEcs))
	for _, ec := range prefEcs {
		prefECSet[ec] = struct{}{}
	}
	var toDelete []*flowgraph.Arc
	for _, arc := range node.OutgoingArcMap {
		if arc.DstNode.EquivClass == nil {
			continue
		}
		if _, ok := prefECSet[*arc.DstNode.EquivClass]; ok {
			continue
		}
		toDelete = append(toDelete, arc)
	}
	for _, arc := range toDelete {
		gm.cm.DeleteArc(arc, changeType, "RemoveInvalidECPrefArcs")
	}
}

func (gm *graphManager) removeInvalidPrefResArcs(node *flowgraph.Node, prefResources []utility.ResourceID, changeType dimacs.ChangeType) {
	prefResSet := make(map[utility.ResourceID]struct{}, len(prefResources))
	for _, rID := range prefResources {
		prefResSet[rID] = struct{}{}
	}
	var toDelete []*flowgraph.Arc
	for _, arc := range node.OutgoingArcMap {
		if arc.DstNode.ResourceID == 0 {
			continue
		}
		if _, ok := prefResSet[arc.DstNode.ResourceID]; ok {
			continue
		}
		if arc.Type == flowgraph.ArcTypeRunning {
			continue
		}
		toDelete = append(toDelete, arc)
	}
	for _, arc := range toDelete {
		gm.cm.DeleteArc(arc, changeType, "RemoveInvalidPrefResArcs")
	}
}

func (gm *graphManager) removeResourceNode(resNode *flowgraph.Node) {
	delete(gm.nodeToParentNode, resNode)
	delete(gm.leafNodeIDs, resNode.ID)
	delete(gm.leafResourceIDs, resNode.ResourceID)
	delete(gm.resourceToNode, resNode.ResourceID)
	gm.cm.DeleteNode(resNode, dimacs.DelResourceNode, "RemoveResourceNode")
}

func (gm *graphManager) removeTaskNode(n *flowgraph.Node) flowgraph.NodeID {
	taskNodeID := n.ID
	n.Excess = 0
	gm.sinkNode.Excess++
	delete(gm.taskToNode, utility.TaskID(n.Task.Uid))
	gm.cm.DeleteNode(n, dimacs.DelTaskNode, "RemoveTaskNode")
	return taskNodeID
}

func (gm *graphManager) removeUnscheduledAggNode(jobID utility.JobID) {
	unschedAggNode := gm.unschedAggNodeForJobID(jobID)
	if unschedAggNode != nil {
		delete(gm.jobUnschedToNode, jobID)
		gm.cm.DeleteNode(unschedAggNode, dimacs.DelUnschedJobNode, "RemoveUnscheduledAggNode")
	}
}

func (gm *graphManager) traverseAndRemoveTopology(resNode *flowgraph.Node) []flowgraph.NodeID {
	removedPUs := make([]flowgraph.NodeID, 0)
	for _, arc := range resNode.OutgoingArcMap {
		if arc.DstNode.ResourceID != 0 {
			removedPUs = append(removedPUs, gm.traverseAndRemoveTopology(arc.DstNode)...)
		}
	}
	if resNode.Type == flowgraph.NodeTypePu {
		removedPUs = append(removedPUs, resNode.ID)
	} else if resNode.Type == flowgraph.NodeTypeMachine {
		gm.costModeler.RemoveMachine(resNode.ResourceID)
	}
	gm.removeResourceNode(resNode)
	return removedPUs
}

// updateArcsForScheduledTask reflects a fresh binding in the graph:
// with preemption disabled the task is pinned (every other arc is torn
// down); with it enabled only a running arc is added/updated alongside
// the existing preference arcs, since the solver may still migrate the
// task next round.
func (gm *graphManager) updateArcsForScheduledTask(taskNode, resourceNode *flowgraph.Node) {
	if !gm.Preemption {
		gm.pinTaskToNode(taskNode, resourceNode)
		return
	}

	taskID := utility.TaskID(taskNode.Task.Uid)
	arcDescriptor := gm.costModeler.TaskContinuation(taskID)
	runningArc := gm.taskToRunningArc[taskID]
	if runningArc != nil {
		runningArc.Type = flowgraph.ArcTypeRunning
		gm.cm.ChangeArc(runningArc, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
			dimacs.ChgArcRunningTask, "UpdateArcsForScheduledTask: transform to running arc")
		gm.updateRunningTaskToUnscheduledAggArc(taskNode)
		return
	}

	runningArc = gm.cm.AddArc(taskNode, resourceNode, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
		flowgraph.ArcTypeRunning, flowgraph.ArcClassTaskToResourcePreference, dimacs.AddArcRunningTask, "UpdateArcsForScheduledTask: add running arc")
	gm.taskToRunningArc[taskID] = runningArc
	gm.updateRunningTaskToUnscheduledAggArc(taskNode)
}

func (gm *graphManager) updateEquivClassNode(ecNode *flowgraph.Node, nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	gm.updateEquivToEquivArcs(ecNode, nodeQueue, markedNodes)
	gm.updateEquivToResArcs(ecNode, nodeQueue, markedNodes)
}

func (gm *graphManager) updateEquivToEquivArcs(ecNode *flowgraph.Node, nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	prefECs := gm.costModeler.GetEquivClassToEquivClassesArcs(*ecNode.EquivClass)
	if len(prefECs) == 0 {
		gm.removeInvalidECPrefArcs(ecNode, prefECs, dimacs.DelArcBetweenEquivClass)
		return
	}

	for _, prefEC := range prefECs {
		prefECNode := gm.nodeForEquivClass(prefEC)
		if prefECNode == nil {
			prefECNode = gm.addEquivClassNode(prefEC)
		}
		arcDescriptor := gm.costModeler.EquivClassToEquivClass(*ecNode.EquivClass, prefEC)
		prefECArc := gm.cm.Graph().GetArc(ecNode, prefECNode)
		if prefECArc == nil {
			gm.cm.AddArc(ecNode, prefECNode, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
				flowgraph.ArcTypeOther, flowgraph.ArcClassEquivToEquiv, dimacs.AddArcBetweenEquivClass, "UpdateEquivClassNode")
		} else {
			gm.cm.ChangeArc(prefECArc, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost, dimacs.ChgArcBetweenEquivClass, "UpdateEquivClassNode")
		}
		if _, ok := markedNodes[prefECNode.ID]; !ok {
			markedNodes[prefECNode.ID] = struct{}{}
			nodeQueue.Push(&taskOrNode{Node: prefECNode})
		}
	}
	gm.removeInvalidECPrefArcs(ecNode, prefECs, dimacs.DelArcBetweenEquivClass)
}

func (gm *graphManager) updateEquivToResArcs(ecNode *flowgraph.Node, nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	prefResources := gm.costModeler.GetOutgoingEquivClassPrefArcs(*ecNode.EquivClass)
	if len(prefResources) == 0 {
		gm.removeInvalidPrefResArcs(ecNode, prefResources, dimacs.DelArcEquivClassToRes)
		return
	}

	for _, prefRID := range prefResources {
		prefResNode := gm.nodeForResourceID(prefRID)
		if prefResNode == nil {
			glog.Fatalf("flowmanager: updateEquivToResArcs: preferred resource node cannot be nil")
		}
		arcDescriptor := gm.costModeler.EquivClassToResourceNode(*ecNode.EquivClass, prefRID)
		prefResArc := gm.cm.Graph().GetArc(ecNode, prefResNode)
		if prefResArc == nil {
			gm.cm.AddArc(ecNode, prefResNode, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
				flowgraph.ArcTypeOther, flowgraph.ArcClassEquivToResource, dimacs.AddArcEquivClassToRes, "UpdateEquivToResArcs")
		} else {
			gm.cm.ChangeArc(prefResArc, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost, dimacs.ChgArcEquivClassToRes, "UpdateEquivToResArcs")
		}
		if _, ok := markedNodes[prefResNode.ID]; !ok {
			markedNodes[prefResNode.ID] = struct{}{}
			nodeQueue.Push(&taskOrNode{Node: prefResNode})
		}
	}
	gm.removeInvalidPrefResArcs(ecNode, prefResources, dimacs.DelArcEquivClassToRes)
}

func (gm *graphManager) updateFlowGraph(nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	for !nodeQueue.IsEmpty() {
		ton := nodeQueue.Pop().(*taskOrNode)
		node := ton.Node
		switch {
		case node.IsTaskNode():
			gm.updateTaskNode(node, nodeQueue, markedNodes)
		case node.IsEquivClassNode():
			gm.updateEquivClassNode(node, nodeQueue, markedNodes)
		case node.IsResourceNode():
			gm.updateResourceNode(node, nodeQueue, markedNodes)
		default:
			glog.Fatalf("flowmanager: updateFlowGraph: unexpected node type %v", node.Type)
		}
	}
}

func (gm *graphManager) updateResourceNode(resNode *flowgraph.Node, nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	gm.updateResOutgoingArcs(resNode, nodeQueue, markedNodes)
}

func (gm *graphManager) updateResourceStatsUpToRoot(currNode *flowgraph.Node, capDelta, slotsDelta, runningTasksDelta int64) {
	for {
		parentNode := gm.nodeToParentNode[currNode]
		if parentNode == nil {
			return
		}
		parentArc := gm.cm.Graph().GetArc(parentNode, currNode)
		if parentArc == nil {
			glog.Fatalf("flowmanager: updateResourceStatsUpToRoot: no arc from %d to %d", parentNode.ID, currNode.ID)
		}
		newCapacity := uint64(int64(parentArc.CapUpperBound) + capDelta)
		gm.cm.ChangeArcCapacity(parentArc, newCapacity, dimacs.ChgArcBetweenRes, "UpdateCapacityUpToRoot")
		parentNode.ResourceDescriptor.NumSlotsBelow = uint64(int64(parentNode.ResourceDescriptor.NumSlotsBelow) + slotsDelta)
		parentNode.ResourceDescriptor.NumRunningTasksBelow = uint64(int64(parentNode.ResourceDescriptor.NumRunningTasksBelow) + runningTasksDelta)
		currNode = parentNode
	}
}

func (gm *graphManager) updateResourceTopologyDFS(rtnd *pb.ResourceTopologyNodeDescriptor) {
	rd := rtnd.ResourceDesc
	rd.NumSlotsBelow = 0
	rd.NumRunningTasksBelow = 0
	if rd.Type == pb.ResourceDescriptor_ResourcePu {
		rd.NumSlotsBelow = gm.MaxTasksPerPu
		rd.NumRunningTasksBelow = uint64(len(rd.CurrentRunningTasks))
	}

	for _, child := range rtnd.Children {
		gm.updateResourceTopologyDFS(child)
		rd.NumSlotsBelow += child.ResourceDesc.NumSlotsBelow
		rd.NumRunningTasksBelow += child.ResourceDesc.NumRunningTasksBelow
	}

	if rtnd.ParentId != "" {
		currNode := gm.nodeForResourceID(utility.MustResourceIDFromUUID(rd.Uuid))
		if currNode == nil {
			glog.Fatalf("flowmanager: updateResourceTopologyDFS: no node for resource %v", rd.Uuid)
		}
		parentNode := gm.nodeToParentNode[currNode]
		if parentNode == nil {
			glog.Fatalf("flowmanager: updateResourceTopologyDFS: no parent node for %d", currNode.ID)
		}
		parentArc := gm.cm.Graph().GetArc(parentNode, currNode)
		gm.cm.ChangeArcCapacity(parentArc, gm.capacityFromResNodeToParent(rd), dimacs.ChgArcBetweenRes, "UpdateResourceTopologyDFS")
	}
}

func (gm *graphManager) updateResOutgoingArcs(resNode *flowgraph.Node, nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	for _, arc := range resNode.OutgoingArcMap {
		if arc.DstNode.ResourceID == 0 {
			gm.updateResToSinkArc(resNode)
			continue
		}
		arcDescriptor := gm.costModeler.ResourceNodeToResourceNode(resNode.ResourceDescriptor, arc.DstNode.ResourceDescriptor)
		gm.cm.ChangeArc(arc, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost, dimacs.ChgArcBetweenRes, "UpdateResOutgoingArcs")
		if _, ok := markedNodes[arc.DstNode.ID]; !ok {
			markedNodes[arc.DstNode.ID] = struct{}{}
			nodeQueue.Push(&taskOrNode{Node: arc.DstNode})
		}
	}
}

// updateResToSinkArc (re)creates the arc from a leaf resource node to
// the sink. PUs are the leaves in this module's topology (see
// addResourceTopologyDFS); a bare single-level Machine with no PU
// children connects directly instead.
func (gm *graphManager) updateResToSinkArc(resNode *flowgraph.Node) {
	if resNode.Type != flowgraph.NodeTypePu && resNode.Type != flowgraph.NodeTypeMachine {
		glog.Fatalf("flowmanager: updateResToSinkArc: node %d is not a leaf resource", resNode.ID)
	}
	resArcSink := gm.cm.Graph().GetArc(resNode, gm.sinkNode)
	arcDescriptor := gm.costModeler.LeafResourceNodeToSink(resNode.ResourceID)
	if resArcSink == nil {
		gm.cm.AddArc(resNode, gm.sinkNode, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
			flowgraph.ArcTypeOther, flowgraph.ArcClassResourceToSink, dimacs.AddArcResToSink, "UpdateResToSinkArc")
	} else {
		gm.cm.ChangeArc(resArcSink, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost, dimacs.ChgArcResToSink, "UpdateResToSinkArc")
	}
}

func (gm *graphManager) updateRunningTaskNode(taskNode *flowgraph.Node, updatePreferences bool, nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	taskID := utility.TaskID(taskNode.Task.Uid)
	runningArc := gm.taskToRunningArc[taskID]
	if runningArc == nil {
		glog.Fatalf("flowmanager: updateRunningTaskNode: no running arc for task %d", taskID)
	}
	arcDescriptor := gm.costModeler.TaskContinuation(taskID)
	gm.cm.ChangeArc(runningArc, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
		dimacs.ChgArcTaskToRes, "UpdateRunningTaskNode: continuation cost")
	if !gm.Preemption {
		return
	}

	gm.updateRunningTaskToUnscheduledAggArc(taskNode)
	if updatePreferences {
		gm.updateTaskToResArcs(taskNode, nodeQueue, markedNodes)
		gm.updateTaskToEquivArcs(taskNode, nodeQueue, markedNodes)
	}
}

// updateRunningTaskToUnscheduledAggArc must only be called with
// preemption enabled: that is the only mode in which a running task
// still carries an arc to its unscheduled aggregator.
func (gm *graphManager) updateRunningTaskToUnscheduledAggArc(taskNode *flowgraph.Node) {
	if !gm.Preemption {
		glog.Fatalf("flowmanager: updateRunningTaskToUnscheduledAggArc: called without preemption enabled")
	}
	unschedAggNode := gm.unschedAggNodeForJobID(taskNode.JobID)
	if unschedAggNode == nil {
		glog.Fatalf("flowmanager: updateRunningTaskToUnscheduledAggArc: no unsched agg for job %d", taskNode.JobID)
	}
	unschedArc := gm.cm.Graph().GetArc(taskNode, unschedAggNode)
	if unschedArc == nil {
		glog.Fatalf("flowmanager: updateRunningTaskToUnscheduledAggArc: no unsched arc for node %d", taskNode.ID)
	}
	arcDescriptor := gm.costModeler.TaskPreemption(utility.TaskID(taskNode.Task.Uid))
	gm.cm.ChangeArc(unschedArc, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost, dimacs.ChgArcToUnsched, "UpdateRunningTaskToUnscheduledAggArc")
}

func (gm *graphManager) updateTaskNode(taskNode *flowgraph.Node, nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	if taskNode.IsTaskAssignedOrRunning() {
		gm.updateRunningTaskNode(taskNode, gm.UpdatePreferencesRunningTask, nodeQueue, markedNodes)
		return
	}
	gm.updateTaskToUnscheduledAggArc(taskNode)
	gm.updateTaskToEquivArcs(taskNode, nodeQueue, markedNodes)
	gm.updateTaskToResArcs(taskNode, nodeQueue, markedNodes)
}

func (gm *graphManager) updateTaskToEquivArcs(taskNode *flowgraph.Node, nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	prefECs := gm.costModeler.GetTaskEquivClasses(utility.TaskID(taskNode.Task.Uid))
	if len(prefECs) == 0 {
		gm.removeInvalidECPrefArcs(taskNode, prefECs, dimacs.DelArcTaskToEquivClass)
		return
	}

	for _, prefEC := range prefECs {
		prefECNode := gm.nodeForEquivClass(prefEC)
		if prefECNode == nil {
			prefECNode = gm.addEquivClassNode(prefEC)
		}
		arcDescriptor := gm.costModeler.TaskToEquivClassAggregator(utility.TaskID(taskNode.Task.Uid), prefEC)
		prefECArc := gm.cm.Graph().GetArc(taskNode, prefECNode)
		if prefECArc == nil {
			gm.cm.AddArc(taskNode, prefECNode, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
				flowgraph.ArcTypeOther, flowgraph.ArcClassTaskToEquivClass, dimacs.AddArcTaskToEquivClass, "UpdateTaskToEquivArcs")
		} else {
			gm.cm.ChangeArc(prefECArc, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost, dimacs.ChgArcTaskToEquivClass, "UpdateTaskToEquivArcs")
		}
		if _, ok := markedNodes[prefECNode.ID]; !ok {
			markedNodes[prefECNode.ID] = struct{}{}
			nodeQueue.Push(&taskOrNode{Node: prefECNode})
		}
	}
	gm.removeInvalidECPrefArcs(taskNode, prefECs, dimacs.DelArcTaskToEquivClass)
}

func (gm *graphManager) updateTaskToResArcs(taskNode *flowgraph.Node, nodeQueue queue.FIFO, markedNodes map[flowgraph.NodeID]struct{}) {
	prefRIDs := gm.costModeler.GetTaskPreferenceArcs(utility.TaskID(taskNode.Task.Uid))
	if len(prefRIDs) == 0 {
		gm.removeInvalidPrefResArcs(taskNode, prefRIDs, dimacs.DelArcTaskToRes)
		return
	}

	for _, prefRID := range prefRIDs {
		prefResNode := gm.nodeForResourceID(prefRID)
		if prefResNode == nil {
			glog.Fatalf("flowmanager: updateTaskToResArcs: preferred resource node cannot be nil")
		}
		arcDescriptor := gm.costModeler.TaskToResourceNode(utility.TaskID(taskNode.Task.Uid), prefRID)
		prefResArc := gm.cm.Graph().GetArc(taskNode, prefResNode)
		if prefResArc == nil {
			gm.cm.AddArc(taskNode, prefResNode, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
				flowgraph.ArcTypeOther, flowgraph.ArcClassTaskToResourcePreference, dimacs.AddArcTaskToRes, "UpdateTaskToResArcs")
		} else if prefResArc.Type != flowgraph.ArcTypeRunning {
			// A running arc's cost/capacity is governed by TaskContinuation,
			// not by the preference cost, so it is left untouched here.
			gm.cm.ChangeArcCost(prefResArc, arcDescriptor.Cost, dimacs.ChgArcTaskToRes, "UpdateTaskToResArcs")
			prefResArc.CapUpperBound = arcDescriptor.Capacity
		}
		if _, ok := markedNodes[prefResNode.ID]; !ok {
			markedNodes[prefResNode.ID] = struct{}{}
			nodeQueue.Push(&taskOrNode{Node: prefResNode})
		}
	}
	gm.removeInvalidPrefResArcs(taskNode, prefRIDs, dimacs.DelArcTaskToRes)
}

func (gm *graphManager) updateTaskToUnscheduledAggArc(taskNode *flowgraph.Node) *flowgraph.Node {
	unschedAggNode := gm.unschedAggNodeForJobID(taskNode.JobID)
	if unschedAggNode == nil {
		unschedAggNode = gm.addUnscheduledAggNode(taskNode.JobID)
	}
	arcDescriptor := gm.costModeler.TaskToUnscheduledAgg(utility.TaskID(taskNode.Task.Uid))
	toUnschedArc := gm.cm.Graph().GetArc(taskNode, unschedAggNode)
	if toUnschedArc == nil {
		gm.cm.AddArc(taskNode, unschedAggNode, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
			flowgraph.ArcTypeOther, flowgraph.ArcClassTaskToUnscheduled, dimacs.AddArcToUnsched, "UpdateTaskToUnscheduledAggArc")
	} else {
		gm.cm.ChangeArc(toUnschedArc, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost, dimacs.ChgArcToUnsched, "UpdateTaskToUnscheduledAggArc")
	}
	return unschedAggNode
}

func (gm *graphManager) updateUnscheduledAggNode(unschedAggNode *flowgraph.Node, capDelta int64) {
	unschedAggSinkArc := gm.cm.Graph().GetArc(unschedAggNode, gm.sinkNode)
	arcDescriptor := gm.costModeler.UnscheduledAggToSink(unschedAggNode.JobID)
	if unschedAggSinkArc != nil {
		gm.cm.ChangeArc(unschedAggSinkArc, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost, dimacs.ChgArcFromUnsched, "UpdateUnscheduledAggNode")
		return
	}
	if capDelta < 1 {
		glog.Fatalf("flowmanager: updateUnscheduledAggNode: capDelta %d must be >= 1 on first arc", capDelta)
	}
	gm.cm.AddArc(unschedAggNode, gm.sinkNode, arcDescriptor.MinFlow, arcDescriptor.Capacity, arcDescriptor.Cost,
		flowgraph.ArcTypeOther, flowgraph.ArcClassUnscheduledToSink, dimacs.AddArcFromUnsched, "UpdateUnscheduledAggNode")
}

func (gm *graphManager) visitTopologyChildren(rtnd *pb.ResourceTopologyNodeDescriptor) {
	rd := rtnd.ResourceDesc
	for _, child := range rtnd.Children {
		gm.addResourceTopologyDFS(child)
		rd.NumSlotsBelow += child.ResourceDesc.NumSlotsBelow
		rd.NumRunningTasksBelow += child.ResourceDesc.NumRunningTasksBelow
	}
}

func (gm *graphManager) nodeForEquivClass(ec utility.EquivClass) *flowgraph.Node { return gm.taskECToNode[ec] }
func (gm *graphManager) nodeForResourceID(rid utility.ResourceID) *flowgraph.Node {
	return gm.resourceToNode[rid]
}
func (gm *graphManager) nodeForTaskID(tid utility.TaskID) *flowgraph.Node { return gm.taskToNode[tid] }
func (gm *graphManager) unschedAggNodeForJobID(jid utility.JobID) *flowgraph.Node {
	return gm.jobUnschedToNode[jid]
}

func taskNeedNode(td *pb.TaskDescriptor) bool {
	return td.State == pb.TaskDescriptor_Runnable ||
		td.State == pb.TaskDescriptor_Running ||
		td.State == pb.TaskDescriptor_Assigned
}
