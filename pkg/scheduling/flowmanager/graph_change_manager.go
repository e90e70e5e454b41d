package flowmanager

import (
	"github.com/ms705/firmament/pkg/scheduling/dimacs"
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
)

// GraphChangeManager bridges GraphManager and flowgraph.Graph: every
// mutation GraphManager performs goes through these methods so it is
// simultaneously applied to the live graph and recorded as a dimacs.Change
// for the next incremental solver run. Grounded on
// coreos-ksched/scheduling/flow/flowmanager/graph_change_manager.go,
// absent from the teacher's own retrieval.
type GraphChangeManager interface {
	AddArc(src, dst *flowgraph.Node, capLowerBound, capUpperBound uint64, cost int64,
		arcType flowgraph.ArcType, class flowgraph.ArcClass, changeType dimacs.ChangeType, comment string) *flowgraph.Arc

	AddNode(nodeType flowgraph.NodeType, excess int64, changeType dimacs.ChangeType, comment string) *flowgraph.Node

	ChangeArc(arc *flowgraph.Arc, capLowerBound, capUpperBound uint64, cost int64,
		changeType dimacs.ChangeType, comment string)
	ChangeArcCapacity(arc *flowgraph.Arc, capacity uint64, changeType dimacs.ChangeType, comment string)
	ChangeArcCost(arc *flowgraph.Arc, cost int64, changeType dimacs.ChangeType, comment string)

	DeleteArc(arc *flowgraph.Arc, changeType dimacs.ChangeType, comment string)
	DeleteNode(n *flowgraph.Node, changeType dimacs.ChangeType, comment string)

	GetGraphChanges() []dimacs.Change
	GetOptimizedGraphChanges() []dimacs.Change
	ResetChanges()

	Graph() *flowgraph.Graph
	CheckNodeType(flowgraph.NodeID, flowgraph.NodeType) bool
}

type changeManager struct {
	flowGraph    *flowgraph.Graph
	graphChanges []dimacs.Change
	dimacsStats  *dimacs.ChangeStats
}

func NewChangeManager(dimacsStats *dimacs.ChangeStats) GraphChangeManager {
	return &changeManager{
		flowGraph:    flowgraph.NewGraph(false),
		dimacsStats:  dimacsStats,
		graphChanges: make([]dimacs.Change, 0),
	}
}

func (cm *changeManager) CheckNodeType(id flowgraph.NodeID, t flowgraph.NodeType) bool {
	n := cm.flowGraph.Node(id)
	return n != nil && n.Type == t
}

func (cm *changeManager) AddArc(src, dst *flowgraph.Node, lower, upper uint64, cost int64,
	arcType flowgraph.ArcType, class flowgraph.ArcClass, changeType dimacs.ChangeType, comment string) *flowgraph.Arc {
	arc := cm.flowGraph.AddArc(src, dst)
	arc.CapLowerBound = lower
	arc.CapUpperBound = upper
	arc.Cost = cost
	arc.Type = arcType
	arc.Class = class

	change := dimacs.NewCreateArcChange(arc)
	change.SetComment(comment)
	cm.addGraphChange(change, changeType)
	return arc
}

func (cm *changeManager) AddNode(t flowgraph.NodeType, excess int64, changeType dimacs.ChangeType, comment string) *flowgraph.Node {
	n := cm.flowGraph.AddNode()
	n.Type = t
	n.Excess = excess
	n.Comment = comment

	change := dimacs.NewAddNodeChange(n)
	change.SetComment(comment)
	cm.addGraphChange(change, changeType)
	return n
}

func (cm *changeManager) DeleteNode(n *flowgraph.Node, changeType dimacs.ChangeType, comment string) {
	change := dimacs.NewRemoveNodeChange(n.ID)
	change.SetComment(comment)
	cm.addGraphChange(change, changeType)
	cm.flowGraph.DeleteNode(n)
}

func (cm *changeManager) ChangeArc(arc *flowgraph.Arc, lower, upper uint64, cost int64, changeType dimacs.ChangeType, comment string) {
	oldCost := arc.Cost
	if arc.CapLowerBound == lower && arc.CapUpperBound == upper && oldCost == cost {
		return
	}
	arc.CapLowerBound = lower
	arc.CapUpperBound = upper
	arc.Cost = cost

	change := dimacs.NewUpdateArcChange(arc, oldCost)
	change.SetComment(comment)
	cm.addGraphChange(change, changeType)
}

func (cm *changeManager) ChangeArcCapacity(arc *flowgraph.Arc, capacity uint64, changeType dimacs.ChangeType, comment string) {
	if arc.CapUpperBound == capacity {
		return
	}
	arc.CapUpperBound = capacity

	change := dimacs.NewUpdateArcChange(arc, arc.Cost)
	change.SetComment(comment)
	cm.addGraphChange(change, changeType)
}

func (cm *changeManager) ChangeArcCost(arc *flowgraph.Arc, cost int64, changeType dimacs.ChangeType, comment string) {
	oldCost := arc.Cost
	if oldCost == cost {
		return
	}
	arc.Cost = cost

	change := dimacs.NewUpdateArcChange(arc, oldCost)
	change.SetComment(comment)
	cm.addGraphChange(change, changeType)
}

func (cm *changeManager) DeleteArc(arc *flowgraph.Arc, changeType dimacs.ChangeType, comment string) {
	arc.CapLowerBound = 0
	arc.CapUpperBound = 0
	change := dimacs.NewUpdateArcChange(arc, arc.Cost)
	change.SetComment(comment)
	cm.addGraphChange(change, changeType)
	cm.flowGraph.DeleteArc(arc)
}

func (cm *changeManager) GetGraphChanges() []dimacs.Change { return cm.graphChanges }

// GetOptimizedGraphChanges would merge/dedup changes to the same arc
// before handing them to the solver; see DESIGN.md "Open decision" for
// why this is the identity transform here.
func (cm *changeManager) GetOptimizedGraphChanges() []dimacs.Change { return cm.graphChanges }

func (cm *changeManager) ResetChanges() { cm.graphChanges = make([]dimacs.Change, 0) }

func (cm *changeManager) Graph() *flowgraph.Graph { return cm.flowGraph }

func (cm *changeManager) addGraphChange(change dimacs.Change, changeType dimacs.ChangeType) {
	if change.Comment() == "" {
		change.SetComment("addGraphChange: anonymous caller")
	}
	cm.graphChanges = append(cm.graphChanges, change)
	cm.dimacsStats.UpdateStats(changeType)
}
