package flowgraph

import "github.com/golang/glog"

// CopyIdToOriginalIdMap/OriginalIdToCopyIdMap translate between a graph
// and a re-indexed copy of it produced by CopyGraph: the in-process
// mcmf solver renumbers nodes densely from 1 so its slice-indexed
// shortest-path algorithms (algorithms/mcmf) can use NodeID directly as
// an array index, and needs a way back to the caller's original ids
// once it has computed a flow.

// CopyGraph produces a densely renumbered copy of graph: every node
// gets a fresh id starting at 1, already-scheduled task nodes last so
// unscheduled tasks and resources occupy a contiguous low range. The
// copy carries Type/Excess/Potential/JobID (Visited starts at 0) but not the arc
// adjacency maps directly; CopyGraph re-adds every arc through
// AddArcWithCapAndCost so OutgoingArcMap/IncomingArcMap are rebuilt
// against the new ids.
func CopyGraph(graph *Graph) *Graph {
	fg := &Graph{
		ArcSet:                make(map[*Arc]struct{}),
		NodeMap:               make(map[NodeID]*Node),
		TaskSet:               make(map[*Node]struct{}),
		ResourceSet:           make(map[*Node]struct{}),
		OriginalIdToCopyIdMap: make(map[NodeID]NodeID),
		CopyIdToOriginalIdMap: make(map[NodeID]NodeID),
	}

	index := NodeID(1)
	scheduled := make([]*Node, 0)
	for id, node := range graph.NodeMap {
		if id == graph.SinkID {
			fg.SinkID = index
		}
		if node.IsScheduled() {
			scheduled = append(scheduled, node)
			continue
		}
		fg.addCopyOf(node, index)
		fg.OriginalIdToCopyIdMap[id] = index
		fg.CopyIdToOriginalIdMap[index] = id
		index++
	}
	for _, node := range scheduled {
		fg.addCopyOf(node, index)
		fg.OriginalIdToCopyIdMap[node.ID] = index
		fg.CopyIdToOriginalIdMap[index] = node.ID
		index++
	}
	fg.NextID = index

	for arc := range graph.ArcSet {
		if arc.CapUpperBound == 0 {
			continue
		}
		src, ok := fg.OriginalIdToCopyIdMap[arc.Src]
		if !ok {
			continue
		}
		dst, ok := fg.OriginalIdToCopyIdMap[arc.Dst]
		if !ok {
			continue
		}
		fg.AddArcWithCapAndCost(src, dst, arc.CapUpperBound, arc.Cost, arc.Class)
	}
	return fg
}

func (fg *Graph) addCopyOf(node *Node, id NodeID) {
	cp := &Node{
		ID:             id,
		IncomingArcMap: make(map[NodeID]*Arc),
		OutgoingArcMap: make(map[NodeID]*Arc),
		Type:           node.Type,
		Excess:         node.Excess,
		Potential:      node.Potential,
		Visited:        0,
		JobID:          node.JobID,
	}
	fg.NodeMap[id] = cp
}

// ModifyGraphFromTotalToIncremental turns a full flow graph (every
// unscheduled task connected to the unscheduled aggregator/sink as
// usual) into the shape the in-process mcmf solver wants: a fresh
// source node feeding every unscheduled task node directly with that
// task's requested capacity, so SuccessiveShortestPathWithDijkstra can
// treat it as an ordinary single-source-single-sink problem.
func ModifyGraphFromTotalToIncremental(graph *Graph) *Graph {
	incremental := CopyGraph(graph)
	src := incremental.AddNode()
	incremental.SourceID = src.ID

	var totalRequest uint64
	for id, node := range incremental.NodeMap {
		if node.Type != NodeTypeUnscheduledTask {
			continue
		}
		var request uint64
		for _, arc := range node.OutgoingArcMap {
			if arc.CapUpperBound > 0 {
				request = arc.CapUpperBound
				break
			}
		}
		node.Excess = int64(request)
		totalRequest += request
		incremental.AddArcWithCapAndCost(src.ID, id, request, 0, ArcClassTest)
		incremental.TaskSet[node] = struct{}{}
	}
	for id, node := range incremental.NodeMap {
		if node.IsResourceNode() {
			incremental.ResourceSet[node] = struct{}{}
		}
		_ = id
	}
	glog.V(2).Infof("flowgraph: incremental copy has %d total task request units", totalRequest)
	return incremental
}
