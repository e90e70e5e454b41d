package mcmf

import (
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
	"testing"
)

func generateGraphWithCost() *flowgraph.Graph {
	graph := flowgraph.NewGraph(false)
	nodes := make([]*flowgraph.Node, 7, 7)
	for i := 0; i < 7; i++ {
		nodes[i] = graph.AddNode()
	}

	graph.SourceID = 1
	graph.SinkID = 7

	graph.AddArcByID(1, 2).Cost = 0
	graph.AddArcByID(1, 3).Cost = 0
	graph.AddArcByID(1, 4).Cost = 0
	graph.AddArcByID(2, 5).Cost = 5
	graph.AddArcByID(5, 2).Cost = -5
	graph.AddArcByID(3, 5).Cost = 6
	graph.AddArcByID(5, 3).Cost = -6
	graph.AddArcByID(3, 6).Cost = 7
	graph.AddArcByID(6, 3).Cost = -7
	graph.AddArcByID(4, 6).Cost = 8
	graph.AddArcByID(6, 4).Cost = -8
	graph.AddArcByID(5, 7).Cost = 0
	graph.AddArcByID(6, 7).Cost = 0
	for arc, _ := range graph.ArcSet {
		arc.CapUpperBound = 1
	}

	return graph
}

func generateGraphWithPositiveCost() *flowgraph.Graph {
	graph := flowgraph.NewGraph(false)
	nodes := make([]*flowgraph.Node, 7, 7)
	for i := 0; i < 7; i++ {
		nodes[i] = graph.AddNode()
	}

	graph.SourceID = 1
	graph.SinkID = 7

	graph.AddArcByID(1, 2).Cost = 0
	graph.AddArcByID(1, 3).Cost = 0
	graph.AddArcByID(1, 4).Cost = 0
	graph.AddArcByID(2, 5).Cost = 5
	graph.AddArcByID(3, 5).Cost = 6
	graph.AddArcByID(3, 6).Cost = 7
	graph.AddArcByID(4, 6).Cost = 8
	graph.AddArcByID(5, 7).Cost = 0
	graph.AddArcByID(6, 7).Cost = 0
	for arc, _ := range graph.ArcSet {
		arc.CapUpperBound = 1
	}

	return graph
}

func TestDEsopoPape(t *testing.T) {
	graph := generateGraphWithCost()
	distance, parent := DEsopoPapeWithSlice(graph, 1, 7)

	if distance[7] != 5 || parent[7] != 5 {
		t.Errorf("something is wrong")
	}
}

func TestDijkstra(t *testing.T) {
	graph := generateGraphWithPositiveCost()
	distance, parent := Dijkstra(graph, 1, 7, 1)
	if distance[7] != 5 || parent[7] != 5 {
		t.Errorf("something is wrong")
	}
}
