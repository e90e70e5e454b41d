package dimacs

import (
	"strconv"

	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
)

// RemoveNodeChange records the removal of a node from the flow graph.
type RemoveNodeChange struct {
	commentChange
	ID flowgraph.NodeID
}

func NewRemoveNodeChange(id flowgraph.NodeID) *RemoveNodeChange {
	return &RemoveNodeChange{ID: id}
}

func (rn *RemoveNodeChange) GenerateChange() string {
	return "r " + strconv.FormatUint(uint64(rn.ID), 10) + "\n"
}
