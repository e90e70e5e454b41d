package flowmanager

import "github.com/ms705/firmament/pkg/scheduling/flowgraph"

// TaskMapping is a 1:1 mapping from task node to resource node, the
// output of one solver invocation before it is turned into scheduling
// deltas (spec.md §4.3).
type TaskMapping map[flowgraph.NodeID]flowgraph.NodeID

// NodeSet is a small set of node ids, used for the leaf (PU) node
// registry and for tracking nodes touched during a single graph edit.
type NodeSet map[flowgraph.NodeID]struct{}
