// Package queue provides a thread-safe FIFO used for the flow graph's
// pool of recycled node ids, the graph manager's node update queue and
// the BFS in ComputeTopologyStatistics.
// Grounded on coreos-ksched/pkg/util/queue/queue.go, absent from the
// teacher's own retrieval.
package queue

import "sync"

type FIFO interface {
	Push(val interface{})
	Pop() interface{}
	Front() interface{}
	Len() int
	IsEmpty() bool
}

func NewFIFO() FIFO { return &fifo{} }

type fifo struct {
	mu    sync.Mutex
	nodes []interface{}
}

func (f *fifo) Push(val interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nodes = append(f.nodes, val)
}

func (f *fifo) Pop() interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.nodes[0]
	f.nodes = f.nodes[1:]
	return n
}

func (f *fifo) Front() interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nodes[0]
}

func (f *fifo) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nodes)
}

func (f *fifo) IsEmpty() bool { return f.Len() == 0 }
