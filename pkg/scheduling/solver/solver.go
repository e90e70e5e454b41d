// Copyright 2016 The ksched Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package placement

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/golang/glog"

	"github.com/ms705/firmament/pkg/scheduling/algorithms/mcmf"
	"github.com/ms705/firmament/pkg/scheduling/algorithms/utils"
	"github.com/ms705/firmament/pkg/scheduling/dimacs"
	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
	"github.com/ms705/firmament/pkg/scheduling/flowmanager"
)

// flowPair is one arc of positive flow read back from the solver: flow
// units arriving at a dst node came from srcNodeID.
type flowPair struct {
	srcNodeID flowgraph.NodeID
	flow      uint64
}

// flowPairMap indexes a dst node's incoming flow pairs by their source.
type flowPairMap map[flowgraph.NodeID]*flowPair

var (
	FlowlesslyBinary    = "/usr/local/bin/flowlessly/flow_scheduler"
	FlowlesslyAlgorithm = "successive_shortest_path"
	Incremental         = true
)

type Solver interface {
	Solve() flowmanager.TaskMapping
	MCMFSolve(graph *flowgraph.Graph) flowmanager.TaskMapping
	WriteGraph(file string)
}

type flowlesslySolver struct {
	isSolverStarted bool
	gm              flowmanager.GraphManager
	toSolver        io.Writer
	toConsole       io.Writer
	fromSolver      io.Reader
	cmd             *exec.Cmd

	// binaryPath overrides the package-level FlowlesslyBinary default when
	// non-empty (pkg/config SolverBinary).
	binaryPath string
	// timeout bounds how long a single Solve() round may run before the
	// subprocess is killed and the round abandoned; zero disables the
	// bound (pkg/config SolverTimeout).
	timeout time.Duration
}

// NewSolver returns a flowlessly-backed solver wired to the given graph
// manager; the in-process mcmf path (MCMFSolve) is usable on the same
// instance since it never touches the subprocess fields. solverBinary
// overrides FlowlesslyBinary when non-empty; solverTimeout bounds every
// Solve() round (zero for no bound).
func NewSolver(gm flowmanager.GraphManager, solverBinary string, solverTimeout time.Duration) Solver {
	return &flowlesslySolver{
		gm:              gm,
		isSolverStarted: false,
		binaryPath:      solverBinary,
		timeout:         solverTimeout,
	}
}

// MCMFSolve runs the in-process successive-shortest-path solver instead
// of shelling out to the flowlessly binary: renumber the graph for the
// slice-indexed mcmf algorithms, solve, extract the resulting flow into
// a task mapping, and greedily repair any task whose flow got split
// across more than one resource (mcmf does not guarantee integral
// single-path flow per task).
func (fs *flowlesslySolver) MCMFSolve(graph *flowgraph.Graph) flowmanager.TaskMapping {
	fs.WriteGraph("mcmf_before")
	start := time.Now()
	copyGraph := flowgraph.ModifyGraphFromTotalToIncremental(graph)
	glog.V(1).Infof("solver: incremental copy took %s", time.Since(start))

	start = time.Now()
	maxFlow, minCost := mcmf.SuccessiveShortestPathWithDijkstra(copyGraph, copyGraph.SourceID, copyGraph.SinkID)
	glog.V(1).Infof("solver: mcmf took %s, maxFlow %v, minCost %v", time.Since(start), maxFlow, minCost)

	tm := make(map[flowgraph.NodeID]flowgraph.NodeID)
	start = time.Now()
	scheduleResult := utils.ExtractScheduleResult(copyGraph, copyGraph.SourceID)
	glog.V(1).Infof("solver: extract result took %s", time.Since(start))
	var totalFlow uint64
	for _, flow := range scheduleResult {
		totalFlow += flow
	}
	glog.V(1).Infof("solver: total flow before repair: %v", totalFlow)

	start = time.Now()
	scheduleResult, repairCount := utils.GreedyRepairFlow(copyGraph, scheduleResult, copyGraph.SinkID)
	glog.V(1).Infof("solver: greedy repair took %s, %v tasks repaired", time.Since(start), repairCount)
	totalFlow = 0
	for mapping, flow := range scheduleResult {
		if flow != 0 {
			totalFlow += flow
			tm[copyGraph.CopyIdToOriginalIdMap[mapping.TaskId]] = copyGraph.CopyIdToOriginalIdMap[mapping.ResourceId]
		}
	}
	glog.V(1).Infof("solver: total flow after repair: %v, %d tasks mapped", totalFlow, len(tm))

	utils.ExamCostModel(copyGraph, tm)
	return tm
}

// Solve runs one scheduling round against the external flowlessly
// binary: on the first call it starts the subprocess and exports the
// full graph; every call after that exports only the changes recorded
// since the last round. The round is abandoned (and the subprocess
// killed) if it runs longer than fs.timeout.
func (fs *flowlesslySolver) Solve() flowmanager.TaskMapping {
	return fs.runRoundWithTimeout(func() flowmanager.TaskMapping {
		if !fs.isSolverStarted {
			fs.isSolverStarted = true
			fs.startSolver()
			fs.writeFull()
			return fs.readTaskMapping()
		}

		fs.gm.UpdateAllCostsToUnscheduledAggs()
		fs.writeIncremental()
		return fs.readTaskMapping()
	})
}

// runRoundWithTimeout runs round on its own goroutine and kills the
// solver subprocess if it doesn't return within fs.timeout, forcing the
// next Solve() call to restart the subprocess from a full export. A
// killed round returns a nil mapping, the same as a round that placed
// nothing.
func (fs *flowlesslySolver) runRoundWithTimeout(round func() flowmanager.TaskMapping) flowmanager.TaskMapping {
	if fs.timeout <= 0 {
		return round()
	}

	result := make(chan flowmanager.TaskMapping, 1)
	go func() { result <- round() }()

	select {
	case tm := <-result:
		return tm
	case <-time.After(fs.timeout):
		glog.Errorf("solver: round exceeded timeout %s, killing solver and abandoning round", fs.timeout)
		if fs.cmd != nil && fs.cmd.Process != nil {
			fs.cmd.Process.Kill()
		}
		fs.isSolverStarted = false
		return nil
	}
}

func (fs *flowlesslySolver) startSolver() {
	binaryStr, args := fs.getBinConfig()

	var err error
	cmd := exec.Command(binaryStr, args...)
	fs.toSolver, err = cmd.StdinPipe()
	if err != nil {
		glog.Fatalf("solver: could not open stdin pipe to %s: %v", binaryStr, err)
	}
	fs.fromSolver, err = cmd.StdoutPipe()
	if err != nil {
		glog.Fatalf("solver: could not open stdout pipe to %s: %v", binaryStr, err)
	}
	fs.toConsole = os.Stdout
	if err := cmd.Start(); err != nil {
		glog.Fatalf("solver: could not start %s: %v", binaryStr, err)
	}
	fs.cmd = cmd
}

// WriteGraph dumps the current graph in DIMACS format to file, for
// offline debugging; a no-op if file is empty. Distinct from writeFull,
// which sends the full export down the solver's stdin pipe.
func (fs *flowlesslySolver) WriteGraph(file string) {
	if file == "" {
		return
	}
	outputFile, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		glog.Errorf("solver: could not open debug graph dump %q: %v", file, err)
		return
	}
	defer outputFile.Close()
	dimacs.Export(fs.gm.GraphChangeManager().Graph(), outputFile)
}

// writeFull sends the entire current graph down the solver's stdin
// pipe; used once, on the first Solve() call.
func (fs *flowlesslySolver) writeFull() {
	dimacs.Export(fs.gm.GraphChangeManager().Graph(), fs.toSolver)
	fs.gm.GraphChangeManager().ResetChanges()
}

func (fs *flowlesslySolver) writeIncremental() {
	dimacs.ExportIncremental(fs.gm.GraphChangeManager().GetOptimizedGraphChanges(), fs.toSolver)
	fs.gm.GraphChangeManager().ResetChanges()
}

func (fs *flowlesslySolver) readTaskMapping() flowmanager.TaskMapping {
	// TODO: make sure proper locking on graph, manager
	extractedFlow := fs.readFlowGraph()
	return fs.parseFlowToMapping(extractedFlow)
}

// readFlowGraph returns a map of dst to a list of its corresponding src and flow capacity.
func (fs *flowlesslySolver) readFlowGraph() map[flowgraph.NodeID]flowPairMap {
	// The dstToSrcAndFlow map stores the flow pairs responsible for sending flow into the dst node
	// As a multimap it is keyed by the dst node where the flow is being sent.
	// The value is a map of flowpairs showing where all the flows to this dst are coming from
	dstToSrcAndFlow := make(map[flowgraph.NodeID]flowPairMap)
	scanner := bufio.NewScanner(fs.fromSolver)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case 'f':
			var src, dst, flowCap uint64
			var discard string
			n, err := fmt.Sscanf(line, "%s %d %d %d", &discard, &src, &dst, &flowCap)
			if err != nil {
				glog.Fatalf("solver: could not parse flow line %q: %v", line, err)
			}
			if n != 4 {
				glog.Fatalf("solver: expected 4 fields in flow line %q, got %d", line, n)
			}

			if flowCap > 0 {
				pair := &flowPair{flowgraph.NodeID(src), flowCap}
				// If a flow map for this dst does not exist, then make one
				if dstToSrcAndFlow[flowgraph.NodeID(dst)] == nil {
					dstToSrcAndFlow[flowgraph.NodeID(dst)] = make(flowPairMap)
				}
				dstToSrcAndFlow[flowgraph.NodeID(dst)][pair.srcNodeID] = pair
			}
		case 'c':
			if line == "c EOI" {
				return dstToSrcAndFlow
			}
			// Other comment lines (e.g. "c ALGORITHM TIME") carry solver
			// metrics we don't act on.
		case 's':
			// we don't care about cost
		default:
			glog.Fatalf("solver: unexpected line from solver: %q", line)
		}
	}
	glog.Fatalf("solver: solver stdout closed before EOI marker")
	return nil
}

// Maps worker|root tasks to leaves. It expects a extracted_flow containing
// only the arcs with positive flow (i.e. what ReadFlowGraph returns).
func (fs *flowlesslySolver) parseFlowToMapping(extractedFlow map[flowgraph.NodeID]flowPairMap) flowmanager.TaskMapping {
	taskToPU := flowmanager.TaskMapping{}
	// Note: recording a node's PUs so that a node can assign the PUs to its source itself
	puIDs := make(map[flowgraph.NodeID][]flowgraph.NodeID)
	visited := make(map[flowgraph.NodeID]bool)
	toVisit := make([]flowgraph.NodeID, 0) // fifo queue
	leafIDs := fs.gm.LeafNodeIDs()
	sink := fs.gm.SinkNode()

	for leafID := range leafIDs {
		visited[leafID] = true
		// Get the flowPairMap for the sink
		flowPairMap, ok := extractedFlow[sink.ID]
		if !ok {
			continue
		}
		// Check if the current leaf contributes a flow pair
		flowPair, ok := flowPairMap[leafID]
		if !ok {
			continue
		}

		for i := uint64(0); i < flowPair.flow; i++ {
			puIDs[leafID] = append(puIDs[leafID], leafID)
		}
		toVisit = append(toVisit, leafID)
	}

	// a variant of breath-frist search
	for len(toVisit) != 0 {
		nodeID := toVisit[0]
		toVisit = toVisit[1:]
		visited[nodeID] = true

		if fs.gm.GraphChangeManager().Graph().Node(nodeID).IsTaskNode() {
			// record the task mapping between task node and PU.
			if len(puIDs[nodeID]) != 1 {
				glog.Fatalf("solver: task node %v to resource node should be 1:1, got %d", nodeID, len(puIDs[nodeID]))
			}
			taskToPU[nodeID] = puIDs[nodeID][0]
			continue
		}

		toVisit = addPUToSourceNodes(extractedFlow, puIDs, nodeID, visited, toVisit)
	}

	return taskToPU
}

func addPUToSourceNodes(extractedFlow map[flowgraph.NodeID]flowPairMap, puIDs map[flowgraph.NodeID][]flowgraph.NodeID, nodeID flowgraph.NodeID, visited map[flowgraph.NodeID]bool, toVisit []flowgraph.NodeID) []flowgraph.NodeID {
	iter := 0
	srcFlowsMap, ok := extractedFlow[nodeID]
	if !ok {
		return toVisit
	}
	// search each source and assign all its downstream PUs to them.
	for _, srcFlowPair := range srcFlowsMap {
		// TODO: CHange this logic for map instead of slice
		// Populate the PUs vector at the source of the arc with as many PU
		// entries from the incoming set of PU IDs as there's flow on the arc.
		for ; srcFlowPair.flow > 0; srcFlowPair.flow-- {
			if iter == len(puIDs[nodeID]) {
				break
			}
			// It's an incoming arc with flow on it.
			// Add the PU to the PUs vector of the source node.
			puIDs[srcFlowPair.srcNodeID] = append(puIDs[srcFlowPair.srcNodeID], puIDs[nodeID][iter])
			iter++
		}
		if !visited[srcFlowPair.srcNodeID] {
			toVisit = append(toVisit, srcFlowPair.srcNodeID)
			visited[srcFlowPair.srcNodeID] = true
		}

		if iter == len(puIDs[nodeID]) {
			// No more PUs left to assign
			break
		}
	}
	return toVisit
}

// TODO: We can definitely make it cleaner. But currently we just copy the code.
func (fs *flowlesslySolver) getBinConfig() (string, []string) {
	args := []string{
		"--graph_has_node_types=true",
		fmt.Sprintf("--algorithm=%s", FlowlesslyAlgorithm),
		"--print_assignments=false",
		"--debug_output=true",
		"--graph_has_node_types=true",
	}
	if !Incremental {
		args = append(args, "--daemon=false")
	}

	binary := FlowlesslyBinary
	if fs.binaryPath != "" {
		binary = fs.binaryPath
	}
	return binary, args
}
