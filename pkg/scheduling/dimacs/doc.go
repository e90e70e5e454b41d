// Package dimacs serializes a flow graph to the textual wire format the
// external min-cost-flow solver consumes (spec.md §6):
//
//  1. Comment lines ("c ...") are ignored by the solver and carry
//     human-readable annotations.
//  2. Problem line: "p min NODES ARCS" declares the node and arc counts.
//  3. Node descriptors: "n ID EXCESS TYPE" where EXCESS is the node's
//     supply and TYPE its node type code.
//  4. Arc descriptors: "a SRC DST LOW CAP COST" with nodes 1-indexed and
//     the sink conventionally node 1.
//
// Grounded on coreos-ksched/scheduling/flow/dimacs (absent from the
// teacher's own retrieval), adapted to this module's flowgraph types.
package dimacs
