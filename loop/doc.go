// Package loop provides utilities for loop representation and detection.
//
// Loop detection works on a control-flow graph and its dominator tree. An
// edge is a back edge when its target dominates its source; the target is
// the loop header and the source the loop tail.
//
// For each back edge the natural loop is built by walking predecessors
// backwards from the tail, staying within the blocks the header dominates,
// until the header is reached. Loops sharing a header are kept separate: one
// loop is reported per back edge.
package loop
