// Package cfg provides the control-flow graph of a single function.
//
// A Graph is a faithful transcription of a function's basic blocks and their
// successor edges. Blocks are not stored in the graph: vertex i stands for
// the i-th block of the slice the graph was built from, and the caller keeps
// that slice to map vertices back to its own block values.
//
// The graph is immutable once built. Later stages (dominance, loop
// detection) only read it, and the errors shared by those stages are
// declared here.
package cfg
