package cfg

import (
	"fmt"

	"github.com/pkg/errors"
)

// Edge is a directed control-flow edge between two vertices.
// Edges compare equal when they join the same pair of vertices.
type Edge struct {
	From int // Source vertex (for a back edge: the loop tail).
	To   int // Target vertex (for a back edge: the loop header).
}

func (e Edge) String() string {
	return fmt.Sprintf("%d → %d", e.From, e.To)
}

// Graph is the control-flow graph of one function.
//
// Vertices are the integers 0..NumBlocks()-1. Edges are kept in enumeration
// order: by source vertex, then by the order of the source's successors.
type Graph struct {
	succs [][]int
	preds [][]int
	edges []Edge

	edgeSet map[Edge]bool // For exact edge lookup.
}

// Build transcribes blocks into a Graph, with one vertex per block and one
// edge per (block, successor) pair. Self-loops and repeated successors are
// kept as they are.
//
// Vertex i corresponds to blocks[i]. Every successor returned by succs must
// itself be in blocks.
func Build[T comparable](blocks []T, succs func(T) []T) (*Graph, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyGraph
	}
	index := make(map[T]int, len(blocks))
	for i, b := range blocks {
		if j, dup := index[b]; dup {
			return nil, errors.Wrapf(ErrInconsistentGraph, "block %d repeats block %d", i, j)
		}
		index[b] = i
	}
	g := newGraph(len(blocks))
	for i, b := range blocks {
		for _, s := range succs(b) {
			j, ok := index[s]
			if !ok {
				return nil, errors.Wrapf(ErrInconsistentGraph, "block %d has a successor outside the function", i)
			}
			g.addEdge(i, j)
		}
	}
	return g, nil
}

// FromSuccs builds a Graph from successor lists given by vertex index.
func FromSuccs(succs [][]int) (*Graph, error) {
	if len(succs) == 0 {
		return nil, ErrEmptyGraph
	}
	g := newGraph(len(succs))
	for i, ss := range succs {
		for _, j := range ss {
			if j < 0 || j >= len(succs) {
				return nil, errors.Wrapf(ErrInconsistentGraph, "block %d has successor %d out of range", i, j)
			}
			g.addEdge(i, j)
		}
	}
	return g, nil
}

func newGraph(n int) *Graph {
	return &Graph{
		succs:   make([][]int, n),
		preds:   make([][]int, n),
		edgeSet: make(map[Edge]bool),
	}
}

func (g *Graph) addEdge(from, to int) {
	e := Edge{From: from, To: to}
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

// NumBlocks returns the number of vertices.
func (g *Graph) NumBlocks() int { return len(g.succs) }

// HasBlock reports whether b is a vertex of g.
func (g *Graph) HasBlock(b int) bool { return b >= 0 && b < len(g.succs) }

// Succs returns the successors of b in input order.
// The returned slice must not be modified.
func (g *Graph) Succs(b int) []int { return g.succs[b] }

// Preds returns the predecessors of b.
// The returned slice must not be modified.
func (g *Graph) Preds(b int) []int { return g.preds[b] }

// Edges returns all edges in enumeration order.
// The returned slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// NumEdges returns the number of edges, counting repeated edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// FindEdge looks up the edge from → to.
func (g *Graph) FindEdge(from, to int) (Edge, bool) {
	e := Edge{From: from, To: to}
	if !g.edgeSet[e] {
		return Edge{}, false
	}
	return e, true
}
