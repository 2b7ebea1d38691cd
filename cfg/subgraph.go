package cfg

import (
	"bytes"
	"fmt"
	"sort"
)

// Subgraph is the subgraph of a Graph induced by a set of its vertices.
type Subgraph struct {
	Blocks []int  // Vertices, ascending.
	Edges  []Edge // Edges of the parent graph with both ends in Blocks, in enumeration order.

	in map[int]bool
}

// Induced returns the subgraph of g induced by blocks. Repeated or
// out-of-range vertices are ignored.
func (g *Graph) Induced(blocks []int) *Subgraph {
	sub := &Subgraph{in: make(map[int]bool, len(blocks))}
	for _, b := range blocks {
		if g.HasBlock(b) && !sub.in[b] {
			sub.in[b] = true
			sub.Blocks = append(sub.Blocks, b)
		}
	}
	sort.Ints(sub.Blocks)
	for _, e := range g.edges {
		if sub.in[e.From] && sub.in[e.To] {
			sub.Edges = append(sub.Edges, e)
		}
	}
	return sub
}

// Contains reports whether b is a vertex of the subgraph.
func (s *Subgraph) Contains(b int) bool { return s.in[b] }

// Len returns the number of vertices.
func (s *Subgraph) Len() int { return len(s.Blocks) }

func (s *Subgraph) String() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, b := range s.Blocks {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(fmt.Sprintf("%d", b))
	}
	buf.WriteString("}")
	return buf.String()
}
