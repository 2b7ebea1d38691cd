package cfg

import (
	"bufio"
	"fmt"
	"io"
)

// DotOptions controls WriteGraphviz output.
type DotOptions struct {
	Name      string             // Graph name (default "cfg").
	Label     func(b int) string // Vertex label (default: the index).
	Highlight map[Edge]bool      // Edges drawn in bold red, e.g. back edges.
}

// WriteGraphviz writes g to w in graphviz dot format.
func (g *Graph) WriteGraphviz(w io.Writer, opts DotOptions) error {
	name := opts.Name
	if name == "" {
		name = "cfg"
	}
	label := opts.Label
	if label == nil {
		label = func(b int) string { return fmt.Sprintf("%d", b) }
	}
	bufw := bufio.NewWriter(w)
	fmt.Fprintf(bufw, "digraph %q {\n", name)
	for b := range g.succs {
		fmt.Fprintf(bufw, "  n%d [label=%q]\n", b, label(b))
	}
	for _, e := range g.edges {
		if opts.Highlight[e] {
			fmt.Fprintf(bufw, "  n%d -> n%d [color=red, style=bold]\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(bufw, "  n%d -> n%d\n", e.From, e.To)
	}
	bufw.WriteString("}\n")
	return bufw.Flush()
}
