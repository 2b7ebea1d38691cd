package loop

import (
	"fmt"

	"github.com/nickng/boil/cfg"
)

// Loop is the natural loop of one back edge.
type Loop struct {
	Header   int           // Target of the back edge, the single entry of the loop.
	BackEdge cfg.Edge      // Tail → Header.
	Body     *cfg.Subgraph // Subgraph induced by the loop blocks, header and tail included.
}

// Tail returns the source of the back edge.
func (l *Loop) Tail() int { return l.BackEdge.From }

// Contains returns true if b is in the loop body.
func (l *Loop) Contains(b int) bool { return l.Body.Contains(b) }

// Size returns the number of blocks in the loop body.
func (l *Loop) Size() int { return l.Body.Len() }

// Exits returns the blocks in the loop body with at least one successor
// outside the body, ascending.
func (l *Loop) Exits(g *cfg.Graph) []int {
	var exits []int
	for _, b := range l.Body.Blocks {
		for _, s := range g.Succs(b) {
			if !l.Body.Contains(s) {
				exits = append(exits, b)
				break
			}
		}
	}
	return exits
}

func (l *Loop) String() string {
	return fmt.Sprintf("loop@%d (%s): body %s", l.Header, l.BackEdge, l.Body)
}
