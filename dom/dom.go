// Package dom computes the dominator tree of a control-flow graph.
//
// Dominator tree construction
//
// The tree is computed with the iterative data-flow algorithm of Cooper,
// Harvey and Kennedy, "A Simple, Fast Dominance Algorithm", 2001. Blocks are
// visited in reverse postorder and each pass recomputes every immediate
// dominator as the intersection of its processed predecessors, until a pass
// changes nothing.
//
// Dominance queries walk parent links in the tree, so they cost O(depth).
package dom

import (
	"context"
	"fmt"
	"strings"

	"github.com/nickng/boil/cfg"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// UnreachableBlockError reports blocks with no path from the entry block.
// Dominance is undefined for them.
type UnreachableBlockError struct {
	Entry  int
	Blocks []int // Unreachable blocks, ascending.
}

// Block returns the first unreachable block.
func (e *UnreachableBlockError) Block() int { return e.Blocks[0] }

func (e *UnreachableBlockError) Error() string {
	strs := make([]string, len(e.Blocks))
	for i, b := range e.Blocks {
		strs[i] = fmt.Sprintf("%d", b)
	}
	if len(e.Blocks) == 1 {
		return fmt.Sprintf("dom: block %s is unreachable from entry %d", strs[0], e.Entry)
	}
	return fmt.Sprintf("dom: blocks %s are unreachable from entry %d", strings.Join(strs, ", "), e.Entry)
}

// Tree is the dominator tree of a Graph, rooted at the entry block.
type Tree struct {
	g        *cfg.Graph
	entry    int
	idom     []int // Immediate dominator; -1 for entry and blocks outside the tree.
	children [][]int
	depth    []int // Depth in tree; -1 for blocks outside the tree.
	passes   int
}

// Build computes the dominator tree of g rooted at entry.
//
// Every block of g must be reachable from entry, otherwise an
// *UnreachableBlockError listing the unreachable blocks is returned.
// ctx is checked before each pass of the fixed-point iteration.
func Build(ctx context.Context, g *cfg.Graph, entry int) (*Tree, error) {
	t, unreachable, err := BuildReachable(ctx, g, entry)
	if err != nil {
		return nil, err
	}
	if len(unreachable) > 0 {
		return nil, &UnreachableBlockError{Entry: entry, Blocks: unreachable}
	}
	return t, nil
}

// BuildReachable computes the dominator tree of the subgraph of g reachable
// from entry. Blocks outside it are returned in ascending order; they have no
// entry in the tree.
func BuildReachable(ctx context.Context, g *cfg.Graph, entry int) (*Tree, []int, error) {
	return build(ctx, g, entry, zap.NewNop().Sugar())
}

// BuildWithLogger is BuildReachable with debug logging of the iteration.
func BuildWithLogger(ctx context.Context, g *cfg.Graph, entry int, log *zap.SugaredLogger) (*Tree, []int, error) {
	return build(ctx, g, entry, log)
}

func build(ctx context.Context, g *cfg.Graph, entry int, log *zap.SugaredLogger) (*Tree, []int, error) {
	if g == nil || g.NumBlocks() == 0 {
		return nil, nil, cfg.ErrEmptyGraph
	}
	if !g.HasBlock(entry) {
		return nil, nil, errors.Wrapf(cfg.ErrInconsistentGraph, "entry %d is not a block", entry)
	}
	if err := cfg.Interrupted(ctx); err != nil {
		return nil, nil, err
	}

	n := g.NumBlocks()
	po := g.PostOrder(entry)

	// poNum maps a block to its postorder number, -1 if unreachable.
	poNum := make([]int, n)
	for i := range poNum {
		poNum[i] = -1
	}
	for i, b := range po {
		poNum[b] = i
	}
	rpo := make([]int, len(po))
	for i, b := range po {
		rpo[len(po)-1-i] = b
	}

	idom := make([]int, n)
	for i := range idom {
		idom[i] = -1
	}
	idom[entry] = entry // Self-loop until the fixed point is reached.

	passes := 0
	for changed := true; changed; {
		if err := cfg.Interrupted(ctx); err != nil {
			log.Debugf("dom: cancelled after %d passes", passes)
			return nil, nil, err
		}
		changed = false
		passes++
		for _, b := range rpo[1:] {
			newIdom := -1
			for _, p := range g.Preds(b) {
				if idom[p] == -1 {
					continue // Not processed yet, or unreachable.
				}
				if newIdom == -1 {
					newIdom = p
				} else {
					newIdom = intersect(idom, poNum, p, newIdom)
				}
			}
			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	idom[entry] = -1
	log.Debugf("dom: %d blocks (%d reachable) converged after %d passes", n, len(po), passes)

	t := &Tree{
		g:        g,
		entry:    entry,
		idom:     idom,
		children: make([][]int, n),
		depth:    make([]int, n),
		passes:   passes,
	}
	for i := range t.depth {
		t.depth[i] = -1
	}
	// An immediate dominator precedes its dominees in reverse postorder.
	t.depth[entry] = 0
	for _, b := range rpo[1:] {
		t.depth[b] = t.depth[idom[b]] + 1
	}

	var unreachable []int
	for b := 0; b < n; b++ {
		switch {
		case poNum[b] == -1:
			unreachable = append(unreachable, b)
		case b != entry:
			t.children[idom[b]] = append(t.children[idom[b]], b)
		}
	}
	return t, unreachable, nil
}

// intersect returns the nearest common dominator of b1 and b2.
func intersect(idom, poNum []int, b1, b2 int) int {
	for b1 != b2 {
		for poNum[b1] < poNum[b2] {
			b1 = idom[b1]
		}
		for poNum[b2] < poNum[b1] {
			b2 = idom[b2]
		}
	}
	return b1
}

// Graph returns the graph the tree was built from.
func (t *Tree) Graph() *cfg.Graph { return t.g }

// Entry returns the root of the tree.
func (t *Tree) Entry() int { return t.entry }

// NumBlocks returns the number of blocks of the underlying graph.
func (t *Tree) NumBlocks() int { return len(t.idom) }

// Passes returns the number of fixed-point passes the construction took.
func (t *Tree) Passes() int { return t.passes }

// Contains reports whether b has an entry in the tree.
func (t *Tree) Contains(b int) bool {
	return b >= 0 && b < len(t.depth) && t.depth[b] >= 0
}

// Idom returns the immediate dominator of b, its parent in the tree.
// The entry block and blocks outside the tree have none.
func (t *Tree) Idom(b int) (int, bool) {
	if !t.Contains(b) || b == t.entry {
		return -1, false
	}
	return t.idom[b], true
}

// Children returns the blocks that b immediately dominates, ascending.
func (t *Tree) Children(b int) []int {
	if !t.Contains(b) {
		return nil
	}
	return t.children[b]
}

// Depth returns the depth of b in the tree (0 for entry), or -1 if b is not
// in the tree.
func (t *Tree) Depth(b int) int {
	if !t.Contains(b) {
		return -1
	}
	return t.depth[b]
}

// Dominators returns the dominator set of b: b itself followed by its
// ancestors in the tree, ending with the entry block.
// It returns nil if b is not in the tree.
func (t *Tree) Dominators(b int) []int {
	if !t.Contains(b) {
		return nil
	}
	doms := make([]int, 0, t.depth[b]+1)
	for x := b; x != -1; x = t.idom[x] {
		doms = append(doms, x)
	}
	return doms
}

// Dominates reports whether every path from entry to b passes through a.
// Every block dominates itself.
func (t *Tree) Dominates(a, b int) bool {
	if !t.Contains(a) || !t.Contains(b) {
		return false
	}
	for x := b; t.depth[x] >= t.depth[a]; x = t.idom[x] {
		if x == a {
			return true
		}
		if x == t.entry {
			break
		}
	}
	return false
}

// String returns the tree in indented form, one block per line.
func (t *Tree) String() string {
	var sb strings.Builder
	var walk func(b, indent int)
	walk = func(b, indent int) {
		sb.WriteString(strings.Repeat("  ", indent))
		sb.WriteString(fmt.Sprintf("%d\n", b))
		for _, c := range t.children[b] {
			walk(c, indent+1)
		}
	}
	walk(t.entry, 0)
	return sb.String()
}
