// Package block adapts the basic blocks of SSA functions to control-flow
// graphs for loop analysis.
package block

import (
	"fmt"

	"github.com/nickng/boil/cfg"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

var (
	ErrBadBlock    = errors.New("internal error: Block is nil")
	ErrBadParentFn = errors.New("internal error: Block has nil parent Fn")
	ErrNoBody      = errors.New("function has no body")
)

// Blocks returns the blocks of fn that take part in normal control flow.
//
// The recover block is left out: it is entered only when a deferred call
// recovers from a panic, so no edge reaches it from the entry block.
func Blocks(fn *ssa.Function) []*ssa.BasicBlock {
	blocks := make([]*ssa.BasicBlock, 0, len(fn.Blocks))
	for _, b := range fn.Blocks {
		if b == fn.Recover {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// Graph builds the control-flow graph of fn. Vertex i of the graph is
// blocks[i], and vertex 0 is the entry block of fn.
func Graph(fn *ssa.Function) (*cfg.Graph, []*ssa.BasicBlock, error) {
	if fn == nil {
		return nil, nil, ErrBadParentFn
	}
	if len(fn.Blocks) == 0 {
		return nil, nil, errors.Wrap(ErrNoBody, fn.Name())
	}
	blocks := Blocks(fn)
	for _, b := range blocks {
		if b == nil {
			return nil, nil, ErrBadBlock
		}
		if b.Parent() != fn {
			return nil, nil, errors.Wrapf(ErrBadParentFn, "block %d", b.Index)
		}
	}
	g, err := cfg.Build(blocks, func(b *ssa.BasicBlock) []*ssa.BasicBlock {
		return b.Succs
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, fn.String())
	}
	return g, blocks, nil
}

// Label returns a short label of b, e.g. "#2 for.body".
func Label(b *ssa.BasicBlock) string {
	if b.Comment == "" {
		return fmt.Sprintf("#%d", b.Index)
	}
	return fmt.Sprintf("#%d %s", b.Index, b.Comment)
}

// Labels returns the labels of blocks, indexed like blocks.
func Labels(blocks []*ssa.BasicBlock) []string {
	labels := make([]string, len(blocks))
	for i, b := range blocks {
		labels[i] = Label(b)
	}
	return labels
}
