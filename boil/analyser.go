package boil

import (
	"context"

	"github.com/fatih/color"
	"github.com/nickng/boil/cfg"
	"github.com/nickng/boil/dom"
	"github.com/nickng/boil/loop"
	"go.uber.org/zap"
)

// Result is the outcome of analysing one graph.
type Result struct {
	Graph     *cfg.Graph
	DomTree   *dom.Tree
	BackEdges []cfg.Edge // In edge enumeration order.
	Loops     []*Loop    // One per back edge, same order.

	// Unreachable lists the blocks left out of DomTree, ascending.
	// Always empty unless unreachable blocks are pruned.
	Unreachable []int
}

// Loop is a natural loop found by the analysis.
type Loop = loop.Loop

// LoopsAt returns the loops whose header is b.
func (r *Result) LoopsAt(b int) []*Loop {
	var loops []*Loop
	for _, l := range r.Loops {
		if l.Header == b {
			loops = append(loops, l)
		}
	}
	return loops
}

var _ LogSetter = (*Analyser)(nil)

// Analyser runs the loop analysis on control-flow graphs.
// An Analyser keeps no state between graphs and may be reused.
type Analyser struct {
	entry int
	prune bool
	*Logger
}

// Option configures an Analyser.
type Option func(*Analyser)

// WithLogger sets the logger for debug messages of the analysis.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(a *Analyser) {
		a.SetLogger(NewLogger(l))
	}
}

// withLogger sets an already wrapped logger.
func withLogger(l *Logger) Option {
	return func(a *Analyser) {
		a.SetLogger(l)
	}
}

// WithEntry sets the entry block of the graphs, block 0 by default.
func WithEntry(b int) Option {
	return func(a *Analyser) {
		a.entry = b
	}
}

// PruneUnreachable sets whether blocks unreachable from the entry are left
// out of the analysis and reported in Result.Unreachable. When false (the
// default) an unreachable block fails the analysis.
func PruneUnreachable(prune bool) Option {
	return func(a *Analyser) {
		a.prune = prune
	}
}

// New returns a new Analyser.
func New(opts ...Option) *Analyser {
	a := &Analyser{}
	a.SetLogger(NewLogger(nil))
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetLogger sets logger for Analyser.
func (a *Analyser) SetLogger(l *Logger) {
	a.Logger = l.withModule(color.GreenString("loop "))
}

// AnalyseGraph computes the dominator tree of g, then its back edges and the
// natural loop of each back edge.
func (a *Analyser) AnalyseGraph(ctx context.Context, g *cfg.Graph) (*Result, error) {
	tree, unreachable, err := dom.BuildWithLogger(ctx, g, a.entry, a.SugaredLogger)
	if err != nil {
		return nil, err
	}
	if len(unreachable) > 0 {
		if !a.prune {
			return nil, &dom.UnreachableBlockError{Entry: a.entry, Blocks: unreachable}
		}
		a.Debugf("%s Pruned unreachable blocks %v", a.Module(), unreachable)
	}

	d := loop.NewDetector(g, tree)
	d.SetLogger(a.SugaredLogger)
	backEdges, err := d.BackEdges(ctx)
	if err != nil {
		return nil, err
	}
	loops, err := d.LoopsOf(ctx, backEdges)
	if err != nil {
		return nil, err
	}
	a.Debugf("%s %d blocks, %d edges: %d back edges", a.Module(), g.NumBlocks(), g.NumEdges(), len(backEdges))

	return &Result{
		Graph:       g,
		DomTree:     tree,
		BackEdges:   backEdges,
		Loops:       loops,
		Unreachable: unreachable,
	}, nil
}

// AnalyseBlocks builds the control-flow graph of blocks, where succs gives
// the successors of a block, and analyses it with a. Block i of the result
// is blocks[i].
func AnalyseBlocks[T comparable](ctx context.Context, a *Analyser, blocks []T, succs func(T) []T) (*Result, error) {
	g, err := cfg.Build(blocks, succs)
	if err != nil {
		return nil, err
	}
	return a.AnalyseGraph(ctx, g)
}
