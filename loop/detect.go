package loop

import (
	"context"

	"github.com/nickng/boil/cfg"
	"github.com/nickng/boil/dom"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// checkInterval is the number of edges or blocks processed between two
// cancellation checks.
const checkInterval = 64

// FindBackEdges returns the edges of g whose target dominates their source,
// in the enumeration order of g. Every such edge is reported, including
// repeated edges and several tails sharing a header.
//
// Edges leaving blocks outside t (possible when t covers only the reachable
// part of g) are not back edges.
func FindBackEdges(ctx context.Context, g *cfg.Graph, t *dom.Tree) ([]cfg.Edge, error) {
	return NewDetector(g, t).BackEdges(ctx)
}

// Extract builds the natural loop of back edge be.
func Extract(ctx context.Context, g *cfg.Graph, t *dom.Tree, be cfg.Edge) (*Loop, error) {
	return NewDetector(g, t).Loop(ctx, be)
}

// ExtractAll builds one natural loop per back edge, in the order given.
// Loops with the same header are not merged.
func ExtractAll(ctx context.Context, g *cfg.Graph, t *dom.Tree, bes []cfg.Edge) ([]*Loop, error) {
	return NewDetector(g, t).LoopsOf(ctx, bes)
}

// Detector finds the loops of one graph using its dominator tree.
// A Detector only reads the graph and the tree.
type Detector struct {
	g      *cfg.Graph
	t      *dom.Tree
	logger *zap.SugaredLogger
}

// NewDetector returns a Detector for g and its dominator tree t.
func NewDetector(g *cfg.Graph, t *dom.Tree) *Detector {
	return &Detector{
		g:      g,
		t:      t,
		logger: zap.NewNop().Sugar(),
	}
}

// SetLogger sets the logger for debug messages.
func (d *Detector) SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		d.logger = l
	}
}

// check verifies that the tree was built from the graph.
func (d *Detector) check() error {
	if d.g == nil || d.t == nil {
		return errors.Wrap(cfg.ErrInconsistentGraph, "missing graph or dominator tree")
	}
	if d.t.Graph() != d.g || d.t.NumBlocks() != d.g.NumBlocks() {
		return errors.Wrap(cfg.ErrInconsistentGraph, "dominator tree was built from another graph")
	}
	return nil
}

// BackEdges returns the back edges of the graph in enumeration order.
func (d *Detector) BackEdges(ctx context.Context) ([]cfg.Edge, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	var backEdges []cfg.Edge
	for i, e := range d.g.Edges() {
		if i%checkInterval == 0 {
			if err := cfg.Interrupted(ctx); err != nil {
				return nil, err
			}
		}
		if !d.t.Contains(e.From) {
			continue
		}
		if d.t.Dominates(e.To, e.From) {
			d.logger.Debugf("Found back edge: %s", e)
			backEdges = append(backEdges, e)
		}
	}
	return backEdges, nil
}

// Loop builds the natural loop of back edge be.
//
// The header is recorded first. Starting from the tail, each block taken
// from the worklist is recorded, and its predecessors that the header
// dominates are queued unless already recorded.
func (d *Detector) Loop(ctx context.Context, be cfg.Edge) (*Loop, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	header, tail := be.To, be.From
	if !d.t.Contains(header) || !d.t.Contains(tail) {
		return nil, errors.Wrapf(cfg.ErrInconsistentGraph, "back edge %s: no dominator tree entry", be)
	}
	if _, ok := d.g.FindEdge(tail, header); !ok {
		return nil, errors.Wrapf(cfg.ErrInconsistentGraph, "back edge %s: not an edge of the graph", be)
	}
	if !d.t.Dominates(header, tail) {
		return nil, errors.Wrapf(cfg.ErrInconsistentGraph, "edge %s: header does not dominate tail", be)
	}

	inBody := make([]bool, d.g.NumBlocks())
	inBody[header] = true
	body := []int{header}

	worklist := NewStack()
	worklist.Push(tail)
	steps := 0
	for b, err := worklist.Pop(); err == nil; b, err = worklist.Pop() {
		if steps%checkInterval == 0 {
			if err := cfg.Interrupted(ctx); err != nil {
				return nil, err
			}
		}
		steps++
		if inBody[b] {
			continue
		}
		inBody[b] = true
		body = append(body, b)
		for _, p := range d.g.Preds(b) {
			if !inBody[p] && d.t.Dominates(header, p) {
				worklist.Push(p)
			}
		}
	}

	l := &Loop{
		Header:   header,
		BackEdge: be,
		Body:     d.g.Induced(body),
	}
	d.logger.Debugf("Loop body: %s", l)
	return l, nil
}

// Loops finds all back edges and builds their natural loops.
func (d *Detector) Loops(ctx context.Context) ([]*Loop, error) {
	bes, err := d.BackEdges(ctx)
	if err != nil {
		return nil, err
	}
	return d.LoopsOf(ctx, bes)
}

// LoopsOf builds the natural loop of each back edge in bes.
func (d *Detector) LoopsOf(ctx context.Context, bes []cfg.Edge) ([]*Loop, error) {
	loops := make([]*Loop, 0, len(bes))
	for _, be := range bes {
		l, err := d.Loop(ctx, be)
		if err != nil {
			return nil, err
		}
		loops = append(loops, l)
	}
	return loops, nil
}
