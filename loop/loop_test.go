package loop

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/nickng/boil/cfg"
	"github.com/nickng/boil/dom"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	A = iota
	B
	C
	D
	E
)

func analyse(t *testing.T, succs [][]int) (*cfg.Graph, *dom.Tree, []cfg.Edge, []*Loop) {
	t.Helper()
	ctx := context.Background()
	g, err := cfg.FromSuccs(succs)
	require.NoError(t, err)
	tree, err := dom.Build(ctx, g, 0)
	require.NoError(t, err)
	bes, err := FindBackEdges(ctx, g, tree)
	require.NoError(t, err)
	loops, err := ExtractAll(ctx, g, tree, bes)
	require.NoError(t, err)
	return g, tree, bes, loops
}

func TestSimpleLoop(t *testing.T) {
	_, _, bes, loops := analyse(t, [][]int{
		A: {B},
		B: {C},
		C: {B, D},
		D: {},
	})
	assert.Equal(t, []cfg.Edge{{From: C, To: B}}, bes)
	require.Len(t, loops, 1)
	l := loops[0]
	assert.Equal(t, B, l.Header)
	assert.Equal(t, C, l.Tail())
	assert.Equal(t, []int{B, C}, l.Body.Blocks)
	assert.ElementsMatch(t, []cfg.Edge{{From: B, To: C}, {From: C, To: B}}, l.Body.Edges)
}

func TestSelfLoop(t *testing.T) {
	_, _, bes, loops := analyse(t, [][]int{
		A: {B},
		B: {B, C},
		C: {},
	})
	assert.Equal(t, []cfg.Edge{{From: B, To: B}}, bes)
	require.Len(t, loops, 1)
	assert.Equal(t, []int{B}, loops[0].Body.Blocks)
	assert.Equal(t, []cfg.Edge{{From: B, To: B}}, loops[0].Body.Edges)
	assert.Equal(t, 1, loops[0].Size())
}

// Two back edges into one header give two separate loops.
func TestSharedHeader(t *testing.T) {
	g, _, bes, loops := analyse(t, [][]int{
		A: {B},
		B: {C, D, E},
		C: {B},
		D: {B},
		E: {},
	})
	assert.Equal(t, []cfg.Edge{{From: C, To: B}, {From: D, To: B}}, bes)
	require.Len(t, loops, 2)
	assert.Equal(t, []int{B, C}, loops[0].Body.Blocks)
	assert.Equal(t, []int{B, D}, loops[1].Body.Blocks)
	assert.Equal(t, B, loops[0].Header)
	assert.Equal(t, B, loops[1].Header)
	assert.Equal(t, []int{B}, loops[0].Exits(g))
}

func TestDAGHasNoBackEdges(t *testing.T) {
	_, _, bes, loops := analyse(t, [][]int{
		A: {B, C},
		B: {D},
		C: {D},
		D: {E},
		E: {},
	})
	assert.Empty(t, bes)
	assert.Empty(t, loops)
}

// Repeated edges are each reported.
func TestDuplicateBackEdges(t *testing.T) {
	_, _, bes, loops := analyse(t, [][]int{
		A: {B},
		B: {C},
		C: {B, B},
	})
	assert.Equal(t, []cfg.Edge{{From: C, To: B}, {From: C, To: B}}, bes)
	require.Len(t, loops, 2)
	assert.Equal(t, loops[0].Body.Blocks, loops[1].Body.Blocks)
	// The induced subgraph keeps the repeated edge as well.
	assert.Equal(t, []cfg.Edge{{From: B, To: C}, {From: C, To: B}, {From: C, To: B}}, loops[0].Body.Edges)
}

// Inner and outer loops: a block can be the header of one back edge and
// the tail of another.
func TestNestedLoops(t *testing.T) {
	// 0 → 1 → 2 → 3 → 2, 3 → 1, 1 → 4.
	_, _, bes, loops := analyse(t, [][]int{
		0: {1},
		1: {2, 4},
		2: {3},
		3: {2, 1},
		4: {},
	})
	assert.Equal(t, []cfg.Edge{{From: 3, To: 2}, {From: 3, To: 1}}, bes)
	require.Len(t, loops, 2)
	assert.Equal(t, []int{2, 3}, loops[0].Body.Blocks)
	assert.Equal(t, []int{1, 2, 3}, loops[1].Body.Blocks)
}

// A cycle entered from two places has no header dominating it, so there is
// no back edge.
func TestIrreducibleCycle(t *testing.T) {
	_, _, bes, _ := analyse(t, [][]int{
		A: {B, C},
		B: {C},
		C: {B},
	})
	assert.Empty(t, bes)
}

func TestStaleTree(t *testing.T) {
	ctx := context.Background()
	succs := [][]int{A: {B}, B: {C}, C: {B}}
	g1, err := cfg.FromSuccs(succs)
	require.NoError(t, err)
	g2, err := cfg.FromSuccs(succs)
	require.NoError(t, err)
	tree, err := dom.Build(ctx, g1, A)
	require.NoError(t, err)

	_, err = FindBackEdges(ctx, g2, tree)
	assert.Equal(t, cfg.ErrInconsistentGraph, errors.Cause(err))
	_, err = Extract(ctx, g2, tree, cfg.Edge{From: C, To: B})
	assert.Equal(t, cfg.ErrInconsistentGraph, errors.Cause(err))
	_, err = FindBackEdges(ctx, g1, nil)
	assert.Equal(t, cfg.ErrInconsistentGraph, errors.Cause(err))
}

func TestExtractInconsistentEdge(t *testing.T) {
	ctx := context.Background()
	g, err := cfg.FromSuccs([][]int{A: {B}, B: {C}, C: {B}, D: {}})
	require.NoError(t, err)
	tree, _, err := dom.BuildReachable(ctx, g, A)
	require.NoError(t, err)

	tests := []struct {
		name string
		edge cfg.Edge
	}{
		{"not in graph", cfg.Edge{From: B, To: A}},
		{"not a back edge", cfg.Edge{From: A, To: B}},
		{"no tree entry", cfg.Edge{From: D, To: B}},
		{"out of range", cfg.Edge{From: 9, To: B}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(ctx, g, tree, tc.edge)
			require.Error(t, err)
			assert.Equal(t, cfg.ErrInconsistentGraph, errors.Cause(err))
		})
	}
}

// Edges out of blocks missing from a reachable-only tree are skipped.
func TestBackEdgesReachableTree(t *testing.T) {
	ctx := context.Background()
	g, err := cfg.FromSuccs([][]int{A: {B}, B: {A}, C: {C}})
	require.NoError(t, err)
	tree, unreachable, err := dom.BuildReachable(ctx, g, A)
	require.NoError(t, err)
	assert.Equal(t, []int{C}, unreachable)
	bes, err := FindBackEdges(ctx, g, tree)
	require.NoError(t, err)
	assert.Equal(t, []cfg.Edge{{From: B, To: A}}, bes)
}

func TestCancelled(t *testing.T) {
	g, err := cfg.FromSuccs([][]int{A: {B}, B: {A}})
	require.NoError(t, err)
	tree, err := dom.Build(context.Background(), g, A)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FindBackEdges(ctx, g, tree)
	assert.Equal(t, cfg.ErrCancelled, errors.Cause(err))
	_, err = Extract(ctx, g, tree, cfg.Edge{From: B, To: A})
	assert.Equal(t, cfg.ErrCancelled, errors.Cause(err))
}

// Checks back-edge characterisation, loop body closure and idempotence on
// random graphs.
func TestLoopProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		n := 2 + rnd.Intn(12)
		succs := make([][]int, n)
		for b := range succs {
			for k := rnd.Intn(3); k > 0; k-- {
				succs[b] = append(succs[b], rnd.Intn(n))
			}
		}
		g, err := cfg.FromSuccs(succs)
		require.NoError(t, err)
		tree, _, err := dom.BuildReachable(ctx, g, 0)
		require.NoError(t, err)

		t.Run(fmt.Sprintf("graph%d", i), func(t *testing.T) {
			bes, err := FindBackEdges(ctx, g, tree)
			require.NoError(t, err)
			var want []cfg.Edge
			for _, e := range g.Edges() {
				if tree.Contains(e.From) && containsInt(tree.Dominators(e.From), e.To) {
					want = append(want, e)
				}
			}
			assert.Equal(t, want, bes)

			loops, err := ExtractAll(ctx, g, tree, bes)
			require.NoError(t, err)
			for _, l := range loops {
				assert.True(t, l.Contains(l.Header))
				assert.True(t, l.Contains(l.Tail()))
				for _, x := range l.Body.Blocks {
					assert.True(t, tree.Dominates(l.Header, x))
					if x == l.Header {
						continue
					}
					for _, p := range g.Preds(x) {
						if tree.Dominates(l.Header, p) {
							assert.True(t, l.Contains(p), "pred %d of %d missing from %s", p, x, l)
						}
					}
				}
				for _, e := range l.Body.Edges {
					assert.True(t, l.Contains(e.From) && l.Contains(e.To))
				}
			}

			again, err := ExtractAll(ctx, g, tree, bes)
			require.NoError(t, err)
			require.Len(t, again, len(loops))
			for k := range loops {
				assert.Equal(t, loops[k].Body.Blocks, again[k].Body.Blocks)
				assert.Equal(t, loops[k].Body.Edges, again[k].Body.Edges)
			}
		})
	}
}

func containsInt(xs []int, x int) bool {
	for _, y := range xs {
		if y == x {
			return true
		}
	}
	return false
}

func TestStack(t *testing.T) {
	s := NewStack()
	assert.True(t, s.IsEmpty())
	_, err := s.Pop()
	assert.Equal(t, ErrEmptyStack, err)
	s.Push(1)
	s.Push(2)
	assert.Equal(t, 2, s.Len())
	b, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, b)
	b, _ = s.Pop()
	assert.Equal(t, 1, b)
	assert.True(t, s.IsEmpty())
}

func ExampleDetector_Loops() {
	g, _ := cfg.FromSuccs([][]int{
		0: {1},
		1: {2, 4},
		2: {3},
		3: {1},
		4: {},
	})
	tree, _ := dom.Build(context.Background(), g, 0)
	loops, _ := NewDetector(g, tree).Loops(context.Background())
	for _, l := range loops {
		fmt.Println(l)
	}
	// Output:
	// loop@1 (3 → 1): body {1, 2, 3}
}
