package boil

import (
	"context"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nickng/boil/block"
	"github.com/nickng/boil/cfg"
	"github.com/nickng/boil/ssa/build"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gossa "golang.org/x/tools/go/ssa"
)

const loopsProg = `package main

func main() {
	for i := 0; i < 3; i++ {
		for j := 0; j < i; j++ {
			println(i, j)
		}
	}
	count(3)
}

func count(n int) int {
	s := 0
	for n > 0 {
		n--
		s++
	}
	return s
}

func straight() {
	println("no loops")
}
`

func newTestProgram(t *testing.T, src string, opts ...Option) (*Program, *observer.ObservedLogs) {
	t.Helper()
	info, err := build.FromReader(strings.NewReader(src)).Build()
	require.NoError(t, err, "SSA build failed")
	core, logs := observer.New(zap.DebugLevel)
	p := NewProgram(info, opts...)
	p.SetLogger(NewLogger(zap.New(core).Sugar()))
	return p, logs
}

func loopCounts(p *Program) map[string]int {
	counts := make(map[string]int)
	for _, res := range p.Results {
		if res.Err == nil {
			counts[res.Func.Name()] = len(res.Result.Loops)
		}
	}
	return counts
}

func TestProgramAnalyse(t *testing.T) {
	p, _ := newTestProgram(t, loopsProg)
	require.NoError(t, p.Analyse(context.Background()))
	require.Len(t, p.Results, 3)
	assert.Equal(t, "main", p.Results[0].Func.Name())
	assert.Equal(t, map[string]int{"main": 2, "count": 1, "straight": 0}, loopCounts(p))
	assert.Empty(t, p.Failed())

	// The loop of count is for.loop and for.body.
	res := p.Results[1]
	require.Len(t, res.Result.Loops, 1)
	l := res.Result.Loops[0]
	assert.Equal(t, "for.loop", res.Blocks[l.Header].Comment)
	assert.Equal(t, 2, l.Size())
	assert.Equal(t, res.Result.Graph.NumBlocks(), len(res.Blocks))
}

// Inner loop body is inside the outer loop body.
func TestProgramNestedLoops(t *testing.T) {
	p, _ := newTestProgram(t, loopsProg)
	p.Filter = "main.main"
	require.NoError(t, p.Analyse(context.Background()))
	require.Len(t, p.Results, 1)
	loops := p.Results[0].Result.Loops
	require.Len(t, loops, 2)
	inner, outer := loops[0], loops[1]
	if inner.Size() > outer.Size() {
		inner, outer = outer, inner
	}
	for _, b := range inner.Body.Blocks {
		assert.True(t, outer.Contains(b), "block %s of inner loop not in outer loop", block.Label(p.Results[0].Blocks[b]))
	}
}

func TestProgramFilter(t *testing.T) {
	p, _ := newTestProgram(t, loopsProg)
	p.Filter = "count"
	fns, err := p.Functions()
	require.NoError(t, err)
	require.Len(t, fns, 1)
	assert.Equal(t, "count", fns[0].Name())

	p.Filter = "nothing"
	require.NoError(t, p.Analyse(context.Background()))
	assert.Empty(t, p.Results)
}

func TestProgramCallGraph(t *testing.T) {
	for _, algo := range []string{"static", "cha", "rta"} {
		t.Run(algo, func(t *testing.T) {
			p, _ := newTestProgram(t, loopsProg)
			p.CallGraph = algo
			fns, err := p.Functions()
			require.NoError(t, err)
			var names []string
			for _, fn := range fns {
				names = append(names, fn.Name())
			}
			assert.Equal(t, []string{"main", "count"}, names, "straight is never called")
		})
	}

	p, _ := newTestProgram(t, loopsProg)
	p.CallGraph = "pta"
	assert.Error(t, p.Analyse(context.Background()))
}

func TestProgramWorkers(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		p, _ := newTestProgram(t, loopsProg)
		p.Workers = workers
		require.NoError(t, p.Analyse(context.Background()))
		assert.Equal(t, map[string]int{"main": 2, "count": 1, "straight": 0}, loopCounts(p))
	}
}

func TestProgramCancelled(t *testing.T) {
	p, _ := newTestProgram(t, loopsProg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Analyse(ctx)
	assert.Equal(t, cfg.ErrCancelled, errors.Cause(err))
}

// A function without body is reported and skipped.
func TestAnalyseFuncUnavailable(t *testing.T) {
	p, logs := newTestProgram(t, loopsProg)
	fn := &gossa.Function{Signature: types.NewSignatureType(nil, nil, nil, nil, nil, false)}
	res := p.AnalyseFunc(context.Background(), fn)
	assert.Equal(t, block.ErrNoBody, errors.Cause(res.Err))
	assert.Nil(t, res.Result)
	assert.Equal(t, 1, logs.FilterMessageSnippet("loop analysis unavailable for this function").Len())
}

// An analyser logger given as an option is kept for the per-function
// analysis; the Program logger still gets the program messages.
func TestProgramAnalyserLogger(t *testing.T) {
	info, err := build.FromReader(strings.NewReader(loopsProg)).Build()
	require.NoError(t, err)
	loopCore, loopLogs := observer.New(zap.DebugLevel)
	progCore, progLogs := observer.New(zap.DebugLevel)
	p := NewProgram(info, WithLogger(zap.New(loopCore).Sugar()))
	p.SetLogger(NewLogger(zap.New(progCore).Sugar()))
	require.NoError(t, p.Analyse(context.Background()))

	assert.Equal(t, 3, loopLogs.FilterMessageSnippet("back edges").Len())
	assert.Zero(t, progLogs.FilterMessageSnippet("back edges").Len())
	assert.Equal(t, 1, progLogs.FilterMessageSnippet("Analysing 3 function(s)").Len())
}

func TestProgramPruneOption(t *testing.T) {
	p, _ := newTestProgram(t, loopsProg, PruneUnreachable(true))
	require.NoError(t, p.Analyse(context.Background()))
	for _, res := range p.Results {
		require.NoError(t, res.Err)
		assert.Empty(t, res.Result.Unreachable)
	}
}

func TestAddLogFiles(t *testing.T) {
	p, _ := newTestProgram(t, loopsProg)
	logFile := filepath.Join(t.TempDir(), "boil.log")
	p.AddLogFiles(logFile)
	require.NoError(t, p.Analyse(context.Background()))
	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Analysing 3 function(s)")
}
