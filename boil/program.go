package boil

import (
	"context"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/nickng/boil/block"
	"github.com/nickng/boil/cfg"
	"github.com/nickng/boil/prog"
	"github.com/nickng/boil/ssa"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	gossa "golang.org/x/tools/go/ssa"
)

var (
	_ prog.Analyser = (*Program)(nil)
	_ LogSetter     = (*Program)(nil)
)

// FuncResult is the loop analysis of one function.
type FuncResult struct {
	Func   *gossa.Function
	Blocks []*gossa.BasicBlock // Block i of the graph in Result is Blocks[i].
	Result *Result             // nil if Err is set.
	Err    error
}

// Program analyses the loops of every function in a SSA program.
type Program struct {
	Info    *ssa.Info
	Results []*FuncResult // Ordered like Functions.

	// Filter keeps only the functions whose name contains Filter.
	Filter string
	// CallGraph keeps only the functions reachable from main in the
	// callgraph built with the given algorithm (static, cha or rta).
	// All functions are analysed if empty.
	CallGraph string
	// Workers is the number of functions analysed at a time.
	// Defaults to GOMAXPROCS.
	Workers int

	opts []Option
	*Logger
}

// NewProgram returns a new Program for info. opts configure the Analyser of
// each function; a WithLogger among them takes precedence over the Program
// logger for the analysis of each function. Nothing is logged until a logger
// is set.
func NewProgram(info *ssa.Info, opts ...Option) *Program {
	p := &Program{Info: info, opts: opts}
	p.SetLogger(NewLogger(nil))
	return p
}

// SetLogger sets logger for Program.
func (p *Program) SetLogger(l *Logger) {
	p.Logger = l.withModule(color.BlueString("prog "))
}

// AddLogFiles replaces the current Logger with one writing to stderr and
// files, at debug level if built with the debug tag.
func (p *Program) AddLogFiles(files ...string) {
	p.SetLogger(newFileLogger(files...))
}

// Functions returns the functions to analyse, sorted by position.
func (p *Program) Functions() ([]*gossa.Function, error) {
	fns := p.Info.Functions()
	if p.CallGraph != "" {
		cg, err := p.Info.BuildCallGraph(p.CallGraph)
		if err != nil {
			return nil, errors.Wrap(err, "cannot build callgraph")
		}
		usedFns, err := cg.UsedFunctions()
		if err != nil {
			return nil, err
		}
		used := make(map[*gossa.Function]bool)
		for _, fn := range usedFns {
			used[fn] = true
		}
		fns = keep(fns, func(fn *gossa.Function) bool { return used[fn] })
	}
	if p.Filter != "" {
		fns = keep(fns, func(fn *gossa.Function) bool { return strings.Contains(fn.String(), p.Filter) })
	}
	return fns, nil
}

func keep(fns []*gossa.Function, ok func(*gossa.Function) bool) []*gossa.Function {
	var kept []*gossa.Function
	for _, fn := range fns {
		if ok(fn) {
			kept = append(kept, fn)
		}
	}
	return kept
}

// Analyse analyses all functions and stores the results in p.Results.
// A function that cannot be analysed has its error recorded in its
// FuncResult and does not stop the others. Analyse only fails when the
// functions cannot be listed or ctx is cancelled.
func (p *Program) Analyse(ctx context.Context) error {
	// Sync error ignored. See https://github.com/uber-go/zap/issues/328
	defer p.Logger.Sync()

	fns, err := p.Functions()
	if err != nil {
		return err
	}
	p.Infof("%s Analysing %d function(s)", p.Module(), len(fns))
	p.Results = make([]*FuncResult, len(fns))

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, fn := range fns {
		i, fn := i, fn
		eg.Go(func() error {
			res := p.AnalyseFunc(ctx, fn)
			p.Results[i] = res
			if errors.Is(res.Err, cfg.ErrCancelled) {
				return res.Err
			}
			return nil
		})
	}
	return eg.Wait()
}

// AnalyseFunc analyses the loops of fn.
func (p *Program) AnalyseFunc(ctx context.Context, fn *gossa.Function) *FuncResult {
	res := &FuncResult{Func: fn}
	g, blocks, err := block.Graph(fn)
	if err != nil {
		res.Err = err
		p.Warnf("%s %s: loop analysis unavailable for this function: %v", p.Module(), fn, err)
		return res
	}
	res.Blocks = blocks

	a := New(append([]Option{withLogger(p.Logger)}, p.opts...)...)
	res.Result, res.Err = a.AnalyseGraph(ctx, g)
	if res.Err != nil {
		p.Warnf("%s %s: loop analysis unavailable for this function: %v", p.Module(), fn, res.Err)
		return res
	}
	p.Debugf("%s %s: %d loop(s)", p.Module(), fn, len(res.Result.Loops))
	return res
}

// Failed returns the results of the functions that could not be analysed.
func (p *Program) Failed() []*FuncResult {
	var failed []*FuncResult
	for _, res := range p.Results {
		if res != nil && res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
