package commands

import (
	"github.com/nickng/boil/boil"
	"github.com/nickng/boil/report"
	"github.com/spf13/cobra"
)

var (
	formatFlag    string
	outPath       string
	funcFilter    string
	callGraphAlgo string
	prune         bool
	workers       int
)

// loopsCmd represents the loops command
var loopsCmd = &cobra.Command{
	Use:   "loops [flags] file.go [files.go...]",
	Short: "Report the loops of every function",
	Long: `Builds the SSA IR of the given files or packages, and reports for every
function its back edges and the natural loop of each back edge.
Functions that cannot be analysed are reported with the error and do not stop
the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := analyse(cmd, args)
		if err != nil {
			return err
		}
		format, err := report.ParseFormat(conf.Format)
		if err != nil {
			return err
		}
		w, closeOut, err := output(outPath)
		if err != nil {
			return err
		}
		if err := report.Encode(w, format, reports); err != nil {
			closeOut()
			return err
		}
		return closeOut()
	},
}

func init() {
	addAnalysisFlags(loopsCmd)
	loopsCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: text, json, yaml or msgpack (default from config, text)")
}

// addAnalysisFlags adds the flags of the commands running the analysis on
// every function.
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outPath, "out", "", "Specify output file (default: stdout)")
	cmd.Flags().StringVar(&funcFilter, "func", "", "Only analyse functions whose name contains this")
	cmd.Flags().StringVar(&callGraphAlgo, "callgraph", "", "Only analyse functions reachable from main in the callgraph: static, cha or rta")
	cmd.Flags().BoolVar(&prune, "prune-unreachable", false, "Leave out blocks unreachable from the entry instead of failing")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of functions analysed at a time (default GOMAXPROCS)")
}

// analyse runs the loop analysis on every function of the files in args.
func analyse(cmd *cobra.Command, args []string) ([]*report.FuncReport, error) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		conf.Format = formatFlag
	}
	if flags.Changed("callgraph") {
		conf.CallGraph = callGraphAlgo
	}
	if flags.Changed("prune-unreachable") {
		conf.PruneUnreachable = prune
	}
	if flags.Changed("workers") {
		conf.Workers = workers
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	info, err := buildSSA(args)
	if err != nil {
		return nil, err
	}
	p := boil.NewProgram(info, analyserOptions()...)
	p.SetLogger(logger)
	p.Filter = funcFilter
	p.CallGraph = conf.CallGraph
	p.Workers = conf.Workers
	if err := p.Analyse(cmd.Context()); err != nil {
		return nil, err
	}
	for _, res := range p.Failed() {
		logger.Warnf("%s %s: %v", logger.Module(), res.Func, res.Err)
	}
	return report.FromProgram(p), nil
}
