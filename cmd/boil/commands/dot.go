package commands

import (
	"github.com/nickng/boil/block"
	"github.com/nickng/boil/boil"
	"github.com/nickng/boil/cfg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var dotFunc string

// dotCmd represents the dot command
var dotCmd = &cobra.Command{
	Use:   "dot --func name [flags] file.go [files.go...]",
	Short: "Write the control-flow graph of a function in graphviz format",
	Long: `Writes the control-flow graph of one function in graphviz dot format.
Vertices are labelled with the SSA block index and comment, back edges are
drawn in bold red.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if dotFunc == "" {
			return errors.New("--func is required")
		}
		if cmd.Flags().Changed("prune-unreachable") {
			conf.PruneUnreachable = prune
		}
		info, err := buildSSA(args)
		if err != nil {
			return err
		}
		fn, err := info.FindFunc(dotFunc)
		if err != nil {
			return err
		}
		g, blocks, err := block.Graph(fn)
		if err != nil {
			return err
		}
		a := boil.New(analyserOptions()...)
		a.SetLogger(logger)
		res, err := a.AnalyseGraph(cmd.Context(), g)
		if err != nil {
			return errors.Wrapf(err, "%s", fn)
		}
		backEdges := make(map[cfg.Edge]bool)
		for _, be := range res.BackEdges {
			backEdges[be] = true
		}

		w, closeOut, err := output(outPath)
		if err != nil {
			return err
		}
		opts := cfg.DotOptions{
			Name:      fn.String(),
			Label:     func(b int) string { return block.Label(blocks[b]) },
			Highlight: backEdges,
		}
		if err := g.WriteGraphviz(w, opts); err != nil {
			closeOut()
			return err
		}
		return closeOut()
	},
}

func init() {
	dotCmd.Flags().StringVar(&dotFunc, "func", "", `Specify the function to draw (format: (import/path).FuncName)`)
	dotCmd.Flags().StringVar(&outPath, "out", "", "Specify output file (default: stdout)")
	dotCmd.Flags().BoolVar(&prune, "prune-unreachable", false, "Leave out blocks unreachable from the entry instead of failing")
}
