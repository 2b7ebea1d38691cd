package commands

import (
	"github.com/nickng/boil/report"
	"github.com/spf13/cobra"
)

// domCmd represents the dom command
var domCmd = &cobra.Command{
	Use:   "dom [flags] file.go [files.go...]",
	Short: "Print the dominator tree of every function",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := analyse(cmd, args)
		if err != nil {
			return err
		}
		w, closeOut, err := output(outPath)
		if err != nil {
			return err
		}
		if err := report.WriteDomTree(w, reports); err != nil {
			closeOut()
			return err
		}
		return closeOut()
	},
}

func init() {
	addAnalysisFlags(domCmd)
}
