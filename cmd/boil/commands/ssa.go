package commands

import (
	"github.com/spf13/cobra"
)

var ssaFunc string

// ssaCmd represents the ssa command
var ssaCmd = &cobra.Command{
	Use:   "ssa [flags] file.go [files.go...]",
	Short: "Print the SSA IR the analysis works on",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := buildSSA(args)
		if err != nil {
			return err
		}
		w, closeOut, err := output(outPath)
		if err != nil {
			return err
		}
		if ssaFunc != "" {
			_, err = info.WriteFunc(w, ssaFunc)
		} else {
			_, err = info.WriteTo(w)
		}
		if err != nil {
			closeOut()
			return err
		}
		return closeOut()
	},
}

func init() {
	ssaCmd.Flags().StringVar(&ssaFunc, "func", "", `Specify the function to view (format: (import/path).FuncName, default: all)`)
	ssaCmd.Flags().StringVar(&outPath, "out", "", "Specify output file (default: stdout)")
}
