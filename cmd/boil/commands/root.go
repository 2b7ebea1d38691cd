// Package commands provides the CLI commands for the boil tool.
package commands

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/nickng/boil/boil"
	"github.com/nickng/boil/internal/config"
	"github.com/nickng/boil/ssa"
	"github.com/nickng/boil/ssa/build"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logPath    string
	debug      bool
	noColor    bool

	conf   *config.Config
	logger *boil.Logger
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "boil",
	Short: "boil - loop detection for Go functions",
	Long: `boil finds the natural loops of Go functions from their control-flow
graphs and dominator trees.

Commands:
  loops       Report the loops of every function
  dom         Print the dominator tree of every function
  dot         Write the control-flow graph of a function in graphviz format
  ssa         Print the SSA IR the analysis works on

Use "boil [command] --help" for more information about a command.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./"+config.ProjectFile+" if present)")
	RootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Specify analysis log file (use '-' for stderr)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug messages")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	RootCmd.AddCommand(loopsCmd)
	RootCmd.AddCommand(domCmd)
	RootCmd.AddCommand(dotCmd)
	RootCmd.AddCommand(ssaCmd)
}

// setup loads the configuration, lets flags override it and creates the
// logger shared by the commands.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	conf, err = config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log") {
		conf.LogFile = logPath
	}
	if flags.Changed("debug") {
		conf.Debug = debug
	}
	if flags.Changed("no-color") {
		conf.Color = !noColor
	}
	color.NoColor = !conf.Color

	l, err := newLogger(conf)
	if err != nil {
		return errors.Wrap(err, "cannot create logger")
	}
	logger = boil.NewLogger(l)
	return nil
}

// newLogger returns the logger for conf. Nothing is logged without a log
// file unless debug is set, in which case the log goes to stderr.
func newLogger(conf *config.Config) (*zap.SugaredLogger, error) {
	var zconf zap.Config
	if conf.Debug {
		zconf = zap.NewDevelopmentConfig()
	} else {
		zconf = zap.NewProductionConfig()
	}
	switch conf.LogFile {
	case "":
		if !conf.Debug {
			return zap.NewNop().Sugar(), nil
		}
		zconf.OutputPaths = []string{"stderr"}
	case "-":
		zconf.OutputPaths = []string{"stderr"}
	default:
		zconf.OutputPaths = []string{conf.LogFile}
	}
	l, err := zconf.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// buildSSA builds the SSA IR of files.
func buildSSA(files []string) (*ssa.Info, error) {
	bconf := build.FromFiles(files).Default()
	for pkg, reason := range conf.BadPackages {
		bconf = bconf.AddBadPkg(pkg, reason)
	}
	info, err := bconf.WithLogger(logger.SugaredLogger).Build()
	if err != nil {
		return nil, errors.Wrap(err, "cannot build SSA from files")
	}
	return info, nil
}

// analyserOptions returns the options of the loop analysis from conf.
func analyserOptions() []boil.Option {
	return []boil.Option{boil.PruneUnreachable(conf.PruneUnreachable)}
}

// output returns the writer for path, stdout if empty. The returned close
// function must be called when done.
func output(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot create output file %s", path)
	}
	return f, f.Close, nil
}
