package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openkraft/pluginpipe/internal/bootstrap"
	"github.com/openkraft/pluginpipe/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
)

// app carries the global flags and the services built from them.
type app struct {
	quiet   bool
	verbose bool
	json    bool

	log *zap.SugaredLogger
	svc *bootstrap.Services
}

func (a *app) setup(cmd *cobra.Command) {
	a.log = logger.New(logger.Options{
		JSON:    a.json,
		Verbose: a.verbose,
		Quiet:   a.quiet,
		Output:  cmd.ErrOrStderr(),
	})
	a.svc = bootstrap.New(a.log)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "pluginpipe [path]",
		Short: "Set up and enforce the development pipeline of a plugin or marketplace",
		Long: "pluginpipe installs git hooks and config files for Claude Code plugins and marketplaces, " +
			"reports what is missing by severity, and runs a bounded auto-fix loop over every linter the project needs.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.setup(cmd)
		},
	}
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Only print errors")
	pf.BoolVar(&a.verbose, "verbose", false, "Print debug logs")
	pf.BoolVar(&a.json, "json", false, "Print the report as JSON")

	bindPipelineCmd(cmd, a)

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAutofixCmd(a))
	cmd.AddCommand(newHookCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newMCPCmd(a))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func projectPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
