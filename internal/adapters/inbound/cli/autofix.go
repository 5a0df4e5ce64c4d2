package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/pluginpipe/internal/adapters/outbound/tui"
)

func newAutofixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "autofix [path]",
		Short: "Lint, fix and commit until the tree converges",
		Long: "Run every linter the project needs, commit what they fix and repeat, at most five rounds, " +
			"then run the plugin validator. Auto-fix commits are added to the current branch. " +
			"Exits 0 only when the outcome is Success.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(projectPath(args))
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if top, err := a.svc.Git.TopLevel(root); err == nil {
				root = top
			}

			outcome, err := a.svc.AutoFix(root).Run(cmd.Context(), root)
			if err != nil {
				return fmt.Errorf("auto-fix aborted: %w", err)
			}

			switch {
			case a.json:
				if err := writeJSON(cmd, outcome); err != nil {
					return err
				}
			case a.quiet:
			default:
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderOutcome(outcome))
			}

			if !outcome.Succeeded() {
				return fmt.Errorf("auto-fix ended with %s", outcome.Kind)
			}
			return nil
		},
	}
}
