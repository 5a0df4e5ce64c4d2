package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openkraft/pluginpipe/internal/adapters/outbound/tui"
)

func newHookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "hook",
		Short:  "Entry points called by the installed git hooks",
		Hidden: true,
	}
	cmd.AddCommand(newPreCommitHookCmd(a))
	cmd.AddCommand(newChangelogHookCmd(a))
	return cmd
}

// hookRoot is the work tree the hook runs for; git starts hooks there, but
// the command may also be run by hand from a subdirectory.
func hookRoot(a *app) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	if top, err := a.svc.Git.TopLevel(wd); err == nil {
		return top, nil
	}
	return wd, nil
}

func newPreCommitHookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pre-commit",
		Short: "Check staged files: JSON syntax (blocking), ruff and credentials (warnings)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := hookRoot(a)
			if err != nil {
				return err
			}
			report := a.svc.PreCommit.Check(cmd.Context(), root)

			switch {
			case a.json:
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			case a.quiet:
			default:
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderPreCommit(report))
			}

			if report.Blocked() {
				return fmt.Errorf("pre-commit validation failed: %d invalid JSON file(s)", len(report.JSONErrors))
			}
			return nil
		},
	}
}

func newChangelogHookCmd(a *app) *cobra.Command {
	var operation string

	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Regenerate CHANGELOG.md with git-cliff after a rewrite or merge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := hookRoot(a)
			if err != nil {
				return err
			}
			res := a.svc.Changelog.Regenerate(cmd.Context(), root, operation)

			out := cmd.OutOrStdout()
			switch {
			case res.Skipped != "":
				a.log.Debugw("Changelog not regenerated", "reason", res.Skipped)
			case res.Failed != "":
				fmt.Fprintf(out, "Warning: git-cliff failed: %s\n", res.Failed)
			case res.Updated:
				fmt.Fprintln(out, "CHANGELOG.md updated - remember to commit it!")
			}
			// Changelog problems never fail the git operation that triggered them.
			return nil
		},
	}
	cmd.Flags().StringVar(&operation, "operation", "unknown", "Git operation that triggered the hook")
	return cmd
}
