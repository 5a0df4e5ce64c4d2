package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/pluginpipe/internal/adapters/outbound/tui"
	"github.com/openkraft/pluginpipe/internal/application"
	"github.com/openkraft/pluginpipe/internal/domain"
)

var errInvalid = errors.New("pipeline is not valid")

// fixOutput is the --json form of a fix run: the actions taken and the
// status afterwards, the same two sections the terminal report shows.
type fixOutput struct {
	Fix    *domain.FixReport   `json:"fix"`
	Status domain.StatusReport `json:"status"`
}

// bindPipelineCmd makes the root command the validator/fixer.
func bindPipelineCmd(cmd *cobra.Command, a *app) {
	var (
		validateOnly bool
		fixOnly      bool
		dryRun       bool
		kindFlag     string
	)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if validateOnly && fixOnly {
			return fmt.Errorf("--validate and --fix are mutually exclusive")
		}
		root, err := filepath.Abs(projectPath(args))
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		var vopts application.ValidateOptions
		if kindFlag != "" {
			if kindFlag != "marketplace" && kindFlag != "plugin" {
				return fmt.Errorf("--type must be marketplace or plugin, got %q", kindFlag)
			}
			vopts.ForceKind, _ = domain.ParseProjectKind(kindFlag)
		}

		status := a.svc.Validate.Validate(root, vopts)
		a.log.Debugw("Validated", "path", root, "kind", status.Kind, "issues", len(status.Issues))

		fix := fixOnly || dryRun || (!validateOnly && !status.IsValid())
		if !fix {
			return a.finish(cmd, status, nil, false)
		}

		report, err := a.svc.Fix.Apply(status, domain.FixOptions{DryRun: dryRun})
		if errors.Is(err, application.ErrUnknownProject) {
			return a.finish(cmd, status, nil, false)
		}
		if err != nil {
			return fmt.Errorf("fix failed: %w", err)
		}
		if !dryRun {
			status = a.svc.Validate.Validate(root, vopts)
		}
		return a.finish(cmd, status, report, dryRun)
	}

	f := cmd.Flags()
	f.BoolVarP(&validateOnly, "validate", "v", false, "Only report, change nothing")
	f.BoolVarP(&fixOnly, "fix", "f", false, "Apply every available fix")
	f.BoolVarP(&dryRun, "dry-run", "n", false, "Show what --fix would change")
	f.StringVar(&kindFlag, "type", "", "Force the project type (marketplace|plugin)")
}

// finish prints the report and turns an invalid status into a nonzero exit.
func (a *app) finish(cmd *cobra.Command, status *domain.PipelineStatus, fix *domain.FixReport, dryRun bool) error {
	report := status.Report()
	out := cmd.OutOrStdout()

	switch {
	case a.json && fix != nil:
		if err := writeJSON(cmd, fixOutput{Fix: fix, Status: report}); err != nil {
			return err
		}
	case a.json:
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
	case a.quiet:
	default:
		if fix != nil {
			fmt.Fprint(out, tui.RenderFix(fix, dryRun))
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, tui.RenderStatus(report))
	}

	if !report.IsValid {
		return errInvalid
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
