package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/pluginpipe/internal/adapters/outbound/tui"
	"github.com/openkraft/pluginpipe/internal/domain"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history [path]",
		Short: "Show recorded auto-fix runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(projectPath(args))
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			records, err := a.svc.History.Load(root)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			if a.json {
				if records == nil {
					records = []domain.RunRecord{}
				}
				return writeJSON(cmd, records)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(records))
			return nil
		},
	}
}
