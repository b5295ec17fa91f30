package cmd

import (
	"github.com/huangsam/vmfs/core"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/spf13/cobra"
)

// whatifCmd applies score edits without persisting them.
var whatifCmd = &cobra.Command{
	Use:   "whatif <id> --set dim=value",
	Short: "Edit scores of a mechanism and see how its average and rank move",
	Long: `Apply one or more score edits to a mechanism and compare the result with the
original scores. Edits are clamped to [1, 5] and rounded to one decimal, exactly like
dragging a vertex in the explorer. Nothing is saved.

Examples:
  # Raise political tractability of hardware-enabled mechanisms
  vmfs whatif hem --set pt=4.5

  # Several edits at once
  vmfs whatif whistleblower --set tf=3,gsa=4.2`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWhatIf(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run what-if", err)
		}
	},
}
