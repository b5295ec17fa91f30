package cmd

import (
	"github.com/huangsam/vmfs/core"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd puts mechanisms side by side.
var compareCmd = &cobra.Command{
	Use:   "compare <id>...",
	Short: "Compare mechanisms dimension by dimension",
	Long: `Show the scores of up to --capacity mechanisms side by side, one row per dimension
plus the average. The best value of each row is highlighted and ties are all marked.

Ids are added in order. Repeated ids count once and ids past the capacity are
skipped with a warning.

Examples:
  # Compare two mechanisms
  vmfs compare hem whistleblower

  # Compare as CSV
  vmfs compare hem chip_registry compute_accounting --output csv`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
