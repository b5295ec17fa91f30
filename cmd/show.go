package cmd

import (
	"github.com/huangsam/vmfs/core"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/spf13/cobra"
)

// showCmd prints one mechanism in full.
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a mechanism with its radar chart and coverage",
	Long: `Print the full profile of a mechanism: scores with band labels, a radar chart,
its rank, coverage of each verification objective, evidence, dependencies,
evasion modes and limitations.

Examples:
  vmfs show hem
  vmfs show whistleblower --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteShow(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot show mechanism", err)
		}
	},
}
