package cmd

import (
	"github.com/huangsam/vmfs/core"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/spf13/cobra"
)

// coverageCmd shows the coverage matrix.
var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Show which verification objectives each mechanism covers",
	Long: `Print the coverage matrix of mechanisms against verification objectives.
Each cell is primary, partial or none, and the last row counts primary and
partial coverage per objective.

Examples:
  vmfs coverage
  vmfs coverage --output csv --output-file coverage.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCoverage(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display coverage", err)
		}
	},
}

// summaryCmd shows the catalogue summary.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the catalogue and its key findings",
	Long: `Print catalogue totals, the best scoring mechanism, coverage per objective and
the key findings recorded with the catalogue.

Examples:
  vmfs summary
  vmfs summary --catalog ./my-catalog.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display summary", err)
		}
	},
}

// metricsCmd displays the scoring model.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the scoring dimensions, weights and score bands",
	Long: `Show the definitions of all scoring dimensions, the active weights, the
average formula and the band thresholds used for labels.

Custom weights come from the config file:

  # .vmfs.yaml
  weights:
    tf: 0.4
    pt: 0.2
    si: 0.2
    gsa: 0.2

Examples:
  # Show the default equal weights
  vmfs metrics

  # View with custom weights from config file
  vmfs metrics --config .vmfs.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
