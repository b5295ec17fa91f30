package cmd

import (
	"github.com/huangsam/vmfs/core"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd ranks the catalogue.
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank verification mechanisms by feasibility",
	Long: `Rank every mechanism in the catalogue by its average feasibility score or by a
single dimension, optionally hiding mechanisms below a threshold.

Ideal for:
- Shortlisting - find the most feasible mechanisms overall
- Dimension focus - see which mechanisms are politically tractable
- Global South review - keep mechanisms that lower-resource states can adopt

Ties keep catalogue order. Rankings over the original scores are recorded when
--analysis-backend is set.

Examples:
  # Top mechanisms by average
  vmfs rank

  # Sort by political tractability and hide weak averages
  vmfs rank --sort pt --min-average 3.0

  # Mechanisms adoptable in the Global South, with coverage glyphs
  vmfs rank --global-south --detail

  # Export to Parquet for analysis
  vmfs rank --output parquet --output-file ranking.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: localSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run ranking", err)
		}
	},
}
