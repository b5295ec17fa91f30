package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/iocache"
	"github.com/huangsam/vmfs/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage ranking history tracking and exports",
	Long: `With --analysis-backend set, every 'vmfs rank' records its filters, weights and
duration along with the rank, average and scores of each listed mechanism.

Rankings always use the original catalogue scores, so what-if edits never
appear in the history. Tracking is off unless a backend is configured.`,
	Example: `  vmfs analysis status --analysis-backend sqlite
  vmfs analysis export --analysis-backend sqlite --output-file history.parquet`,
}

var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all ranking history",
	Long: `Delete every stored ranking run and result. There is no undo, so export first
if the history matters.`,
	Example: `  vmfs analysis export --output-file backup.parquet && vmfs analysis clear`,
	PreRunE: openAnalysisOnly,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseCaching()
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, contract.GetAnalysisDBFilePath(), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display ranking history statistics and connection details",
	Long: `Print the history backend, its connection state, the number of recorded runs,
the newest and oldest run times and the table sizes.`,
	PreRunE: openAnalysisOnly,
	Run: func(_ *cobra.Command, _ []string) {
		status := schema.AnalysisStatus{Backend: string(schema.NoneBackend)}
		if store := iocache.Manager.GetAnalysisStore(); store != nil {
			var err error
			if status, err = store.GetStatus(); err != nil {
				contract.LogFatal("Failed to get analysis status", err)
			}
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ranking history to Parquet for BI tools and analytics",
	Long: `Write the recorded runs and results to two Parquet files named after
--output-file, which is required.`,
	Example: `  vmfs analysis export --output-file vmfs-history.parquet
  duckdb -c "SELECT * FROM read_parquet('vmfs-history.parquet.ranking_results.parquet') LIMIT 10"`,
	PreRunE: openAnalysisOnly,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(os.Stdout, iocache.Manager.GetAnalysisStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Move the ranking history schema to --target-version. The default of -1 means
the latest version and 0 rolls every migration back.`,
	Example: `  vmfs analysis migrate --analysis-backend sqlite
  vmfs analysis migrate --analysis-backend sqlite --target-version 0`,
	PreRunE: resolveAnalysisForMigrate,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.MigrateAnalysis(os.Stdout, cfg.AnalysisBackend, cfg.AnalysisDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
