// Package cmd defines the command-line interface for vmfs.
package cmd

import (
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(
		rankCmd, compareCmd, showCmd, whatifCmd, exploreCmd,
		coverageCmd, summaryCmd, metricsCmd,
		cacheCmd, analysisCmd, versionCmd,
	)
	cacheCmd.AddCommand(cacheClearCmd, cacheStatusCmd)
	analysisCmd.AddCommand(analysisClearCmd, analysisStatusCmd, analysisExportCmd, analysisMigrateCmd)

	// Persistent flags are bound once since every command shares them
	pf := rootCmd.PersistentFlags()
	pf.String("catalog", "", "Path to a YAML or JSON catalogue (default: embedded catalogue)")
	pf.Bool("detail", false, "Print coverage glyphs and institutional requirement")
	pf.IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	pf.Int("capacity", schema.DefaultCapacity, "Maximum number of mechanisms in a comparison")
	pf.String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	pf.String("output-file", "", "Optional path to write output to")
	pf.Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	pf.String("profile", "", "Enable profiling and write profiles to files with this prefix")
	pf.Int("width", 0, "Terminal width override (0 = auto-detect)")
	pf.String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	pf.String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	pf.String("analysis-backend", "", "Ranking history backend: sqlite or mysql or postgresql or none")
	pf.String("analysis-db-connect", "", "Database connection string for ranking history (SQLite files must differ from the cache file)")
	pf.String("emoji", "no", "Enable emojis in headers and markers (yes/no/true/false/1/0)")
	pf.String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	pf.String("config", "", "Path to config file")
	if err := viper.BindPFlags(pf); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Ranking flags are shared by rank and explore, so they are bound in PreRunE
	for _, c := range []*cobra.Command{rankCmd, exploreCmd} {
		c.Flags().String("sort", string(schema.AverageSort), "Sort by average or a dimension key/alias (tf, pt, si, gsa)")
		c.Flags().Float64("min-average", 0, "Hide mechanisms whose average is below this value")
		c.Flags().Bool("global-south", false, "Keep mechanisms with Global South adoptability of at least 3.5")
	}
	rankCmd.Flags().String("filter-dim", "", "Keep mechanisms whose score on this dimension reaches --filter-min")
	rankCmd.Flags().Float64("filter-min", 0, "Minimum score for --filter-dim")

	whatifCmd.Flags().StringSlice("set", nil, "Score edits as dimension=value (repeatable or comma-separated)")
	if err := viper.BindPFlags(whatifCmd.Flags()); err != nil {
		contract.LogFatal("Error binding whatif flags", err)
	}

	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
