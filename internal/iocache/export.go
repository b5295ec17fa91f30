package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/parquet"
)

// ExecuteAnalysisExport writes the ranking history to two Parquet files
// named after outputFile.
func ExecuteAnalysisExport(w io.Writer, store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis tracking is disabled. Set --analysis-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total ranking runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total ranking rows: %d\n", status.TableSizes[rankingResultsTable])

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	results, err := store.GetAllRankingResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve ranking results: %w", err)
	}

	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteRankingRunsParquet(parquet.ConvertRankingRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ranking runs to: %s\n", len(runs), runsFile)

	resultsFile := outputFile + ".ranking_results.parquet"
	if err := parquet.WriteRankingResultsParquet(parquet.ConvertRankingResultRecords(results), resultsFile); err != nil {
		return fmt.Errorf("failed to write ranking results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ranking rows to: %s\n", len(results), resultsFile)
	return nil
}
