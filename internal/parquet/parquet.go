// Package parquet exports ranking data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/vmfs/schema"
	"github.com/parquet-go/parquet-go"
)

// RankingRun is one row of the vmfs_analysis_runs table.
type RankingRun struct {
	// AnalysisID is the unique identifier for this run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// RunUUID is the globally unique identifier for this run
	RunUUID string `parquet:"run_uuid,snappy"`

	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`

	// TotalMechanisms is the number of mechanisms ranked in this run
	TotalMechanisms int32 `parquet:"total_mechanisms,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RankingResult is one row of the vmfs_ranking_results table.
type RankingResult struct {
	AnalysisID     int64     `parquet:"analysis_id,snappy"`
	MechanismID    string    `parquet:"mechanism_id,snappy"`
	AnalysisTime   time.Time `parquet:"analysis_time,snappy"`
	RankPosition   int32     `parquet:"rank_position,snappy"`
	DerivedAverage float64   `parquet:"derived_average,snappy"`
	ScoreBand      string    `parquet:"score_band,snappy"`

	// ScoresJSON maps dimension keys to scores
	ScoresJSON string `parquet:"scores_json,snappy"`
}

// RankedRow is one row of a ranked listing written by the parquet output mode.
type RankedRow struct {
	Rank       int32   `parquet:"rank,snappy"`
	ID         string  `parquet:"mechanism_id,snappy"`
	Name       string  `parquet:"name,snappy"`
	ShortName  string  `parquet:"short_name,snappy"`
	Average    float64 `parquet:"average,snappy"`
	Label      string  `parquet:"label,snappy"`
	ScoresJSON string  `parquet:"scores_json,snappy"`
}

// writeRows streams data to w using struct schema inference.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes data to it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return writeRows(file, data)
}

// WriteRankingRunsParquet writes ranking runs to a Parquet file.
func WriteRankingRunsParquet(data []RankingRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRankingResultsParquet writes ranking results to a Parquet file.
func WriteRankingResultsParquet(data []RankingResult, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRankedParquet writes a ranked listing to w.
func WriteRankedParquet(w io.Writer, ranked []schema.RankedMechanism) error {
	rows, err := ConvertRankedMechanisms(ranked)
	if err != nil {
		return err
	}
	return writeRows(w, rows)
}

// ConvertRankingRunRecords converts store records to Parquet rows.
func ConvertRankingRunRecords(records []schema.RankingRunRecord) []RankingRun {
	out := make([]RankingRun, len(records))
	for i, r := range records {
		out[i] = RankingRun{
			AnalysisID:      r.AnalysisID,
			RunUUID:         r.RunUUID,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			RunDurationMs:   r.RunDurationMs,
			TotalMechanisms: r.TotalMechanisms,
			ConfigParams:    r.ConfigParams,
		}
	}
	return out
}

// ConvertRankingResultRecords converts store records to Parquet rows.
func ConvertRankingResultRecords(records []schema.RankingResultRecord) []RankingResult {
	out := make([]RankingResult, len(records))
	for i, r := range records {
		out[i] = RankingResult{
			AnalysisID:     r.AnalysisID,
			MechanismID:    r.MechanismID,
			AnalysisTime:   r.AnalysisTime,
			RankPosition:   r.RankPosition,
			DerivedAverage: r.DerivedAverage,
			ScoreBand:      r.ScoreBand,
			ScoresJSON:     r.ScoresJSON,
		}
	}
	return out
}

// ConvertRankedMechanisms flattens ranked mechanisms into Parquet rows.
func ConvertRankedMechanisms(ranked []schema.RankedMechanism) ([]RankedRow, error) {
	out := make([]RankedRow, len(ranked))
	for i, r := range ranked {
		scores, err := json.Marshal(r.Scores)
		if err != nil {
			return nil, fmt.Errorf("failed to encode scores for %s: %w", r.ID, err)
		}
		out[i] = RankedRow{
			Rank:       int32(r.Rank),
			ID:         r.ID,
			Name:       r.Name,
			ShortName:  r.ShortName,
			Average:    r.Average,
			Label:      r.Label,
			ScoresJSON: string(scores),
		}
	}
	return out, nil
}
