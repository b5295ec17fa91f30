package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// AnalysisStatus represents the status of the ranking history store.
type AnalysisStatus struct {
	Backend               string           `json:"backend"`
	Connected             bool             `json:"connected"`
	TotalRuns             int              `json:"total_runs"`
	LastRunID             int64            `json:"last_run_id"`
	LastRunTime           time.Time        `json:"last_run_time"`
	OldestRunTime         time.Time        `json:"oldest_run_time"`
	TotalMechanismsRanked int              `json:"total_mechanisms_ranked"`
	TableSizes            map[string]int64 `json:"table_sizes"`
}

// RankingRunRecord represents a row from the vmfs_analysis_runs table.
type RankingRunRecord struct {
	AnalysisID      int64
	RunUUID         string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	TotalMechanisms int32
	ConfigParams    *string
}

// RankingResultRecord represents a row from the vmfs_ranking_results table.
type RankingResultRecord struct {
	AnalysisID     int64
	MechanismID    string
	AnalysisTime   time.Time
	RankPosition   int32
	DerivedAverage float64
	ScoreBand      string
	ScoresJSON     string
}
