// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/vmfs/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCatalogStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking ranking runs and their results.
// Only rankings over original catalogue scores are recorded; what-if edits never reach it.
type AnalysisStore interface {
	// BeginAnalysis creates a new ranking run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the ranking run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalMechanisms int) error

	// RecordRankingResult stores one ranked mechanism of a run
	RecordRankingResult(analysisID int64, result schema.RankingResultRecord) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded run
	GetAllAnalysisRuns() ([]schema.RankingRunRecord, error)

	// GetAllRankingResults returns every recorded ranking row
	GetAllRankingResults() ([]schema.RankingResultRecord, error)

	// Close closes the underlying connection
	Close() error
}
