package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
)

// Table names for ranking history.
const (
	analysisRunsTable   = "vmfs_analysis_runs"
	rankingResultsTable = "vmfs_ranking_results"
	migrationsTable     = "vmfs_schema_migrations"
)

// AnalysisStoreImpl records ranking runs in SQL. A nil db turns every write into a no-op.
type AnalysisStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDatabase(backend, connStr, contract.GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createAnalysisTables creates the ranking history tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{analysisRunsTable, getCreateAnalysisRunsQuery(backend)},
		{rankingResultsTable, getCreateRankingResultsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// sqlDialect names the column types that differ between backends.
type sqlDialect struct {
	serialKey string // auto-incrementing primary key
	bigInt    string
	shortText string // indexed identifiers
	timestamp string
	double    string
}

var dialects = map[schema.DatabaseBackend]sqlDialect{
	schema.SQLiteBackend:     {"INTEGER PRIMARY KEY AUTOINCREMENT", "INTEGER", "TEXT", "TEXT", "REAL"},
	schema.MySQLBackend:      {"BIGINT AUTO_INCREMENT PRIMARY KEY", "BIGINT", "VARCHAR(128)", "DATETIME(6)", "DOUBLE"},
	schema.PostgreSQLBackend: {"BIGSERIAL PRIMARY KEY", "BIGINT", "TEXT", "TIMESTAMPTZ", "DOUBLE PRECISION"},
}

func dialectFor(backend schema.DatabaseBackend) sqlDialect {
	if d, ok := dialects[backend]; ok {
		return d
	}
	return dialects[schema.SQLiteBackend]
}

func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	d := dialectFor(backend)
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	analysis_id %s,
	run_uuid %s NOT NULL,
	start_time %s NOT NULL,
	end_time %s,
	run_duration_ms INTEGER,
	total_mechanisms INTEGER NOT NULL DEFAULT 0,
	config_params TEXT
)`, quoteTableName(analysisRunsTable, backend), d.serialKey, d.shortText, d.timestamp, d.timestamp)
}

func getCreateRankingResultsQuery(backend schema.DatabaseBackend) string {
	d := dialectFor(backend)
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	analysis_id %s NOT NULL,
	mechanism_id %s NOT NULL,
	analysis_time %s NOT NULL,
	rank_position INTEGER NOT NULL,
	derived_average %s NOT NULL,
	score_band %s NOT NULL,
	scores_json TEXT NOT NULL,
	PRIMARY KEY (analysis_id, mechanism_id)
)`, quoteTableName(rankingResultsTable, backend), d.bigInt, d.shortText, d.timestamp, d.double, d.shortText)
}

// BeginAnalysis creates a new ranking run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	if as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}
	runUUID := uuid.NewString()
	quoted := quoteTableName(analysisRunsTable, as.backend)

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES ($1, $2, $3) RETURNING analysis_id`, quoted)
		err = as.db.QueryRow(query, runUUID, startTime, string(configJSON)).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES (?, ?, ?)`, quoted)
		var result sql.Result
		result, err = as.db.Exec(query, runUUID, formatTime(startTime, as.backend), string(configJSON))
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return analysisID, nil
}

// EndAnalysis updates the ranking run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalMechanisms int) error {
	if as.db == nil {
		return nil
	}

	quoted := quoteTableName(analysisRunsTable, as.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, quoted, placeholder(as.backend, 1))
	startTime, err := as.scanTime(as.db.QueryRow(query, analysisID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_mechanisms = %s WHERE analysis_id = %s`,
		quoted, placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3), placeholder(as.backend, 4))
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalMechanisms, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordRankingResult stores one ranked mechanism of a run.
func (as *AnalysisStoreImpl) RecordRankingResult(analysisID int64, result schema.RankingResultRecord) error {
	if as.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (analysis_id, mechanism_id, analysis_time, rank_position, derived_average, score_band, scores_json)
		VALUES (%s)
	`, quoteTableName(rankingResultsTable, as.backend), placeholders(as.backend, 7))
	_, err := as.db.Exec(query,
		analysisID, result.MechanismID, formatTime(result.AnalysisTime, as.backend),
		result.RankPosition, result.DerivedAverage, result.ScoreBand, result.ScoresJSON)
	if err != nil {
		return fmt.Errorf("failed to insert ranking result for %s: %w", result.MechanismID, err)
	}
	return nil
}

func (as *AnalysisStoreImpl) Close() error {
	if as.db == nil {
		return nil
	}
	return as.db.Close()
}

// countRows returns SELECT COUNT(*) for one of the history tables.
func (as *AnalysisStoreImpl) countRows(table string) (int64, error) {
	var n int64
	err := as.db.QueryRow("SELECT COUNT(*) FROM " + quoteTableName(table, as.backend)).Scan(&n)
	return n, err
}

// GetStatus summarizes the recorded runs. A store without a connection reports only its backend.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.db == nil {
		return status, nil
	}

	for _, table := range []string{analysisRunsTable, rankingResultsTable} {
		n, err := as.countRows(table)
		if err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = n
	}
	status.TotalRuns = int(status.TableSizes[analysisRunsTable])
	if status.TotalRuns == 0 {
		return status, nil
	}

	runs := quoteTableName(analysisRunsTable, as.backend)
	var lastRaw any
	if err := as.db.QueryRow("SELECT analysis_id, start_time FROM "+runs+" ORDER BY analysis_id DESC LIMIT 1").
		Scan(&status.LastRunID, &lastRaw); err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	var err error
	if status.LastRunTime, err = parseTimeValue(lastRaw); err != nil {
		return status, fmt.Errorf("failed to parse last run time: %w", err)
	}
	if status.OldestRunTime, err = as.scanTime(as.db.QueryRow("SELECT start_time FROM " + runs + " ORDER BY analysis_id ASC LIMIT 1")); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}
	if err := as.db.QueryRow("SELECT COALESCE(SUM(total_mechanisms), 0) FROM " + runs).Scan(&status.TotalMechanismsRanked); err != nil {
		return status, fmt.Errorf("failed to get total mechanisms ranked: %w", err)
	}
	return status, nil
}

// GetAllAnalysisRuns retrieves all ranking runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.RankingRunRecord, error) {
	if as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, run_uuid, start_time, end_time, run_duration_ms, total_mechanisms, config_params
		FROM %s ORDER BY analysis_id`, quoteTableName(analysisRunsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RankingRunRecord
	for rows.Next() {
		var record schema.RankingRunRecord
		var startRaw, endRaw any
		if err := rows.Scan(&record.AnalysisID, &record.RunUUID, &startRaw, &endRaw,
			&record.RunDurationMs, &record.TotalMechanisms, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		if record.StartTime, err = parseTimeValue(startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			endTime, err := parseTimeValue(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllRankingResults retrieves all ranking rows ordered by run and position.
func (as *AnalysisStoreImpl) GetAllRankingResults() ([]schema.RankingResultRecord, error) {
	if as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, mechanism_id, analysis_time, rank_position, derived_average, score_band, scores_json
		FROM %s ORDER BY analysis_id, rank_position`, quoteTableName(rankingResultsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RankingResultRecord
	for rows.Next() {
		var record schema.RankingResultRecord
		var timeRaw any
		if err := rows.Scan(&record.AnalysisID, &record.MechanismID, &timeRaw, &record.RankPosition,
			&record.DerivedAverage, &record.ScoreBand, &record.ScoresJSON); err != nil {
			return nil, fmt.Errorf("failed to scan ranking result: %w", err)
		}
		if record.AnalysisTime, err = parseTimeValue(timeRaw); err != nil {
			return nil, fmt.Errorf("failed to parse analysis_time: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking results: %w", err)
	}
	return results, nil
}

// scanTime reads a single time column stored in the backend's native format.
func (as *AnalysisStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var raw any
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, err
	}
	return parseTimeValue(raw)
}

// parseTimeValue normalizes driver values: SQLite keeps RFC3339Nano text,
// MySQL without parseTime returns bytes, the others return time.Time.
func parseTimeValue(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimeString(v)
	case []byte:
		return parseTimeString(string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", raw)
	}
}

func parseTimeString(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05.999999", s)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}
