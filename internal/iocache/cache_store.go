package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
)

// CacheStoreImpl keeps parsed catalogues keyed by content hash.
type CacheStoreImpl struct {
	db         *sql.DB
	tableName  string
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// NewCacheStore initializes and returns a new CacheStore based on the backend type.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &CacheStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, driverName, err := openDatabase(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &CacheStoreImpl{
		db:         db,
		tableName:  tableName,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// catalogColumns lists the key, payload and integer column types per backend.
var catalogColumns = map[schema.DatabaseBackend][3]string{
	schema.SQLiteBackend:     {"TEXT", "BLOB", "INTEGER"},
	schema.MySQLBackend:      {"VARCHAR(255)", "LONGBLOB", "BIGINT"},
	schema.PostgreSQLBackend: {"TEXT", "BYTEA", "BIGINT"},
}

func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	cols, ok := catalogColumns[backend]
	if !ok {
		cols = catalogColumns[schema.SQLiteBackend]
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	cache_key %s PRIMARY KEY,
	cache_value %s NOT NULL,
	cache_version INTEGER NOT NULL,
	cache_timestamp %s NOT NULL
)`, quoteTableName(tableName, backend), cols[0], cols[1], cols[2])
}

// Get retrieves a cached catalogue by key. A miss returns sql.ErrNoRows.
func (cs *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if cs.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var (
		value   []byte
		version int
		ts      int64
	)
	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		quoteTableName(cs.tableName, cs.backend), placeholder(cs.backend, 1))
	if err := cs.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (cs *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if cs.db == nil {
		return nil
	}
	_, err := cs.db.Exec(cs.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// getUpsertQuery overwrites an existing key in the dialect of the backend.
func (cs *CacheStoreImpl) getUpsertQuery() string {
	insert := fmt.Sprintf("INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (%s)",
		quoteTableName(cs.tableName, cs.backend), placeholders(cs.backend, 4))
	switch cs.backend {
	case schema.MySQLBackend:
		return insert + " AS new ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp"
	case schema.PostgreSQLBackend:
		return insert + " ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp"
	default:
		return "INSERT OR REPLACE" + insert[len("INSERT"):]
	}
}

func (cs *CacheStoreImpl) Close() error {
	if cs.db == nil {
		return nil
	}
	return cs.db.Close()
}

// GetStatus counts cached catalogues and reports their time span and storage size.
func (cs *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(cs.backend),
		Connected: cs.db != nil,
	}
	if cs.db == nil {
		return status, nil
	}

	quoted := quoteTableName(cs.tableName, cs.backend)
	if err := cs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var oldestTs, lastTs int64
	rangeQuery := fmt.Sprintf("SELECT MIN(cache_timestamp), MAX(cache_timestamp) FROM %s", quoted)
	if err := cs.db.QueryRow(rangeQuery).Scan(&oldestTs, &lastTs); err != nil {
		return status, fmt.Errorf("failed to get entry time range: %w", err)
	}
	status.OldestEntryTime = time.Unix(oldestTs, 0)
	status.LastEntryTime = time.Unix(lastTs, 0)

	status.TableSizeBytes = cs.tableSize(int64(status.TotalEntries))
	return status, nil
}

// tableSize asks the backend for the on-disk size, falling back to a rough estimate.
func (cs *CacheStoreImpl) tableSize(entries int64) int64 {
	estimate := entries * 4096
	var size int64
	switch cs.backend {
	case schema.SQLiteBackend:
		row := cs.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(cs.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		row := cs.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, cs.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size
	case schema.PostgreSQLBackend:
		if err := cs.db.QueryRow("SELECT pg_total_relation_size($1)", cs.tableName).Scan(&size); err != nil {
			return estimate
		}
		return size
	default:
		return estimate
	}
}
