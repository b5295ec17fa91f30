package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
)

// catalogTable holds parsed catalogues keyed by path and content hash.
const catalogTable = "vmfs_catalog_cache"

// Manager is the process-wide store holder. InitStores fills it once and CloseCaching drains it once.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// enabled reports whether a backend value asks for a store at all.
func enabled(backend schema.DatabaseBackend) bool {
	return backend != "" && backend != schema.NoneBackend
}

// InitStores opens the catalogue cache and the ranking history on the global Manager.
// An empty or none backend leaves the matching store nil. Later calls are no-ops.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, analysisBackend schema.DatabaseBackend, analysisConnStr string) error {
	var initErr error
	initOnce.Do(func() {
		var (
			catalog  contract.CacheStore
			analysis contract.AnalysisStore
			err      error
		)
		if enabled(cacheBackend) {
			if catalog, err = NewCacheStore(catalogTable, cacheBackend, cacheConnStr); err != nil {
				initErr = fmt.Errorf("failed to initialize catalogue caching: %w", err)
				return
			}
		}
		if enabled(analysisBackend) {
			if analysis, err = NewAnalysisStore(analysisBackend, analysisConnStr); err != nil {
				if catalog != nil {
					_ = catalog.Close()
				}
				initErr = fmt.Errorf("failed to initialize analysis store: %w", err)
				return
			}
		}
		Manager.set(catalog, analysis)
	})
	return initErr
}

// CloseCaching releases both stores. Call it on shutdown or before deleting a SQLite file.
func CloseCaching() {
	closeOnce.Do(func() {
		catalog, analysis := Manager.set(nil, nil)
		if catalog != nil {
			_ = catalog.Close()
		}
		if analysis != nil {
			_ = analysis.Close()
		}
	})
}

// ClearCache removes every cached catalogue.
// SQLite deletes the database file while MySQL and PostgreSQL drop the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	if err := wipe(backend, dbFilePath, connStr, catalogTable); err != nil {
		return fmt.Errorf("cannot clear cache: %w", err)
	}
	return nil
}

// ClearAnalysis removes the ranking history including its migration bookkeeping.
func ClearAnalysis(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	// Results reference runs, so they go first
	if err := wipe(backend, dbFilePath, connStr, rankingResultsTable, analysisRunsTable, migrationsTable); err != nil {
		return fmt.Errorf("cannot clear ranking history: %w", err)
	}
	return nil
}

// wipe deletes a SQLite file or drops the tables on a server backend.
func wipe(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.NoneBackend:
		return nil
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("a database file path is required for sqlite")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", dbFilePath, err)
		}
		return nil
	}

	db, _, err := openDatabase(backend, connStr, "")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, table := range tables {
		if err := validateTableName(table); err != nil {
			return err
		}
		if _, err := db.Exec("DROP TABLE IF EXISTS " + quoteTableName(table, backend)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
