package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/vmfs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals lets each test run InitStores again.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite cache only", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		err := InitStores(schema.SQLiteBackend, dbPath, "", "")
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetCatalogStore())
		assert.Nil(t, Manager.GetAnalysisStore())

		CloseCaching()
		_, err = os.Stat(dbPath)
		assert.NoError(t, err, "Database file should be created")
	})

	t.Run("both stores", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()

		err := InitStores(schema.SQLiteBackend, filepath.Join(dir, "cache.db"), schema.SQLiteBackend, filepath.Join(dir, "analysis.db"))
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetCatalogStore())
		assert.NotNil(t, Manager.GetAnalysisStore())

		CloseCaching()
		assert.Nil(t, Manager.GetCatalogStore(), "closed stores are detached")
		assert.Nil(t, Manager.GetAnalysisStore())
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath, "", ""))
		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath, "", ""))

		CloseCaching()
		CloseCaching()
	})

	t.Run("none backend leaves stores nil", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
		assert.Nil(t, Manager.GetCatalogStore())
		assert.Nil(t, Manager.GetAnalysisStore())
		CloseCaching()
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores("redis", "", "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize catalogue caching")
	})

	t.Run("analysis failure closes cache", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores(schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"), "redis", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize analysis store")
		assert.Nil(t, Manager.GetCatalogStore())
	})
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"catalog table", catalogTable, false},
		{"runs table", analysisRunsTable, false},
		{"leading underscore", "_cache", false},
		{"empty", "", true},
		{"leading digit", "1cache", true},
		{"injection", "cache; DROP TABLE x", true},
		{"quote", `cache"`, true},
		{"too long", "a123456789012345678901234567890123456789012345678901234567890123", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`vmfs_catalog_cache`", quoteTableName(catalogTable, schema.MySQLBackend))
	assert.Equal(t, `"vmfs_catalog_cache"`, quoteTableName(catalogTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"vmfs_catalog_cache"`, quoteTableName(catalogTable, schema.SQLiteBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$2", placeholder(schema.PostgreSQLBackend, 2))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 2))
	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "", placeholders(schema.SQLiteBackend, 0))
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains string
	}{
		{schema.SQLiteBackend, "INSERT OR REPLACE"},
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (cache_key)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &CacheStoreImpl{tableName: catalogTable, backend: tt.backend}
			assert.Contains(t, store.getUpsertQuery(), tt.contains)
		})
	}
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery(catalogTable, schema.MySQLBackend), "LONGBLOB")
	assert.Contains(t, getCreateTableQuery(catalogTable, schema.PostgreSQLBackend), "BYTEA")
	assert.Contains(t, getCreateTableQuery(catalogTable, schema.SQLiteBackend), "BLOB NOT NULL")
}

func TestSQLiteCacheStoreOperations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(catalogTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// 1. Miss
	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// 2. Insert then read back
	now := time.Now().Unix()
	require.NoError(t, store.Set("abc", []byte(`{"mechanisms":[]}`), 1, now))
	value, version, ts, err := store.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"mechanisms":[]}`), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, now, ts)

	// 3. Replace
	require.NoError(t, store.Set("abc", []byte(`{}`), 2, now+10))
	value, version, ts, err = store.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, now+10, ts)

	// 4. Status
	require.NoError(t, store.Set("def", []byte(`{}`), 2, now-100))
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, now+10, status.LastEntryTime.Unix())
	assert.Equal(t, now-100, status.OldestEntryTime.Unix())
	assert.Positive(t, status.TableSizeBytes)
}

func TestNoneCacheStore(t *testing.T) {
	store, err := NewCacheStore(catalogTable, schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("key")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Set("key", []byte("v"), 1, 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("bad name", schema.SQLiteBackend, "")
	assert.Error(t, err)

	_, err = NewCacheStore(catalogTable, "redis", "")
	assert.Error(t, err)
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(catalogTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite empty path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
		assert.NoError(t, ClearAnalysis(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearCache("redis", "", ""))
		assert.Error(t, ClearAnalysis("redis", "", ""))
	})
}

func TestCacheStoreManagerConcurrency(t *testing.T) {
	mgr := &CacheStoreManager{}
	store := &CacheStoreImpl{backend: schema.NoneBackend}

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				mgr.set(store, nil)
				return
			}
			_ = mgr.GetCatalogStore()
			_ = mgr.GetAnalysisStore()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, store, mgr.GetCatalogStore())
}
