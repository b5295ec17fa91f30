package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/iocache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parsed catalogue cache",
	Long: `Parsed catalogues are cached by path and content hash, so an unchanged
catalogue skips parsing and validation on the next run.

The cache lives in SQLite by default. MySQL and PostgreSQL are selected with
--cache-backend and --cache-db-connect, and none turns caching off.`,
	Example: `  vmfs cache status
  VMFS_CACHE_BACKEND=mysql VMFS_CACHE_DB_CONNECT="user:pass@tcp(localhost:3306)/vmfs" vmfs cache clear`,
}

var cacheClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all cached catalogues",
	Long:    `Delete the SQLite cache file, or drop the cache table on MySQL and PostgreSQL.`,
	PreRunE: openCacheOnly,
	Run: func(_ *cobra.Command, _ []string) {
		// The SQLite file cannot be removed while a handle is open
		iocache.CloseCaching()
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Print the cache backend, its connection state, the number of cached catalogues,
the newest and oldest entry times and the database size.`,
	PreRunE: openCacheOnly,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetCatalogStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", errors.New("caching is disabled (cache-backend is none)"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
