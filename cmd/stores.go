package cmd

import (
	"fmt"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/iocache"
	"github.com/huangsam/vmfs/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The cache and analysis commands skip sharedSetup: they never load a catalogue,
// so they only resolve the backend settings of the store they manage.

// storeSettings reads "<kind>-backend" and "<kind>-db-connect" from config, env and flags.
// An unset backend resolves to fallback.
func storeSettings(kind string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}
	raw := viper.GetString(kind + "-backend")
	if raw == "" {
		raw = string(fallback)
	}
	connStr := viper.GetString(kind + "-db-connect")
	backend, err := contract.ResolveBackend(kind, raw, connStr)
	if err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// openCacheOnly opens the catalogue cache alone.
func openCacheOnly(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeSettings("cache", schema.SQLiteBackend)
	if err != nil {
		return err
	}
	if err := iocache.InitStores(backend, connStr, schema.NoneBackend, ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	cfg.CacheBackend, cfg.CacheDBConnect = backend, connStr
	return nil
}

// openAnalysisOnly opens the ranking history alone. Tracking defaults to off.
func openAnalysisOnly(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeSettings("analysis", schema.NoneBackend)
	if err != nil {
		return err
	}
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}
	cfg.AnalysisBackend, cfg.AnalysisDBConnect = backend, connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// resolveAnalysisForMigrate resolves settings without opening the store,
// so migrations can run against a database whose tables do not exist yet.
func resolveAnalysisForMigrate(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeSettings("analysis", schema.NoneBackend)
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}
	cfg.AnalysisBackend, cfg.AnalysisDBConnect = backend, connStr
	return nil
}
