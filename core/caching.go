package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/vmfs/internal/catalog"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheTTL bounds how long a parsed catalogue is reused.
const cacheTTL = 7 * 24 * time.Hour

// LoadCatalog reads the configured catalogue, reusing a cached parse when the source bytes are unchanged.
func LoadCatalog(cfg *contract.Config, mgr contract.CacheManager) (*schema.Catalog, error) {
	data, format, err := catalog.Read(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetCatalogStore()
	}
	if store == nil {
		// Fallback to direct parsing
		return catalog.Parse(data, format)
	}

	key := generateCacheKey(cfg.CatalogPath, format, data)

	// Check for cache hit
	if result := checkCacheHit(store, key); result != nil {
		return result, nil
	}

	// Cache miss: parse and store
	return parseAndStore(store, key, data, format)
}

// checkCacheHit attempts to retrieve and validate a cached catalogue
func checkCacheHit(store contract.CacheStore, key string) *schema.Catalog {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return nil
	}
	var result schema.Catalog
	if err := json.Unmarshal(data, &result); err != nil || len(result.Dimensions) == 0 {
		return nil
	}
	return &result
}

// parseAndStore parses the catalogue and stores it in cache
func parseAndStore(store contract.CacheStore, key string, data []byte, format catalog.Format) (*schema.Catalog, error) {
	result, err := catalog.Parse(data, format)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := store.Set(key, encoded, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache catalog", err)
		}
	}
	return result, nil
}

// generateCacheKey creates a unique key from the source location and its contents
func generateCacheKey(path string, format catalog.Format, data []byte) string {
	contentHash := sha256.Sum256(data)
	key := fmt.Sprintf("%s:%s:%x", path, format, contentHash)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
