// Package iocache persists the parsed catalogue and the ranking history.
package iocache

import (
	"sync"

	"github.com/huangsam/vmfs/internal/contract"
)

// CacheStoreManager holds the two optional stores behind a lock.
// Either store may be nil when its backend is none.
type CacheStoreManager struct {
	mu       sync.RWMutex
	catalog  contract.CacheStore
	analysis contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// set swaps in new stores and hands back the previous pair.
func (mgr *CacheStoreManager) set(catalog contract.CacheStore, analysis contract.AnalysisStore) (contract.CacheStore, contract.AnalysisStore) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	prevCatalog, prevAnalysis := mgr.catalog, mgr.analysis
	mgr.catalog, mgr.analysis = catalog, analysis
	return prevCatalog, prevAnalysis
}

// GetCatalogStore returns the parsed-catalogue cache, or nil when caching is off.
func (mgr *CacheStoreManager) GetCatalogStore() contract.CacheStore {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.catalog
}

// GetAnalysisStore returns the ranking history, or nil when tracking is off.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.analysis
}
