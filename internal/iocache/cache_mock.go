package iocache

import (
	"time"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager hands out whatever stores a test registers with On.
// A nil return stands for a disabled backend.
type MockCacheManager struct{ mock.Mock }

// MockCacheStore records catalogue cache traffic.
type MockCacheStore struct{ mock.Mock }

// MockAnalysisStore records ranking history writes and reads.
type MockAnalysisStore struct{ mock.Mock }

var (
	_ contract.CacheManager  = &MockCacheManager{}  // Compile-time check
	_ contract.CacheStore    = &MockCacheStore{}    // Compile-time check
	_ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check
)

func (m *MockCacheManager) GetCatalogStore() contract.CacheStore {
	store, _ := m.Called().Get(0).(contract.CacheStore)
	return store
}

func (m *MockCacheManager) GetAnalysisStore() contract.AnalysisStore {
	store, _ := m.Called().Get(0).(contract.AnalysisStore)
	return store
}

func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	ret := m.Called(key)
	data, _ := ret.Get(0).([]byte)
	ts, _ := ret.Get(2).(int64)
	return data, ret.Int(1), ts, ret.Error(3)
}

func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	return m.Called(key, data, version, ts).Error(0)
}

func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.CacheStatus)
	return status, ret.Error(1)
}

func (m *MockCacheStore) Close() error { return m.Called().Error(0) }

func (m *MockAnalysisStore) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	ret := m.Called(startTime, configParams)
	id, _ := ret.Get(0).(int64)
	return id, ret.Error(1)
}

func (m *MockAnalysisStore) EndAnalysis(analysisID int64, endTime time.Time, totalMechanisms int) error {
	return m.Called(analysisID, endTime, totalMechanisms).Error(0)
}

func (m *MockAnalysisStore) RecordRankingResult(analysisID int64, result schema.RankingResultRecord) error {
	return m.Called(analysisID, result).Error(0)
}

func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.AnalysisStatus)
	return status, ret.Error(1)
}

func (m *MockAnalysisStore) GetAllAnalysisRuns() ([]schema.RankingRunRecord, error) {
	ret := m.Called()
	runs, _ := ret.Get(0).([]schema.RankingRunRecord)
	return runs, ret.Error(1)
}

func (m *MockAnalysisStore) GetAllRankingResults() ([]schema.RankingResultRecord, error) {
	ret := m.Called()
	results, _ := ret.Get(0).([]schema.RankingResultRecord)
	return results, ret.Error(1)
}

func (m *MockAnalysisStore) Close() error { return m.Called().Error(0) }
