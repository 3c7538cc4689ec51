package iocache

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetResponseStore implements the CacheManager interface.
func (m *MockCacheManager) GetResponseStore() contract.CacheStore {
	store, _ := m.Called().Get(0).(contract.CacheStore)
	return store
}

// GetHistoryStore implements the CacheManager interface.
func (m *MockCacheManager) GetHistoryStore() contract.HistoryStore {
	store, _ := m.Called().Get(0).(contract.HistoryStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	return m.Called(key, data, version, ts).Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	return m.Called().Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginEvaluation implements the HistoryStore interface.
func (m *MockHistoryStore) BeginEvaluation(run schema.EvaluationRun) (int64, error) {
	args := m.Called(run)
	return args.Get(0).(int64), args.Error(1)
}

// EndEvaluation implements the HistoryStore interface.
func (m *MockHistoryStore) EndEvaluation(evaluationID int64, endTime time.Time, totalScore float64, rank schema.Rank, flagCount int) error {
	return m.Called(evaluationID, endTime, totalScore, rank, flagCount).Error(0)
}

// RecordPillarScores implements the HistoryStore interface.
func (m *MockHistoryStore) RecordPillarScores(evaluationID int64, records []schema.PillarScoreRecord) error {
	return m.Called(evaluationID, records).Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllEvaluations implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllEvaluations() ([]schema.EvaluationRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.EvaluationRecord)
	return records, args.Error(1)
}

// GetAllPillarScores implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllPillarScores() ([]schema.PillarScoreRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.PillarScoreRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}
