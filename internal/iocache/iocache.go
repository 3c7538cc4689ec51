// Package iocache persists evaluator responses and evaluation history.
package iocache

import (
	"sync"

	"github.com/huangsam/greenscore/internal/contract"
)

// CacheStoreManager holds the response cache and the history store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	response     contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetResponseStore returns the evaluator response cache.
func (mgr *CacheStoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.response
}

// GetHistoryStore returns the evaluation history store.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
