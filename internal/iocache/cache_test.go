package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/greenscore/schema"
)

// resetManager clears the process-wide manager between tests.
func resetManager(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
	t.Cleanup(func() {
		CloseStores()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &CacheStoreManager{}
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite cache and history", func(t *testing.T) {
		resetManager(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		historyPath := filepath.Join(dir, "history.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, historyPath))
		assert.NotNil(t, Manager.GetResponseStore())
		assert.NotNil(t, Manager.GetHistoryStore())

		_, err := os.Stat(cachePath)
		assert.NoError(t, err)
		_, err = os.Stat(historyPath)
		assert.NoError(t, err)
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetManager(t)
		cachePath := filepath.Join(t.TempDir(), "cache.db")
		for range 3 {
			assert.NoError(t, InitStores(schema.SQLiteBackend, cachePath, "", ""))
		}
		assert.Nil(t, Manager.GetHistoryStore())
		CloseStores()
		CloseStores()
	})

	t.Run("none backend", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))

		store := Manager.GetResponseStore()
		require.NotNil(t, store)
		_, _, _, err := store.Get("key")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, store.Set("key", []byte("value"), 1, 1))
		_, _, _, err = store.Get("key")
		assert.ErrorIs(t, err, sql.ErrNoRows, "none backend never stores")

		id, err := Manager.GetHistoryStore().BeginEvaluation(schema.EvaluationRun{UUID: "x"})
		assert.NoError(t, err)
		assert.Zero(t, id)
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetManager(t)
		err := InitStores("redis", "", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize response cache")
	})
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		tableName string
		wantErr   bool
	}{
		{"evaluator_cache", false},
		{"_private", false},
		{"TableName_123", false},
		{"", true},
		{"123_table", true},
		{"test-table", true},
		{"test table", true},
		{"test.table", true},
		{"test'; DROP TABLE users; --", true},
	}

	for _, tt := range tests {
		err := validateTableName(tt.tableName)
		if tt.wantErr {
			assert.Error(t, err, "%q", tt.tableName)
		} else {
			assert.NoError(t, err, "%q", tt.tableName)
		}
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
}

func TestRebind(t *testing.T) {
	query := "UPDATE t SET a = ?, b = ? WHERE id = ?"
	assert.Equal(t, query, rebind(query, schema.SQLiteBackend))
	assert.Equal(t, query, rebind(query, schema.MySQLBackend))
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", rebind(query, schema.PostgreSQLBackend))
}

func TestCacheStoreSQLite(t *testing.T) {
	newStore := func(t *testing.T) *CacheStoreImpl {
		t.Helper()
		store, err := NewCacheStore(responseTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return store.(*CacheStoreImpl)
	}

	t.Run("set and get", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set("k", []byte(`{"scores":{}}`), 1, 1700000000))

		value, version, ts, err := store.Get("k")
		require.NoError(t, err)
		assert.JSONEq(t, `{"scores":{}}`, string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set("k", []byte("old"), 1, 1000))
		require.NoError(t, store.Set("k", []byte("new"), 2, 2000))

		value, version, ts, err := store.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "new", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), ts)
	})

	t.Run("missing key", func(t *testing.T) {
		store := newStore(t)
		_, _, _, err := store.Get("absent")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("status", func(t *testing.T) {
		store := newStore(t)
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Zero(t, status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("1"), 1, 1000))
		require.NoError(t, store.Set("b", []byte("2"), 1, 3000))
		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, int64(3000), status.LastEntryTime.Unix())
		assert.Equal(t, int64(1000), status.OldestEntryTime.Unix())
		assert.Positive(t, status.TableSizeBytes)

		var buf bytes.Buffer
		PrintCacheStatus(&buf, status)
		assert.Contains(t, buf.String(), "Total Entries: 2")
	})
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend      schema.DatabaseBackend
		wantContains []string
	}{
		{schema.SQLiteBackend, []string{"INSERT OR REPLACE", `"evaluator_cache"`}},
		{schema.MySQLBackend, []string{"ON DUPLICATE KEY UPDATE", "`evaluator_cache`"}},
		{schema.PostgreSQLBackend, []string{"ON CONFLICT", "$1", "$4"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &CacheStoreImpl{backend: tt.backend, tableName: responseTable}
			query := store.getUpsertQuery()
			for _, want := range tt.wantContains {
				assert.Contains(t, query, want)
			}
		})
	}
}

func TestClearCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(responseTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("v"), 1, 1))
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearHistory("redis", "", ""))
}
