package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/schema"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend, err := contract.ParseDatabaseBackend(viper.GetString("cache-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no history tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on evaluator cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by evaluation commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the evaluator response cache",
	Long: `Manage the cache of evaluator responses.

GreenScore caches model responses keyed by the model list and the prompt, so
re-evaluating the same report does not spend API quota. Entries expire after 30 days.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached responses

Examples:
  # Check cache status
  greenscore cache status

  # Force fresh evaluations
  greenscore cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached evaluator responses",
	Long: `Delete all cached evaluator responses from the configured backend.

Use this when:
- The prompt or the model list changed
- Cached responses may be stale or corrupted

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  greenscore cache clear

  # Clear MySQL cache (set connection string via env variable)
  GREENSCORE_CACHE_BACKEND=mysql GREENSCORE_CACHE_DB_CONNECT="..." greenscore cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The SQLite file cannot be removed while the store holds it open.
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, sqlitePath(cfg.CacheDBConnect, contract.GetCacheDBFilePath()), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the evaluator response cache.

Displays:
- Backend type and connection status
- Total number of cached responses
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  greenscore cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := cacheManager.GetResponseStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", errors.New("cache backend is disabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// backendOrNone parses a backend flag where empty means disabled.
func backendOrNone(s string) (schema.DatabaseBackend, error) {
	if s == "" {
		return schema.NoneBackend, nil
	}
	return contract.ParseDatabaseBackend(s)
}

// sqlitePath returns the SQLite file named by the connection string, or the default file.
func sqlitePath(connStr, fallback string) string {
	if connStr != "" {
		return connStr
	}
	return fallback
}
