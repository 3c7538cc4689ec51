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

// historyConfig reads and validates the history backend settings.
func historyConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}
	backend, err := backendOrNone(viper.GetString("history-backend"))
	if err != nil {
		return "", "", err
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := historyConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no response cache for history commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads configuration for migrations without creating tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyStore returns the initialized history store or exits.
func historyStore() contract.HistoryStore {
	store := cacheManager.GetHistoryStore()
	if store == nil {
		contract.LogFatal("History store is not initialized", errors.New("set --history-backend to enable tracking"))
	}
	return store
}

// historyCmd focused on evaluation history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by evaluation commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage evaluation history tracking and exports",
	Long: `Manage the history of evaluations used for trend tracking and reporting.

When enabled with --history-backend, GreenScore records every evaluation:
- Run metadata (company, industry, source, model, timing)
- Total score, rank and flag count
- Pillar scores with benchmark deltas and sentiment

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Apply or roll back schema migrations

Examples:
  # Check history status
  greenscore history status --history-backend sqlite

  # Export history for BI tools
  greenscore history export --history-backend sqlite --output-file esg`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics",
	Long: `Show information about recorded evaluations.

Displays:
- Backend type and connection status
- Number of evaluations and pillar score rows
- First and last evaluation timestamps

Examples:
  greenscore history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := historyStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export evaluation history to Parquet files",
	Long: `Write the evaluation history to two Parquet files:
- <output-file>.evaluations.parquet
- <output-file>.pillar_scores.parquet

Examples:
  greenscore history export --history-backend sqlite --output-file esg`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportHistory(os.Stdout, historyStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyClearCmd clears history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all evaluation history",
	Long: `Delete all recorded evaluations from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Examples:
  greenscore history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The SQLite file cannot be removed while the store holds it open.
		iocache.CloseStores()
		if err := iocache.ClearHistory(cfg.HistoryBackend, sqlitePath(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath()), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back history schema migrations",
	Long: `Run the embedded schema migrations against the history database.

--target-version:
  -1  migrate to the latest version (default)
   0  roll back every migration
   n  migrate up or down to version n

Examples:
  greenscore history migrate --history-backend postgresql --history-db-connect "postgres://..."
  greenscore history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, target); err != nil {
			contract.LogFatal("Failed to migrate history", err)
		}
		fmt.Println("History migrations applied successfully.")
	},
}
