package cmd

import (
	"fmt"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/internal/history"
	"github.com/riskgate/riskgate/schema"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads the minimal configuration needed for history operations.
// History commands skip Git repo validation; they only need a database.
func historySetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Standalone history commands default to the local SQLite archive.
	if backendStr == "" {
		backendStr = string(schema.SQLiteBackend)
	}
	backend := schema.DatabaseBackend(backendStr)
	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend %q; use sqlite, mysql, postgresql or none", backendStr)
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("history tracking is disabled (backend none)")
	}
	if (backend == schema.MySQLBackend || backend == schema.PostgreSQLBackend) && connStr == "" {
		return fmt.Errorf("--history-db-connect is required for the %s backend", backend)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// openHistoryStore opens the configured history store for a subcommand.
func openHistoryStore() contract.HistoryStore {
	store, err := history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		contract.LogFatal("Cannot open history store", err)
	}
	return store
}

// historyCmd manages the run archive.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the archive of past analysis runs",
	Long: `Manage the database that archives every analysis run.

When a history backend is configured, each run stores:
- Run metadata (commit range, timestamps, duration, decision)
- Per-area scores, percentiles, and rankings at that point in time

This enables longitudinal review of how risk moved through the codebase.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show archive statistics
  clear   - Remove all archived runs
  export  - Export the archive to Parquet for analytics
  migrate - Run database schema migrations`,
}

// historyStatusCmd shows archive statistics.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display archive statistics and connection details",
	Long: `Show the archived run count, area score count, and the timestamps of the
newest and oldest runs in the archive.

Examples:
  # Local SQLite archive
  riskgate history status

  # Shared PostgreSQL archive
  riskgate history status --history-backend postgresql --history-db-connect "$RISKGATE_HISTORY_DB_CONNECT"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistoryStore()
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintStatus(status)
	},
}

// historyClearCmd removes all archived runs.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all archived analysis runs",
	Long: `Delete every archived run and all per-area score history.

WARNING: This action cannot be undone. Consider exporting data first:

  riskgate history export --output-file backup.parquet
  riskgate history clear`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistoryStore()
		defer func() { _ = store.Close() }()

		if err := store.Clear(); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}

// historyExportCmd exports the archive to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived runs to Parquet for BI tools and analytics",
	Long: `Export all archived data to Parquet format.

Two files are written next to the given output path:
- <output>.runs.parquet        - one row per analysis run
- <output>.area_scores.parquet - one row per area per run

Requires: --output-file

Examples:
  riskgate history export --output-file riskgate-data
  duckdb -c "SELECT * FROM read_parquet('riskgate-data.runs.parquet') LIMIT 10"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistoryStore()
		defer func() { _ = store.Close() }()

		if err := history.ExecuteExport(store, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
//
// Note: migrate deliberately does not open the store first, so migrations can
// run against a fresh database before any tables exist.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run archive.

By default, migrates to the latest version. Use --target-version for a
specific version; 0 rolls back to the initial state.

Examples:
  # Migrate to latest version
  riskgate history migrate

  # Roll back everything
  riskgate history migrate --target-version 0`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.HistoryDBConnect
		if cfg.HistoryBackend == schema.SQLiteBackend && connStr == "" {
			connStr = history.GetDBFilePath()
		}
		targetVersion := viper.GetInt("target-version")
		if err := history.Migrate(cfg.HistoryBackend, connStr, targetVersion); err != nil {
			contract.LogFatal("Migration failed", err)
		}
	},
}
