// Package cmd defines the command-line interface for riskgate.
package cmd

import (
	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/schema"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(blastCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("state-file", schema.DefaultStateFile, "Repo-relative path of the analysis state document")
	rootCmd.PersistentFlags().String("watermark-tag", schema.DefaultWatermarkTag, "Movable tag naming the last analyzed commit")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of area path prefixes to ignore")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run archive backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runCmd to Viper
	runCmd.Flags().Int("alert-threshold", schema.DefaultAlertThreshold, "Upward rank movement that raises an alert")
	runCmd.Flags().Int("fail-threshold", schema.DefaultFailThreshold, "Upward rank movement that fails the pipeline")
	runCmd.Flags().Bool("alert-on-new-entries", false, "Alert when an area enters the ranked set")
	runCmd.Flags().Float64("min-percentile", schema.DefaultMinPercentile, "Areas below this risk percentile stay unranked")
	runCmd.Flags().Bool("no-push", false, "Persist state locally but skip commit/push/tag")
	runCmd.Flags().String("webhook-url", "", "POST the run result to this URL after each run")
	if err := viper.BindPFlags(runCmd.Flags()); err != nil {
		contract.LogFatal("Error binding run flags", err)
	}

	// Bind all flags of blastCmd to Viper
	blastCmd.Flags().StringP("path", "p", "", "Area path to query for co-change correlations")
	blastCmd.Flags().Int("edges", contract.DefaultBlastEdges, "Max correlated areas to show")
	if err := viper.BindPFlags(blastCmd.Flags()); err != nil {
		contract.LogFatal("Error binding blast flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
