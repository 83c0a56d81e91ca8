package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd prints build provenance for bug reports.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the riskgate version and build details",
	Long:  `Print the release version, source commit, build timestamp, and Go runtime.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("riskgate CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}
