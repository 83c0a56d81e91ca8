package cmd

import (
	"errors"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/internal/outwriter"
	"github.com/riskgate/riskgate/internal/statedoc"

	"github.com/spf13/cobra"
)

// reportCmd renders the saved analysis state without running an analysis.
var reportCmd = &cobra.Command{
	Use:   "report [repo-path]",
	Short: "Display the tracked areas from the saved analysis state",
	Long: `Read the state document produced by previous runs and render the tracked
areas with their metrics, scores, percentiles, and rankings.

No Git analysis is performed and no state is modified.

Examples:
  # Tabular report for the current repository
  riskgate report

  # Machine-readable state for tooling
  riskgate report --output json --output-file state.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		states := statedoc.NewStore(cfg.StateFile)
		state, err := states.Load(cfg.RepoPath)
		if errors.Is(err, statedoc.ErrStateRecovered) {
			contract.LogFatal("No analysis state found; run 'riskgate run' first", nil)
		}
		if err != nil {
			contract.LogFatal("Cannot load analysis state", err)
		}

		if err := outwriter.WriteStateReport(state, cfg); err != nil {
			contract.LogFatal("Cannot write state report", err)
		}
	},
}
