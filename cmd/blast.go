package cmd

import (
	"errors"
	"fmt"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/internal/outwriter"
	"github.com/riskgate/riskgate/internal/statedoc"

	"github.com/spf13/cobra"
)

// blastCmd shows the co-change blast radius for a single area.
var blastCmd = &cobra.Command{
	Use:   "blast [repo-path]",
	Short: "Show which areas historically change together with a given area",
	Long: `Query the co-change correlations recorded in the analysis state for one
area. The correlation score of an edge is the fraction of the source area's
commits that also touched the correlated area.

Use this to estimate the blast radius of a change before reviewing it.

Examples:
  # Who moves when src/auth moves?
  riskgate blast --path src/auth

  # Top three correlated areas only
  riskgate blast --path src/auth --edges 3`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.BlastPath == "" {
			contract.LogFatal("--path is required", nil)
		}

		states := statedoc.NewStore(cfg.StateFile)
		state, err := states.Load(cfg.RepoPath)
		if errors.Is(err, statedoc.ErrStateRecovered) {
			contract.LogFatal("No analysis state found; run 'riskgate run' first", nil)
		}
		if err != nil {
			contract.LogFatal("Cannot load analysis state", err)
		}

		analysis := state.FindBlastRadius(cfg.BlastPath)
		if analysis == nil {
			contract.LogFatal(fmt.Sprintf("No co-change data recorded for area %q", cfg.BlastPath), nil)
		}

		if err := outwriter.WriteBlastRadius(analysis, cfg); err != nil {
			contract.LogFatal("Cannot write blast radius", err)
		}
	},
}
