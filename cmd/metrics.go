package cmd

import (
	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/internal/outwriter"

	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of the risk model.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the scoring formula and decision thresholds",
	Long: `Show the formal definition of the risk score, the ranking rules, and the
decision thresholds the gate applies.

No Git analysis is performed - this is purely informational.

Use this to:
- Explain gating decisions to your team
- Validate threshold configuration
- Document the scoring methodology

Examples:
  # Show the model with default thresholds
  riskgate metrics

  # Show the model with your project's thresholds
  riskgate metrics --config .riskgate.yaml`,
	PreRunE: configSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.PrintMetricsDefinitions(cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
