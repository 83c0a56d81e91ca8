package outwriter

import (
	"fmt"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/schema"
)

// PrintMetricsDefinitions displays the formal definitions of the risk model.
// This is a static display that does not require Git analysis.
func PrintMetricsDefinitions(cfg *contract.Config) error {
	fmt.Println("Riskgate Scoring Model")
	fmt.Println("======================")
	fmt.Println()
	fmt.Println("Per-area risk score = churn * frequency * recency")
	fmt.Println()
	fmt.Println("  churn      = totalLinesAdded + totalLinesDeleted")
	fmt.Println("  frequency  = totalCommits / max(daysSinceFirstCommit, 1.0)")
	fmt.Printf("  recency    = exp(-%.1f * daysSinceLastCommit)\n", schema.RecencyDecayK)
	fmt.Println()
	fmt.Println("Ranking")
	fmt.Println("  percentile = ascending position / area count * 100")
	fmt.Printf("  rank       = dense rank among areas at or above the %.0fth percentile\n", cfg.MinPercentile)
	fmt.Println()
	fmt.Println("Decision")
	fmt.Printf("  movement >= %d positions up  -> fail (exit %d)\n", cfg.FailThreshold, schema.ExitFail)
	fmt.Printf("  movement >= %d positions up  -> alert (exit %d)\n", cfg.AlertThreshold, schema.ExitAlert)
	if cfg.AlertOnNewEntries {
		fmt.Printf("  new ranked entry            -> alert (exit %d)\n", schema.ExitAlert)
	} else {
		fmt.Println("  new ranked entry            -> informational only")
	}
	fmt.Printf("  otherwise                   -> pass (exit %d)\n", schema.ExitPass)

	return nil
}
