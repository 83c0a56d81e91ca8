package cmd

import (
	"os"
	"time"

	"github.com/riskgate/riskgate/core"
	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/internal/history"
	"github.com/riskgate/riskgate/internal/notify"
	"github.com/riskgate/riskgate/internal/outwriter"
	"github.com/riskgate/riskgate/internal/statedoc"
	"github.com/riskgate/riskgate/schema"

	"github.com/spf13/cobra"
)

// runCmd performs one incremental analysis run and gates the pipeline.
var runCmd = &cobra.Command{
	Use:   "run [repo-path]",
	Short: "Analyze new commits and gate the pipeline on risk ranking shifts",
	Long: `Fold the commits since the last watermark into the persistent risk model,
re-rank the high-risk areas, and exit with a decision code.

Exit codes:
  0 - pass: no significant ranking changes
  1 - alert: an area moved up noticeably (or entered the ranking, if enabled)
  2 - fail: an area moved up past the fail threshold
  3 - error: the analysis itself could not complete

The updated state document is committed and pushed back to the repository,
and the watermark tag is advanced, unless --no-push is given.

Examples:
  # Gate the current repository
  riskgate run

  # Gate with stricter thresholds and a notification hook
  riskgate run --fail-threshold 3 --webhook-url https://ci.example.com/hooks/risk

  # Dry run without publishing state
  riskgate run --no-push`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()

		states := statedoc.NewStore(cfg.StateFile)

		var hist contract.HistoryStore
		if cfg.HistoryBackend != schema.NoneBackend {
			var err error
			hist, err = history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
			if err != nil {
				contract.LogFatal("Cannot open history store", err)
			}
			defer func() { _ = hist.Close() }()
		}

		var notifier contract.Notifier
		if cfg.WebhookURL != "" {
			notifier = notify.NewWebhookNotifier(cfg.WebhookURL)
		}

		runner := core.NewRunner(cfg, gitClient, states, hist, notifier)
		result, err := runner.Run(rootCtx)
		if err != nil {
			contract.LogFatal("Analysis run failed", err)
		}

		if err := outwriter.WriteRunResult(result, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write run result", err)
		}

		os.Exit(result.Decision.ExitCode())
	},
}
