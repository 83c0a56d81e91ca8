package history

import (
	"errors"
	"fmt"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/internal/parquet"
)

// ExecuteExport dumps the archived runs and area scores to Parquet files for
// warehouse ingestion.
func ExecuteExport(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no archived runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total area rows: %d\n", status.TotalAreaRows)

	runs, err := store.GetRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := store.GetAreaScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve area scores: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	scoresFile := outputFile + ".area_scores.parquet"
	if err := parquet.WriteAreaScoresParquet(parquet.ConvertAreaScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write area scores: %w", err)
	}
	fmt.Printf("Exported %d area score rows to: %s\n", len(scores), scoresFile)

	return nil
}
