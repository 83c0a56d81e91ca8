// Package parquet provides data structures and functions for exporting
// archived riskgate runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/riskgate/riskgate/schema"
)

// Run represents a single archived analysis run with metadata.
// This struct maps to the riskgate_runs database table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	FromCommit    string     `parquet:"from_commit,snappy"`
	ToCommit      string     `parquet:"to_commit,snappy"`
	Decision      string     `parquet:"decision,snappy"`
	TotalAreas    int32      `parquet:"total_areas,snappy"`
	RankedAreas   int32      `parquet:"ranked_areas,snappy"`
}

// AreaScore represents one area's metrics and score within an archived run.
// This struct maps to the riskgate_area_scores database table.
type AreaScore struct {
	RunID             int64     `parquet:"run_id,snappy"`
	AreaPath          string    `parquet:"area_path,snappy"`
	AnalysisTime      time.Time `parquet:"analysis_time,snappy"`
	TotalCommits      int32     `parquet:"total_commits,snappy"`
	TotalLinesAdded   int32     `parquet:"total_lines_added,snappy"`
	TotalLinesDeleted int32     `parquet:"total_lines_deleted,snappy"`
	TotalFilesChanged int32     `parquet:"total_files_changed,snappy"`
	RiskScore         float64   `parquet:"risk_score,snappy"`
	Percentile        float64   `parquet:"percentile,snappy"`
	Ranking           *int32    `parquet:"ranking,optional,snappy"`
}

// ConvertRunRecords converts database run records to their Parquet form.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	runs := make([]Run, 0, len(records))
	for _, rec := range records {
		runs = append(runs, Run{
			RunID:         rec.RunID,
			StartTime:     rec.StartTime,
			EndTime:       rec.EndTime,
			RunDurationMs: rec.RunDurationMs,
			FromCommit:    rec.FromCommit,
			ToCommit:      rec.ToCommit,
			Decision:      rec.Decision,
			TotalAreas:    rec.TotalAreas,
			RankedAreas:   rec.RankedAreas,
		})
	}
	return runs
}

// ConvertAreaScoreRecords converts database area score records to their
// Parquet form.
func ConvertAreaScoreRecords(records []schema.AreaScoreRecord) []AreaScore {
	scores := make([]AreaScore, 0, len(records))
	for _, rec := range records {
		scores = append(scores, AreaScore{
			RunID:             rec.RunID,
			AreaPath:          rec.AreaPath,
			AnalysisTime:      rec.AnalysisTime,
			TotalCommits:      rec.TotalCommits,
			TotalLinesAdded:   rec.TotalLinesAdded,
			TotalLinesDeleted: rec.TotalLinesDeleted,
			TotalFilesChanged: rec.TotalFilesChanged,
			RiskScore:         rec.RiskScore,
			Percentile:        rec.Percentile,
			Ranking:           rec.Ranking,
		})
	}
	return scores
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the struct tags.
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteAreaScoresParquet writes a slice of AreaScore structs to a Parquet file.
func WriteAreaScoresParquet(data []AreaScore, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[AreaScore](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}
