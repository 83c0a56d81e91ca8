package schema

import "time"

// RunRecord represents a row from the riskgate_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	FromCommit    string
	ToCommit      string
	Decision      string
	TotalAreas    int32
	RankedAreas   int32
}

// AreaScoreRecord represents a row from the riskgate_area_scores table.
type AreaScoreRecord struct {
	RunID             int64
	AreaPath          string
	AnalysisTime      time.Time
	TotalCommits      int32
	TotalLinesAdded   int32
	TotalLinesDeleted int32
	TotalFilesChanged int32
	RiskScore         float64
	Percentile        float64
	Ranking           *int32
}

// HistoryStatus represents the status of the run-history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalAreaRows int              `json:"total_area_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
