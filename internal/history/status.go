package history

import (
	"fmt"
	"time"

	"github.com/riskgate/riskgate/schema"
)

// GetStatus implements the HistoryStore interface.
func (s *StoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(s.backend),
		TableSizes: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}
	status.Connected = s.db.Ping() == nil
	if !status.Connected {
		return status, nil
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + runsTable).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to count runs: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + areaScoresTable).Scan(&status.TotalAreaRows); err != nil {
		return status, fmt.Errorf("failed to count area rows: %w", err)
	}
	status.TableSizes[runsTable] = int64(status.TotalRuns)
	status.TableSizes[areaScoresTable] = int64(status.TotalAreaRows)

	if status.TotalRuns > 0 {
		row := s.db.QueryRow("SELECT run_id, start_time FROM " + runsTable + " ORDER BY run_id DESC LIMIT 1")
		if err := s.scanIDAndTime(row, &status.LastRunID, &status.LastRunTime); err != nil {
			return status, err
		}
		var oldestID int64
		row = s.db.QueryRow("SELECT run_id, start_time FROM " + runsTable + " ORDER BY run_id ASC LIMIT 1")
		if err := s.scanIDAndTime(row, &oldestID, &status.OldestRunTime); err != nil {
			return status, err
		}
	}
	return status, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanIDAndTime reads a (run_id, start_time) pair, tolerating SQLite's
// string timestamps.
func (s *StoreImpl) scanIDAndTime(row rowScanner, id *int64, t *time.Time) error {
	if s.backend == schema.SQLiteBackend {
		var raw string
		if err := row.Scan(id, &raw); err != nil {
			return fmt.Errorf("failed to read run row: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fmt.Errorf("failed to parse run timestamp %q: %w", raw, err)
		}
		*t = parsed
		return nil
	}
	if err := row.Scan(id, t); err != nil {
		return fmt.Errorf("failed to read run row: %w", err)
	}
	return nil
}

// GetRuns implements the HistoryStore interface.
func (s *StoreImpl) GetRuns() ([]schema.RunRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query("SELECT run_id, start_time, end_time, run_duration_ms, from_commit, to_commit, decision, total_areas, ranked_areas FROM " + runsTable + " ORDER BY run_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.RunRecord
	for rows.Next() {
		var rec schema.RunRecord
		var decision *string
		var totalAreas, rankedAreas *int32

		if s.backend == schema.SQLiteBackend {
			var start string
			var end *string
			if err := rows.Scan(&rec.RunID, &start, &end, &rec.RunDurationMs, &rec.FromCommit, &rec.ToCommit, &decision, &totalAreas, &rankedAreas); err != nil {
				return nil, fmt.Errorf("failed to scan run row: %w", err)
			}
			rec.StartTime, _ = time.Parse(time.RFC3339Nano, start)
			if end != nil {
				t, _ := time.Parse(time.RFC3339Nano, *end)
				rec.EndTime = &t
			}
		} else {
			var end *time.Time
			if err := rows.Scan(&rec.RunID, &rec.StartTime, &end, &rec.RunDurationMs, &rec.FromCommit, &rec.ToCommit, &decision, &totalAreas, &rankedAreas); err != nil {
				return nil, fmt.Errorf("failed to scan run row: %w", err)
			}
			rec.EndTime = end
		}
		if decision != nil {
			rec.Decision = *decision
		}
		if totalAreas != nil {
			rec.TotalAreas = *totalAreas
		}
		if rankedAreas != nil {
			rec.RankedAreas = *rankedAreas
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetAreaScores implements the HistoryStore interface.
func (s *StoreImpl) GetAreaScores() ([]schema.AreaScoreRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query("SELECT run_id, area_path, analysis_time, total_commits, total_lines_added, total_lines_deleted, total_files_changed, risk_score, percentile, ranking FROM " + areaScoresTable + " ORDER BY run_id, area_path")
	if err != nil {
		return nil, fmt.Errorf("failed to query area scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.AreaScoreRecord
	for rows.Next() {
		var rec schema.AreaScoreRecord
		if s.backend == schema.SQLiteBackend {
			var at string
			if err := rows.Scan(&rec.RunID, &rec.AreaPath, &at, &rec.TotalCommits, &rec.TotalLinesAdded, &rec.TotalLinesDeleted, &rec.TotalFilesChanged, &rec.RiskScore, &rec.Percentile, &rec.Ranking); err != nil {
				return nil, fmt.Errorf("failed to scan area score row: %w", err)
			}
			rec.AnalysisTime, _ = time.Parse(time.RFC3339Nano, at)
		} else {
			if err := rows.Scan(&rec.RunID, &rec.AreaPath, &rec.AnalysisTime, &rec.TotalCommits, &rec.TotalLinesAdded, &rec.TotalLinesDeleted, &rec.TotalFilesChanged, &rec.RiskScore, &rec.Percentile, &rec.Ranking); err != nil {
				return nil, fmt.Errorf("failed to scan area score row: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PrintStatus prints history store status information.
func PrintStatus(status schema.HistoryStatus) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Total Area Rows: %d\n", status.TotalAreaRows)
	}
	fmt.Println("Table Sizes:")
	for table, size := range status.TableSizes {
		fmt.Printf("  %s: %d rows\n", table, size)
	}
}
