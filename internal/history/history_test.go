package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/riskgate/riskgate/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteStore opens a store against a throwaway SQLite file.
func newSQLiteStore(t *testing.T) *StoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*StoreImpl)
}

func rankPtr(v int) *int { return &v }

func TestSQLiteRunLifecycle(t *testing.T) {
	store := newSQLiteStore(t)
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Second)

	runID, err := store.BeginRun(start, "aaa111", "bbb222")
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	areas := []schema.TrackedArea{
		{
			Path:           "src/auth",
			RiskScore:      80.5,
			Percentile:     100,
			CurrentRanking: rankPtr(1),
			Metrics:        schema.AreaMetrics{TotalCommits: 5, TotalLinesAdded: 100, TotalLinesDeleted: 20, TotalFilesChanged: 7},
		},
		{
			Path:       "src/session",
			RiskScore:  12.0,
			Percentile: 50,
			Metrics:    schema.AreaMetrics{TotalCommits: 2, TotalLinesAdded: 15, TotalLinesDeleted: 3, TotalFilesChanged: 2},
		},
	}
	require.NoError(t, store.RecordAreaScores(runID, start, areas))
	require.NoError(t, store.EndRun(runID, end, schema.AlertDecision, 2, 1))

	runs, err := store.GetRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "aaa111", run.FromCommit)
	assert.Equal(t, "bbb222", run.ToCommit)
	assert.Equal(t, "alert", run.Decision)
	assert.Equal(t, int32(2), run.TotalAreas)
	assert.Equal(t, int32(1), run.RankedAreas)
	assert.True(t, run.StartTime.Equal(start))
	require.NotNil(t, run.EndTime)
	assert.True(t, run.EndTime.Equal(end))
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(3000), *run.RunDurationMs)

	scores, err := store.GetAreaScores()
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "src/auth", scores[0].AreaPath)
	assert.Equal(t, int32(5), scores[0].TotalCommits)
	assert.InDelta(t, 80.5, scores[0].RiskScore, 1e-9)
	require.NotNil(t, scores[0].Ranking)
	assert.Equal(t, int32(1), *scores[0].Ranking)
	assert.Equal(t, "src/session", scores[1].AreaPath)
	assert.Nil(t, scores[1].Ranking)
}

func TestSQLiteStatus(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 0, status.TotalRuns)

	first := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	firstID, err := store.BeginRun(first, "", "aaa111")
	require.NoError(t, err)
	require.NoError(t, store.EndRun(firstID, first.Add(time.Second), schema.PassDecision, 1, 1))
	secondID, err := store.BeginRun(second, "aaa111", "bbb222")
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, secondID, status.LastRunID)
	assert.True(t, status.LastRunTime.Equal(second))
	assert.True(t, status.OldestRunTime.Equal(first))
	assert.Equal(t, int64(2), status.TableSizes[runsTable])
}

func TestSQLiteClear(t *testing.T) {
	store := newSQLiteStore(t)
	start := time.Now().UTC()

	runID, err := store.BeginRun(start, "", "aaa111")
	require.NoError(t, err)
	require.NoError(t, store.RecordAreaScores(runID, start, []schema.TrackedArea{{Path: "src/auth"}}))

	require.NoError(t, store.Clear())

	runs, err := store.GetRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)
	scores, err := store.GetAreaScores()
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestNoneBackendIsNoop(t *testing.T) {
	store, err := NewStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), "", "aaa111")
	require.NoError(t, err)
	assert.Zero(t, runID)
	assert.NoError(t, store.RecordAreaScores(runID, time.Now(), nil))
	assert.NoError(t, store.EndRun(runID, time.Now(), schema.PassDecision, 0, 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Close())
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := NewStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}
