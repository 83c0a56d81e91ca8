package schema

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsDeep(t *testing.T) {
	first := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rank := 1
	original := &AnalysisState{
		LastCommitHash: "abc",
		TrackedAreas: []TrackedArea{
			{
				Path: "src/auth",
				Metrics: AreaMetrics{
					TotalCommits:       3,
					FirstCommitDateUTC: &first,
					LastCommitDateUTC:  &first,
				},
				CurrentRanking: &rank,
			},
		},
		BlastRadius: []BlastRadiusAnalysis{
			{SourcePath: "src/auth", CorrelatedPaths: []CorrelatedPath{{Path: "src/session", CooccurrenceCount: 2}}},
		},
		ProcessedRanges: []ProcessedRange{{FromCommit: "a", ToCommit: "b"}},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	// Mutating the clone must not reach the original.
	clone.TrackedAreas[0].Metrics.TotalCommits = 99
	*clone.TrackedAreas[0].CurrentRanking = 7
	*clone.TrackedAreas[0].Metrics.FirstCommitDateUTC = first.Add(time.Hour)
	clone.BlastRadius[0].CorrelatedPaths[0].CooccurrenceCount = 50
	clone.ProcessedRanges[0].ToCommit = "zzz"

	assert.Equal(t, 3, original.TrackedAreas[0].Metrics.TotalCommits)
	assert.Equal(t, 1, *original.TrackedAreas[0].CurrentRanking)
	assert.Equal(t, first, *original.TrackedAreas[0].Metrics.FirstCommitDateUTC)
	assert.Equal(t, 2, original.BlastRadius[0].CorrelatedPaths[0].CooccurrenceCount)
	assert.Equal(t, "b", original.ProcessedRanges[0].ToCommit)
}

func TestProcessedRangeGuard(t *testing.T) {
	state := NewAnalysisState()

	assert.False(t, state.HasProcessedRange("a", "b"))
	state.RecordProcessedRange("a", "b")
	assert.True(t, state.HasProcessedRange("a", "b"))
	assert.False(t, state.HasProcessedRange("b", "a"), "ranges are directional")
}

func TestProcessedRangeEviction(t *testing.T) {
	state := NewAnalysisState()
	for i := 0; i < MaxProcessedRanges+10; i++ {
		state.RecordProcessedRange(fmt.Sprintf("c%d", i), fmt.Sprintf("c%d", i+1))
	}

	assert.Len(t, state.ProcessedRanges, MaxProcessedRanges)
	assert.False(t, state.HasProcessedRange("c0", "c1"), "oldest entries are evicted")
	assert.True(t, state.HasProcessedRange("c59", "c60"), "newest entries survive")
}

func TestRankings(t *testing.T) {
	one, three := 1, 3
	state := &AnalysisState{
		TrackedAreas: []TrackedArea{
			{Path: "src/auth", CurrentRanking: &one},
			{Path: "src/session"},
			{Path: "src/api", CurrentRanking: &three},
		},
	}

	assert.Equal(t, map[string]int{"src/auth": 1, "src/api": 3}, state.Rankings())
}

func TestGitDeltaIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		delta GitDelta
		want  bool
	}{
		{
			name:  "same endpoints",
			delta: GitDelta{FromCommit: "a", ToCommit: "a", Changes: []FileChange{{Path: "x"}}},
			want:  true,
		},
		{
			name:  "no changes",
			delta: GitDelta{FromCommit: "a", ToCommit: "b"},
			want:  true,
		},
		{
			name:  "real delta",
			delta: GitDelta{FromCommit: "a", ToCommit: "b", Changes: []FileChange{{Path: "x"}}},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.delta.IsEmpty())
		})
	}
}

func TestDecisionExitCodes(t *testing.T) {
	assert.Equal(t, ExitPass, PassDecision.ExitCode())
	assert.Equal(t, ExitAlert, AlertDecision.ExitCode())
	assert.Equal(t, ExitFail, FailDecision.ExitCode())
	assert.Equal(t, ExitPass, Decision("unknown").ExitCode())
}
