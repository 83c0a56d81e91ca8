package core

import (
	"sort"
	"time"

	"github.com/riskgate/riskgate/schema"
)

// UpdateMetrics folds one delta's per-area activity into the cumulative
// counters. Each touched area gains exactly one velocity event for the run,
// regardless of how many files or commits hit it. Untouched areas keep their
// prior metrics unchanged, so the tracked set only ever grows.
func UpdateMetrics(state *schema.AnalysisState, delta *schema.GitDelta, excludes []string, now time.Time) {
	activity := AggregateActivity(delta, excludes)

	touched := make([]string, 0, len(activity))
	for area := range activity {
		touched = append(touched, area)
	}
	sort.Strings(touched)

	for _, areaPath := range touched {
		acc := activity[areaPath]
		area := state.FindArea(areaPath)
		if area == nil {
			state.TrackedAreas = append(state.TrackedAreas, schema.TrackedArea{Path: areaPath})
			area = &state.TrackedAreas[len(state.TrackedAreas)-1]
		}

		area.Metrics.TotalCommits++
		area.Metrics.TotalLinesAdded += acc.LinesAdded
		area.Metrics.TotalLinesDeleted += acc.LinesDeleted
		area.Metrics.TotalFilesChanged += acc.FilesChanged

		stamp := now.UTC()
		if area.Metrics.FirstCommitDateUTC == nil {
			first := stamp
			area.Metrics.FirstCommitDateUTC = &first
		}
		last := stamp
		area.Metrics.LastCommitDateUTC = &last
	}
}
