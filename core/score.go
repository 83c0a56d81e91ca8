package core

import (
	"math"
	"sort"
	"time"

	"github.com/riskgate/riskgate/schema"
)

// computeRiskScore calculates an area's recency-weighted risk score:
//
//	churn          = totalLinesAdded + totalLinesDeleted
//	frequency      = totalCommits / max(daysSinceFirstCommit, 1)
//	recencyWeight  = exp(-k * daysSinceLastCommit)
//	riskScore      = churn * frequency * recencyWeight
//
// Areas that have never been touched score zero.
func computeRiskScore(m *schema.AreaMetrics, now time.Time) float64 {
	if m.FirstCommitDateUTC == nil || m.LastCommitDateUTC == nil {
		return 0
	}

	churn := float64(m.TotalLinesAdded + m.TotalLinesDeleted)

	activeDays := now.Sub(*m.FirstCommitDateUTC).Hours() / 24
	frequency := float64(m.TotalCommits) / math.Max(activeDays, schema.MinActiveDays)

	idleDays := now.Sub(*m.LastCommitDateUTC).Hours() / 24
	if idleDays < 0 {
		idleDays = 0
	}
	recency := math.Exp(-schema.RecencyDecayK * idleDays)

	return churn * frequency * recency
}

// RescoreAreas recomputes the risk score, percentile and ranking for every
// tracked area, not just areas touched this run: recency decay shifts the
// whole distribution each time.
//
// Percentile is an area's ascending ordinal position scaled to (0, 100];
// ties keep their original input order. Ranking is a dense 1..M sequence
// assigned by descending score among areas at or above minPercentile; areas
// below the threshold are unranked.
func RescoreAreas(state *schema.AnalysisState, minPercentile float64, now time.Time) {
	n := len(state.TrackedAreas)
	if n == 0 {
		return
	}

	for i := range state.TrackedAreas {
		area := &state.TrackedAreas[i]
		area.RiskScore = computeRiskScore(&area.Metrics, now)
	}

	ascending := make([]*schema.TrackedArea, n)
	for i := range state.TrackedAreas {
		ascending[i] = &state.TrackedAreas[i]
	}
	sort.SliceStable(ascending, func(i, j int) bool {
		return ascending[i].RiskScore < ascending[j].RiskScore
	})
	for i, area := range ascending {
		area.Percentile = float64(i+1) / float64(n) * 100
	}

	ranked := make([]*schema.TrackedArea, 0, n)
	for i := range state.TrackedAreas {
		area := &state.TrackedAreas[i]
		area.CurrentRanking = nil
		if area.Percentile >= minPercentile {
			ranked = append(ranked, area)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RiskScore > ranked[j].RiskScore
	})
	for i, area := range ranked {
		rank := i + 1
		area.CurrentRanking = &rank
	}
}
