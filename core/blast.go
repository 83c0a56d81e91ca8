package core

import (
	"sort"

	"github.com/riskgate/riskgate/schema"
)

// UpdateBlastRadius folds one delta's per-commit co-change groups into the
// symmetric correlation edges. For every unordered pair of distinct areas
// touched in the same commit, both the A→B and B→A edges are incremented.
// Only areas already in the tracked set participate, which is also what keeps
// excluded paths out: the metrics update never admits them as areas.
// Afterwards every correlation score in the state is recomputed against the
// source area's current totalCommits, so scores stay consistent after the
// metrics update that preceded this call.
func UpdateBlastRadius(state *schema.AnalysisState, delta *schema.GitDelta) {
	tracked := make(map[string]struct{}, len(state.TrackedAreas))
	for _, area := range state.TrackedAreas {
		tracked[area.Path] = struct{}{}
	}

	for _, commit := range delta.Commits {
		areas := commitAreas(commit.Paths, tracked)
		for i := 0; i < len(areas); i++ {
			for j := i + 1; j < len(areas); j++ {
				incrementEdge(state, areas[i], areas[j])
				incrementEdge(state, areas[j], areas[i])
			}
		}
	}

	rescoreEdges(state)
}

// commitAreas maps one commit's changed paths onto the tracked area set,
// deduplicated and sorted for deterministic pairing.
func commitAreas(paths []string, tracked map[string]struct{}) []string {
	seen := make(map[string]struct{})
	for _, p := range paths {
		area := areaForPath(p)
		if area == "" {
			continue
		}
		if _, ok := tracked[area]; !ok {
			continue
		}
		seen[area] = struct{}{}
	}
	areas := make([]string, 0, len(seen))
	for area := range seen {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	return areas
}

// incrementEdge bumps the directed co-occurrence count from source to target,
// creating the blast radius entry and edge on first sight.
func incrementEdge(state *schema.AnalysisState, source, target string) {
	bra := state.FindBlastRadius(source)
	if bra == nil {
		state.BlastRadius = append(state.BlastRadius, schema.BlastRadiusAnalysis{SourcePath: source})
		bra = &state.BlastRadius[len(state.BlastRadius)-1]
	}
	for i := range bra.CorrelatedPaths {
		if bra.CorrelatedPaths[i].Path == target {
			bra.CorrelatedPaths[i].CooccurrenceCount++
			return
		}
	}
	bra.CorrelatedPaths = append(bra.CorrelatedPaths, schema.CorrelatedPath{Path: target, CooccurrenceCount: 1})
}

// rescoreEdges recomputes every correlation score from its source area's
// cumulative commit count.
func rescoreEdges(state *schema.AnalysisState) {
	for i := range state.BlastRadius {
		source := state.FindArea(state.BlastRadius[i].SourcePath)
		if source == nil || source.Metrics.TotalCommits == 0 {
			continue
		}
		total := float64(source.Metrics.TotalCommits)
		for j := range state.BlastRadius[i].CorrelatedPaths {
			edge := &state.BlastRadius[i].CorrelatedPaths[j]
			edge.CorrelationScore = float64(edge.CooccurrenceCount) / total
		}
	}
}
