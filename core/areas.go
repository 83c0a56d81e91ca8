// Package core has the risk engine: area aggregation, metric folding,
// co-change correlation, scoring, ranking and the run decision.
package core

import (
	"path"
	"sort"
	"strings"

	"github.com/riskgate/riskgate/schema"
)

// AreaActivity sums a single area's share of one delta.
type AreaActivity struct {
	LinesAdded   int
	LinesDeleted int
	FilesChanged int
}

// areaForPath returns the normalized immediate parent directory of a changed
// file, or "" for root-level files, which are not tracked.
func areaForPath(filePath string) string {
	normalized := strings.TrimSuffix(strings.ReplaceAll(filePath, "\\", "/"), "/")
	dir := path.Dir(normalized)
	if dir == "." || dir == "/" || dir == "" {
		return ""
	}
	return dir
}

// isExcludedArea reports whether a normalized area path starts with any of
// the configured exclusion prefixes.
func isExcludedArea(area string, excludes []string) bool {
	for _, prefix := range excludes {
		prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
		if prefix == "" {
			continue
		}
		if area == prefix || strings.HasPrefix(area, prefix+"/") {
			return true
		}
	}
	return false
}

// AggregateAreas reduces a set of changed file paths to their leaf
// directories. Every immediate parent of a changed file is a candidate; any
// candidate that is an ancestor of another candidate is discarded, so a
// single change chain only counts at its deepest level. Excluded prefixes
// are dropped after the leaf reduction. The result is sorted, making the
// computation independent of input order.
func AggregateAreas(changedPaths []string, excludes []string) []string {
	candidates := make(map[string]struct{})
	for _, p := range changedPaths {
		if area := areaForPath(p); area != "" {
			candidates[area] = struct{}{}
		}
	}

	nonLeaf := make(map[string]struct{})
	for dir := range candidates {
		for ancestor := path.Dir(dir); ancestor != "." && ancestor != "/"; ancestor = path.Dir(ancestor) {
			if _, ok := candidates[ancestor]; ok {
				nonLeaf[ancestor] = struct{}{}
			}
		}
	}

	areas := make([]string, 0, len(candidates))
	for dir := range candidates {
		if _, ok := nonLeaf[dir]; ok {
			continue
		}
		if isExcludedArea(dir, excludes) {
			continue
		}
		areas = append(areas, dir)
	}
	sort.Strings(areas)
	return areas
}

// AggregateActivity computes the leaf area set for a delta and each area's
// share of its line and file changes. Changes whose parent directory was
// discarded as a non-leaf contribute to no area.
func AggregateActivity(delta *schema.GitDelta, excludes []string) map[string]AreaActivity {
	paths := make([]string, 0, len(delta.Changes))
	for _, c := range delta.Changes {
		paths = append(paths, c.Path)
	}
	areaSet := make(map[string]struct{})
	for _, area := range AggregateAreas(paths, excludes) {
		areaSet[area] = struct{}{}
	}

	activity := make(map[string]AreaActivity, len(areaSet))
	for _, c := range delta.Changes {
		area := areaForPath(c.Path)
		if _, ok := areaSet[area]; !ok {
			continue
		}
		acc := activity[area]
		acc.LinesAdded += c.LinesAdded
		acc.LinesDeleted += c.LinesDeleted
		acc.FilesChanged++
		activity[area] = acc
	}
	return activity
}
