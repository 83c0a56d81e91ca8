package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteStateReport outputs the tracked areas of a saved analysis state.
func WriteStateReport(state *schema.AnalysisState, cfg *contract.Config) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, state)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStateCSV(w, state, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStateText(w, state, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeStateText(w io.Writer, state *schema.AnalysisState, cfg *contract.Config, fmtFloat func(float64) string) error {
	fmt.Fprintln(w, "Analysis State Report:")
	fmt.Fprintf(w, "  Last commit:  %.12s\n", state.LastCommitHash)
	fmt.Fprintf(w, "  Analyzed at:  %s\n", state.AnalysisTimestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "  Areas:        %d\n", len(state.TrackedAreas))
	fmt.Fprintln(w)

	areas := areasByScore(state)
	if len(areas) == 0 {
		_, err := fmt.Fprintln(w, "No tracked areas yet.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Area", "Score", "Pctile", "Commits", "Churn", "Files"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxPath := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, area := range areas {
		rank := "-"
		if area.CurrentRanking != nil {
			rank = strconv.Itoa(*area.CurrentRanking)
		}
		data = append(data, []string{
			rank,
			truncatePath(area.Path, maxPath),
			fmtFloat(area.RiskScore),
			fmtFloat(area.Percentile),
			strconv.Itoa(area.Metrics.TotalCommits),
			strconv.Itoa(area.Metrics.TotalLinesAdded + area.Metrics.TotalLinesDeleted),
			strconv.Itoa(area.Metrics.TotalFilesChanged),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeStateCSV(w io.Writer, state *schema.AnalysisState, fmtFloat func(float64) string) error {
	header := []string{"rank", "area", "score", "percentile", "commits", "lines_added", "lines_deleted", "files_changed"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, area := range areasByScore(state) {
			rank := ""
			if area.CurrentRanking != nil {
				rank = strconv.Itoa(*area.CurrentRanking)
			}
			row := []string{
				rank,
				area.Path,
				fmtFloat(area.RiskScore),
				fmtFloat(area.Percentile),
				strconv.Itoa(area.Metrics.TotalCommits),
				strconv.Itoa(area.Metrics.TotalLinesAdded),
				strconv.Itoa(area.Metrics.TotalLinesDeleted),
				strconv.Itoa(area.Metrics.TotalFilesChanged),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteBlastRadius outputs the co-change correlations for a single area.
func WriteBlastRadius(analysis *schema.BlastRadiusAnalysis, cfg *contract.Config) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	edges := topEdges(analysis, cfg.BlastEdges)

	switch cfg.Output {
	case schema.JSONOut:
		trimmed := schema.BlastRadiusAnalysis{SourcePath: analysis.SourcePath, CorrelatedPaths: edges}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, trimmed)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBlastCSV(w, analysis.SourcePath, edges, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBlastText(w, analysis.SourcePath, edges, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeBlastText(w io.Writer, source string, edges []schema.CorrelatedPath, cfg *contract.Config, fmtFloat func(float64) string) error {
	fmt.Fprintf(w, "Blast Radius for %s:\n\n", source)
	if len(edges) == 0 {
		_, err := fmt.Fprintln(w, "No correlated areas recorded.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Correlated Area", "Co-changes", "Correlation"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxPath := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, edge := range edges {
		data = append(data, []string{
			truncatePath(edge.Path, maxPath),
			strconv.Itoa(edge.CooccurrenceCount),
			fmtFloat(edge.CorrelationScore),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeBlastCSV(w io.Writer, source string, edges []schema.CorrelatedPath, fmtFloat func(float64) string) error {
	header := []string{"source", "correlated_area", "cooccurrences", "correlation"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, edge := range edges {
			row := []string{source, edge.Path, strconv.Itoa(edge.CooccurrenceCount), fmtFloat(edge.CorrelationScore)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// topEdges sorts correlations by score descending (count, then path as
// tiebreaks) and keeps at most limit entries. A limit of zero keeps all.
func topEdges(analysis *schema.BlastRadiusAnalysis, limit int) []schema.CorrelatedPath {
	edges := make([]schema.CorrelatedPath, len(analysis.CorrelatedPaths))
	copy(edges, analysis.CorrelatedPaths)
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].CorrelationScore != edges[j].CorrelationScore {
			return edges[i].CorrelationScore > edges[j].CorrelationScore
		}
		if edges[i].CooccurrenceCount != edges[j].CooccurrenceCount {
			return edges[i].CooccurrenceCount > edges[j].CooccurrenceCount
		}
		return edges[i].Path < edges[j].Path
	})
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}
	return edges
}

// areasByScore returns tracked areas sorted by risk score descending.
func areasByScore(state *schema.AnalysisState) []schema.TrackedArea {
	areas := make([]schema.TrackedArea, len(state.TrackedAreas))
	copy(areas, state.TrackedAreas)
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].RiskScore > areas[j].RiskScore
	})
	return areas
}
