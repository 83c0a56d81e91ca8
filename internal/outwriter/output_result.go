package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRunResult outputs a run's result, dispatching based on the configured
// output format.
func WriteRunResult(result *schema.RiskAnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultCSV(w, result, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultText(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeResultText renders the human-readable run summary.
func writeResultText(w io.Writer, result *schema.RiskAnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	label := contract.GetPlainDecisionLabel(result.Decision)
	if cfg.UseColors {
		label = contract.GetColorDecisionLabel(result.Decision)
	}

	ranked := rankedAreas(result.CurrentState)
	fmt.Fprintln(w, "Risk Analysis Result:")
	fmt.Fprintf(w, "  Decision:  %s\n", label)
	fmt.Fprintf(w, "  Analyzed:  %.12s\n", result.CurrentState.LastCommitHash)
	fmt.Fprintf(w, "  Areas:     %d tracked, %d ranked\n", len(result.CurrentState.TrackedAreas), len(ranked))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Reasons:")
	for _, reason := range result.Reasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
	fmt.Fprintln(w)

	if len(result.RankingChanges) > 0 {
		if err := writeRankingChangesTable(w, result.RankingChanges, cfg); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(ranked) > 0 {
		if err := writeRankedAreasTable(w, ranked, cfg, fmtFloat); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Analysis completed in %v\n", duration)
	return err
}

// writeRankingChangesTable renders the movement table.
func writeRankingChangesTable(w io.Writer, changes []schema.RankingChange, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Area", "Previous", "Current", "Change"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxPath := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, change := range changes {
		prev := "-"
		if change.PreviousRanking != nil {
			prev = "#" + strconv.Itoa(*change.PreviousRanking)
		}
		curr := "-"
		if change.CurrentRanking != nil {
			curr = "#" + strconv.Itoa(*change.CurrentRanking)
		}
		kind := "moved up"
		if change.Type == schema.NewEntryChange {
			kind = "new entry"
		}
		data = append(data, []string{truncatePath(change.Path, maxPath), prev, curr, kind})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeRankedAreasTable renders the current ranked areas.
func writeRankedAreasTable(w io.Writer, ranked []schema.TrackedArea, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Area", "Score", "Pctile", "Commits", "Churn"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxPath := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, area := range ranked {
		data = append(data, []string{
			strconv.Itoa(*area.CurrentRanking),
			truncatePath(area.Path, maxPath),
			fmtFloat(area.RiskScore),
			fmtFloat(area.Percentile),
			strconv.Itoa(area.Metrics.TotalCommits),
			strconv.Itoa(area.Metrics.TotalLinesAdded + area.Metrics.TotalLinesDeleted),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeResultCSV writes one row per ranked area plus decision metadata rows
// for CI log scraping.
func writeResultCSV(w io.Writer, result *schema.RiskAnalysisResult, fmtFloat func(float64) string) error {
	header := []string{"rank", "area", "score", "percentile", "commits", "churn", "decision"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		decision := string(result.Decision)
		for _, area := range rankedAreas(result.CurrentState) {
			row := []string{
				strconv.Itoa(*area.CurrentRanking),
				area.Path,
				fmtFloat(area.RiskScore),
				fmtFloat(area.Percentile),
				strconv.Itoa(area.Metrics.TotalCommits),
				strconv.Itoa(area.Metrics.TotalLinesAdded + area.Metrics.TotalLinesDeleted),
				decision,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// rankedAreas returns the ranked areas of a state sorted by rank ascending.
func rankedAreas(state *schema.AnalysisState) []schema.TrackedArea {
	var ranked []schema.TrackedArea
	for _, area := range state.TrackedAreas {
		if area.CurrentRanking != nil {
			ranked = append(ranked, area)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return *ranked[i].CurrentRanking < *ranked[j].CurrentRanking
	})
	return ranked
}
