package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/internal/statedoc"
	"github.com/riskgate/riskgate/schema"

	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// loadState reads the state document for the requested repository, allowing
// the tool call to override the base repo path and state file location.
func (h *toolHandler) loadState(request mcp.CallToolRequest) (*schema.AnalysisState, *contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if f := request.GetString("state_file", ""); f != "" {
		cfg.StateFile = f
	}

	store := statedoc.NewStore(cfg.StateFile)
	state, err := store.Load(cfg.RepoPath)
	if errors.Is(err, statedoc.ErrStateRecovered) {
		return nil, nil, fmt.Errorf("no analysis state found at %s; run an analysis first", store.RelPath())
	}
	if err != nil {
		return nil, nil, err
	}
	return state, cfg, nil
}

// rankedReport is the JSON shape returned by get_risk_report.
type rankedReport struct {
	AnalyzedCommit string               `json:"analyzedCommit"`
	TrackedAreas   int                  `json:"trackedAreas"`
	RankedAreas    []schema.TrackedArea `json:"rankedAreas"`
}

func (h *toolHandler) handleGetRiskReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, _, err := h.loadState(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	var ranked []schema.TrackedArea
	for _, area := range state.TrackedAreas {
		if area.CurrentRanking != nil {
			ranked = append(ranked, area)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return *ranked[i].CurrentRanking < *ranked[j].CurrentRanking
	})
	if l := request.GetInt("limit", 0); l > 0 && len(ranked) > l {
		ranked = ranked[:l]
	}

	report := rankedReport{
		AnalyzedCommit: state.LastCommitHash,
		TrackedAreas:   len(state.TrackedAreas),
		RankedAreas:    ranked,
	}
	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetBlastRadius(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	state, _, err := h.loadState(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("blast radius failed: %v", err)), nil
	}

	analysis := state.FindBlastRadius(path)
	if analysis == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no co-change data recorded for area %q", path)), nil
	}

	edges := append([]schema.CorrelatedPath(nil), analysis.CorrelatedPaths...)
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].CorrelationScore > edges[j].CorrelationScore
	})
	if l := request.GetInt("limit", 0); l > 0 && len(edges) > l {
		edges = edges[:l]
	}

	result := schema.BlastRadiusAnalysis{SourcePath: analysis.SourcePath, CorrelatedPaths: edges}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
