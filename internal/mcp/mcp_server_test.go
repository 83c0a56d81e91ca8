package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/riskgate/riskgate/internal/contract"
	mcp_internal "github.com/riskgate/riskgate/internal/mcp"
	"github.com/riskgate/riskgate/internal/statedoc"
	"github.com/riskgate/riskgate/schema"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// seedState writes a small analysis state into a throwaway repo directory.
func seedState(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()

	state := schema.NewAnalysisState()
	state.LastCommitHash = "abc123"
	state.TrackedAreas = []schema.TrackedArea{
		{Path: "src/auth", RiskScore: 80, Percentile: 100, CurrentRanking: intPtr(1)},
		{Path: "src/session", RiskScore: 40, Percentile: 67, CurrentRanking: intPtr(2)},
		{Path: "src/docs", RiskScore: 1, Percentile: 33},
	}
	state.BlastRadius = []schema.BlastRadiusAnalysis{
		{
			SourcePath: "src/auth",
			CorrelatedPaths: []schema.CorrelatedPath{
				{Path: "src/docs", CooccurrenceCount: 1, CorrelationScore: 0.2},
				{Path: "src/session", CooccurrenceCount: 3, CorrelationScore: 0.6},
			},
		},
	}

	store := statedoc.NewStore(schema.DefaultStateFile)
	require.NoError(t, store.Save(repoPath, state))
	return repoPath
}

func callTool(t *testing.T, baseCfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseCfg)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func baseConfig(repoPath string) *contract.Config {
	return &contract.Config{RepoPath: repoPath, StateFile: schema.DefaultStateFile}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	cfg := baseConfig(t.TempDir())

	t.Run("get_blast_radius missing path", func(t *testing.T) {
		res := callTool(t, cfg, "get_blast_radius", map[string]any{"path": ""})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "path is required")
	})

	t.Run("get_risk_report without a saved state", func(t *testing.T) {
		res := callTool(t, cfg, "get_risk_report", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no analysis state found")
	})

	t.Run("get_blast_radius unknown area", func(t *testing.T) {
		cfg := baseConfig(seedState(t))
		res := callTool(t, cfg, "get_blast_radius", map[string]any{"path": "src/missing"})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no co-change data recorded")
	})
}

func TestMCPServerGetRiskReport(t *testing.T) {
	cfg := baseConfig(seedState(t))

	res := callTool(t, cfg, "get_risk_report", map[string]any{"limit": 1.0})
	require.False(t, res.IsError)

	var report struct {
		AnalyzedCommit string               `json:"analyzedCommit"`
		TrackedAreas   int                  `json:"trackedAreas"`
		RankedAreas    []schema.TrackedArea `json:"rankedAreas"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &report))

	assert.Equal(t, "abc123", report.AnalyzedCommit)
	assert.Equal(t, 3, report.TrackedAreas)
	require.Len(t, report.RankedAreas, 1, "limit should trim the ranked list")
	assert.Equal(t, "src/auth", report.RankedAreas[0].Path)
}

func TestMCPServerGetBlastRadius(t *testing.T) {
	cfg := baseConfig(seedState(t))

	res := callTool(t, cfg, "get_blast_radius", map[string]any{"path": "src/auth"})
	require.False(t, res.IsError)

	var analysis schema.BlastRadiusAnalysis
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &analysis))

	assert.Equal(t, "src/auth", analysis.SourcePath)
	require.Len(t, analysis.CorrelatedPaths, 2)
	assert.Equal(t, "src/session", analysis.CorrelatedPaths[0].Path, "edges should come back strongest first")
	assert.Equal(t, "src/docs", analysis.CorrelatedPaths[1].Path)
}

func TestMCPServerRepoPathOverride(t *testing.T) {
	// The server's configured repo has no state; the request points at one
	// that does.
	cfg := baseConfig(t.TempDir())
	seeded := seedState(t)

	res := callTool(t, cfg, "get_risk_report", map[string]any{"repo_path": seeded})
	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "abc123")
}
