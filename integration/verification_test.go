//go:build integration

// Package integration contains integration tests for riskgate.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateDoc mirrors the persisted state document shape for verification.
type stateDoc struct {
	LastCommitHash string `json:"lastCommitHash"`
	TrackedAreas   []struct {
		Path    string `json:"path"`
		Metrics struct {
			TotalCommits      int `json:"totalCommits"`
			TotalLinesAdded   int `json:"totalLinesAdded"`
			TotalFilesChanged int `json:"totalFilesChanged"`
		} `json:"metrics"`
		RiskScore float64 `json:"riskScore"`
	} `json:"trackedAreas"`
	BlastRadius []struct {
		SourcePath      string `json:"sourcePath"`
		CorrelatedPaths []struct {
			Path              string  `json:"path"`
			CooccurrenceCount int     `json:"cooccurrenceCount"`
			CorrelationScore  float64 `json:"correlationScore"`
		} `json:"correlatedPaths"`
	} `json:"blastRadius"`
}

// TestRunVerification builds the binary, runs it against a synthetic repo,
// and cross-checks the persisted state against git itself.
func TestRunVerification(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	binDir := t.TempDir()
	riskgatePath := filepath.Join(binDir, "riskgate")
	buildCmd := exec.Command("go", "build", "-o", riskgatePath, ".")
	buildCmd.Dir = ".." // Project root
	out, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", out)

	repoDir := t.TempDir()
	mustGit := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", repoDir}, args...)...)
		gitOut, gitErr := cmd.CombinedOutput()
		require.NoError(t, gitErr, "git %v: %s", args, gitOut)
	}
	write := func(rel, content string) {
		full := filepath.Join(repoDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	mustGit("init")
	mustGit("config", "user.email", "ci@example.com")
	mustGit("config", "user.name", "ci")

	// Commit 1: auth and session change together.
	write("src/auth/login.go", "package auth\n\nfunc Login() {}\n")
	write("src/session/store.go", "package session\n\nfunc Open() {}\n")
	mustGit("add", ".")
	mustGit("commit", "-m", "auth and session")

	// Commit 2: auth alone.
	write("src/auth/logout.go", "package auth\n\nfunc Logout() {}\n")
	mustGit("add", ".")
	mustGit("commit", "-m", "auth only")

	// Commit 3: vendored code, which must never become an area.
	write("vendor/dep/dep.go", "package dep\n")
	mustGit("add", ".")
	mustGit("commit", "-m", "vendor drop")

	runCmd := exec.Command(riskgatePath, "run", "--no-push", repoDir)
	runOut, runErr := runCmd.CombinedOutput()
	if runErr != nil {
		ee, ok := runErr.(*exec.ExitError)
		require.True(t, ok, "run failed: %s", runOut)
		require.LessOrEqual(t, ee.ExitCode(), 2, "run errored: %s", runOut)
	}

	raw, err := os.ReadFile(filepath.Join(repoDir, ".riskgate", "state.json"))
	require.NoError(t, err)

	var state stateDoc
	require.NoError(t, json.Unmarshal(raw, &state))

	head := exec.Command("git", "-C", repoDir, "rev-parse", "HEAD")
	headOut, err := head.Output()
	require.NoError(t, err)
	assert.Equal(t, string(headOut[:40]), state.LastCommitHash)

	// One run folds each touched area once, so each area has one run-commit.
	byPath := map[string]int{}
	linesAdded := map[string]int{}
	scores := map[string]float64{}
	for _, area := range state.TrackedAreas {
		byPath[area.Path] = area.Metrics.TotalCommits
		linesAdded[area.Path] = area.Metrics.TotalLinesAdded
		scores[area.Path] = area.RiskScore
	}
	assert.Equal(t, 1, byPath["src/auth"])
	assert.Equal(t, 1, byPath["src/session"])
	assert.NotContains(t, byPath, "vendor/dep")

	// Real numstat output must flow through to churn: two 3-line auth files
	// and one 3-line session file, so scores are non-zero too.
	assert.Equal(t, 6, linesAdded["src/auth"])
	assert.Equal(t, 3, linesAdded["src/session"])
	assert.Greater(t, scores["src/auth"], 0.0, "churn must feed the risk score")
	assert.Greater(t, scores["src/auth"], scores["src/session"])

	// auth and session co-changed in commit 1, so both edges exist.
	var authEdges map[string]int
	for _, blast := range state.BlastRadius {
		if blast.SourcePath == "src/auth" {
			authEdges = map[string]int{}
			for _, edge := range blast.CorrelatedPaths {
				authEdges[edge.Path] = edge.CooccurrenceCount
			}
		}
	}
	require.NotNil(t, authEdges, "src/auth should have a blast radius entry")
	assert.Equal(t, 1, authEdges["src/session"])

	// A second run with no new commits must pass and leave state untouched.
	rerun := exec.Command(riskgatePath, "run", "--no-push", repoDir)
	rerunOut, rerunErr := rerun.CombinedOutput()
	assert.NoError(t, rerunErr, "idle rerun should pass: %s", rerunOut)

	raw2, err := os.ReadFile(filepath.Join(repoDir, ".riskgate", "state.json"))
	require.NoError(t, err)
	assert.Equal(t, raw, raw2, "idle rerun must not rewrite state")
}
