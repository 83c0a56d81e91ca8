// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/riskgate/riskgate/schema"
)

// GitClient defines the necessary operations for incremental Git analysis.
// This allows the core pipeline to be tested without needing a real git
// executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Reference Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// ResolveRef resolves a reference (tag, branch, hash) to a full commit
	// hash. A missing reference resolves to "" without error, which the
	// pipeline treats as a first ever run.
	ResolveRef(ctx context.Context, repoPath string, ref string) (string, error)

	// --- Delta Extraction ---

	// GetDelta produces the structured change set between two commits. An
	// empty fromCommit means the full history up to toCommit.
	GetDelta(ctx context.Context, repoPath string, fromCommit, toCommit string) (*schema.GitDelta, error)

	// --- Durability Boundary ---

	// CommitPaths stages the given repo-relative paths and commits them.
	CommitPaths(ctx context.Context, repoPath string, message string, paths ...string) error

	// Push pushes the current branch to its upstream.
	Push(ctx context.Context, repoPath string) error

	// ForceMoveTag points the tag at the given commit, replacing any
	// previous position.
	ForceMoveTag(ctx context.Context, repoPath string, tag string, commit string) error

	// PushTag force-pushes the tag to the origin remote.
	PushTag(ctx context.Context, repoPath string, tag string) error
}

// StateStore defines the persistence boundary for the analysis state
// document.
type StateStore interface {
	// Load reads the state document. A missing or corrupt document yields
	// an empty first-run state together with ErrStateRecovered.
	Load(repoPath string) (*schema.AnalysisState, error)

	// Save rewrites the state document in full.
	Save(repoPath string, state *schema.AnalysisState) error

	// RelPath returns the repo-relative location of the state document.
	RelPath() string
}

// HistoryStore defines the interface for the optional run-history archive.
type HistoryStore interface {
	// BeginRun creates a new run row and returns its unique ID.
	BeginRun(startTime time.Time, fromCommit, toCommit string) (int64, error)

	// EndRun updates the run row with completion data.
	EndRun(runID int64, endTime time.Time, decision schema.Decision, totalAreas, rankedAreas int) error

	// RecordAreaScores stores the per-area scores for a completed run.
	RecordAreaScores(runID int64, analysisTime time.Time, areas []schema.TrackedArea) error

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// GetRuns returns all archived run rows.
	GetRuns() ([]schema.RunRecord, error)

	// GetAreaScores returns all archived area score rows.
	GetAreaScores() ([]schema.AreaScoreRecord, error)

	// Clear deletes all archived rows.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}

// Notifier delivers a run result to an external control point.
type Notifier interface {
	Notify(ctx context.Context, result *schema.RiskAnalysisResult) error
}
