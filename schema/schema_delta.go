package schema

import "time"

// FileChange is one changed file within a delta, with its git status letter
// and numstat line counts. Binary files report zero lines for both counts.
type FileChange struct {
	Path         string
	Status       string
	LinesAdded   int
	LinesDeleted int
}

// CommitGroup is the set of paths touched together in a single commit.
// It feeds co-change correlation.
type CommitGroup struct {
	Hash      string
	Timestamp time.Time
	Paths     []string
}

// GitDelta is the structured change set between the watermark and head,
// produced fresh for each run and discarded afterwards.
type GitDelta struct {
	FromCommit string
	ToCommit   string
	Changes    []FileChange
	Commits    []CommitGroup
}

// IsEmpty reports whether the delta covers no new commits.
func (d *GitDelta) IsEmpty() bool {
	return d.FromCommit == d.ToCommit || len(d.Changes) == 0
}
