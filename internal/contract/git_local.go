package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/riskgate/riskgate/schema"
)

// commitHeaderPrefix marks commit boundary lines in the delta log output.
const commitHeaderPrefix = "--"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveRef implements the GitClient interface. An unknown reference
// resolves to "" so the caller can treat it as a first run.
func (c *LocalGitClient) ResolveRef(ctx context.Context, repoPath string, ref string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

// GetDelta implements the GitClient interface. It walks the commit range
// with a numstat log and folds the output into per-file changes plus
// per-commit co-change groups, then overlays status letters from a second
// name-status walk. Git treats --numstat and --name-status as alternative
// diff formats and emits only one of them per invocation, so the two walks
// cannot be combined. Merge commits are skipped so a merge does not double
// count its branch's changes.
func (c *LocalGitClient) GetDelta(ctx context.Context, repoPath string, fromCommit, toCommit string) (*schema.GitDelta, error) {
	delta := &schema.GitDelta{FromCommit: fromCommit, ToCommit: toCommit}
	if fromCommit == toCommit {
		return delta, nil
	}

	rangeArg := toCommit
	if fromCommit != "" {
		rangeArg = fromCommit + ".." + toCommit
	}
	out, err := c.Run(ctx, repoPath,
		"log",
		"--no-merges",
		"--numstat",
		"--pretty=format:"+commitHeaderPrefix+"%H|%cI",
		rangeArg,
	)
	if err != nil {
		return nil, fmt.Errorf("delta extraction failed for range %s: %w", rangeArg, err)
	}
	parseDeltaLog(string(out), delta)

	statusOut, err := c.Run(ctx, repoPath,
		"log",
		"--no-merges",
		"--name-status",
		"--pretty=format:"+commitHeaderPrefix+"%H|%cI",
		rangeArg,
	)
	if err != nil {
		return nil, fmt.Errorf("status extraction failed for range %s: %w", rangeArg, err)
	}
	applyStatusLog(string(statusOut), delta)

	return delta, nil
}

// parseDeltaLog parses --numstat log output into the delta. Each commit
// contributes one co-change group; line counts accumulate per file across
// commits. Statuses default to "M" until applyStatusLog overlays them.
func parseDeltaLog(out string, delta *schema.GitDelta) {
	files := make(map[string]int)
	var current *schema.CommitGroup

	flush := func() {
		if current != nil && len(current.Paths) > 0 {
			delta.Commits = append(delta.Commits, *current)
		}
		current = nil
	}

	for line := range strings.SplitSeq(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, commitHeaderPrefix) {
			flush()
			parts := strings.SplitN(line[len(commitHeaderPrefix):], "|", 2)
			group := schema.CommitGroup{Hash: parts[0]}
			if len(parts) == 2 {
				if ts, err := time.Parse(time.RFC3339, parts[1]); err == nil {
					group.Timestamp = ts
				}
			}
			current = &group
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		// numstat: added<TAB>deleted<TAB>path (binary files show "-")
		parts := strings.Split(line, "\t")
		if len(parts) < 3 || !isNumstatField(parts[0]) || !isNumstatField(parts[1]) {
			continue
		}
		added, _ := strconv.Atoi(parts[0])
		deleted, _ := strconv.Atoi(parts[1])
		path := numstatPath(parts[2:])
		idx, ok := files[path]
		if !ok {
			delta.Changes = append(delta.Changes, schema.FileChange{Path: path, Status: "M"})
			idx = len(delta.Changes) - 1
			files[path] = idx
		}
		delta.Changes[idx].LinesAdded += added
		delta.Changes[idx].LinesDeleted += deleted
		if current != nil && !containsPath(current.Paths, path) {
			current.Paths = append(current.Paths, path)
		}
	}
	flush()
}

// applyStatusLog overlays status letters from a --name-status log onto
// already-parsed changes. The log is newest-first, so the first letter seen
// for a path is that file's most recent status within the range.
func applyStatusLog(out string, delta *schema.GitDelta) {
	index := make(map[string]int, len(delta.Changes))
	for i, change := range delta.Changes {
		index[change.Path] = i
	}

	seen := make(map[string]bool, len(delta.Changes))
	for line := range strings.SplitSeq(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, commitHeaderPrefix) {
			continue
		}
		// name-status: letter<TAB>path (renames carry two paths)
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		path := parts[len(parts)-1]
		if i, ok := index[path]; ok && !seen[path] {
			delta.Changes[i].Status = string(parts[0][0])
			seen[path] = true
		}
	}
}

// isNumstatField reports whether a field is a numstat count ("12" or "-").
func isNumstatField(s string) bool {
	if s == "-" {
		return true
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// numstatPath reassembles a path that may itself contain tabs, and unwraps
// the rename notation to the new path. Renames appear either as the whole
// path ("old.go => new.go") or braced ("src/{old => new}/mod.go").
func numstatPath(fields []string) string {
	path := strings.Join(fields, "\t")
	if open := strings.Index(path, "{"); open >= 0 {
		rest := path[open:]
		arrow := strings.Index(rest, " => ")
		closing := strings.Index(rest, "}")
		if arrow >= 0 && closing > arrow {
			newPart := rest[arrow+len(" => ") : closing]
			path = path[:open] + newPart + rest[closing+1:]
			return strings.ReplaceAll(path, "//", "/")
		}
	}
	if idx := strings.LastIndex(path, " => "); idx >= 0 {
		path = path[idx+len(" => "):]
	}
	return path
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}

// CommitPaths implements the GitClient interface.
func (c *LocalGitClient) CommitPaths(ctx context.Context, repoPath string, message string, paths ...string) error {
	addArgs := append([]string{"add", "--"}, paths...)
	if _, err := c.Run(ctx, repoPath, addArgs...); err != nil {
		return fmt.Errorf("staging state document failed: %w", err)
	}
	// An unchanged tree is not an error: the run produced the same document.
	staged, err := c.Run(ctx, repoPath, "diff", "--cached", "--name-only")
	if err == nil && strings.TrimSpace(string(staged)) == "" {
		return nil
	}
	if _, err := c.Run(ctx, repoPath, "commit", "-m", message); err != nil {
		return fmt.Errorf("committing state document failed: %w", err)
	}
	return nil
}

// Push implements the GitClient interface.
func (c *LocalGitClient) Push(ctx context.Context, repoPath string) error {
	if _, err := c.Run(ctx, repoPath, "push"); err != nil {
		return fmt.Errorf("pushing state commit failed: %w", err)
	}
	return nil
}

// ForceMoveTag implements the GitClient interface.
func (c *LocalGitClient) ForceMoveTag(ctx context.Context, repoPath string, tag string, commit string) error {
	if _, err := c.Run(ctx, repoPath, "tag", "-f", tag, commit); err != nil {
		return fmt.Errorf("moving watermark tag %s failed: %w", tag, err)
	}
	return nil
}

// PushTag implements the GitClient interface.
func (c *LocalGitClient) PushTag(ctx context.Context, repoPath string, tag string) error {
	if _, err := c.Run(ctx, repoPath, "push", "--force", "origin", "refs/tags/"+tag); err != nil {
		return fmt.Errorf("pushing watermark tag %s failed: %w", tag, err)
	}
	return nil
}
