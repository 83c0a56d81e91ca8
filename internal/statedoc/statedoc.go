// Package statedoc persists the analysis state document at a fixed
// repository-relative location, rewritten in full after each run.
package statedoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/schema"
)

// ErrStateRecovered signals that the document was missing or unreadable and
// an empty first-run state was returned instead. Callers warn and continue;
// this is never fatal.
var ErrStateRecovered = errors.New("state document missing or corrupt, starting from an empty state")

// Store reads and writes the JSON state document.
type Store struct {
	relPath string
}

var _ contract.StateStore = &Store{} // Compile-time check

// NewStore creates a store bound to a repo-relative document path.
func NewStore(relPath string) *Store {
	return &Store{relPath: relPath}
}

// RelPath implements the StateStore interface.
func (s *Store) RelPath() string {
	return s.relPath
}

// Load implements the StateStore interface. A missing or corrupt document
// yields an empty state together with ErrStateRecovered so the run proceeds
// with first-run semantics.
func (s *Store) Load(repoPath string) (*schema.AnalysisState, error) {
	data, err := os.ReadFile(filepath.Join(repoPath, s.relPath))
	if err != nil {
		return schema.NewAnalysisState(), ErrStateRecovered
	}
	state := schema.NewAnalysisState()
	if err := json.Unmarshal(data, state); err != nil {
		return schema.NewAnalysisState(), ErrStateRecovered
	}
	return state, nil
}

// Save implements the StateStore interface. The document is written to a
// temporary file and renamed so a crash mid-write cannot leave a truncated
// document behind. Write failure is fatal to the run: results cannot be
// trusted without durable state.
func (s *Store) Save(repoPath string, state *schema.AnalysisState) error {
	fullPath := filepath.Join(repoPath, s.relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("creating state directory failed: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state document failed: %w", err)
	}
	data = append(data, '\n')

	tmpPath := fullPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing state document failed: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		return fmt.Errorf("replacing state document failed: %w", err)
	}
	return nil
}
