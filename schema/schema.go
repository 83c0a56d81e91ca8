// Package schema has configs, models and constants for all parts of riskgate.
package schema

import "time"

// AreaMetrics holds the cumulative change counters for a single area.
// Counters only ever grow: they are never reset or decayed across runs.
type AreaMetrics struct {
	TotalCommits       int        `json:"totalCommits"`       // Number of runs that touched the area (one velocity event per run)
	TotalLinesAdded    int        `json:"totalLinesAdded"`    // Lines added across all folded deltas
	TotalLinesDeleted  int        `json:"totalLinesDeleted"`  // Lines deleted across all folded deltas
	TotalFilesChanged  int        `json:"totalFilesChanged"`  // File-change events across all folded deltas
	FirstCommitDateUTC *time.Time `json:"firstCommitDateUtc"` // Set once, on the first run that touches the area
	LastCommitDateUTC  *time.Time `json:"lastCommitDateUtc"`  // Updated on every run that touches the area
}

// TrackedArea is one leaf directory under risk tracking, keyed by its
// normalized repository-relative path.
type TrackedArea struct {
	Path           string      `json:"path"`
	Metrics        AreaMetrics `json:"metrics"`
	RiskScore      float64     `json:"riskScore"`
	Percentile     float64     `json:"percentile"`
	CurrentRanking *int        `json:"currentRanking,omitempty"` // nil when below the minimum percentile
}

// CorrelatedPath is one directed co-change edge leaving a source area.
// CorrelationScore is directional: cooccurrenceCount divided by the source
// area's totalCommits, so A→B and B→A generally differ.
type CorrelatedPath struct {
	Path              string  `json:"path"`
	CooccurrenceCount int     `json:"cooccurrenceCount"`
	CorrelationScore  float64 `json:"correlationScore"`
}

// BlastRadiusAnalysis groups all outgoing co-change edges for one source area.
type BlastRadiusAnalysis struct {
	SourcePath      string           `json:"sourcePath"`
	CorrelatedPaths []CorrelatedPath `json:"correlatedPaths"`
}

// ProcessedRange records a commit range already folded into the metrics.
// It guards against double counting when a run is replayed after a crash
// that happened between metric computation and the watermark push.
type ProcessedRange struct {
	FromCommit string `json:"fromCommit"`
	ToCommit   string `json:"toCommit"`
}

// MaxProcessedRanges bounds the replay guard history kept in the state.
const MaxProcessedRanges = 50

// AnalysisState is the durable cross-run snapshot. It is loaded at the start
// of a run, transformed into a new snapshot, and written back in full.
type AnalysisState struct {
	AnalysisTimestamp time.Time             `json:"analysisTimestamp"`
	LastCommitHash    string                `json:"lastCommitHash"` // The watermark commit
	TrackedAreas      []TrackedArea         `json:"trackedAreas"`
	BlastRadius       []BlastRadiusAnalysis `json:"blastRadius"`
	ProcessedRanges   []ProcessedRange      `json:"processedRanges,omitempty"`
}

// NewAnalysisState returns an empty state for a project's first run.
func NewAnalysisState() *AnalysisState {
	return &AnalysisState{
		TrackedAreas: []TrackedArea{},
		BlastRadius:  []BlastRadiusAnalysis{},
	}
}

// Clone returns a deep copy of the state. Each run transforms a clone so the
// loaded snapshot stays untouched for before/after comparison.
func (s *AnalysisState) Clone() *AnalysisState {
	clone := &AnalysisState{
		AnalysisTimestamp: s.AnalysisTimestamp,
		LastCommitHash:    s.LastCommitHash,
		TrackedAreas:      make([]TrackedArea, len(s.TrackedAreas)),
		BlastRadius:       make([]BlastRadiusAnalysis, len(s.BlastRadius)),
	}
	for i, area := range s.TrackedAreas {
		copied := area
		if area.Metrics.FirstCommitDateUTC != nil {
			t := *area.Metrics.FirstCommitDateUTC
			copied.Metrics.FirstCommitDateUTC = &t
		}
		if area.Metrics.LastCommitDateUTC != nil {
			t := *area.Metrics.LastCommitDateUTC
			copied.Metrics.LastCommitDateUTC = &t
		}
		if area.CurrentRanking != nil {
			r := *area.CurrentRanking
			copied.CurrentRanking = &r
		}
		clone.TrackedAreas[i] = copied
	}
	for i, bra := range s.BlastRadius {
		copied := BlastRadiusAnalysis{
			SourcePath:      bra.SourcePath,
			CorrelatedPaths: make([]CorrelatedPath, len(bra.CorrelatedPaths)),
		}
		copy(copied.CorrelatedPaths, bra.CorrelatedPaths)
		clone.BlastRadius[i] = copied
	}
	if len(s.ProcessedRanges) > 0 {
		clone.ProcessedRanges = make([]ProcessedRange, len(s.ProcessedRanges))
		copy(clone.ProcessedRanges, s.ProcessedRanges)
	}
	return clone
}

// FindArea returns a pointer to the tracked area with the given path, or nil.
func (s *AnalysisState) FindArea(path string) *TrackedArea {
	for i := range s.TrackedAreas {
		if s.TrackedAreas[i].Path == path {
			return &s.TrackedAreas[i]
		}
	}
	return nil
}

// FindBlastRadius returns a pointer to the blast radius entry for the given
// source path, or nil.
func (s *AnalysisState) FindBlastRadius(sourcePath string) *BlastRadiusAnalysis {
	for i := range s.BlastRadius {
		if s.BlastRadius[i].SourcePath == sourcePath {
			return &s.BlastRadius[i]
		}
	}
	return nil
}

// HasProcessedRange reports whether the given commit range was already folded
// into the metrics by a previous run.
func (s *AnalysisState) HasProcessedRange(fromCommit, toCommit string) bool {
	for _, r := range s.ProcessedRanges {
		if r.FromCommit == fromCommit && r.ToCommit == toCommit {
			return true
		}
	}
	return false
}

// RecordProcessedRange appends a folded range, evicting the oldest entries
// beyond MaxProcessedRanges.
func (s *AnalysisState) RecordProcessedRange(fromCommit, toCommit string) {
	s.ProcessedRanges = append(s.ProcessedRanges, ProcessedRange{FromCommit: fromCommit, ToCommit: toCommit})
	if len(s.ProcessedRanges) > MaxProcessedRanges {
		s.ProcessedRanges = s.ProcessedRanges[len(s.ProcessedRanges)-MaxProcessedRanges:]
	}
}

// Rankings returns the path→rank map for all currently ranked areas.
func (s *AnalysisState) Rankings() map[string]int {
	ranks := make(map[string]int)
	for _, area := range s.TrackedAreas {
		if area.CurrentRanking != nil {
			ranks[area.Path] = *area.CurrentRanking
		}
	}
	return ranks
}
