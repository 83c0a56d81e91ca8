package schema

// Decision is the three-way classification of a run.
type Decision string

// All decisions supported.
const (
	PassDecision  Decision = "pass" // default
	AlertDecision Decision = "alert"
	FailDecision  Decision = "fail"
)

// Process exit codes for each decision, plus a generic failure code for
// unexpected errors.
const (
	ExitPass  = 0
	ExitAlert = 1
	ExitFail  = 2
	ExitError = 3
)

// ExitCode maps a decision to its process exit code.
func (d Decision) ExitCode() int {
	switch d {
	case FailDecision:
		return ExitFail
	case AlertDecision:
		return ExitAlert
	default:
		return ExitPass
	}
}

// RankingChangeType classifies how an area's position moved between runs.
type RankingChangeType string

// All ranking change types supported.
const (
	MovedUpChange  RankingChangeType = "moved_up"  // Closer to rank 1 than last run
	NewEntryChange RankingChangeType = "new_entry" // Ranked now, unranked last run
)

// RankingChange records one area's movement between the previous and current
// ranking snapshots.
type RankingChange struct {
	Path            string            `json:"path"`
	PreviousRanking *int              `json:"previousRanking,omitempty"`
	CurrentRanking  *int              `json:"currentRanking,omitempty"`
	Type            RankingChangeType `json:"type"`
}

// RiskAnalysisResult is the full outcome of one run: both state snapshots,
// the decision, its audit trail, and every observed ranking movement.
type RiskAnalysisResult struct {
	PreviousState  *AnalysisState  `json:"previousState"`
	CurrentState   *AnalysisState  `json:"currentState"`
	Decision       Decision        `json:"decision"`
	Reasons        []string        `json:"reasons"`
	RankingChanges []RankingChange `json:"rankingChanges"`
}
