package core

import (
	"fmt"
	"sort"

	"github.com/riskgate/riskgate/schema"
)

// DecisionPolicy holds the thresholds the decision engine evaluates ranking
// movement against.
type DecisionPolicy struct {
	AlertThreshold    int  // Positions gained toward rank 1 before alerting
	FailThreshold     int  // Positions gained toward rank 1 before failing
	AlertOnNewEntries bool // Whether a new entrant to the ranked set alerts
}

// MakeDecision compares the previous and current ranking snapshots and
// classifies the run. It is a pure function: identical inputs always yield
// the identical decision and reason order, and it never fails.
//
// Movement is previousRank minus currentRank, so positive movement means the
// area became relatively riskier. A Fail is final: later findings in the same
// run cannot downgrade it.
func MakeDecision(previous, current map[string]int, policy DecisionPolicy) (schema.Decision, []string, []schema.RankingChange) {
	type entry struct {
		path string
		rank int
	}
	entries := make([]entry, 0, len(current))
	for path, rank := range current {
		entries = append(entries, entry{path: path, rank: rank})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].rank != entries[j].rank {
			return entries[i].rank < entries[j].rank
		}
		return entries[i].path < entries[j].path
	})

	decision := schema.PassDecision
	var reasons []string
	var changes []schema.RankingChange

	for _, e := range entries {
		currentRank := e.rank
		previousRank, hadPrevious := previous[e.path]

		if !hadPrevious {
			rank := currentRank
			changes = append(changes, schema.RankingChange{
				Path:           e.path,
				CurrentRanking: &rank,
				Type:           schema.NewEntryChange,
			})
			if policy.AlertOnNewEntries {
				if decision != schema.FailDecision {
					decision = schema.AlertDecision
				}
				reasons = append(reasons, fmt.Sprintf("new ranked area %s entered at #%d", e.path, currentRank))
			} else {
				reasons = append(reasons, fmt.Sprintf("new ranked area %s entered at #%d (informational)", e.path, currentRank))
			}
			continue
		}

		movement := previousRank - currentRank
		if movement <= 0 {
			continue
		}

		prev, curr := previousRank, currentRank
		changes = append(changes, schema.RankingChange{
			Path:            e.path,
			PreviousRanking: &prev,
			CurrentRanking:  &curr,
			Type:            schema.MovedUpChange,
		})

		switch {
		case movement >= policy.FailThreshold:
			decision = schema.FailDecision
			reasons = append(reasons, fmt.Sprintf("critical ranking shift: %s moved from #%d to #%d (+%d positions)", e.path, previousRank, currentRank, movement))
		case movement >= policy.AlertThreshold:
			if decision != schema.FailDecision {
				decision = schema.AlertDecision
			}
			reasons = append(reasons, fmt.Sprintf("ranking shift: %s moved from #%d to #%d (+%d positions)", e.path, previousRank, currentRank, movement))
		default:
			reasons = append(reasons, fmt.Sprintf("minor ranking shift: %s moved from #%d to #%d (+%d positions)", e.path, previousRank, currentRank, movement))
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "no significant ranking changes detected")
	}

	return decision, reasons, changes
}
