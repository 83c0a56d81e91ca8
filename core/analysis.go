package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/internal/statedoc"
	"github.com/riskgate/riskgate/schema"
)

// Runner executes the full analysis pipeline for one pipeline invocation:
// extract → aggregate/update → correlate → score/rank → decide → persist.
type Runner struct {
	cfg      *contract.Config
	git      contract.GitClient
	states   contract.StateStore
	history  contract.HistoryStore // optional, nil disables archiving
	notifier contract.Notifier     // optional, nil disables notification

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewRunner wires the pipeline's collaborators together.
func NewRunner(cfg *contract.Config, git contract.GitClient, states contract.StateStore, history contract.HistoryStore, notifier contract.Notifier) *Runner {
	return &Runner{
		cfg:      cfg,
		git:      git,
		states:   states,
		history:  history,
		notifier: notifier,
		now:      time.Now,
	}
}

// Run performs one full analysis run and returns its result. Extraction and
// state-write failures abort the run before or instead of persisting partial
// state; archive and webhook failures only warn.
func (r *Runner) Run(ctx context.Context) (*schema.RiskAnalysisResult, error) {
	start := r.now()

	head, err := r.git.GetRepoHash(ctx, r.cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD failed: %w", err)
	}

	previous, err := r.states.Load(r.cfg.RepoPath)
	if err != nil {
		if !errors.Is(err, statedoc.ErrStateRecovered) {
			return nil, err
		}
		contract.LogWarn("recovering: "+err.Error(), nil)
	}

	fromCommit := previous.LastCommitHash
	if fromCommit == "" {
		// No stored watermark: fall back to the movable tag, then to the
		// full history for a genuine first run.
		fromCommit, err = r.git.ResolveRef(ctx, r.cfg.RepoPath, r.cfg.WatermarkTag)
		if err != nil {
			return nil, fmt.Errorf("resolving watermark tag failed: %w", err)
		}
	}

	delta, err := r.git.GetDelta(ctx, r.cfg.RepoPath, fromCommit, head)
	if err != nil {
		return nil, err
	}

	if delta.IsEmpty() {
		// Nothing to fold: no state mutates and the run always passes.
		return &schema.RiskAnalysisResult{
			PreviousState: previous,
			CurrentState:  previous,
			Decision:      schema.PassDecision,
			Reasons:       []string{"no new commits since watermark"},
		}, nil
	}

	current := previous.Clone()
	if current.HasProcessedRange(fromCommit, head) {
		contract.LogWarn(fmt.Sprintf("range %.12s..%.12s already folded, skipping metric update (replay)", fromCommit, head), nil)
	} else {
		UpdateMetrics(current, delta, r.cfg.Excludes, start)
		UpdateBlastRadius(current, delta)
		current.RecordProcessedRange(fromCommit, head)
	}

	current.AnalysisTimestamp = start.UTC()
	current.LastCommitHash = head
	RescoreAreas(current, r.cfg.MinPercentile, start)

	decision, reasons, changes := MakeDecision(previous.Rankings(), current.Rankings(), DecisionPolicy{
		AlertThreshold:    r.cfg.AlertThreshold,
		FailThreshold:     r.cfg.FailThreshold,
		AlertOnNewEntries: r.cfg.AlertOnNewEntries,
	})

	result := &schema.RiskAnalysisResult{
		PreviousState:  previous,
		CurrentState:   current,
		Decision:       decision,
		Reasons:        reasons,
		RankingChanges: changes,
	}

	if err := r.states.Save(r.cfg.RepoPath, current); err != nil {
		return nil, err
	}

	if !r.cfg.NoPush {
		if err := r.publish(ctx, head); err != nil {
			// The watermark tag was not advanced, so the next run will
			// reprocess this range; the processed-range guard keeps the
			// counters from double counting.
			return nil, err
		}
	}

	r.archive(start, fromCommit, head, result)
	r.notify(ctx, result)

	return result, nil
}

// publish commits and pushes the state document, then advances the watermark
// tag. The tag only moves after the state commit is durably pushed.
func (r *Runner) publish(ctx context.Context, head string) error {
	message := fmt.Sprintf("%s (%.12s)", contract.CommitMessagePrefix, head)
	if err := r.git.CommitPaths(ctx, r.cfg.RepoPath, message, r.states.RelPath()); err != nil {
		return err
	}
	if err := r.git.Push(ctx, r.cfg.RepoPath); err != nil {
		return err
	}
	if err := r.git.ForceMoveTag(ctx, r.cfg.RepoPath, r.cfg.WatermarkTag, head); err != nil {
		return err
	}
	return r.git.PushTag(ctx, r.cfg.RepoPath, r.cfg.WatermarkTag)
}

// archive records the run in the optional history store. Archive problems
// never affect the run outcome.
func (r *Runner) archive(start time.Time, fromCommit, head string, result *schema.RiskAnalysisResult) {
	if r.history == nil {
		return
	}
	runID, err := r.history.BeginRun(start, fromCommit, head)
	if err != nil {
		contract.LogWarn("history archive unavailable", err)
		return
	}
	if err := r.history.RecordAreaScores(runID, start, result.CurrentState.TrackedAreas); err != nil {
		contract.LogWarn("archiving area scores failed", err)
	}
	ranked := len(result.CurrentState.Rankings())
	if err := r.history.EndRun(runID, r.now(), result.Decision, len(result.CurrentState.TrackedAreas), ranked); err != nil {
		contract.LogWarn("finalizing history run failed", err)
	}
}

// notify posts the result to the configured control point, if any.
func (r *Runner) notify(ctx context.Context, result *schema.RiskAnalysisResult) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, result); err != nil {
		contract.LogWarn("webhook notification failed", err)
	}
}
