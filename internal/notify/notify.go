// Package notify delivers run results to an external webhook control point.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/riskgate/riskgate/internal/contract"
	"github.com/riskgate/riskgate/schema"
)

// requestTimeout bounds a single webhook delivery attempt.
const requestTimeout = 10 * time.Second

// payload is the JSON body posted to the control point. The full state
// snapshots are deliberately omitted: the receiver gets the verdict and its
// audit trail, not the whole history.
type payload struct {
	Decision       schema.Decision        `json:"decision"`
	ExitCode       int                    `json:"exitCode"`
	Reasons        []string               `json:"reasons"`
	RankingChanges []schema.RankingChange `json:"rankingChanges"`
	AnalyzedCommit string                 `json:"analyzedCommit"`
	TrackedAreas   int                    `json:"trackedAreas"`
	Timestamp      time.Time              `json:"timestamp"`
}

// WebhookNotifier posts run results to a fixed URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

var _ contract.Notifier = &WebhookNotifier{} // Compile-time check

// NewWebhookNotifier creates a notifier for the given URL.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// Notify implements the Notifier interface.
func (n *WebhookNotifier) Notify(ctx context.Context, result *schema.RiskAnalysisResult) error {
	body, err := json.Marshal(payload{
		Decision:       result.Decision,
		ExitCode:       result.Decision.ExitCode(),
		Reasons:        result.Reasons,
		RankingChanges: result.RankingChanges,
		AnalyzedCommit: result.CurrentState.LastCommitHash,
		TrackedAreas:   len(result.CurrentState.TrackedAreas),
		Timestamp:      result.CurrentState.AnalysisTimestamp,
	})
	if err != nil {
		return fmt.Errorf("encoding webhook payload failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
