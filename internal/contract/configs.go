package contract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/riskgate/riskgate/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 2
	MaxPrecision        = 4
	DefaultBlastEdges   = 10
	DefaultStateBranch  = "" // empty = current branch
	CommitMessagePrefix = "riskgate: update analysis state"
)

// Default exclusion prefixes applied before any user-provided ones.
var DefaultExcludes = []string{
	"vendor/",
	"node_modules/",
	"dist/",
	"build/",
	"target/",
}

// Config holds the validated, immutable runtime configuration. It is built
// once by ProcessAndValidate and handed to each component at construction;
// nothing reads the environment after that point.
type Config struct {
	RepoPath     string // Absolute path to the Git repository root
	StateFile    string // Repo-relative path of the state document
	WatermarkTag string // Movable tag naming the last analyzed commit

	Excludes []string // Area path prefixes to ignore

	AlertThreshold    int     // Rank movement that raises an Alert
	FailThreshold     int     // Rank movement that raises a Fail
	AlertOnNewEntries bool    // Alert when an area enters the ranked set
	MinPercentile     float64 // Areas below this percentile are unranked

	NoPush     bool   // Persist locally but skip commit/push/tag
	WebhookURL string // Optional control-point notification target

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	BlastPath  string // Source area for the blast command
	BlastEdges int    // Max correlated areas to show per source
}

// Clone returns a deep copy of the configuration so callers can tweak
// per-request settings without mutating the shared base.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Excludes = append([]string(nil), c.Excludes...)
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	StateFile    string `mapstructure:"state-file"`
	WatermarkTag string `mapstructure:"watermark-tag"`
	Exclude      string `mapstructure:"exclude"`
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Precision    int    `mapstructure:"precision"`
	Width        int    `mapstructure:"width"`
	Color        string `mapstructure:"color"`

	// --- Fields from runCmd.Flags() ---
	AlertThreshold    int     `mapstructure:"alert-threshold"`
	FailThreshold     int     `mapstructure:"fail-threshold"`
	AlertOnNewEntries bool    `mapstructure:"alert-on-new-entries"`
	MinPercentile     float64 `mapstructure:"min-percentile"`
	NoPush            bool    `mapstructure:"no-push"`
	WebhookURL        string  `mapstructure:"webhook-url"`
	HistoryBackend    string  `mapstructure:"history-backend"`
	HistoryDBConnect  string  `mapstructure:"history-db-connect"`

	// --- Fields from blastCmd.Flags() ---
	BlastPath  string `mapstructure:"path"`
	BlastEdges int    `mapstructure:"edges"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and fills in the final Config struct. RepoPath is resolved separately by
// the command setup, via the git client, so every later git invocation runs
// against a consistent repository root.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. Thresholds ---
	if input.FailThreshold <= 0 {
		return fmt.Errorf("fail-threshold must be greater than 0 (received %d)", input.FailThreshold)
	}
	if input.AlertThreshold <= 0 {
		return fmt.Errorf("alert-threshold must be greater than 0 (received %d)", input.AlertThreshold)
	}
	if input.AlertThreshold > input.FailThreshold {
		return fmt.Errorf("alert-threshold (%d) cannot exceed fail-threshold (%d)", input.AlertThreshold, input.FailThreshold)
	}
	cfg.AlertThreshold = input.AlertThreshold
	cfg.FailThreshold = input.FailThreshold
	cfg.AlertOnNewEntries = input.AlertOnNewEntries

	// --- 2. Percentile ---
	if input.MinPercentile <= 0 || input.MinPercentile > 100 {
		return fmt.Errorf("min-percentile must be in (0, 100] (received %v)", input.MinPercentile)
	}
	cfg.MinPercentile = input.MinPercentile

	// --- 3. Output ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format %q. must be text, csv or json", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision
	cfg.Width = input.Width
	cfg.UseColors = parseYesNo(input.Color, true)

	// --- 4. Excludes ---
	cfg.Excludes = append([]string{}, DefaultExcludes...)
	for part := range strings.SplitSeq(input.Exclude, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cfg.Excludes = append(cfg.Excludes, trimmed)
		}
	}

	// --- 5. State location and watermark ---
	cfg.StateFile = input.StateFile
	if cfg.StateFile == "" {
		cfg.StateFile = schema.DefaultStateFile
	}
	if strings.HasPrefix(cfg.StateFile, "/") || strings.HasPrefix(cfg.StateFile, "..") {
		return fmt.Errorf("state-file must be a repository-relative path (received %q)", input.StateFile)
	}
	cfg.WatermarkTag = input.WatermarkTag
	if cfg.WatermarkTag == "" {
		cfg.WatermarkTag = schema.DefaultWatermarkTag
	}
	cfg.NoPush = input.NoPush

	// --- 6. Webhook ---
	if input.WebhookURL != "" {
		u, err := url.Parse(input.WebhookURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid webhook-url %q: must be an absolute http(s) URL", input.WebhookURL)
		}
	}
	cfg.WebhookURL = input.WebhookURL

	// --- 7. History backend ---
	backend := schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend %q. must be sqlite, mysql, postgresql or none", input.HistoryBackend)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect

	// --- 8. Blast flags ---
	cfg.BlastPath = normalizeAreaPath(input.BlastPath)
	cfg.BlastEdges = input.BlastEdges
	if cfg.BlastEdges <= 0 {
		cfg.BlastEdges = DefaultBlastEdges
	}

	return nil
}

// parseYesNo interprets the usual yes/no/true/false/1/0 spellings.
func parseYesNo(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "y", "on":
		return true
	case "no", "false", "0", "n", "off":
		return false
	default:
		return fallback
	}
}

// normalizeAreaPath normalizes a user-provided area path to the forward
// slash, no-trailing-slash form used as the tracked area key.
func normalizeAreaPath(p string) string {
	return strings.TrimSuffix(strings.ReplaceAll(strings.TrimSpace(p), "\\", "/"), "/")
}
