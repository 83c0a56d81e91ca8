package contract

import (
	"testing"

	"github.com/riskgate/riskgate/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a minimally valid raw input for mutation in tests.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:         "text",
		Precision:      2,
		AlertThreshold: 2,
		FailThreshold:  4,
		MinPercentile:  80.0,
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	err := ProcessAndValidate(cfg, validInput())
	require.NoError(t, err)

	assert.Equal(t, schema.DefaultStateFile, cfg.StateFile)
	assert.Equal(t, schema.DefaultWatermarkTag, cfg.WatermarkTag)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultBlastEdges, cfg.BlastEdges)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, DefaultExcludes, cfg.Excludes)
}

func TestProcessAndValidateThresholds(t *testing.T) {
	tests := []struct {
		name        string
		alert, fail int
		expectError bool
	}{
		{name: "valid", alert: 2, fail: 4, expectError: false},
		{name: "equal thresholds", alert: 3, fail: 3, expectError: false},
		{name: "zero fail", alert: 2, fail: 0, expectError: true},
		{name: "zero alert", alert: 0, fail: 4, expectError: true},
		{name: "alert above fail", alert: 5, fail: 4, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.AlertThreshold = tt.alert
			input.FailThreshold = tt.fail

			err := ProcessAndValidate(&Config{}, input)
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidatePercentile(t *testing.T) {
	for _, bad := range []float64{0, -5, 100.5} {
		input := validInput()
		input.MinPercentile = bad
		assert.Error(t, ProcessAndValidate(&Config{}, input), "percentile %v", bad)
	}

	input := validInput()
	input.MinPercentile = 100
	assert.NoError(t, ProcessAndValidate(&Config{}, input))
}

func TestProcessAndValidateOutput(t *testing.T) {
	input := validInput()
	input.Output = "JSON" // case-insensitive
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.JSONOut, cfg.Output)

	input.Output = "yaml"
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestProcessAndValidateExcludes(t *testing.T) {
	input := validInput()
	input.Exclude = "generated/, tmp ,"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Contains(t, cfg.Excludes, "generated/")
	assert.Contains(t, cfg.Excludes, "tmp")
	for _, def := range DefaultExcludes {
		assert.Contains(t, cfg.Excludes, def, "defaults always apply")
	}
}

func TestProcessAndValidateStateFile(t *testing.T) {
	t.Run("absolute path rejected", func(t *testing.T) {
		input := validInput()
		input.StateFile = "/etc/state.json"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("escaping path rejected", func(t *testing.T) {
		input := validInput()
		input.StateFile = "../outside.json"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("relative path accepted", func(t *testing.T) {
		input := validInput()
		input.StateFile = "ci/risk-state.json"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, "ci/risk-state.json", cfg.StateFile)
	})
}

func TestProcessAndValidateWebhook(t *testing.T) {
	input := validInput()
	input.WebhookURL = "https://ci.example.com/hooks/risk"
	require.NoError(t, ProcessAndValidate(&Config{}, input))

	for _, bad := range []string{"not a url", "/relative/only", "example.com/no-scheme"} {
		input := validInput()
		input.WebhookURL = bad
		assert.Error(t, ProcessAndValidate(&Config{}, input), "url %q", bad)
	}
}

func TestProcessAndValidateHistoryBackend(t *testing.T) {
	input := validInput()
	input.HistoryBackend = "PostgreSQL"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.PostgreSQLBackend, cfg.HistoryBackend)

	input.HistoryBackend = "oracle"
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestProcessAndValidateBlastPath(t *testing.T) {
	input := validInput()
	input.BlastPath = ` src\auth\ `
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "src/auth", cfg.BlastPath)
}

func TestParseYesNo(t *testing.T) {
	assert.True(t, parseYesNo("yes", false))
	assert.True(t, parseYesNo("1", false))
	assert.True(t, parseYesNo("ON", false))
	assert.False(t, parseYesNo("no", true))
	assert.False(t, parseYesNo("0", true))
	assert.True(t, parseYesNo("gibberish", true), "fallback wins on unknown input")
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{RepoPath: "/repo", Excludes: []string{"vendor/"}}
	clone := cfg.Clone()

	clone.RepoPath = "/other"
	clone.Excludes[0] = "dist/"

	assert.Equal(t, "/repo", cfg.RepoPath)
	assert.Equal(t, "vendor/", cfg.Excludes[0])
}
