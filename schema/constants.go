package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Scoring constants. The recency decay and minimum active window are part of
// the risk formula, not user configuration.
const (
	// RecencyDecayK is the exponential decay constant applied per idle day.
	RecencyDecayK = 0.1

	// MinActiveDays floors daysSinceFirstCommit so frequency stays finite
	// for areas first seen moments ago.
	MinActiveDays = 1.0
)

// Default policy values.
const (
	DefaultAlertThreshold = 2    // Rank positions gained before alerting
	DefaultFailThreshold  = 4    // Rank positions gained before failing
	DefaultMinPercentile  = 80.0 // Areas below this percentile are unranked
)

// Fixed repository-relative locations.
const (
	DefaultStateFile    = ".riskgate/state.json"
	DefaultWatermarkTag = "riskgate/watermark"
)
