package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/riskgate/riskgate/schema"
)

// Decision label constants.
const (
	PassValue  = "Pass"
	AlertValue = "Alert"
	FailValue  = "Fail"
)

// Color variables for console output.
var (
	FailColor  = color.New(color.FgRed, color.Bold)   // failColor represents a blocked run.
	AlertColor = color.New(color.FgYellow, color.Bold) // alertColor represents caution.
	PassColor  = color.New(color.FgGreen)             // passColor represents a clean run.
)

// GetPlainDecisionLabel returns the plain text label for a decision. This is
// the core logic used for CSV, JSON, and table printing.
func GetPlainDecisionLabel(d schema.Decision) string {
	switch d {
	case schema.FailDecision:
		return FailValue
	case schema.AlertDecision:
		return AlertValue
	default:
		return PassValue
	}
}

// GetColorDecisionLabel returns a colored label for console output (table).
// It uses GetPlainDecisionLabel to determine the string, then applies the
// appropriate color.
func GetColorDecisionLabel(d schema.Decision) string {
	text := GetPlainDecisionLabel(d)
	switch d {
	case schema.FailDecision:
		return FailColor.Sprint(text)
	case schema.AlertDecision:
		return AlertColor.Sprint(text)
	default:
		return PassColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits with the generic failure code.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(schema.ExitError)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s\n", msg)
}

// LogInfo logs an informational message to stderr, keeping stdout clean for
// machine-readable output.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, strings.TrimRight(format, "\n")+"\n", args...)
}
