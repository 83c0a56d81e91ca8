// Package main provides a performance benchmarking tool for the riskgate CLI.
// It measures run and report execution times across test repositories of
// different sizes, treating the first run against an empty state as cold
// (full history) and averaging the incremental follow-ups as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - riskgate binary installed and available in PATH
// - Test repositories cloned to the specified base directory
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run.
type BenchmarkResult struct {
	Repository string
	Command    string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase  string
	Timeout   time.Duration
	WarmRuns  int
	TestRepos []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:  os.Args[1],
		Timeout:   5 * time.Minute,
		WarmRuns:  3,
		TestRepos: []string{"csv-parser", "fd", "git"},
	}

	var results []BenchmarkResult
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); err != nil {
			fmt.Printf("Skipping %s: %v\n", repo, err)
			continue
		}

		result, err := benchmarkRepo(config, repo, repoPath)
		if err != nil {
			fmt.Printf("Benchmark failed for %s: %v\n", repo, err)
			continue
		}
		results = append(results, result...)
	}

	if err := writeResultsCSV(results); err != nil {
		fmt.Printf("Failed to write results: %v\n", err)
		os.Exit(1)
	}
}

// benchmarkRepo measures one repository: a cold full-history run, then warm
// incremental runs, then the report command.
func benchmarkRepo(config BenchmarkConfig, repo, repoPath string) ([]BenchmarkResult, error) {
	// Start from a clean slate so the first run folds the full history.
	stateDir := filepath.Join(repoPath, ".riskgate")
	if err := os.RemoveAll(stateDir); err != nil {
		return nil, err
	}

	fmt.Printf("Benchmarking %s (cold run)...\n", repo)
	coldTime, err := timeCommand(config.Timeout, repoPath, "run", "--no-push")
	if err != nil {
		return nil, fmt.Errorf("cold run: %w", err)
	}

	fmt.Printf("Benchmarking %s (%d warm runs)...\n", repo, config.WarmRuns)
	var warmTotal time.Duration
	for range config.WarmRuns {
		warm, err := timeCommand(config.Timeout, repoPath, "run", "--no-push")
		if err != nil {
			return nil, fmt.Errorf("warm run: %w", err)
		}
		warmTotal += warm
	}
	warmAvg := warmTotal / time.Duration(config.WarmRuns)

	reportTime, err := timeCommand(config.Timeout, repoPath, "report")
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	return []BenchmarkResult{
		{Repository: repo, Command: "run", ColdTime: coldTime.String(), WarmTime: warmAvg.String()},
		{Repository: repo, Command: "report", ColdTime: reportTime.String(), WarmTime: reportTime.String()},
	}, nil
}

// timeCommand runs the riskgate binary against a repo and returns elapsed time.
// Gate decisions (exit 1 and 2) count as successful runs.
func timeCommand(timeout time.Duration, repoPath string, args ...string) (time.Duration, error) {
	fullArgs := append(args, repoPath)
	cmd := exec.Command("riskgate", fullArgs...)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && (ee.ExitCode() == 1 || ee.ExitCode() == 2) {
			return elapsed, nil
		}
		return 0, err
	}
	if elapsed > timeout {
		return 0, fmt.Errorf("exceeded timeout of %v", timeout)
	}
	return elapsed, nil
}

// writeResultsCSV writes benchmark results to stdout as CSV.
func writeResultsCSV(results []BenchmarkResult) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"repository", "command", "cold_time", "warm_time"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write([]string{r.Repository, r.Command, r.ColdTime, r.WarmTime}); err != nil {
			return err
		}
	}
	return nil
}
