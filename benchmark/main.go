// Package main provides a performance benchmarking tool for the GreenScore CLI.
// It generates synthetic evaluator outputs, times batch leaderboard runs across
// dataset sizes and history backends, running each test multiple times, treating
// the first successful run as cold and averaging the rest as warm, and writes the
// results as CSV.
//
// Prerequisites:
// - greenscore binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic scores files are generated
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// metricCodes are the default catalog metrics scored in synthetic files.
var metricCodes = []string{
	"E1", "E2", "E3", "E4", "E5",
	"S1", "S2", "S3", "S4", "S5",
	"G1", "G2", "G3", "G4",
}

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Files    int
	Workers  int
	History  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Runs        int
	DatasetSize []int
	Workers     []int
	Histories   []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		Runs:        4,
		DatasetSize: []int{10, 100, 1000},
		Workers:     []int{1, 8},
		Histories:   []string{"none", "sqlite"},
	}

	if _, err := exec.LookPath("greenscore"); err != nil {
		fmt.Printf("Prerequisites check failed: greenscore binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}
	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// generateDataset writes n synthetic evaluator outputs and returns their paths.
func generateDataset(dir string, n int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(uint64(n), 42))
	paths := make([]string, 0, n)
	for i := range n {
		scores := make(map[string]float64, len(metricCodes))
		for _, code := range metricCodes {
			// Leave some metrics without evidence so gating paths are exercised.
			if rng.IntN(10) == 0 {
				continue
			}
			scores[code] = float64(rng.IntN(101))
		}
		data, err := json.Marshal(map[string]any{"scores": scores, "insights": map[string]string{}, "flags": []string{}})
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, fmt.Sprintf("company_%04d.json", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// runBenchmarks executes all benchmark tests across dataset sizes, workers and backends.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: sizes %v, workers %v, histories %v, %d runs, %v timeout\n",
		config.DatasetSize, config.Workers, config.Histories, config.Runs, config.Timeout)

	for _, size := range config.DatasetSize {
		files, err := generateDataset(filepath.Join(config.WorkDir, strconv.Itoa(size)), size)
		if err != nil {
			return nil, fmt.Errorf("failed to generate dataset of %d files: %w", size, err)
		}
		for _, workers := range config.Workers {
			for _, history := range config.Histories {
				results = append(results, runBenchmarkSuite(config, files, workers, history))
			}
		}
	}
	return results, nil
}

// runBenchmarkSuite times one configuration and summarizes cold and warm runs.
func runBenchmarkSuite(config BenchmarkConfig, files []string, workers int, history string) BenchmarkResult {
	fmt.Printf("Running %d files with %d workers (history: %s)\n", len(files), workers, history)

	historyDB := filepath.Join(config.WorkDir, "history.db")
	_ = os.Remove(historyDB)

	args := append([]string{
		"evaluate",
		"--workers", strconv.Itoa(workers),
		"--limit", "0",
		"--cache-backend", "none",
		"--history-backend", history,
	}, files...)
	if history == "sqlite" {
		args = append(args, "--history-db-connect", historyDB)
	}

	times := runBenchmark(config, args)
	result := BenchmarkResult{
		Files:    len(files),
		Workers:  workers,
		History:  history,
		ColdTime: "TIMEOUT",
		WarmTime: "TIMEOUT",
	}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

// runBenchmark executes the command multiple times and returns the successful durations.
func runBenchmark(config BenchmarkConfig, args []string) []float64 {
	var times []float64
	for range config.Runs {
		start := time.Now()

		cmd := exec.Command("greenscore", args...)
		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}
	return times
}

// isSuccess checks if command output indicates a completed leaderboard
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Scored in") && strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/greenscore_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"files", "workers", "history", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		rec := []string{strconv.Itoa(r.Files), strconv.Itoa(r.Workers), r.History, r.ColdTime, r.WarmTime}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %5d files, %2d workers, history %-6s: Cold: %s, Warm: %s\n",
			r.Files, r.Workers, r.History, r.ColdTime, r.WarmTime)
	}
}
