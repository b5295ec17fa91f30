// Package main provides a performance benchmarking tool for the vmfs CLI.
// It measures execution times across catalogue sizes and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - vmfs binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic catalogues are generated (default: a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Catalog     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Sizes       []int             // Synthetic catalogue sizes; 0 is the embedded catalogue
	Commands    map[string]string // Command name to extra arguments
}

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := ""
	if len(os.Args) == 2 {
		workDir = os.Args[1]
	} else {
		dir, err := os.MkdirTemp("", "vmfs-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	}

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Sizes:       []int{0, 100, 1000, 10000},
		Commands: map[string]string{
			"rank":    "--limit 25",
			"compare": "m0 m1 m2 m3",
			"summary": "",
		},
	}

	if _, err := exec.LookPath("vmfs"); err != nil {
		fmt.Printf("Prerequisites check failed: vmfs binary not found in PATH\n")
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("vmfs", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
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

	printSummary(results, config)
}

// syntheticMechanism mirrors the JSON catalogue layout for generated entries.
type syntheticMechanism struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Scores map[string]float64 `json:"scores"`
}

// writeSyntheticCatalog generates a JSON catalogue with n random mechanisms.
func writeSyntheticCatalog(dir string, n int) (string, error) {
	rng := rand.New(rand.NewPCG(uint64(n), 42))
	score := func() float64 {
		return float64(10+rng.IntN(41)) / 10 // 1.0 to 5.0 in tenths
	}
	mechanisms := make([]syntheticMechanism, n)
	for i := range mechanisms {
		mechanisms[i] = syntheticMechanism{
			ID:   fmt.Sprintf("m%d", i),
			Name: fmt.Sprintf("Mechanism %d", i),
			Scores: map[string]float64{
				"tf":  score(),
				"pt":  score(),
				"si":  score(),
				"gsa": score(),
			},
		}
	}
	data, err := json.Marshal(map[string]any{"mechanisms": mechanisms})
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("catalog_%d.json", n))
	return path, os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes all benchmark tests across configured catalogues
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d catalogues, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, size := range config.Sizes {
		name, catalogArgs := "embedded", []string(nil)
		if size > 0 {
			path, err := writeSyntheticCatalog(config.WorkDir, size)
			if err != nil {
				return nil, fmt.Errorf("failed to write catalogue of %d: %w", size, err)
			}
			name, catalogArgs = fmt.Sprintf("synthetic-%d", size), []string{"--catalog", path}
		}
		fmt.Printf("Benchmarking %s\n", name)

		for _, command := range []string{"rank", "compare", "summary"} {
			extra := splitArgs(config.Commands[command])
			if command == "compare" && size == 0 {
				extra = []string{"hem", "chip_registry", "compute_accounting", "whistleblower"}
			}
			args := append(append([]string{command}, extra...), catalogArgs...)
			results = append(results, runBenchmarkSuite(config, name, command, args))
		}
	}

	return results, nil
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, catalogName, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, catalogName)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Catalog:     catalogName,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a vmfs command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args = append(append([]string{}, args...), "--cache-backend", cacheBackend, "--output", "json")

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "vmfs", args...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// splitArgs splits a space-separated argument string.
func splitArgs(argsStr string) []string {
	var args []string
	start := -1
	for i, r := range argsStr {
		if r == ' ' {
			if start >= 0 {
				args = append(args, argsStr[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		args = append(args, argsStr[start:])
	}
	return args
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("vmfs_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"catalog", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Catalog, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"rank", "compare", "summary"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-16s: No-cache: %s, Cold: %s, Warm: %s\n", result.Catalog, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Catalogues generated in %s\n", config.WorkDir)
}
