package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sqlsplit/pkg/parser/lexer"
	"sqlsplit/pkg/parser/splitter"
	"sqlsplit/pkg/window"
)

// BenchmarkResult captures the metrics of one script split repeatedly under
// one window configuration.
type BenchmarkResult struct {
	Script            string        `json:"script"`              // Name of the generated script
	ScriptBytes       int           `json:"script_bytes"`        // Size of the script in bytes
	Window            window.Config `json:"window"`              // Reader configuration used
	Iterations        int           `json:"iterations"`          // Number of times the script was split
	Concurrent        int           `json:"concurrent"`          // Number of splits running at once
	Statements        int           `json:"statements"`          // Statements per split
	TotalDuration     time.Duration `json:"total_duration_ns"`   // Wall time for all iterations
	AvgDuration       time.Duration `json:"avg_duration_ns"`     // Average time per split
	MinDuration       time.Duration `json:"min_duration_ns"`     // Fastest split
	MaxDuration       time.Duration `json:"max_duration_ns"`     // Slowest split
	MedianDuration    time.Duration `json:"median_duration_ns"`  // Median split time
	P95Duration       time.Duration `json:"p95_duration_ns"`     // 95th percentile split time
	StatementsPerSec  float64       `json:"statements_per_sec"`  // Throughput in statements
	MegabytesPerSec   float64       `json:"megabytes_per_sec"`   // Throughput in input bytes
	PeakBuffered      int           `json:"peak_buffered_units"` // Largest window seen, in runes
	Footprint         int           `json:"footprint_units"`     // Window plus refill chunk capacity, in runes
	ErrorCount        int           `json:"error_count"`         // Failed splits
	ErrorSamples      []string      `json:"error_samples"`       // Sample error messages
	Timestamp         time.Time     `json:"timestamp"`           // When this benchmark was executed
}

// BenchmarkReport aggregates all results into a single report.
type BenchmarkReport struct {
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	TotalDuration time.Duration     `json:"total_duration"`
	Results       []BenchmarkResult `json:"results"`
}

// main runs every generated script under every window configuration and
// writes a JSON report.
//
// Environment variables:
//   - BENCHMARK_OUTPUT: Directory for output reports (default: ./benchmark-results)
//   - BENCHMARK_ITERATIONS: Number of splits per benchmark (default: 20)
//   - BENCHMARK_CONCURRENT: Number of concurrent splits (default: 4)
//   - BENCHMARK_SCALE: Repetitions of each script unit (default: 2000)
func main() {
	outputDir := filepath.Clean(os.Getenv("BENCHMARK_OUTPUT"))
	if outputDir == "." {
		outputDir = "./benchmark-results"
	}

	iterations := envInt("BENCHMARK_ITERATIONS", 20)
	concurrent := envInt("BENCHMARK_CONCURRENT", 4)
	scale := envInt("BENCHMARK_SCALE", 2000)

	_ = os.MkdirAll(outputDir, 0o750) // #nosec G703

	log.Printf("Starting benchmark suite...")
	log.Printf("Iterations: %d, Concurrent: %d, Scale: %d", iterations, concurrent, scale)

	report := BenchmarkReport{StartTime: time.Now()}

	windows := []struct {
		name string
		cfg  window.Config
	}{
		{"default", window.DefaultConfig()},
		{"small", window.Config{WindowSize: 4 << 10, LookBehind: 512, ChunkSize: 2 << 10}},
		{"tiny", window.Config{WindowSize: 256, LookBehind: 32, ChunkSize: 128}},
	}

	for _, script := range scripts {
		sql := strings.Repeat(script.unit, scale)
		for _, w := range windows {
			log.Printf("%s", "\n"+strings.Repeat("=", 80))
			log.Printf("TEST: %s / %s window", script.name, w.name)
			log.Printf("%s", strings.Repeat("=", 80))

			for _, conc := range []int{1, concurrent} {
				result := runBenchmark(script.name, sql, w.cfg, iterations, conc)
				report.Results = append(report.Results, result)
				printBenchmarkResult(result)
			}
		}
	}

	report.EndTime = time.Now()
	report.TotalDuration = report.EndTime.Sub(report.StartTime)

	jsonFile := fmt.Sprintf("%s/benchmark_report_%s.json", outputDir, time.Now().Format("20060102_150405"))

	log.Printf("%s", "\n"+strings.Repeat("=", 80))
	log.Printf("BENCHMARK SUITE COMPLETE")
	log.Printf("  Total Duration:     %s", formatDuration(report.TotalDuration))
	log.Printf("  Tests Run:          %d", len(report.Results))

	saveJSONReport(report, jsonFile)
}

var scripts = []struct {
	name string
	unit string
}{
	{
		name: "dml",
		unit: "SELECT id, name FROM users WHERE age > 30 ORDER BY name;\n" +
			"UPDATE users SET age = age + 1 WHERE id IN (SELECT user_id FROM orders);\n" +
			"-- housekeeping\nDELETE FROM sessions WHERE expires < NOW();\n",
	},
	{
		name: "procedures",
		unit: "CREATE OR REPLACE PROCEDURE bump(IN n INT)\nBEGIN\n" +
			"  IF n > 0 THEN\n    UPDATE counters SET v = v + n;\n  END IF;\n" +
			"  WHILE n > 0 DO\n    SET n = n - 1;\n  END WHILE;\n" +
			"  SELECT CASE WHEN n = 0 THEN 'done' ELSE 'left' END;\nEND;\n",
	},
	{
		name: "batches",
		unit: "SELECT 1\nGO\nINSERT INTO audit VALUES (1, 'x;y');\nSELECT 'a''b' AS q\nGO 2\n",
	},
}

// runBenchmark splits sql iterations times, at most concurrent at once, and
// collects timing and memory statistics.
func runBenchmark(name, sql string, cfg window.Config, iterations, concurrent int) BenchmarkResult {
	durations := make([]time.Duration, 0, iterations)
	var mu sync.Mutex

	result := BenchmarkResult{
		Script:      name,
		ScriptBytes: len(sql),
		Window:      cfg,
		Iterations:  iterations,
		Concurrent:  concurrent,
	}

	var g errgroup.Group
	g.SetLimit(concurrent)
	startTime := time.Now()

	for i := 0; i < iterations; i++ {
		g.Go(func() error {
			start := time.Now()
			stats, err := splitOnce(sql, cfg)
			duration := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			durations = append(durations, duration)
			if err != nil {
				result.ErrorCount++
				if len(result.ErrorSamples) < 5 {
					result.ErrorSamples = append(result.ErrorSamples, err.Error())
				}
				return nil
			}
			result.Statements = stats.statements
			result.PeakBuffered = max(result.PeakBuffered, stats.peakBuffered)
			result.Footprint = max(result.Footprint, stats.footprint)
			return nil
		})
	}

	_ = g.Wait()
	result.TotalDuration = time.Since(startTime)
	result.Timestamp = time.Now()

	slices.Sort(durations)

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	result.AvgDuration = sum / time.Duration(len(durations))
	result.MinDuration = durations[0]
	result.MaxDuration = durations[len(durations)-1]
	result.MedianDuration = durations[len(durations)/2]
	result.P95Duration = durations[int(float64(len(durations))*0.95)]

	seconds := result.TotalDuration.Seconds()
	result.StatementsPerSec = float64(result.Statements*iterations) / seconds
	result.MegabytesPerSec = float64(len(sql)*iterations) / seconds / (1 << 20)

	return result
}

type splitStats struct {
	statements   int
	peakBuffered int
	footprint    int
}

func splitOnce(sql string, cfg window.Config) (splitStats, error) {
	var stats splitStats

	r, err := window.NewReader[rune](window.Runes(strings.NewReader(sql)), cfg)
	if err != nil {
		return stats, err
	}
	s := splitter.New(lexer.New(r))

	for {
		_, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.statements++
		stats.peakBuffered = max(stats.peakBuffered, r.Buffered())
	}
	stats.footprint = r.Footprint()
	return stats, nil
}

func envInt(name string, def int) int {
	v := def
	if s := os.Getenv(name); s != "" {
		_, _ = fmt.Sscanf(s, "%d", &v)
	}
	return max(1, v)
}

// formatDuration formats a duration in a human-readable way with appropriate units.
// Examples: 1.23ms, 456.78µs, 12.34s
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

func printBenchmarkResult(result BenchmarkResult) {
	log.Printf("  ┌─ Results (%d concurrent)", result.Concurrent)
	log.Printf("  │  Script Size:       %d bytes, %d statements", result.ScriptBytes, result.Statements)
	log.Printf("  │  Total Time:        %s", formatDuration(result.TotalDuration))
	log.Printf("  │  Avg per Split:     %s", formatDuration(result.AvgDuration))
	log.Printf("  │  Min / Max:         %s / %s", formatDuration(result.MinDuration), formatDuration(result.MaxDuration))
	log.Printf("  │  Median / P95:      %s / %s", formatDuration(result.MedianDuration), formatDuration(result.P95Duration))
	log.Printf("  │  Throughput:        %.0f statements/sec, %.2f MB/s", result.StatementsPerSec, result.MegabytesPerSec)
	log.Printf("  │  Window:            peak %d / footprint %d runes", result.PeakBuffered, result.Footprint)

	if result.ErrorCount > 0 {
		log.Printf("  │  ⚠ %d failures, first: %s", result.ErrorCount, result.ErrorSamples[0])
	}

	log.Printf("  └─")
}

// saveJSONReport serializes the benchmark report to a JSON file.
func saveJSONReport(report BenchmarkReport, filename string) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Printf("Error marshaling report: %v", err)
		return
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil { // #nosec G703
		log.Printf("Error writing JSON report: %v", err)
		return
	}

	log.Printf("JSON report saved: %s", filename) // #nosec G706
}
