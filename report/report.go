// Package report formats the orchestrator's run summary. It reports what
// was executed and how long each run took; the device-side CSV is passed
// through untouched.
package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Record describes one completed benchmark run.
type Record struct {
	Name          string `json:"name"`
	SceneSize     int    `json:"scene_size"`
	Scenario      string `json:"scenario"`
	PreparedCache bool   `json:"prepared_cache"`
	DrawCache     bool   `json:"draw_cache"`
	ElapsedMs     int64  `json:"elapsed_ms"`
}

// Generate writes a markdown summary table for the given records.
func Generate(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no runs to report")
	}

	fmt.Fprintln(w, "## Benchmark Runs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| # | Configuration | Scene Size | Scenario | Cache | Wall Time |")
	fmt.Fprintln(w, "|---|---------------|------------|----------|-------|-----------|")

	for i, r := range records {
		fmt.Fprintf(w, "| %d | %s | %d | %s | %s | %s |\n",
			i+1,
			r.Name,
			r.SceneSize,
			r.Scenario,
			cacheLabel(r),
			formatMs(r.ElapsedMs),
		)
	}

	return nil
}

// GenerateJSON writes records as indented JSON to w.
func GenerateJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(records)
}

func cacheLabel(r Record) string {
	switch {
	case r.PreparedCache:
		return "prepared"
	case r.DrawCache:
		return "draw"
	default:
		return "none"
	}
}

func formatMs(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}

	return fmt.Sprintf("%.2fs", float64(ms)/1000)
}
