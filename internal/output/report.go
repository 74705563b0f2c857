// Package output renders run progress and the final report.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mverdi/loadburst/internal/engine"
	"github.com/mverdi/loadburst/internal/results"
)

// Report is the final, flattened view of one run.
type Report struct {
	RunID        string        `json:"run_id"`
	Target       string        `json:"target"`
	Sent         int64         `json:"sent"`
	Errors       int64         `json:"errors"`
	Duration     time.Duration `json:"-"`
	DurationMs   float64       `json:"duration_ms"`
	RealizedRPS  float64       `json:"requests_per_sec"`
	Concurrency  int           `json:"concurrency"`
	PerUnitRPS   int           `json:"per_unit_rps"`
	EstimatedRPS int           `json:"estimated_rps"`
	TargetRPS    int           `json:"target_rps"`
	UnitsDone    int           `json:"units_done"`
	Capped       bool          `json:"capped"`
	StatusCounts map[int]int64 `json:"status_counts,omitempty"`
}

// BuildReport flattens a run's plan and snapshot into a Report.
func BuildReport(runID string, plan engine.Plan, snap results.Snapshot, elapsed time.Duration) Report {
	r := Report{
		RunID:        runID,
		Target:       plan.Config.TargetURL,
		Sent:         snap.Summary.Sent,
		Errors:       snap.Summary.Errors,
		Duration:     elapsed,
		DurationMs:   float64(elapsed) / float64(time.Millisecond),
		Concurrency:  plan.Config.Concurrency,
		PerUnitRPS:   plan.PerUnitRPS,
		EstimatedRPS: plan.EstimatedRPS,
		TargetRPS:    plan.Config.TargetRPS,
		UnitsDone:    snap.UnitsDone,
		Capped:       snap.Capped,
		StatusCounts: snap.StatusCounts,
	}
	if elapsed > 0 && snap.Summary.Sent > 0 {
		r.RealizedRPS = float64(snap.Summary.Sent) / elapsed.Seconds()
	}
	return r
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, r Report) {
	fmt.Fprintln(w, "\n--- Burst Results ---")
	fmt.Fprintf(w, "Run ID:            %s\n", r.RunID)
	fmt.Fprintf(w, "Target:            %s\n", r.Target)
	fmt.Fprintf(w, "Sent:              %d\n", r.Sent)
	fmt.Fprintf(w, "Errors:            %d\n", r.Errors)
	fmt.Fprintf(w, "Duration:          %s\n", r.Duration)
	fmt.Fprintf(w, "Requests/sec:      %.2f realized\n", r.RealizedRPS)
	fmt.Fprintf(w, "                   %d estimated (%d/unit x %d units, %d requested)\n",
		r.EstimatedRPS, r.PerUnitRPS, r.Concurrency, r.TargetRPS)
	if r.Capped {
		fmt.Fprintln(w, "Stopped early:     absolute request cap reached")
	}
	if len(r.StatusCounts) > 0 {
		fmt.Fprintln(w, "\nStatus Counts:")
		writeStatusCounts(w, r.StatusCounts, "  ")
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeStatusCounts(w io.Writer, counts map[int]int64, indent string) {
	codes := make([]int, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		label := fmt.Sprintf("HTTP %d", code)
		if code == 0 {
			label = "no response"
		}
		fmt.Fprintf(w, "%s%s: %d\n", indent, label, counts[code])
	}
}
