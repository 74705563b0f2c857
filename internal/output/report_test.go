package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mverdi/loadburst/internal/config"
	"github.com/mverdi/loadburst/internal/engine"
	"github.com/mverdi/loadburst/internal/output"
	"github.com/mverdi/loadburst/internal/results"
)

func sampleReport() output.Report {
	plan := engine.Plan{
		Config: config.Config{
			TargetURL:     "http://localhost:8080/ok",
			Concurrency:   4,
			TotalRequests: 100,
			TargetRPS:     40,
		},
		PerUnitRPS:   10,
		EstimatedRPS: 40,
	}
	snap := results.Snapshot{
		Summary:      results.Summary{Sent: 100, Errors: 7},
		StatusCounts: map[int]int64{200: 93, 503: 5, 0: 2},
		UnitsDone:    4,
	}
	return output.BuildReport("01ARZ3NDEKTSV4RRFFQ69G5FAV", plan, snap, 10*time.Second)
}

// TestBuildReport derives the realized rate from the counters and elapsed
// time.
func TestBuildReport(t *testing.T) {
	r := sampleReport()
	if r.Sent != 100 || r.Errors != 7 {
		t.Fatalf("counters %d/%d", r.Sent, r.Errors)
	}
	if r.RealizedRPS != 10.0 {
		t.Fatalf("realized rps %.2f, want 10", r.RealizedRPS)
	}
	if r.EstimatedRPS != 40 || r.PerUnitRPS != 10 {
		t.Fatalf("planned rates %d/%d", r.EstimatedRPS, r.PerUnitRPS)
	}
}

// TestPrintReport spot-checks the text rendering.
func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	output.PrintReport(&buf, sampleReport())

	out := buf.String()
	for _, want := range []string{
		"Burst Results",
		"Sent:              100",
		"Errors:            7",
		"http://localhost:8080/ok",
		"HTTP 200: 93",
		"no response: 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

// TestPrintJSONReport ensures the JSON form parses and carries the counters.
func TestPrintJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := output.PrintJSONReport(&buf, sampleReport()); err != nil {
		t.Fatalf("print: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["sent"].(float64) != 100 {
		t.Fatalf("sent %v", decoded["sent"])
	}
	if decoded["run_id"] != "01ARZ3NDEKTSV4RRFFQ69G5FAV" {
		t.Fatalf("run_id %v", decoded["run_id"])
	}
	if _, ok := decoded["status_counts"]; !ok {
		t.Fatal("status_counts missing from JSON report")
	}
}
