package results_test

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mverdi/loadburst/internal/results"
)

func consume(a *results.Aggregator, events ...results.Event) {
	ch := make(chan results.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	a.Consume(ch)
}

func row(unit, status int, isErr bool, snippet string) results.Row {
	return results.Row{
		Timestamp:  time.Now(),
		UnitID:     unit,
		StatusCode: status,
		TimeMs:     5,
		Snippet:    snippet,
		Error:      isErr,
	}
}

// TestAggregatorCounters ensures sent and error totals track every row,
// independent of buffer eviction.
func TestAggregatorCounters(t *testing.T) {
	a := results.NewAggregator(results.AggregatorOptions{BufferSize: 2})

	consume(a,
		row(0, 200, false, "ok"),
		row(0, 404, true, "missing"),
		row(1, 0, true, "connection refused"),
		row(1, 200, false, "ok"),
		results.Done{UnitID: 0, Sent: 2},
		results.Done{UnitID: 1, Sent: 2},
	)

	snap := a.Snapshot()
	if snap.Summary.Sent != 4 || snap.Summary.Errors != 2 {
		t.Fatalf("summary %+v, want 4 sent / 2 errors", snap.Summary)
	}
	// Buffer holds two rows while the counters remember all four.
	if len(snap.Rows) != 2 {
		t.Fatalf("expected 2 buffered rows, got %d", len(snap.Rows))
	}
	if snap.UnitsDone != 2 {
		t.Fatalf("expected 2 units done, got %d", snap.UnitsDone)
	}
	if snap.StatusCounts[200] != 2 || snap.StatusCounts[404] != 1 || snap.StatusCounts[0] != 1 {
		t.Fatalf("unexpected status counts %v", snap.StatusCounts)
	}
}

// TestSnapshotMostRecentFirst ensures the buffer evicts the oldest rows and
// reports newest first.
func TestSnapshotMostRecentFirst(t *testing.T) {
	a := results.NewAggregator(results.AggregatorOptions{BufferSize: 3})

	events := make([]results.Event, 0, 5)
	for i := 1; i <= 5; i++ {
		events = append(events, row(0, 200, false, fmt.Sprintf("body %d", i)))
	}
	consume(a, events...)

	snap := a.Snapshot()
	got := make([]string, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		got = append(got, r.Snippet)
	}
	want := "body 5,body 4,body 3"
	if strings.Join(got, ",") != want {
		t.Fatalf("snapshot order %v, want %s", got, want)
	}
}

// TestCapacityTrip ensures the cap fires exactly once and later rows are
// dropped.
func TestCapacityTrip(t *testing.T) {
	var trips int64
	a := results.NewAggregator(results.AggregatorOptions{
		BufferSize: 10,
		MaxTotal:   3,
		OnCapacity: func() { atomic.AddInt64(&trips, 1) },
	})

	events := make([]results.Event, 0, 6)
	for i := 0; i < 6; i++ {
		events = append(events, row(0, 200, false, "ok"))
	}
	consume(a, events...)

	if got := atomic.LoadInt64(&trips); got != 1 {
		t.Fatalf("capacity callback fired %d times, want 1", got)
	}
	snap := a.Snapshot()
	if !snap.Capped {
		t.Fatal("snapshot not marked capped")
	}
	if snap.Summary.Sent != 3 {
		t.Fatalf("sent counter moved past the cap: %d", snap.Summary.Sent)
	}
	if len(snap.Rows) != 3 {
		t.Fatalf("rows buffered past the cap: %d", len(snap.Rows))
	}
}

// TestSnapshotIsACopy ensures mutating a snapshot does not reach back into
// the aggregator.
func TestSnapshotIsACopy(t *testing.T) {
	a := results.NewAggregator(results.AggregatorOptions{BufferSize: 4})
	consume(a, row(0, 200, false, "ok"))

	snap := a.Snapshot()
	snap.Rows[0].Snippet = "mutated"
	snap.StatusCounts[500] = 99

	again := a.Snapshot()
	if again.Rows[0].Snippet != "ok" {
		t.Fatalf("snapshot row aliased internal storage: %q", again.Rows[0].Snippet)
	}
	if _, ok := again.StatusCounts[500]; ok {
		t.Fatal("snapshot status map aliased internal storage")
	}
}

// TestTruncate caps snippets at the limit without splitting runes.
func TestTruncate(t *testing.T) {
	if got := results.Truncate("short"); got != "short" {
		t.Fatalf("short string changed: %q", got)
	}

	long := strings.Repeat("a", results.SnippetMax+50)
	if got := results.Truncate(long); len(got) != results.SnippetMax {
		t.Fatalf("truncated length %d, want %d", len(got), results.SnippetMax)
	}

	// Multi-byte runes count as one character each.
	wide := strings.Repeat("é", results.SnippetMax+10)
	got := results.Truncate(wide)
	if runeLen := len([]rune(got)); runeLen != results.SnippetMax {
		t.Fatalf("truncated rune length %d, want %d", runeLen, results.SnippetMax)
	}
	if !strings.HasSuffix(got, "é") {
		t.Fatal("truncation split a rune")
	}
}
