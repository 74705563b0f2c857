package engine_test

import (
	"testing"
	"time"

	"github.com/mverdi/loadburst/internal/engine"
)

// TestInterval checks the millisecond pacing gap per unit rate.
func TestInterval(t *testing.T) {
	cases := []struct {
		rps  int
		want time.Duration
	}{
		{1, time.Second},
		{2, 500 * time.Millisecond},
		{3, 333 * time.Millisecond},
		{1000, time.Millisecond},
		{2000, time.Millisecond}, // floor
		{0, time.Second},         // normalized up
	}
	for _, tc := range cases {
		if got := engine.Interval(tc.rps); got != tc.want {
			t.Fatalf("Interval(%d) = %s, want %s", tc.rps, got, tc.want)
		}
	}
}

// TestNextWait ensures slow requests never accumulate catch-up debt.
func TestNextWait(t *testing.T) {
	interval := 100 * time.Millisecond

	if got := engine.NextWait(interval, 30*time.Millisecond); got != 70*time.Millisecond {
		t.Fatalf("fast request: wait %s, want 70ms", got)
	}
	if got := engine.NextWait(interval, 100*time.Millisecond); got != 0 {
		t.Fatalf("exact request: wait %s, want 0", got)
	}
	// A 5s request overshoots fifty intervals; the next wait is still just
	// zero, never negative and never compensated later.
	if got := engine.NextWait(interval, 5*time.Second); got != 0 {
		t.Fatalf("slow request: wait %s, want 0", got)
	}
}
