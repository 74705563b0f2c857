package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/mverdi/loadburst/internal/results"
)

// SnapshotSource supplies the live view a progress line is built from.
type SnapshotSource interface {
	Snapshot() results.Snapshot
	Elapsed() time.Duration
}

// ProgressReporter displays real-time progress updates.
type ProgressReporter struct {
	source   SnapshotSource
	total    int
	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
	writer   io.Writer
	active   int32
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(source SnapshotSource, total int, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		source:   source,
		total:    total,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		writer:   writer,
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			snap := p.source.Snapshot()
			elapsed := p.source.Elapsed()
			rps := 0.0
			if elapsed > 0 {
				rps = float64(snap.Summary.Sent) / elapsed.Seconds()
			}
			line := fmt.Sprintf("\rSent: %d/%d | Errors: %d | RPS: %.1f",
				snap.Summary.Sent, p.total, snap.Summary.Errors, rps)
			if snap.Capped {
				line += " | cap reached"
			}
			fmt.Fprint(p.writer, line)
		case <-p.done:
			return
		}
	}
}
