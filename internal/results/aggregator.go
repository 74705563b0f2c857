package results

import (
	"sync"
)

// AggregatorOptions configure an Aggregator.
type AggregatorOptions struct {
	BufferSize int   // max rows retained (default DefaultBufferSize)
	MaxTotal   int64 // absolute sent cap triggering OnCapacity (0 disables)

	// OnCapacity is invoked exactly once when the cumulative sent count
	// reaches MaxTotal. It must not block.
	OnCapacity func()
}

// Aggregator is the single serialization point for all unit events. All
// mutation happens on the goroutine running Consume; the mutex only guards
// readers taking snapshots.
type Aggregator struct {
	mu sync.Mutex

	buf   []Row // ring storage
	next  int   // write index of the next row
	count int

	summary      Summary
	statusCounts map[int]int64
	unitsDone    int
	capped       bool

	maxTotal   int64
	onCapacity func()
}

// Snapshot is a consistent copy of the aggregator's observable state.
type Snapshot struct {
	Rows         []Row // newest first
	Summary      Summary
	StatusCounts map[int]int64 // status code -> rows, 0 keys transport failures
	UnitsDone    int
	Capped       bool
}

func NewAggregator(opts AggregatorOptions) *Aggregator {
	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Aggregator{
		buf:          make([]Row, size),
		statusCounts: make(map[int]int64),
		maxTotal:     opts.MaxTotal,
		onCapacity:   opts.OnCapacity,
	}
}

// Consume applies events until the channel is closed. Run it on exactly one
// goroutine per run.
func (a *Aggregator) Consume(events <-chan Event) {
	for ev := range events {
		switch ev := ev.(type) {
		case Row:
			a.onRow(ev)
		case Done:
			a.onDone(ev)
		}
	}
}

func (a *Aggregator) onRow(row Row) {
	a.mu.Lock()

	// Past the hard cap nothing is buffered or counted; the stop has
	// already been requested.
	if a.capped {
		a.mu.Unlock()
		return
	}

	a.buf[a.next] = row
	a.next = (a.next + 1) % len(a.buf)
	if a.count < len(a.buf) {
		a.count++
	}

	a.summary.Sent++
	if row.Error {
		a.summary.Errors++
	}
	a.statusCounts[row.StatusCode]++

	trip := a.maxTotal > 0 && a.summary.Sent >= a.maxTotal
	if trip {
		a.capped = true
	}
	a.mu.Unlock()

	if trip && a.onCapacity != nil {
		a.onCapacity()
	}
}

func (a *Aggregator) onDone(Done) {
	// Informational only: no state transition beyond the counter the UIs
	// use to show drain progress.
	a.mu.Lock()
	a.unitsDone++
	a.mu.Unlock()
}

// Snapshot returns the buffered rows newest first plus the counters.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows := make([]Row, 0, a.count)
	for i := 1; i <= a.count; i++ {
		idx := (a.next - i + len(a.buf)) % len(a.buf)
		rows = append(rows, a.buf[idx])
	}

	counts := make(map[int]int64, len(a.statusCounts))
	for k, v := range a.statusCounts {
		counts[k] = v
	}

	return Snapshot{
		Rows:         rows,
		Summary:      a.summary,
		StatusCounts: counts,
		UnitsDone:    a.unitsDone,
		Capped:       a.capped,
	}
}

// Summary returns the cumulative counters.
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary
}
