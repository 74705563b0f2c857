package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mverdi/loadburst/internal/config"
	"github.com/mverdi/loadburst/internal/results"
)

// ErrAlreadyRunning is returned by Start while a run is active.
var ErrAlreadyRunning = errors.New("a run is already active")

// State is the run lifecycle position.
type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options configure an Engine.
type Options struct {
	// NewRequester builds the requester for a run's target. Required.
	NewRequester func(target string) Requester

	// BufferSize overrides the aggregator's row retention
	// (default results.DefaultBufferSize).
	BufferSize int

	// MaxTotal overrides the absolute sent cap
	// (default config.MaxTotalRequests). Lowered only by tests.
	MaxTotal int64
}

// Plan is the partitioning outcome of the active (or last) run.
type Plan struct {
	Config       config.Config
	Assignments  []Assignment
	PerUnitRPS   int
	EstimatedRPS int
}

// Engine orchestrates runs: it clamps the config, partitions the work,
// spawns one goroutine per unit, and relays the shared cancellation signal.
type Engine struct {
	opts Options

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	agg     *results.Aggregator
	plan    Plan
	runID   string
	runDone chan struct{}
	started time.Time
}

// New creates an Engine. Runs are started with Start.
func New(opts Options) *Engine {
	if opts.BufferSize <= 0 {
		opts.BufferSize = results.DefaultBufferSize
	}
	if opts.MaxTotal <= 0 {
		opts.MaxTotal = config.MaxTotalRequests
	}
	return &Engine{opts: opts}
}

// Start begins a run for cfg. The config is clamped before partitioning;
// raw operator input is never trusted. Fails with ErrAlreadyRunning while a
// run is active.
func (e *Engine) Start(cfg config.Config) error {
	if e.opts.NewRequester == nil {
		return errors.New("engine: no requester factory configured")
	}
	cfg, _ = cfg.Clamped()

	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}

	assignments, perUnit, estimated := Split(cfg.TotalRequests, cfg.Concurrency, cfg.TargetRPS)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan results.Event, len(assignments))
	runDone := make(chan struct{})
	agg := results.NewAggregator(results.AggregatorOptions{
		BufferSize: e.opts.BufferSize,
		MaxTotal:   e.opts.MaxTotal,
		// Identity-checked so a stale run's capacity trip can never stop
		// its successor.
		OnCapacity: func() { e.stopRun(runDone) },
	})

	e.state = Running
	e.cancel = cancel
	e.agg = agg
	e.plan = Plan{Config: cfg, Assignments: assignments, PerUnitRPS: perUnit, EstimatedRPS: estimated}
	e.runID = ulid.Make().String()
	e.runDone = runDone
	e.started = time.Now()
	requester := e.opts.NewRequester(cfg.TargetURL)
	e.mu.Unlock()

	go agg.Consume(events)

	var wg sync.WaitGroup
	interval := Interval(perUnit)
	for _, a := range assignments {
		u := &unit{
			id:        a.UnitID,
			requests:  a.Requests,
			interval:  interval,
			requester: requester,
			events:    events,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.run(ctx)
		}()
	}

	// Watcher: once every unit has returned the event stream is complete,
	// the aggregator consumer can exit, and a new run may start.
	go func() {
		wg.Wait()
		close(events)
		e.mu.Lock()
		// A stopped run may drain after its successor started; only the
		// run that still owns the engine flips the state back.
		if e.runDone == runDone && e.state == Running {
			e.state = Idle
		}
		e.mu.Unlock()
		close(runDone)
	}()

	return nil
}

// Stop requests a cooperative halt and returns immediately: units finish
// their current iteration and exit without their in-flight request being
// aborted. Calling Stop when no run is active is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Running {
		return
	}
	e.state = Stopped
	e.cancel()
}

// stopRun stops only the run identified by owner.
func (e *Engine) stopRun(owner chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.runDone != owner || e.state != Running {
		return
	}
	e.state = Stopped
	e.cancel()
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// RunID identifies the active (or last) run.
func (e *Engine) RunID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runID
}

// Plan returns the partitioning of the active (or last) run.
func (e *Engine) Plan() Plan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.plan
}

// Elapsed is the wall time since the active (or last) run started.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started.IsZero() {
		return 0
	}
	return time.Since(e.started)
}

// Snapshot returns the aggregator's current view of the active (or last)
// run.
func (e *Engine) Snapshot() results.Snapshot {
	e.mu.Lock()
	agg := e.agg
	e.mu.Unlock()
	if agg == nil {
		return results.Snapshot{}
	}
	return agg.Snapshot()
}

// Done returns a channel closed once every unit of the active run has
// reported in. Before any run it is already closed.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.runDone == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return e.runDone
}
