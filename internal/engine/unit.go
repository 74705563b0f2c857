package engine

import (
	"context"
	"time"

	"github.com/mverdi/loadburst/internal/results"
)

// Requester executes a single GET against the run target. A non-nil error
// means no response was received; an HTTP error status comes back as a
// plain status code.
type Requester interface {
	Do(ctx context.Context) (status int, snippet string, err error)
}

type unitIDKey struct{}

// WithUnitID tags ctx with the issuing unit's id.
func WithUnitID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, unitIDKey{}, id)
}

// UnitIDFromContext returns the unit id from ctx, or -1 when absent.
func UnitIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(unitIDKey{}).(int); ok {
		return id
	}
	return -1
}

// unit issues its assigned requests sequentially, one Row per attempt, and
// a final Done carrying how many were actually sent.
type unit struct {
	id        int
	requests  int
	interval  time.Duration
	requester Requester
	events    chan<- results.Event
}

func (u *unit) run(ctx context.Context) {
	sent := 0
	for i := 0; i < u.requests; i++ {
		// Cancellation is only observed here, between iterations.
		if ctx.Err() != nil {
			break
		}

		// The request itself rides a detached context: Stop must not
		// abort an in-flight call, only prevent the next one.
		reqCtx := WithUnitID(context.WithoutCancel(ctx), u.id)

		start := time.Now()
		status, snippet, err := u.requester.Do(reqCtx)
		elapsed := time.Since(start)

		row := results.Row{
			Timestamp: time.Now(),
			UnitID:    u.id,
			TimeMs:    elapsed.Milliseconds(),
		}
		if err != nil {
			// One attempt per planned request; a failure still consumes
			// its slot.
			row.Error = true
			row.Snippet = results.Truncate(err.Error())
		} else {
			row.StatusCode = status
			row.Snippet = snippet
			row.Error = status >= 400
		}
		u.events <- row
		sent++

		if i == u.requests-1 {
			break
		}
		if wait := NextWait(u.interval, elapsed); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}
	u.events <- results.Done{UnitID: u.id, Sent: sent}
}
