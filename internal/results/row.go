package results

import "time"

const (
	// DefaultBufferSize bounds how many rows the aggregator retains.
	DefaultBufferSize = 2000

	// SnippetMax is the longest body or error snippet carried on a Row.
	SnippetMax = 300
)

// Event is a message from a load unit to the aggregator. The only
// implementations are Row and Done.
type Event interface {
	isEvent()
}

// Row is the outcome of a single request attempt.
type Row struct {
	Timestamp  time.Time `json:"timestamp"`
	UnitID     int       `json:"unitId"`
	StatusCode int       `json:"statusCode"` // 0 when no response was received
	TimeMs     int64     `json:"timeMs"`
	Snippet    string    `json:"snippet"`
	Error      bool      `json:"error"`
}

func (Row) isEvent() {}

// Done signals that a unit finished its assignment, carrying the number of
// requests it actually issued.
type Done struct {
	UnitID int `json:"unitId"`
	Sent   int `json:"sentCount"`
}

func (Done) isEvent() {}

// Summary holds the cumulative counters for a run. Both values only grow,
// independent of buffer eviction.
type Summary struct {
	Sent   int64 `json:"sent"`
	Errors int64 `json:"errors"`
}

// Truncate caps s at SnippetMax characters without splitting a rune.
func Truncate(s string) string {
	if len(s) <= SnippetMax {
		return s
	}
	runes := []rune(s)
	if len(runes) <= SnippetMax {
		return s
	}
	return string(runes[:SnippetMax])
}
