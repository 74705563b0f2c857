package engine

import "time"

// Interval is the pacing gap between request starts for a unit rate.
// Never below one millisecond.
func Interval(unitRPS int) time.Duration {
	if unitRPS < 1 {
		unitRPS = 1
	}
	ms := int64(1000 / unitRPS)
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// NextWait is how long a unit sleeps after a request that took elapsed.
// A request slower than the interval yields zero: the shortfall is never
// recovered on later requests.
func NextWait(interval, elapsed time.Duration) time.Duration {
	if wait := interval - elapsed; wait > 0 {
		return wait
	}
	return 0
}
