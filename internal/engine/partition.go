package engine

// Assignment is one unit's share of a run.
type Assignment struct {
	UnitID   int
	Requests int
	RPS      int
}

// Split divides a total request count and an aggregate rate target across
// concurrency units. The first total%concurrency units carry one extra
// request, so the counts always sum to total and never spread by more
// than 1.
//
// Every unit gets the same rate, max(1, targetRPS/concurrency). The
// returned estimate perUnit*concurrency is what the run will actually aim
// for: usually at or below targetRPS because of the floor division, but
// above it when targetRPS < concurrency forces the 1 req/s per-unit
// minimum. That overshoot is surfaced to the operator, not corrected.
func Split(total, concurrency, targetRPS int) (assignments []Assignment, perUnitRPS, estimatedRPS int) {
	// Callers clamp; normalize anyway so the arithmetic below holds.
	if total < 1 {
		total = 1
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if targetRPS < 1 {
		targetRPS = 1
	}

	base := total / concurrency
	remainder := total % concurrency

	perUnitRPS = targetRPS / concurrency
	if perUnitRPS < 1 {
		perUnitRPS = 1
	}

	assignments = make([]Assignment, concurrency)
	for i := range assignments {
		count := base
		if i < remainder {
			count++
		}
		assignments[i] = Assignment{UnitID: i, Requests: count, RPS: perUnitRPS}
	}

	return assignments, perUnitRPS, perUnitRPS * concurrency
}
