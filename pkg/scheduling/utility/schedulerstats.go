package utility

import "math"

// SchedulerStats accounts the timing breakdown of a scheduling iteration,
// kept from the teacher's own file verbatim in spirit.
type SchedulerStats struct {
	// AlgorithmRuntimeMicros accounts only the solver's algorithmic time.
	AlgorithmRuntimeMicros uint64
	// SchedulerRuntimeMicros accounts DIMACS write + solve + DIMACS read.
	SchedulerRuntimeMicros uint64
	// TotalRuntimeMicros accounts the whole iteration including graph
	// updates before and after the solver call.
	TotalRuntimeMicros uint64
}

func NewSchedulerStats() *SchedulerStats {
	return &SchedulerStats{AlgorithmRuntimeMicros: math.MaxUint64}
}
