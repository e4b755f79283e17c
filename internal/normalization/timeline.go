package normalization

import (
	"sort"

	"session-report-lab/internal/domain"
)

// ReconstructTimeline fills missing timestamps for one symbol's snapshots,
// in place, and enforces strictly increasing timestamps. Snapshots must be
// in log order (sequence index ascending).
//
// Resolution per snapshot:
//   - a resolvable source timestamp is used unchanged;
//   - a gap between two resolvable timestamps is linearly interpolated by
//     sequence position;
//   - leading and trailing gaps extrapolate with the median per-step delta
//     of the resolvable timestamps, floored at runStartTimestampMs;
//   - with zero resolvable timestamps anywhere, timestamps are synthesized
//     as runStartTimestampMs + sequenceIndex * samplingPeriodMs.
//
// Ties and regressions are bumped forward by 1 ms so ordering is strict
// within the symbol.
func ReconstructTimeline(snapshots []*domain.NormalizedSnapshot, runStartTimestampMs, samplingPeriodMs int64) {
	if len(snapshots) == 0 {
		return
	}
	if samplingPeriodMs <= 0 {
		samplingPeriodMs = domain.DefaultSamplingPeriodMs
	}

	var resolvable []int
	for i, snap := range snapshots {
		if snap.TimestampMs != domain.TimestampMissing {
			resolvable = append(resolvable, i)
		}
	}

	if len(resolvable) == 0 {
		for i, snap := range snapshots {
			snap.TimestampMs = runStartTimestampMs + int64(i)*samplingPeriodMs
		}
		enforceStrictOrder(snapshots)
		return
	}

	step := medianStepMs(snapshots, resolvable, samplingPeriodMs)

	first := resolvable[0]
	last := resolvable[len(resolvable)-1]

	// Leading gap: extrapolate backwards, never before run start.
	for i := first - 1; i >= 0; i-- {
		ts := snapshots[first].TimestampMs - int64(first-i)*step
		if ts < runStartTimestampMs {
			ts = runStartTimestampMs
		}
		snapshots[i].TimestampMs = ts
	}

	// Interior gaps: linear interpolation between surrounding anchors.
	for k := 0; k+1 < len(resolvable); k++ {
		lo, hi := resolvable[k], resolvable[k+1]
		span := snapshots[hi].TimestampMs - snapshots[lo].TimestampMs
		for i := lo + 1; i < hi; i++ {
			snapshots[i].TimestampMs = snapshots[lo].TimestampMs + span*int64(i-lo)/int64(hi-lo)
		}
	}

	// Trailing gap: extrapolate forwards.
	for i := last + 1; i < len(snapshots); i++ {
		snapshots[i].TimestampMs = snapshots[last].TimestampMs + int64(i-last)*step
	}

	enforceStrictOrder(snapshots)
}

// medianStepMs computes the median per-sequence-step delta between
// consecutive resolvable timestamps. Falls back to the sampling period
// when fewer than two anchors exist or the median is not positive.
func medianStepMs(snapshots []*domain.NormalizedSnapshot, resolvable []int, samplingPeriodMs int64) int64 {
	var steps []int64
	for k := 0; k+1 < len(resolvable); k++ {
		lo, hi := resolvable[k], resolvable[k+1]
		delta := snapshots[hi].TimestampMs - snapshots[lo].TimestampMs
		if delta > 0 {
			steps = append(steps, delta/int64(hi-lo))
		}
	}
	if len(steps) == 0 {
		return samplingPeriodMs
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i] < steps[j] })
	median := steps[len(steps)/2]
	if len(steps)%2 == 0 {
		median = (steps[len(steps)/2-1] + steps[len(steps)/2]) / 2
	}
	if median <= 0 {
		return samplingPeriodMs
	}
	return median
}

// enforceStrictOrder bumps ties and regressions forward by 1 ms. Inputs
// that are already strictly increasing pass through unchanged.
func enforceStrictOrder(snapshots []*domain.NormalizedSnapshot) {
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i].TimestampMs <= snapshots[i-1].TimestampMs {
			snapshots[i].TimestampMs = snapshots[i-1].TimestampMs + 1
		}
	}
}
