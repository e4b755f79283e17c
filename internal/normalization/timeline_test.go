package normalization

import (
	"testing"

	"session-report-lab/internal/domain"
)

func makeSnapshots(timestamps ...int64) []*domain.NormalizedSnapshot {
	snapshots := make([]*domain.NormalizedSnapshot, len(timestamps))
	for i, ts := range timestamps {
		snapshots[i] = &domain.NormalizedSnapshot{
			RunID:         "run-1",
			Symbol:        "BTCUSDT",
			SequenceIndex: i,
			TimestampMs:   ts,
		}
	}
	return snapshots
}

const missing = domain.TimestampMissing

func TestReconstructTimeline_RoundTrip(t *testing.T) {
	// Explicit monotonic timestamps pass through unchanged.
	snapshots := makeSnapshots(1000, 2000, 3500, 7000)

	ReconstructTimeline(snapshots, 1000, 1000)

	expected := []int64{1000, 2000, 3500, 7000}
	for i, want := range expected {
		if snapshots[i].TimestampMs != want {
			t.Errorf("Snapshot %d: expected %d, got %d", i, want, snapshots[i].TimestampMs)
		}
	}
}

func TestReconstructTimeline_NoResolvableTimestamps(t *testing.T) {
	const runStart = int64(1772210818683)
	snapshots := makeSnapshots(missing, missing, missing, missing, missing)

	ReconstructTimeline(snapshots, runStart, 1000)

	for i, snap := range snapshots {
		want := runStart + int64(i)*1000
		if snap.TimestampMs != want {
			t.Errorf("Snapshot %d: expected %d, got %d", i, want, snap.TimestampMs)
		}
	}
}

func TestReconstructTimeline_InteriorInterpolation(t *testing.T) {
	snapshots := makeSnapshots(1000, missing, missing, 4000)

	ReconstructTimeline(snapshots, 0, 1000)

	expected := []int64{1000, 2000, 3000, 4000}
	for i, want := range expected {
		if snapshots[i].TimestampMs != want {
			t.Errorf("Snapshot %d: expected %d, got %d", i, want, snapshots[i].TimestampMs)
		}
	}
}

func TestReconstructTimeline_LeadingAndTrailingGaps(t *testing.T) {
	// Anchors at indexes 1 and 2 with a 1000 ms step; the leading and
	// trailing records extrapolate with the same step.
	snapshots := makeSnapshots(missing, 5000, 6000, missing)

	ReconstructTimeline(snapshots, 0, 250)

	expected := []int64{4000, 5000, 6000, 7000}
	for i, want := range expected {
		if snapshots[i].TimestampMs != want {
			t.Errorf("Snapshot %d: expected %d, got %d", i, want, snapshots[i].TimestampMs)
		}
	}
}

func TestReconstructTimeline_LeadingGapFlooredAtRunStart(t *testing.T) {
	snapshots := makeSnapshots(missing, missing, 1500)

	ReconstructTimeline(snapshots, 1000, 1000)

	// Backwards extrapolation would go below run start; both leading
	// records clamp to it and the tie is bumped forward.
	if snapshots[0].TimestampMs != 1000 {
		t.Errorf("Snapshot 0: expected floor 1000, got %d", snapshots[0].TimestampMs)
	}
	if snapshots[1].TimestampMs <= snapshots[0].TimestampMs {
		t.Errorf("Snapshot 1: expected strict increase over %d, got %d",
			snapshots[0].TimestampMs, snapshots[1].TimestampMs)
	}
	if snapshots[2].TimestampMs != 1500 {
		t.Errorf("Snapshot 2: expected anchor 1500, got %d", snapshots[2].TimestampMs)
	}
}

func TestReconstructTimeline_TiesBumpedForward(t *testing.T) {
	snapshots := makeSnapshots(1000, 1000, 1000)

	ReconstructTimeline(snapshots, 0, 1000)

	expected := []int64{1000, 1001, 1002}
	for i, want := range expected {
		if snapshots[i].TimestampMs != want {
			t.Errorf("Snapshot %d: expected %d, got %d", i, want, snapshots[i].TimestampMs)
		}
	}
}

func TestReconstructTimeline_RegressionBumpedForward(t *testing.T) {
	snapshots := makeSnapshots(5000, 3000, 6000)

	ReconstructTimeline(snapshots, 0, 1000)

	for i := 1; i < len(snapshots); i++ {
		if snapshots[i].TimestampMs <= snapshots[i-1].TimestampMs {
			t.Errorf("Snapshot %d: timestamp %d not strictly after %d",
				i, snapshots[i].TimestampMs, snapshots[i-1].TimestampMs)
		}
	}
}

func TestReconstructTimeline_MedianStepResistsOutliers(t *testing.T) {
	// Steps 1000, 1000, 60000: the median step stays 1000 for the
	// trailing extrapolation.
	snapshots := makeSnapshots(0, 1000, 2000, 62000, missing)

	ReconstructTimeline(snapshots, 0, 5000)

	if snapshots[4].TimestampMs != 63000 {
		t.Errorf("Expected trailing extrapolation 63000, got %d", snapshots[4].TimestampMs)
	}
}

func TestReconstructTimeline_Empty(t *testing.T) {
	ReconstructTimeline(nil, 0, 1000)
}

func TestSortSnapshots_TimestampThenSequence(t *testing.T) {
	snapshots := []*domain.NormalizedSnapshot{
		{SequenceIndex: 2, TimestampMs: 2000},
		{SequenceIndex: 1, TimestampMs: 1000},
		{SequenceIndex: 0, TimestampMs: 2000},
	}

	SortSnapshots(snapshots)

	if snapshots[0].TimestampMs != 1000 {
		t.Errorf("Expected 1000 first, got %d", snapshots[0].TimestampMs)
	}
	if snapshots[1].SequenceIndex != 0 || snapshots[2].SequenceIndex != 2 {
		t.Errorf("Expected timestamp ties broken by sequence, got %d then %d",
			snapshots[1].SequenceIndex, snapshots[2].SequenceIndex)
	}
}
