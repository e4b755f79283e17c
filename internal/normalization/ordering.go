package normalization

import (
	"sort"

	"session-report-lab/internal/domain"
)

// SortSnapshots orders snapshots by (timestamp_ms ASC, sequence_index ASC).
// Ties in timestamp are broken by log order.
func SortSnapshots(snapshots []*domain.NormalizedSnapshot) {
	sort.Slice(snapshots, func(i, j int) bool {
		return compareSnapshots(snapshots[i], snapshots[j]) < 0
	})
}

// compareSnapshots returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
func compareSnapshots(a, b *domain.NormalizedSnapshot) int {
	if a.TimestampMs != b.TimestampMs {
		if a.TimestampMs < b.TimestampMs {
			return -1
		}
		return 1
	}
	if a.SequenceIndex != b.SequenceIndex {
		if a.SequenceIndex < b.SequenceIndex {
			return -1
		}
		return 1
	}
	return 0
}
