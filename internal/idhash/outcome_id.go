package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeOutcomeID computes a deterministic outcome_id using SHA256.
// Formula: SHA256(run_id|symbol|close_timestamp_ms|sequence)
// Returns hex-encoded hash (64 characters). Stable across re-ingestion of
// the same log, so trade_outcomes can use it as an append-only key.
func ComputeOutcomeID(runID, symbol string, closeTimestampMs int64, sequence int) string {
	data := fmt.Sprintf("%s|%s|%d|%d", runID, symbol, closeTimestampMs, sequence)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
