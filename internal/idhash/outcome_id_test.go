package idhash

import "testing"

func TestComputeOutcomeID_Deterministic(t *testing.T) {
	a := ComputeOutcomeID("ai-1772210818683", "BTCUSDT", 1772210820000, 0)
	b := ComputeOutcomeID("ai-1772210818683", "BTCUSDT", 1772210820000, 0)

	if a != b {
		t.Errorf("Expected identical ids, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(a))
	}
}

func TestComputeOutcomeID_DistinctInputs(t *testing.T) {
	base := ComputeOutcomeID("run", "BTCUSDT", 1000, 0)

	variants := []string{
		ComputeOutcomeID("run2", "BTCUSDT", 1000, 0),
		ComputeOutcomeID("run", "ETHUSDT", 1000, 0),
		ComputeOutcomeID("run", "BTCUSDT", 1001, 0),
		ComputeOutcomeID("run", "BTCUSDT", 1000, 1),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("Variant %d collided with base id", i)
		}
	}
}
