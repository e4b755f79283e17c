package ingestion

import (
	"os"
	"path/filepath"
	"testing"
)

const testSessionFile = `{
	"meta": {
		"runId": "ai-1772210818683",
		"runStartTs": 1772210818683,
		"config": {"leverage": 5, "maxSpread": 0.002, "mode": "dry-run", "hedged": false},
		"symbols": ["BTCUSDT", "ETHUSDT"]
	},
	"snapshots": [
		{"type": "SNAPSHOT", "symbol": "BTCUSDT", "markPrice": 50000, "walletBalance": 1000},
		{"type": "SNAPSHOT", "symbol": "ETHUSDT", "markPrice": 3000},
		{"type": "SNAPSHOT", "markPrice": 1}
	]
}`

func TestDecodeSessionFile(t *testing.T) {
	session, events, stats, err := decodeSessionFile([]byte(testSessionFile))
	if err != nil {
		t.Fatalf("decodeSessionFile failed: %v", err)
	}

	if session.RunID != "ai-1772210818683" {
		t.Errorf("Expected run id ai-1772210818683, got %s", session.RunID)
	}
	if session.RunStartTimestampMs != 1772210818683 {
		t.Errorf("Expected run start 1772210818683, got %d", session.RunStartTimestampMs)
	}
	if len(session.Symbols) != 2 {
		t.Errorf("Expected 2 symbols, got %v", session.Symbols)
	}

	// Config values keep their literal source form.
	if session.Config["leverage"] != "5" {
		t.Errorf("Expected leverage \"5\", got %q", session.Config["leverage"])
	}
	if session.Config["maxSpread"] != "0.002" {
		t.Errorf("Expected maxSpread \"0.002\", got %q", session.Config["maxSpread"])
	}
	if session.Config["mode"] != "dry-run" {
		t.Errorf("Expected mode \"dry-run\", got %q", session.Config["mode"])
	}
	if session.Config["hedged"] != "false" {
		t.Errorf("Expected hedged \"false\", got %q", session.Config["hedged"])
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if stats.Skipped != 1 {
		t.Errorf("Expected 1 skipped record, got %d", stats.Skipped)
	}

	// Records inherit the session run id.
	for _, e := range events {
		if e.RunID != session.RunID {
			t.Errorf("Expected inherited run id, got %q", e.RunID)
		}
	}
}

func TestDecodeSessionFile_MissingRunID(t *testing.T) {
	_, _, _, err := decodeSessionFile([]byte(`{"meta": {}, "snapshots": []}`))
	if err == nil {
		t.Fatal("Expected structural error for missing runId")
	}
}

func TestDecodeSessionFile_SymbolsDerivedWhenAbsent(t *testing.T) {
	data := `{
		"meta": {"runId": "r1", "runStartTs": 1000},
		"snapshots": [
			{"type": "SNAPSHOT", "symbol": "ETHUSDT"},
			{"type": "SNAPSHOT", "symbol": "BTCUSDT"},
			{"type": "SNAPSHOT", "symbol": "ETHUSDT"}
		]
	}`

	session, _, _, err := decodeSessionFile([]byte(data))
	if err != nil {
		t.Fatalf("decodeSessionFile failed: %v", err)
	}
	if len(session.Symbols) != 2 || session.Symbols[0] != "BTCUSDT" || session.Symbols[1] != "ETHUSDT" {
		t.Errorf("Expected derived sorted symbols [BTCUSDT ETHUSDT], got %v", session.Symbols)
	}
}

func TestLoadSessionFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdf_data.json")
	if err := os.WriteFile(path, []byte(testSessionFile), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	session, events, _, err := LoadSessionFile(path)
	if err != nil {
		t.Fatalf("LoadSessionFile failed: %v", err)
	}
	if session.RunID != "ai-1772210818683" || len(events) != 2 {
		t.Errorf("Unexpected load result: run %s, %d events", session.RunID, len(events))
	}
}

func TestLoadSessionFile_Unreadable(t *testing.T) {
	_, _, _, err := LoadSessionFile(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("Expected error for unreadable input")
	}
}

func TestLoadLogPair(t *testing.T) {
	dir := t.TempDir()
	metaPath := filepath.Join(dir, "meta.json")
	logPath := filepath.Join(dir, "events.jsonl")

	meta := `{"runId": "r1", "runStartTs": 1000, "config": {"leverage": 3}, "symbols": ["BTCUSDT"]}`
	log := `{"type":"SNAPSHOT","symbol":"BTCUSDT","timestamp":1000}
{"type":"SNAPSHOT","symbol":"BTCUSDT","timestamp":2000}
`
	if err := os.WriteFile(metaPath, []byte(meta), 0o644); err != nil {
		t.Fatalf("write meta: %v", err)
	}
	if err := os.WriteFile(logPath, []byte(log), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	session, events, stats, err := LoadLogPair(metaPath, logPath)
	if err != nil {
		t.Fatalf("LoadLogPair failed: %v", err)
	}
	if session.RunID != "r1" || session.Config["leverage"] != "3" {
		t.Errorf("Unexpected session: %+v", session)
	}
	if len(events) != 2 || stats.Snapshot != 2 {
		t.Errorf("Expected 2 snapshots, got %d events, stats %+v", len(events), stats)
	}
	if events[0].RunID != "r1" {
		t.Errorf("Expected inherited run id, got %q", events[0].RunID)
	}
}
