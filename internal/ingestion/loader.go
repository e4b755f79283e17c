package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"session-report-lab/internal/domain"
)

// sessionFile is the recorded session artifact shape: metadata plus the
// raw snapshot log in one document.
type sessionFile struct {
	Meta      sessionMeta       `json:"meta"`
	Snapshots []json.RawMessage `json:"snapshots"`
}

type sessionMeta struct {
	RunID      string          `json:"runId"`
	RunStartTs int64           `json:"runStartTs"`
	Config     json.RawMessage `json:"config"`
	Symbols    []string        `json:"symbols"`
}

// LoadSessionFile reads a combined session artifact (metadata + snapshot
// records) and decodes it into a SessionContext and raw events. Missing
// metadata is a structural error and fatal; malformed individual records
// are skipped and counted.
func LoadSessionFile(path string) (*domain.SessionContext, []*domain.RawEvent, DecodeStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, DecodeStats{}, fmt.Errorf("read session file: %w", err)
	}
	return decodeSessionFile(data)
}

func decodeSessionFile(data []byte) (*domain.SessionContext, []*domain.RawEvent, DecodeStats, error) {
	var file sessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, DecodeStats{}, fmt.Errorf("decode session file: %w", err)
	}
	if file.Meta.RunID == "" {
		return nil, nil, DecodeStats{}, fmt.Errorf("session file missing meta.runId")
	}

	config, err := decodeConfig(file.Meta.Config)
	if err != nil {
		return nil, nil, DecodeStats{}, fmt.Errorf("decode session config: %w", err)
	}

	var (
		events []*domain.RawEvent
		stats  DecodeStats
	)
	for _, raw := range file.Snapshots {
		decodeOne(raw, &events, &stats)
	}

	// Records inside a session file inherit the session's run id when
	// they carry none of their own.
	for _, e := range events {
		if e.RunID == "" {
			e.RunID = file.Meta.RunID
		}
	}

	session := &domain.SessionContext{
		RunID:               file.Meta.RunID,
		RunStartTimestampMs: file.Meta.RunStartTs,
		Symbols:             file.Meta.Symbols,
		Config:              config,
	}
	if len(session.Symbols) == 0 {
		session.Symbols = collectSymbols(events)
	}

	return session, events, stats, nil
}

// LoadLogPair reads a standalone metadata file and a JSONL event log.
func LoadLogPair(metaPath, logPath string) (*domain.SessionContext, []*domain.RawEvent, DecodeStats, error) {
	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, nil, DecodeStats{}, fmt.Errorf("read session metadata: %w", err)
	}

	var meta sessionMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, nil, DecodeStats{}, fmt.Errorf("decode session metadata: %w", err)
	}
	if meta.RunID == "" {
		return nil, nil, DecodeStats{}, fmt.Errorf("session metadata missing runId")
	}

	config, err := decodeConfig(meta.Config)
	if err != nil {
		return nil, nil, DecodeStats{}, fmt.Errorf("decode session config: %w", err)
	}

	logFile, err := os.Open(logPath)
	if err != nil {
		return nil, nil, DecodeStats{}, fmt.Errorf("open event log: %w", err)
	}
	defer logFile.Close()

	events, stats, err := DecodeRecords(logFile)
	if err != nil {
		return nil, nil, stats, err
	}
	for _, e := range events {
		if e.RunID == "" {
			e.RunID = meta.RunID
		}
	}

	session := &domain.SessionContext{
		RunID:               meta.RunID,
		RunStartTimestampMs: meta.RunStartTs,
		Symbols:             meta.Symbols,
		Config:              config,
	}
	if len(session.Symbols) == 0 {
		session.Symbols = collectSymbols(events)
	}

	return session, events, stats, nil
}

// decodeConfig flattens the run parameter mapping into strings. Numbers
// keep their literal source form so rendered reports stay deterministic.
func decodeConfig(raw json.RawMessage) (map[string]string, error) {
	config := make(map[string]string)
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return config, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}

	for k, v := range values {
		switch val := v.(type) {
		case string:
			config[k] = val
		case json.Number:
			config[k] = val.String()
		case bool:
			config[k] = strconv.FormatBool(val)
		case nil:
			config[k] = ""
		default:
			// Nested structures are kept as compact JSON.
			encoded, err := json.Marshal(val)
			if err != nil {
				return nil, err
			}
			config[k] = string(encoded)
		}
	}
	return config, nil
}

// collectSymbols derives the symbol set from decoded events, sorted for
// deterministic processing order.
func collectSymbols(events []*domain.RawEvent) []string {
	seen := make(map[string]struct{})
	var symbols []string
	for _, e := range events {
		if _, ok := seen[e.Symbol]; ok {
			continue
		}
		seen[e.Symbol] = struct{}{}
		symbols = append(symbols, e.Symbol)
	}
	sort.Strings(symbols)
	return symbols
}
