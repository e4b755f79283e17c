package ingestion

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"session-report-lab/internal/domain"
)

// DecodeStats counts what happened to each raw record during decoding.
// Skipped and Unknown are surfaced in the final report summary.
type DecodeStats struct {
	Decoded  int // records decoded into a known kind
	Snapshot int
	Fill     int
	Error    int
	Unknown  int // recognized shape, unrecognized type; dropped
	Skipped  int // malformed (missing type or symbol, unparseable JSON)
}

// Total returns the number of raw records seen.
func (s DecodeStats) Total() int {
	return s.Decoded + s.Unknown + s.Skipped
}

// DecodeRecords decodes a raw event log. The log is either a JSON array of
// records or JSON Lines, one record per line; the first non-space byte
// decides. Malformed records are skipped and counted, never fatal.
func DecodeRecords(r io.Reader) ([]*domain.RawEvent, DecodeStats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, DecodeStats{}, fmt.Errorf("read event log: %w", err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return decodeArray(trimmed)
	}
	return decodeLines(data)
}

func decodeArray(data []byte) ([]*domain.RawEvent, DecodeStats, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, DecodeStats{}, fmt.Errorf("decode event array: %w", err)
	}

	var (
		events []*domain.RawEvent
		stats  DecodeStats
	)
	for _, raw := range raws {
		decodeOne(raw, &events, &stats)
	}
	return events, stats, nil
}

func decodeLines(data []byte) ([]*domain.RawEvent, DecodeStats, error) {
	var (
		events []*domain.RawEvent
		stats  DecodeStats
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		decodeOne([]byte(line), &events, &stats)
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("scan event log: %w", err)
	}
	return events, stats, nil
}

// decodeOne decodes a single raw record, appending known-kind events and
// updating stats. Decode failures count as skipped.
func decodeOne(raw []byte, events *[]*domain.RawEvent, stats *DecodeStats) {
	event, err := decodeEvent(raw)
	if err != nil {
		stats.Skipped++
		return
	}

	switch event.Kind {
	case domain.KindSnapshot:
		stats.Decoded++
		stats.Snapshot++
	case domain.KindFill:
		stats.Decoded++
		stats.Fill++
	case domain.KindError:
		stats.Decoded++
		stats.Error++
	default:
		stats.Unknown++
		return
	}

	*events = append(*events, event)
}

// decodeEvent parses one raw record into a tagged RawEvent. Returns
// ErrMalformedRecord when type or symbol is absent.
func decodeEvent(raw []byte) (*domain.RawEvent, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	typ, ok := stringField(fields, "type")
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedRecord)
	}
	symbol, ok := stringField(fields, "symbol")
	if !ok || symbol == "" {
		return nil, fmt.Errorf("%w: missing symbol", ErrMalformedRecord)
	}

	event := &domain.RawEvent{
		Kind:        classifyKind(typ),
		Symbol:      symbol,
		TimestampMs: domain.TimestampMissing,
		Fields:      make(map[string]float64),
	}

	if runID, ok := stringField(fields, "runId"); ok {
		event.RunID = runID
	}
	if ts, ok := numericField(fields, "timestamp"); ok {
		event.TimestampMs = int64(ts)
	}
	if side, ok := stringField(fields, "positionSide"); ok {
		event.PositionSide = side
	}

	for _, name := range domain.SnapshotFields {
		if v, ok := numericField(fields, name); ok {
			event.Fields[name] = v
		}
	}

	return event, nil
}

func classifyKind(typ string) domain.RecordKind {
	switch domain.RecordKind(strings.ToUpper(typ)) {
	case domain.KindSnapshot:
		return domain.KindSnapshot
	case domain.KindFill:
		return domain.KindFill
	case domain.KindError:
		return domain.KindError
	default:
		return domain.KindUnknown
	}
}

func stringField(fields map[string]any, name string) (string, bool) {
	v, ok := fields[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func numericField(fields map[string]any, name string) (float64, bool) {
	v, ok := fields[name]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
