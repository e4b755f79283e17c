package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithComponent(t *testing.T) {
	log := New()
	entry := log.WithComponent("ingest")
	if v, ok := entry.Data["component"]; !ok || v != "ingest" {
		t.Fatalf("component field missing: %v", entry.Data)
	}
}

func TestWithRun(t *testing.T) {
	log := New()
	entry := log.WithRun("ai-1772210818683")
	if v, ok := entry.Data["run_id"]; !ok || v != "ai-1772210818683" {
		t.Fatalf("run_id field missing: %v", entry.Data)
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	if got := New().GetLevel(); got != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}

	t.Setenv("LOG_LEVEL", "not-a-level")
	if got := New().GetLevel(); got != logrus.InfoLevel {
		t.Errorf("level = %v, want info fallback", got)
	}
}
