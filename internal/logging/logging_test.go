package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: WarnLevel, Output: &buf})

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Warn("shown warn", nil)
	logger.Error("shown error", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "shown warn") || !strings.Contains(out, "shown error") {
		t.Errorf("warn and error should be logged, got: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: DebugLevel, Output: &buf})

	logger.Info("cache hit", map[string]interface{}{"tier": "local"})

	var e map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if e["message"] != "cache hit" {
		t.Errorf("expected message 'cache hit', got %v", e["message"])
	}
	fields, ok := e["fields"].(map[string]interface{})
	if !ok || fields["tier"] != "local" {
		t.Errorf("expected tier=local field, got %v", e["fields"])
	}
}

func TestHumanFormatFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: DebugLevel, Output: &buf})

	logger.Info("converted", map[string]interface{}{"file": "orders.sql", "ms": 124})

	out := buf.String()
	if !strings.Contains(out, "file=orders.sql") || !strings.Contains(out, "ms=124") {
		t.Errorf("expected fields in output, got: %s", out)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: DebugLevel, Output: &buf})
	child := logger.With(map[string]interface{}{"component": "cache"})

	child.Info("miss", map[string]interface{}{"tier": "shared"})

	out := buf.String()
	if !strings.Contains(out, "component=cache") || !strings.Contains(out, "tier=shared") {
		t.Errorf("expected inherited and call fields, got: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != DebugLevel {
		t.Error("debug should parse")
	}
	if ParseLevel("nonsense") != InfoLevel {
		t.Error("unknown levels should default to info")
	}
}
