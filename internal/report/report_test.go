package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"sqlport/internal/convert"
	"sqlport/internal/metrics"
	"sqlport/internal/typemap"
)

func sampleResult() *convert.ConversionResult {
	return &convert.ConversionResult{
		ID:            "r-1",
		SourceUnit:    convert.SourceUnit{Identifier: "proc.sql", Text: "SELECT 1"},
		Model:         "gpt-4",
		ConvertedText: "SELECT 1 FROM dual",
		Issues: []convert.ConversionIssue{
			{ID: "i-1", Severity: convert.SeverityWarning, Description: "SELECT * carried over", SuggestedFix: "name the columns"},
		},
		DataTypeMappings: []typemap.Mapping{
			{Sybase: "INT", Oracle: "NUMBER(10)"},
		},
		Performance: &metrics.PerformanceMetrics{
			PerformanceScore:     75,
			MaintainabilityIndex: 80,
			ConversionTimeMs:     1200,
			Recommendations:      []string{"Use FORALL for bulk inserts"},
		},
		Status: convert.StatusWarning,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestResultJSON(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatJSON)

	if err := r.Result(sampleResult()); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	var decoded convert.ConversionResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != "r-1" || decoded.Status != convert.StatusWarning {
		t.Errorf("round-trip lost fields: %+v", decoded)
	}
	if decoded.Performance == nil || decoded.Performance.PerformanceScore != 75 {
		t.Error("performance block missing from JSON output")
	}
}

func TestResultYAML(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatYAML)

	if err := r.Result(sampleResult()); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded) == 0 {
		t.Error("YAML output is empty")
	}
}

func TestResultText(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatText)

	if err := r.Result(sampleResult()); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"proc.sql",
		"status: warning",
		"75/100",
		"INT -> NUMBER(10)",
		"SELECT * carried over",
		"Use FORALL for bulk inserts",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestResultTextCacheHit(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatText)

	res := sampleResult()
	res.CacheHit = true
	if err := r.Result(res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(cached)") {
		t.Error("text output should mark cache hits")
	}
}

func TestBatchText(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatText)

	summary := &convert.BatchSummary{
		Total:     2,
		Succeeded: 0,
		Warnings:  1,
		Failed:    1,
		CacheHits: 1,
		Items: []convert.BatchItem{
			{Unit: convert.SourceUnit{Identifier: "a.sql"}, Result: sampleResult()},
			{Unit: convert.SourceUnit{Identifier: "b.sql"}, Err: errFake},
		},
	}

	if err := r.Batch(summary); err != nil {
		t.Fatalf("Batch() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"2 converted", "1 with warnings", "1 failed", "1 cache hits", "skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("batch output missing %q:\n%s", want, out)
		}
	}
}

var errFake = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "no identifier" }
