package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/adwait1544/echo-guard/internal/analysis"
	"github.com/adwait1544/echo-guard/internal/reasoner"
	"github.com/adwait1544/echo-guard/measure/heuristic"
	"github.com/adwait1544/echo-guard/measure/mfcc"
	timestats "github.com/adwait1544/echo-guard/stats/time"
)

func sampleResults() []analysis.Result {
	return []analysis.Result{
		{
			ID:       "id-1",
			Name:     "clean.wav",
			Duration: 2,
			Summary: heuristic.Summary{
				Consistency: 0.91, AnomalyRatio: 0.05, Rows: 100, Cols: 13,
				Statistics: &heuristic.Statistics{SpliceCandidates: []int{31, 64}},
			},
			Authenticity:  0.92,
			Deterministic: true,
			Verdict:       &reasoner.Verdict{Label: "authentic"},
		},
		{
			ID:            "id-2",
			Name:          "silence.wav",
			Duration:      1,
			Signal:        timestats.Stats{Silent: true},
			Summary:       heuristic.Summary{Consistency: 1, AnomalyRatio: 1, Rows: 82, Cols: 13},
			Authenticity:  0.7,
			Deterministic: true,
			VerdictError:  "timeout",
		},
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatJSON, sampleResults()...); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if len(decoded) != 2 || decoded[0]["name"] != "clean.wav" || decoded[1]["verdict_error"] != "timeout" {
		t.Fatalf("decoded = %v", decoded)
	}

	if _, ok := decoded[0]["Features"]; ok {
		t.Fatal("features leaked into the report")
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatJSON); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("Render() = %q, want []", buf.String())
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatYAML, sampleResults()...); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var decoded []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}

	if len(decoded) != 2 || decoded[1]["name"] != "silence.wav" {
		t.Fatalf("decoded = %v", decoded)
	}

	summary, ok := decoded[0]["summary"].(map[string]any)
	if !ok || summary["consistency"] != 0.91 {
		t.Fatalf("summary = %v", decoded[0]["summary"])
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatTable, sampleResults()...); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}

	if !strings.HasPrefix(lines[0], "Name") || !strings.Contains(lines[0], "Authenticity") {
		t.Fatalf("header = %q", lines[0])
	}

	for _, want := range []string{"clean.wav", "31,64", "authentic", "0.9200"} {
		if !strings.Contains(lines[2], want) {
			t.Fatalf("row %q lacks %q", lines[2], want)
		}
	}

	for _, want := range []string{"silence.wav", "error", "silent input scores as anomalous"} {
		if !strings.Contains(lines[3], want) {
			t.Fatalf("row %q lacks %q", lines[3], want)
		}
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if err := Render(&bytes.Buffer{}, Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Render() error = %v, want ErrUnknownFormat", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{in: "json", want: FormatJSON},
		{in: " YAML ", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "Table", want: FormatTable},
		{in: "csv", err: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.err {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Fatalf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRenderMatrix(t *testing.T) {
	m, err := mfcc.NewMatrix(2, [][]float64{{1, 2}, {3, 4.5}})
	if err != nil {
		t.Fatalf("NewMatrix() error = %v", err)
	}

	var js bytes.Buffer
	if err := RenderMatrix(&js, FormatJSON, m); err != nil {
		t.Fatalf("RenderMatrix(json) error = %v", err)
	}

	var back mfcc.Matrix
	if err := json.Unmarshal(js.Bytes(), &back); err != nil || !back.Equal(m) {
		t.Fatalf("json round trip failed: %v\n%s", err, js.String())
	}

	var ym bytes.Buffer
	if err := RenderMatrix(&ym, FormatYAML, m); err != nil {
		t.Fatalf("RenderMatrix(yaml) error = %v", err)
	}
	if !strings.Contains(ym.String(), "rows: 2") || !strings.Contains(ym.String(), "cols: 2") {
		t.Fatalf("yaml = %s", ym.String())
	}

	var tb bytes.Buffer
	if err := RenderMatrix(&tb, FormatTable, m); err != nil {
		t.Fatalf("RenderMatrix(table) error = %v", err)
	}
	if lines := strings.Split(strings.TrimRight(tb.String(), "\n"), "\n"); len(lines) != 3 {
		t.Fatalf("table = %q", tb.String())
	}
	if !strings.Contains(tb.String(), "4.500") {
		t.Fatalf("table lacks value: %s", tb.String())
	}
}
