// Package report renders analysis results as JSON, YAML or an aligned table.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/adwait1544/echo-guard/internal/analysis"
	"github.com/adwait1544/echo-guard/measure/mfcc"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ErrUnknownFormat is returned for a format other than json, yaml or table.
var ErrUnknownFormat = errors.New("report: unknown format")

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Render writes results to w in the given format. JSON and YAML emit a list.
func Render(w io.Writer, format Format, results ...analysis.Result) error {
	if results == nil {
		results = []analysis.Result{}
	}

	switch format {
	case FormatJSON:
		return encodeJSON(w, results)
	case FormatYAML:
		return encodeYAML(w, results)
	case FormatTable:
		return renderTable(w, results)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// RenderMatrix writes a feature matrix. The table form prints one frame per
// line.
func RenderMatrix(w io.Writer, format Format, m *mfcc.Matrix) error {
	switch format {
	case FormatJSON:
		return encodeJSON(w, m)
	case FormatYAML:
		return encodeYAML(w, struct {
			Rows int         `yaml:"rows"`
			Cols int         `yaml:"cols"`
			Data [][]float64 `yaml:"data"`
		}{Rows: m.Rows(), Cols: m.Cols(), Data: m.Slices()})
	case FormatTable:
		return matrixTable(w, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func renderTable(w io.Writer, results []analysis.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "Name\tDuration [s]\tFrames\tConsistency\tAnomaly\tSplices\tAuthenticity\tVerdict\tNotes\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "----\t------------\t------\t-----------\t-------\t-------\t------------\t-------\t-----\n"); err != nil {
		return err
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(tw, "%s\t%.2f\t%d\t%.4f\t%.4f\t%s\t%.4f\t%s\t%s\n",
			r.Name,
			r.Duration,
			r.Summary.Rows,
			r.Summary.Consistency,
			r.Summary.AnomalyRatio,
			splices(r),
			r.Authenticity,
			verdict(r),
			notes(r),
		); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func splices(r analysis.Result) string {
	if r.Summary.Statistics == nil || len(r.Summary.Statistics.SpliceCandidates) == 0 {
		return "-"
	}
	parts := make([]string, len(r.Summary.Statistics.SpliceCandidates))
	for i, idx := range r.Summary.Statistics.SpliceCandidates {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

func verdict(r analysis.Result) string {
	switch {
	case r.Verdict != nil:
		return r.Verdict.Label
	case r.VerdictError != "":
		return "error"
	default:
		return "-"
	}
}

func notes(r analysis.Result) string {
	var n []string
	if r.Signal.Silent {
		n = append(n, "silent input scores as anomalous")
	}
	if r.Signal.Clipped > 0 {
		n = append(n, fmt.Sprintf("%d clipped samples", r.Signal.Clipped))
	}
	if r.Summary.Rows == 0 {
		n = append(n, "shorter than one frame")
	}
	if !r.Deterministic {
		n = append(n, "includes random perturbation")
	}
	if len(n) == 0 {
		return "-"
	}
	return strings.Join(n, "; ")
}

func matrixTable(w io.Writer, m *mfcc.Matrix) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)

	header := []string{"frame"}
	for j := range m.Cols() {
		header = append(header, "c"+strconv.Itoa(j))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")+"\t"); err != nil {
		return err
	}

	for i := range m.Rows() {
		cells := []string{strconv.Itoa(i)}
		for _, v := range m.Row(i) {
			cells = append(cells, strconv.FormatFloat(v, 'f', 3, 64))
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t"); err != nil {
			return err
		}
	}

	return tw.Flush()
}
