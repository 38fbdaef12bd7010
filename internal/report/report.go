// Package report renders conversion results for terminals and machine
// consumers. Text output is colorized; json and yaml are stable shapes
// suitable for piping.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"sqlport/internal/convert"
)

// Format selects the rendering of a report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, json, or yaml)", s)
}

// Reporter writes conversion reports to a single destination.
type Reporter struct {
	w      io.Writer
	format Format
}

func New(w io.Writer, format Format) *Reporter {
	return &Reporter{w: w, format: format}
}

// Result renders a single conversion result.
func (r *Reporter) Result(res *convert.ConversionResult) error {
	switch r.format {
	case FormatJSON:
		return r.encodeJSON(res)
	case FormatYAML:
		return r.encodeYAML(res)
	default:
		return r.textResult(res)
	}
}

// Batch renders a batch summary.
func (r *Reporter) Batch(summary *convert.BatchSummary) error {
	switch r.format {
	case FormatJSON:
		return r.encodeJSON(summary)
	case FormatYAML:
		return r.encodeYAML(summary)
	default:
		return r.textBatch(summary)
	}
}

func (r *Reporter) encodeJSON(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Reporter) encodeYAML(v interface{}) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Reporter) textResult(res *convert.ConversionResult) error {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	bold.Fprintf(r.w, "%s\n", res.SourceUnit.Identifier)

	statusColor := green
	switch res.Status {
	case convert.StatusWarning:
		statusColor = yellow
	case convert.StatusError:
		statusColor = red
	}
	statusColor.Fprintf(r.w, "  status: %s", res.Status)
	if res.CacheHit {
		fmt.Fprint(r.w, "  (cached)")
	}
	fmt.Fprintln(r.w)

	if res.Performance != nil {
		p := res.Performance
		fmt.Fprintf(r.w, "  performance: %d/100  maintainability: %d/100  scalability: %d/10\n",
			p.PerformanceScore, p.MaintainabilityIndex, p.Scalability.ScalabilityScore)
		fmt.Fprintf(r.w, "  complexity: %d -> %d  lines: %d -> %d  took %dms\n",
			p.OriginalComplexity, p.ConvertedComplexity,
			p.LinesOfCodeBefore, p.LinesOfCodeAfter, p.ConversionTimeMs)
	}

	if len(res.DataTypeMappings) > 0 {
		fmt.Fprintf(r.w, "  type mappings: %d\n", len(res.DataTypeMappings))
		for _, m := range res.DataTypeMappings {
			fmt.Fprintf(r.w, "    %s -> %s\n", m.Sybase, m.Oracle)
		}
	}

	if len(res.Issues) > 0 {
		bold.Fprintf(r.w, "  issues (%d):\n", len(res.Issues))
		for _, issue := range res.Issues {
			c := severityColor(issue.Severity)
			c.Fprintf(r.w, "    [%s] %s\n", issue.Severity, issue.Description)
			if issue.SuggestedFix != "" {
				green.Fprintf(r.w, "          fix: %s\n", issue.SuggestedFix)
			}
		}
	}

	if res.Performance != nil && len(res.Performance.Recommendations) > 0 {
		bold.Fprintln(r.w, "  recommendations:")
		for _, rec := range res.Performance.Recommendations {
			fmt.Fprintf(r.w, "    - %s\n", rec)
		}
	}

	return nil
}

func (r *Reporter) textBatch(summary *convert.BatchSummary) error {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, item := range summary.Items {
		if item.Err != nil {
			red.Fprintf(r.w, "%s\n  skipped: %v\n", item.Unit.Identifier, item.Err)
			continue
		}
		if err := r.textResult(item.Result); err != nil {
			return err
		}
		fmt.Fprintln(r.w)
	}

	bold.Fprintf(r.w, "%d converted", summary.Total)
	green.Fprintf(r.w, "  %d ok", summary.Succeeded)
	yellow.Fprintf(r.w, "  %d with warnings", summary.Warnings)
	red.Fprintf(r.w, "  %d failed", summary.Failed)
	fmt.Fprintf(r.w, "  (%d cache hits)\n", summary.CacheHits)
	return nil
}

func severityColor(s convert.Severity) *color.Color {
	switch s {
	case convert.SeverityCritical:
		return color.New(color.FgHiRed)
	case convert.SeverityError:
		return color.New(color.FgRed)
	case convert.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
