// Package convert owns the conversion domain model and the orchestrator
// that sequences fingerprinting, cache lookup, the AI call, static
// analysis, and metric synthesis into a single ConversionResult.
package convert

import (
	"context"

	"sqlport/internal/fingerprint"
	"sqlport/internal/metrics"
	"sqlport/internal/typemap"
)

// SourceUnit is one immutable input file: Sybase SQL or T-SQL text plus
// the identifier the uploader gave it.
type SourceUnit struct {
	Identifier string `json:"identifier"`
	Text       string `json:"text"`
}

// Severity grades a conversion issue.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ConversionIssue is a single finding from the AI step or from the
// quantitative rule checks. Immutable once created.
type ConversionIssue struct {
	ID              string   `json:"id"`
	Severity        Severity `json:"severity"`
	Description     string   `json:"description"`
	OriginalSnippet string   `json:"originalSnippet,omitempty"`
	SuggestedFix    string   `json:"suggestedFix,omitempty"`
	Category        string   `json:"category,omitempty"`
}

// Status summarizes a conversion attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// ConversionResult is the aggregate returned for every conversion
// request. Cached by value: both tiers hold deep copies, so callers may
// mutate a returned result freely.
type ConversionResult struct {
	ID               string                      `json:"id"`
	SourceUnit       SourceUnit                  `json:"sourceUnit"`
	Model            string                      `json:"model"`
	ConvertedText    string                      `json:"convertedText"`
	Issues           []ConversionIssue           `json:"issues"`
	DataTypeMappings []typemap.Mapping           `json:"dataTypeMappings"`
	Performance      *metrics.PerformanceMetrics `json:"performance"`
	Status           Status                      `json:"status"`

	// CacheHit reports whether this result was served from a cache
	// tier. Never persisted; rewritten on every return.
	CacheHit bool `json:"cacheHit"`
}

// Clone returns a deep copy. Cached entries are cloned on both read and
// write so later mutation of a returned result never corrupts a tier.
func (r *ConversionResult) Clone() *ConversionResult {
	if r == nil {
		return nil
	}
	out := *r

	if r.Issues != nil {
		out.Issues = make([]ConversionIssue, len(r.Issues))
		copy(out.Issues, r.Issues)
	}
	if r.DataTypeMappings != nil {
		out.DataTypeMappings = make([]typemap.Mapping, len(r.DataTypeMappings))
		copy(out.DataTypeMappings, r.DataTypeMappings)
	}
	if r.Performance != nil {
		perf := *r.Performance
		if r.Performance.Recommendations != nil {
			perf.Recommendations = make([]string, len(r.Performance.Recommendations))
			copy(perf.Recommendations, r.Performance.Recommendations)
		}
		out.Performance = &perf
	}
	return &out
}

// ModelOutput is the structured payload the AI collaborator returns.
// Any shape deviation from this is a collaborator failure, never a
// crash.
type ModelOutput struct {
	ConvertedText       string                     `json:"convertedCode"`
	Issues              []ConversionIssue          `json:"issues"`
	Explanation         string                     `json:"explanation,omitempty"`
	ComplexityLabel     metrics.ComplexityLabel    `json:"complexity,omitempty"`
	OptimizationLabel   metrics.OptimizationLabel  `json:"optimizationLevel,omitempty"`
	DataTypeMappings    []typemap.Mapping          `json:"dataTypeMappings,omitempty"`
	ScalabilityHint     int                        `json:"scalabilityScore,omitempty"`
	MaintainabilityHint int                        `json:"maintainabilityScore,omitempty"`
}

// Converter is the external AI conversion collaborator. Implementations
// build their own instruction prompt around the raw source text.
type Converter interface {
	Convert(ctx context.Context, sourceText string) (*ModelOutput, error)
}

// ResultCache is the two-tier cache consulted before paying for an AI
// call. Get returns a fresh copy on hit; Put is best-effort on the
// durable tier.
type ResultCache interface {
	Get(ctx context.Context, key fingerprint.Key) (*ConversionResult, bool)
	Put(ctx context.Context, key fingerprint.Key, result *ConversionResult)
}
