package convert

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"sqlport/internal/analyzer"
	serrors "sqlport/internal/errors"
	"sqlport/internal/fingerprint"
	"sqlport/internal/logging"
	"sqlport/internal/metrics"
	"sqlport/internal/typemap"
)

// DefaultNominalHitLatencyMs is the latency reported on cache hits.
// Hits report the time spent waiting now, not the historical compute
// cost of the cached conversion.
const DefaultNominalHitLatencyMs = 50

// Options configures an Orchestrator. Cache enablement is an explicit
// injected value rather than a process-global flag so concurrent
// orchestrators (and tests) do not interfere.
type Options struct {
	// Model is the AI model identifier; part of the cache namespace.
	Model string

	// PromptVersion namespaces cached results per instruction template.
	PromptVersion string

	// CacheEnabled gates both tiers for reads and writes. Disabling it
	// bypasses the cache without purging existing entries.
	CacheEnabled bool

	// NominalHitLatencyMs replaces the stored latency on cache hits.
	// Zero means DefaultNominalHitLatencyMs.
	NominalHitLatencyMs int64

	// AITimeout bounds the collaborator call; expiry follows the same
	// error path as a malformed response. Zero means no timeout.
	AITimeout time.Duration

	// Coalesce shares one in-flight conversion between concurrent
	// requests for the same fingerprint.
	Coalesce bool
}

// Orchestrator sequences one conversion request: fingerprint, cache
// lookup, AI call, analysis, metric synthesis, cache population.
type Orchestrator struct {
	opts      Options
	converter Converter
	cache     ResultCache
	analyzer  *analyzer.Analyzer
	typemap   *typemap.Table
	logger    *logging.Logger
	flight    singleflight.Group
}

// New creates an orchestrator. cache and mappings may be nil; converter
// must not be.
func New(opts Options, converter Converter, cache ResultCache, an *analyzer.Analyzer, mappings *typemap.Table, logger *logging.Logger) *Orchestrator {
	if opts.NominalHitLatencyMs == 0 {
		opts.NominalHitLatencyMs = DefaultNominalHitLatencyMs
	}
	return &Orchestrator{
		opts:      opts,
		converter: converter,
		cache:     cache,
		analyzer:  an,
		typemap:   mappings,
		logger:    logger,
	}
}

// Convert resolves one source unit to exactly one ConversionResult.
// Collaborator failures come back as a well-formed error result;
// only malformed input propagates as an error.
func (o *Orchestrator) Convert(ctx context.Context, unit SourceUnit) (*ConversionResult, error) {
	if unit.Identifier == "" {
		return nil, serrors.New(serrors.InputInvalid, "source unit has no identifier")
	}
	if strings.TrimSpace(unit.Text) == "" {
		return nil, serrors.New(serrors.InputInvalid, "source unit has no text")
	}

	key := fingerprint.Compute(unit.Text, o.opts.Model, o.opts.PromptVersion)

	if o.cacheEnabled() {
		if cached, ok := o.cache.Get(ctx, key); ok {
			cached.SourceUnit = unit
			cached.CacheHit = true
			if cached.Performance != nil {
				cached.Performance.ConversionTimeMs = o.opts.NominalHitLatencyMs
			}
			return cached, nil
		}
	}

	if !o.opts.Coalesce {
		return o.doConvert(ctx, unit, key), nil
	}

	// Concurrent requests for the same fingerprint share one AI call;
	// every caller still gets its own copy.
	shared, _, _ := o.flight.Do(key.Digest, func() (interface{}, error) {
		return o.doConvert(ctx, unit, key), nil
	})
	return shared.(*ConversionResult).Clone(), nil
}

func (o *Orchestrator) cacheEnabled() bool {
	return o.opts.CacheEnabled && o.cache != nil
}

func (o *Orchestrator) doConvert(ctx context.Context, unit SourceUnit, key fingerprint.Key) *ConversionResult {
	start := time.Now()

	callCtx := ctx
	if o.opts.AITimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.opts.AITimeout)
		defer cancel()
	}

	out, err := o.converter.Convert(callCtx, unit.Text)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		o.logger.Warn("Conversion collaborator failed", map[string]interface{}{
			"identifier": unit.Identifier,
			"code":       string(serrors.CodeOf(err)),
			"error":      err.Error(),
		})
		return o.errorResult(unit, err, latency)
	}

	original := o.analyzer.Analyze(unit.Text)
	converted := o.analyzer.Analyze(out.ConvertedText)

	perf := metrics.Synthesize(metrics.Inputs{
		Original:      original,
		Converted:     converted,
		OriginalText:  unit.Text,
		ConvertedText: out.ConvertedText,
		LatencyMs:     latency,
		Complexity:    out.ComplexityLabel,
		Optimization:  out.OptimizationLabel,
	})
	if out.MaintainabilityHint > 0 {
		perf.Scalability.MaintainabilityScore = out.MaintainabilityHint
	}

	issues := append(append([]ConversionIssue{}, out.Issues...), ruleIssues(out.ConvertedText)...)

	res := &ConversionResult{
		ID:               uuid.NewString(),
		SourceUnit:       unit,
		Model:            o.opts.Model,
		ConvertedText:    out.ConvertedText,
		Issues:           issues,
		DataTypeMappings: o.mergeMappings(unit.Text, out.DataTypeMappings),
		Performance:      perf,
		Status:           statusFor(issues),
	}

	o.logger.Info("Conversion completed", map[string]interface{}{
		"identifier": unit.Identifier,
		"status":     string(res.Status),
		"issues":     len(res.Issues),
		"ms":         latency,
	})

	// Error results are never cached: the failure may be transient and
	// the caller should be able to retry.
	if o.cacheEnabled() && res.Status != StatusError {
		o.cache.Put(ctx, key, res)
	}

	return res
}

// errorResult converts a collaborator failure into a well-formed result
// with a single critical issue and zeroed metrics.
func (o *Orchestrator) errorResult(unit SourceUnit, cause error, latencyMs int64) *ConversionResult {
	return &ConversionResult{
		ID:         uuid.NewString(),
		SourceUnit: unit,
		Model:      o.opts.Model,
		Issues: []ConversionIssue{
			{
				ID:          uuid.NewString(),
				Severity:    SeverityCritical,
				Description: "AI conversion failed: " + cause.Error(),
				Category:    "conversion",
			},
		},
		Performance: metrics.Zeroed(latencyMs),
		Status:      StatusError,
	}
}

// mergeMappings combines model-declared and detected data-type
// mappings, deduplicated by Sybase type with the model's entry winning.
func (o *Orchestrator) mergeMappings(sourceText string, declared []typemap.Mapping) []typemap.Mapping {
	merged := append([]typemap.Mapping{}, declared...)
	seen := make(map[string]bool, len(declared))
	for _, m := range declared {
		seen[strings.ToUpper(m.Sybase)] = true
	}

	if o.typemap != nil {
		for _, m := range o.typemap.Detect(sourceText) {
			if !seen[strings.ToUpper(m.Sybase)] {
				merged = append(merged, m)
				seen[strings.ToUpper(m.Sybase)] = true
			}
		}
	}
	return merged
}

func statusFor(issues []ConversionIssue) Status {
	status := StatusSuccess
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			return StatusError
		case SeverityError, SeverityWarning:
			status = StatusWarning
		}
	}
	return status
}
